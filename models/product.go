package models

import (
	"strings"
	"time"
)

// Product is a catalog item. IDs are plain strings in both backends: the
// JSON export writes ObjectIDs out as hex strings, so the Mongo path stores
// string _id values too to keep the two stores interchangeable.
type Product struct {
	ID          string `bson:"_id,omitempty" json:"_id"`
	Name        string `bson:"name" json:"name"`
	SKU         string `bson:"sku" json:"sku"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	// Category holds the category NAME, not a foreign key. Renaming a
	// category orphans its product counts.
	Category    string  `bson:"category" json:"category"`
	RetailPrice float64 `bson:"retailPrice" json:"retailPrice"`
	Stock       int     `bson:"stock" json:"stock"`
	// Images are either external URLs/paths or inline base64 data URIs.
	// Inline images bloat every read; cmd/migrate-images moves them out.
	Images    []string  `bson:"images,omitempty" json:"images,omitempty"`
	Tags      []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

const ProductStatusActive = "active"

// HasInlineImages reports whether any image is stored as a base64 data URI.
func (p *Product) HasInlineImages() bool {
	for _, img := range p.Images {
		if strings.HasPrefix(img, "data:image") {
			return true
		}
	}
	return false
}
