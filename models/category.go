package models

import "time"

// Category is a navigation entry. Products reference categories by name, so
// there is no referential integrity between the two collections.
type Category struct {
	ID          string    `bson:"_id,omitempty" json:"_id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	Order       int       `bson:"order" json:"order"`
	Color       string    `bson:"color,omitempty" json:"color,omitempty"`
	Icon        string    `bson:"icon,omitempty" json:"icon,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
