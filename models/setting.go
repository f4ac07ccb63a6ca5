package models

import "time"

// Setting is a read-oriented key/value record. Nothing in this service
// mutates settings; they are edited out-of-band.
type Setting struct {
	ID        string      `bson:"_id,omitempty" json:"_id"`
	Key       string      `bson:"key" json:"key"`
	Value     interface{} `bson:"value" json:"value"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}
