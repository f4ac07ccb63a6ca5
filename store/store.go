// Package store defines the data-access contract shared by the live MongoDB
// client and the flat-file JSON store. Call sites depend only on this
// interface; which backend is wired in is decided once at startup.
//
// Capability notes: filters are exact-match field/value pairs in both
// backends. Select is accepted everywhere but only the Mongo backend
// actually projects; the flat-file store returns full records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tarkandemir/hygieia-shop/models"
)

// Collection names shared by both backends. The flat-file store maps each
// to <name>.json under its data directory.
const (
	Products      = "products"
	Categories    = "categories"
	Orders        = "orders"
	Settings      = "settings"
	Notifications = "notifications"
	Users         = "users"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when a decrement would drive stock
	// below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Filter maps field names to exact-match values.
type Filter map[string]interface{}

// Query is a chainable read builder: filter -> sort -> skip -> limit ->
// materialize. All decodes the matching records into out (a pointer to a
// slice), returning plain data in the lean-read sense.
type Query interface {
	// Sort orders by a single field; dir is 1 for ascending, -1 for
	// descending. Ties are left in input order.
	Sort(field string, dir int) Query
	Skip(n int) Query
	Limit(n int) Query
	// Select restricts returned fields where the backend supports
	// projection. The flat-file store accepts it and returns full records.
	Select(fields ...string) Query
	All(ctx context.Context, out interface{}) error
}

// Collection is a read handle over one named record set.
type Collection interface {
	Find(filter Filter) Query
	// FindOne decodes the first match into out or returns ErrNotFound.
	FindOne(ctx context.Context, filter Filter, out interface{}) error
	// FindByID matches on exact _id equality.
	FindByID(ctx context.Context, id string, out interface{}) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Store is the full data-access contract. Construct one explicitly at
// startup and Close it on shutdown; there is no package-global instance.
type Store interface {
	Collection(name string) Collection

	// UpdateStock adjusts a product's stock by delta (negative for sales)
	// and stamps updatedAt. Returns ErrNotFound for unknown ids without
	// writing anything, ErrInsufficientStock if the result would be
	// negative. The Mongo backend performs this as one atomic update.
	UpdateStock(ctx context.Context, productID string, delta int) (*models.Product, error)

	// CreateOrder persists a new order, assigning ID, OrderNumber (when
	// absent) and timestamps on the passed order.
	CreateOrder(ctx context.Context, order *models.Order) error

	// NextOrderNumber reserves the next day-scoped order number for the
	// calendar day of at.
	NextOrderNumber(ctx context.Context, at time.Time) (string, error)

	// ProductCountsByCategory rolls up active product counts keyed by
	// category name.
	ProductCountsByCategory(ctx context.Context) (map[string]int64, error)

	Close(ctx context.Context) error
}
