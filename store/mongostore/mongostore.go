// Package mongostore serves the store contract from MongoDB. Unlike the
// flat-file backend it gets real atomicity: stock changes are single-document
// $inc updates and order numbers come from an upserted per-day counter, so
// concurrent writers cannot lose updates or mint duplicate numbers.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
)

// countersCollection holds one document per order day:
// {_id: "orders-SP<yy><mm><dd>", seq: <last issued sequence>}.
const countersCollection = "counters"

// Store wraps a mongo database handle. The client it came from is owned by
// the caller and torn down through Close.
type Store struct {
	db *mongo.Database
}

// New wraps an already-connected database.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Collection(name string) store.Collection {
	return &collection{coll: s.db.Collection(name)}
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// UpdateStock applies a single atomic $inc. Negative deltas carry a stock
// floor in the filter so the update cannot drive stock below zero.
func (s *Store) UpdateStock(ctx context.Context, productID string, delta int) (*models.Product, error) {
	filter := bson.M{"_id": productID}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := s.db.Collection(store.Products).FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Distinguish "no such product" from "stock floor blocked the update".
	n, cerr := s.db.Collection(store.Products).CountDocuments(ctx, bson.M{"_id": productID})
	if cerr != nil {
		return nil, cerr
	}
	if n == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, store.ErrNotFound)
	}
	return nil, fmt.Errorf("product %s: %w", productID, store.ErrInsufficientStock)
}

// CreateOrder inserts a new order, minting its ID and day-scoped order
// number first.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.ID = primitive.NewObjectID().Hex()
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if order.OrderNumber == "" {
		num, err := s.NextOrderNumber(ctx, order.OrderDate)
		if err != nil {
			return err
		}
		order.OrderNumber = num
	}

	_, err := s.db.Collection(store.Orders).InsertOne(ctx, order)
	return err
}

// NextOrderNumber increments the per-day counter document in one upsert.
// Counting or max-scanning existing orders would race under concurrent
// checkouts; the counter cannot.
func (s *Store) NextOrderNumber(ctx context.Context, at time.Time) (string, error) {
	prefix := store.OrderNumberPrefix(at)
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": "orders-" + prefix},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", err
	}
	return store.FormatOrderNumber(prefix, counter.Seq), nil
}

// ProductCountsByCategory rolls up active products per category name with a
// $group aggregation.
func (s *Store) ProductCountsByCategory(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.ProductStatusActive}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.db.Collection(store.Products).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			Category string `bson:"_id"`
			Count    int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Category] = row.Count
	}
	return counts, cur.Err()
}
