package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tarkandemir/hygieia-shop/store"
)

type collection struct {
	coll *mongo.Collection
}

func (c *collection) Find(filter store.Filter) store.Query {
	return &query{coll: c.coll, filter: toBSON(filter), opts: options.Find()}
}

func (c *collection) FindOne(ctx context.Context, filter store.Filter, out interface{}) error {
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func (c *collection) FindByID(ctx context.Context, id string, out interface{}) error {
	return c.FindOne(ctx, store.Filter{"_id": id}, out)
}

func (c *collection) Count(ctx context.Context, filter store.Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, toBSON(filter))
}

type query struct {
	coll   *mongo.Collection
	filter bson.M
	opts   *options.FindOptions
}

func (q *query) Sort(field string, dir int) store.Query {
	q.opts.SetSort(bson.D{{Key: field, Value: dir}})
	return q
}

func (q *query) Skip(n int) store.Query {
	q.opts.SetSkip(int64(n))
	return q
}

func (q *query) Limit(n int) store.Query {
	q.opts.SetLimit(int64(n))
	return q
}

// Select projects for real here; the flat-file backend only accepts the
// field list. _id is always included, matching driver defaults.
func (q *query) Select(fields ...string) store.Query {
	projection := bson.M{}
	for _, f := range fields {
		projection[f] = 1
	}
	q.opts.SetProjection(projection)
	return q
}

func (q *query) All(ctx context.Context, out interface{}) error {
	cur, err := q.coll.Find(ctx, q.filter, q.opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func toBSON(filter store.Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = v
	}
	return m
}
