package filestore

import (
	"context"
	"sort"

	"github.com/tarkandemir/hygieia-shop/store"
)

type collection struct {
	s    *Store
	name string
}

func (c *collection) Find(filter store.Filter) store.Query {
	var matched []document
	for _, doc := range c.s.load(c.name) {
		if matches(doc, filter) {
			matched = append(matched, doc)
		}
	}
	return &query{docs: matched}
}

func (c *collection) FindOne(ctx context.Context, filter store.Filter, out interface{}) error {
	for _, doc := range c.s.load(c.name) {
		if matches(doc, filter) {
			return decode(doc, out)
		}
	}
	return store.ErrNotFound
}

func (c *collection) FindByID(ctx context.Context, id string, out interface{}) error {
	return c.FindOne(ctx, store.Filter{"_id": id}, out)
}

func (c *collection) Count(ctx context.Context, filter store.Filter) (int64, error) {
	var n int64
	for _, doc := range c.s.load(c.name) {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

// query applies sort, skip and limit over an already-filtered snapshot.
// Only exact-match filters exist in this backend; operator queries are a
// Mongo-path capability the flat files never had.
type query struct {
	docs     []document
	sortKey  string
	sortDir  int
	skip     int
	limit    int
	hasLimit bool
}

func (q *query) Sort(field string, dir int) store.Query {
	q.sortKey = field
	q.sortDir = dir
	return q
}

func (q *query) Skip(n int) store.Query {
	q.skip = n
	return q
}

func (q *query) Limit(n int) store.Query {
	q.limit = n
	q.hasLimit = true
	return q
}

// Select is accepted for call-site compatibility but does not project;
// full records are returned regardless of the field list.
func (q *query) Select(fields ...string) store.Query {
	return q
}

func (q *query) All(ctx context.Context, out interface{}) error {
	docs := q.docs
	if q.sortKey != "" {
		docs = append([]document(nil), docs...)
		sort.SliceStable(docs, func(i, j int) bool {
			cmp := compareValues(docs[i][q.sortKey], docs[j][q.sortKey])
			if q.sortDir < 0 {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q.skip > 0 {
		if q.skip >= len(docs) {
			docs = nil
		} else {
			docs = docs[q.skip:]
		}
	}
	if q.hasLimit && q.limit < len(docs) {
		docs = docs[:q.limit]
	}
	if docs == nil {
		docs = []document{}
	}
	return decode(docs, out)
}

func matches(doc document, filter store.Filter) bool {
	for field, want := range filter {
		if !valuesEqual(doc[field], want) {
			return false
		}
	}
	return true
}

// valuesEqual compares a stored JSON value with a filter value, bridging
// Go's numeric types against JSON's float64.
func valuesEqual(got, want interface{}) bool {
	if gf, ok := toFloat(got); ok {
		if wf, ok := toFloat(want); ok {
			return gf == wf
		}
		return false
	}
	return got == want
}

// compareValues orders two JSON values. Incomparable pairs compare equal, so
// ties stay in input order.
func compareValues(a, b interface{}) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
		return 0
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			}
		}
		return 0
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case !ab && bb:
				return -1
			case ab && !bb:
				return 1
			}
		}
	}
	return 0
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
