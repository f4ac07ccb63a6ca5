// Package filestore serves the store contract from flat JSON files, one
// pretty-printed array per collection under a fixed data directory. It is a
// local substitute for the live MongoDB backend: every query re-reads and
// linearly scans a whole collection behind a short time-based cache, and
// every mutation rewrites the whole file.
//
// Mutations are serialized through a single mutex and are copy-on-write:
// documents handed to past readers are never mutated, and the cache only
// advances after the file write succeeds. Concurrent requests in one process
// cannot lose updates or observe torn documents. Writers in OTHER processes
// still race last-writer-wins on the file; this store is single-process by
// design.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
)

// DefaultCacheTTL is how long a loaded collection is served from memory
// before the file is re-read and re-parsed.
const DefaultCacheTTL = 60 * time.Second

type document = map[string]interface{}

// Store reads and writes JSON array files under dir.
type Store struct {
	dir string
	ttl time.Duration

	mu       sync.Mutex
	cache    map[string][]document
	loadedAt map[string]time.Time

	rnd *rand.Rand
}

// New opens a flat-file store rooted at dir with the default cache TTL.
func New(dir string) *Store {
	return NewWithTTL(dir, DefaultCacheTTL)
}

// NewWithTTL opens a flat-file store with a custom cache TTL. Tests use a
// short TTL to exercise expiry without sleeping a minute.
func NewWithTTL(dir string, ttl time.Duration) *Store {
	return &Store{
		dir:      dir,
		ttl:      ttl,
		cache:    make(map[string][]document),
		loadedAt: make(map[string]time.Time),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Collection returns a read handle for the named collection.
func (s *Store) Collection(name string) store.Collection {
	return &collection{s: s, name: name}
}

// ClearCache drops every cached collection, forcing re-reads.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string][]document)
	s.loadedAt = make(map[string]time.Time)
}

// Close implements store.Store. Nothing is buffered, so there is nothing to
// flush.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// load returns the in-memory array for a collection, re-reading the file
// when the cached copy is older than the TTL.
func (s *Store) load(name string) []document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(name)
}

func (s *Store) loadLocked(name string) []document {
	if docs, ok := s.cache[name]; ok && time.Since(s.loadedAt[name]) < s.ttl {
		return docs
	}

	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		// A missing or unreadable file degrades to an empty collection.
		// The result is not cached so a repaired file is picked up on the
		// next read.
		log.Printf("[filestore] read %s: %v", name, err)
		return nil
	}
	var docs []document
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Printf("[filestore] parse %s: %v", name, err)
		return nil
	}

	s.cache[name] = docs
	s.loadedAt[name] = time.Now()
	return docs
}

// writeLocked rewrites the whole collection file and refreshes the cache.
// Callers must hold s.mu.
func (s *Store) writeLocked(name string, docs []document) error {
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(name), raw, 0o644); err != nil {
		return err
	}
	s.cache[name] = docs
	s.loadedAt[name] = time.Now()
	return nil
}

// UpdateStock adjusts a product's stock and rewrites products.json. Unknown
// ids fail without touching the file.
//
// The update is copy-on-write: readers may still hold the cached slice and
// its maps outside the lock, so the changed document and the slice are
// rebuilt fresh and only installed into the cache after the file write
// succeeds. A failed write leaves the cache on the last persisted state.
func (s *Store) UpdateStock(ctx context.Context, productID string, delta int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.loadLocked(store.Products)
	idx := -1
	for i, doc := range docs {
		if doc["_id"] == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("product %s: %w", productID, store.ErrNotFound)
	}

	stock := toInt(docs[idx]["stock"])
	if stock+delta < 0 {
		return nil, fmt.Errorf("product %s has stock %d: %w", productID, stock, store.ErrInsufficientStock)
	}

	updated := make(document, len(docs[idx])+1)
	for k, v := range docs[idx] {
		updated[k] = v
	}
	updated["stock"] = stock + delta
	updated["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	next := append([]document(nil), docs...)
	next[idx] = updated

	if err := s.writeLocked(store.Products, next); err != nil {
		return nil, err
	}

	var p models.Product
	if err := decode(updated, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateOrder appends a new order and rewrites orders.json. ID, order number
// and timestamps are assigned here; the order number is derived from the
// highest same-day suffix under the store lock, so in-process callers cannot
// collide.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	order.ID = fmt.Sprintf("order_%d_%s", now.UnixMilli(), s.randSuffix(9))
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	docs := s.loadLocked(store.Orders)
	if order.OrderNumber == "" {
		order.OrderNumber = s.nextNumberLocked(docs, order.OrderDate)
	}

	var doc document
	if err := decode(order, &doc); err != nil {
		return err
	}
	// fresh slice, same copy-on-write rule as UpdateStock
	next := append(append([]document(nil), docs...), doc)
	return s.writeLocked(store.Orders, next)
}

// NextOrderNumber returns the order number the next created order would get
// for the given day.
func (s *Store) NextOrderNumber(ctx context.Context, at time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextNumberLocked(s.loadLocked(store.Orders), at), nil
}

func (s *Store) nextNumberLocked(orders []document, at time.Time) string {
	prefix := store.OrderNumberPrefix(at)
	var max int64
	for _, doc := range orders {
		num, _ := doc["orderNumber"].(string)
		if seq := store.OrderNumberSequence(num, prefix); seq > max {
			max = seq
		}
	}
	return store.FormatOrderNumber(prefix, max+1)
}

// ProductCountsByCategory counts active products per category name.
func (s *Store) ProductCountsByCategory(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, doc := range s.load(store.Products) {
		if doc["status"] != models.ProductStatusActive {
			continue
		}
		name, _ := doc["category"].(string)
		counts[name]++
	}
	return counts, nil
}

func (s *Store) randSuffix(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[s.rnd.Intn(len(alphabet))]
	}
	return string(b)
}

// decode round-trips through JSON, the lean-read equivalent of returning
// plain data.
func decode(in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
