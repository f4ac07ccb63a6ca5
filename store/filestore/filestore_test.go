package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
)

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

const productsFixture = `[
  {"_id": "p1", "name": "Dezenfektan", "sku": "HYG-001", "category": "Hijyen", "retailPrice": 49.9, "stock": 5, "status": "active"},
  {"_id": "p2", "name": "Maske", "sku": "HYG-002", "category": "Hijyen", "retailPrice": 19.9, "stock": 100, "status": "active"},
  {"_id": "p3", "name": "Eski Ürün", "sku": "HYG-003", "category": "Arşiv", "retailPrice": 9.9, "stock": 0, "status": "inactive"}
]`

const categoriesFixture = `[
  {"_id": "c1", "name": "Hijyen", "slug": "hijyen", "isActive": true, "order": 2},
  {"_id": "c2", "name": "Medikal", "slug": "medikal", "isActive": true, "order": 1},
  {"_id": "c3", "name": "Arşiv", "slug": "arsiv", "isActive": false, "order": 3}
]`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "products", productsFixture)
	writeFixture(t, dir, "categories", categoriesFixture)
	writeFixture(t, dir, "orders", `[]`)
	return New(dir)
}

func TestFindExactMatchFilter(t *testing.T) {
	s := newTestStore(t)

	var products []models.Product
	err := s.Collection(store.Products).Find(store.Filter{"status": "active"}).All(context.Background(), &products)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 active products, got %d", len(products))
	}

	// numeric filter values match JSON numbers
	err = s.Collection(store.Products).Find(store.Filter{"stock": 100}).All(context.Background(), &products)
	if err != nil {
		t.Fatalf("find by stock: %v", err)
	}
	if len(products) != 1 || products[0].SKU != "HYG-002" {
		t.Fatalf("expected HYG-002, got %+v", products)
	}
}

func TestCategoriesActiveSortedByOrder(t *testing.T) {
	s := newTestStore(t)

	var cats []models.Category
	err := s.Collection(store.Categories).
		Find(store.Filter{"isActive": true}).
		Sort("order", 1).
		All(context.Background(), &cats)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected inactive categories excluded, got %d results", len(cats))
	}
	if cats[0].Name != "Medikal" || cats[1].Name != "Hijyen" {
		t.Fatalf("expected ascending order sort, got %s then %s", cats[0].Name, cats[1].Name)
	}
}

func TestSortSkipLimitChain(t *testing.T) {
	s := newTestStore(t)

	var products []models.Product
	err := s.Collection(store.Products).
		Find(store.Filter{}).
		Sort("retailPrice", -1).
		Skip(1).
		Limit(1).
		All(context.Background(), &products)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(products) != 1 || products[0].SKU != "HYG-002" {
		t.Fatalf("expected second most expensive product, got %+v", products)
	}

	// skip past the end yields an empty slice, not an error
	err = s.Collection(store.Products).Find(store.Filter{}).Skip(10).All(context.Background(), &products)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty result, got %d", len(products))
	}
}

func TestSelectReturnsFullRecords(t *testing.T) {
	s := newTestStore(t)

	var products []models.Product
	err := s.Collection(store.Products).
		Find(store.Filter{"sku": "HYG-001"}).
		Select("name", "sku").
		All(context.Background(), &products)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	// projection is accepted but not applied in this backend
	if len(products) != 1 || products[0].RetailPrice != 49.9 {
		t.Fatalf("expected full record back, got %+v", products)
	}
}

func TestFindByIDAndFindOne(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var p models.Product
	if err := s.Collection(store.Products).FindByID(ctx, "p1", &p); err != nil {
		t.Fatalf("findByID: %v", err)
	}
	if p.Name != "Dezenfektan" {
		t.Fatalf("unexpected product: %+v", p)
	}

	err := s.Collection(store.Products).FindOne(ctx, store.Filter{"sku": "NOPE"}, &p)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheServesStaleReadsUntilTTL(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "products", productsFixture)
	s := NewWithTTL(dir, 80*time.Millisecond)

	var first []models.Product
	if err := s.Collection(store.Products).Find(store.Filter{}).All(context.Background(), &first); err != nil {
		t.Fatalf("first read: %v", err)
	}

	// rewrite the file behind the store's back
	writeFixture(t, dir, "products", `[{"_id": "px", "name": "Yeni", "sku": "NEW-1", "stock": 1, "status": "active"}]`)

	var second []models.Product
	if err := s.Collection(store.Products).Find(store.Filter{}).All(context.Background(), &second); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("expected cached data within TTL, got %d records", len(second))
	}

	time.Sleep(120 * time.Millisecond)

	var third []models.Product
	if err := s.Collection(store.Products).Find(store.Filter{}).All(context.Background(), &third); err != nil {
		t.Fatalf("third read: %v", err)
	}
	if len(third) != 1 || third[0].SKU != "NEW-1" {
		t.Fatalf("expected re-parsed file after TTL, got %+v", third)
	}
}

func TestUnreadableFileDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "products", `{not json`)
	s := New(dir)

	var products []models.Product
	if err := s.Collection(store.Products).Find(store.Filter{}).All(context.Background(), &products); err != nil {
		t.Fatalf("expected corrupt file swallowed, got %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty collection, got %d", len(products))
	}
}

func TestUpdateStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.UpdateStock(ctx, "p1", -5)
	if err != nil {
		t.Fatalf("updateStock: %v", err)
	}
	if p.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", p.Stock)
	}
	if p.UpdatedAt.IsZero() {
		t.Fatalf("expected updatedAt stamped")
	}

	// the write must survive a cache flush, i.e. it reached the file
	s.ClearCache()
	var reread models.Product
	if err := s.Collection(store.Products).FindByID(ctx, "p1", &reread); err != nil {
		t.Fatalf("reread: %v", err)
	}
	if reread.Stock != 0 {
		t.Fatalf("expected persisted stock 0, got %d", reread.Stock)
	}
}

func TestUpdateStockInsufficient(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateStock(context.Background(), "p1", -6)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var p models.Product
	if err := s.Collection(store.Products).FindByID(context.Background(), "p1", &p); err != nil {
		t.Fatalf("findByID: %v", err)
	}
	if p.Stock != 5 {
		t.Fatalf("expected stock unchanged at 5, got %d", p.Stock)
	}
}

func TestUpdateStockUnknownIDWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "products", productsFixture)
	s := New(dir)

	before, err := os.Stat(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	_, err = s.UpdateStock(context.Background(), "missing", -1)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	after, err := os.Stat(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Fatalf("expected no file write on not-found")
	}
}

func TestCreateOrderAssignsSequentialNumbers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

	var numbers []string
	for i := 0; i < 3; i++ {
		o := &models.Order{OrderDate: day, Status: models.OrderStatusPending}
		if err := s.CreateOrder(ctx, o); err != nil {
			t.Fatalf("create: %v", err)
		}
		if o.ID == "" {
			t.Fatalf("expected generated order id")
		}
		numbers = append(numbers, o.OrderNumber)
	}

	want := []string{"SP2609010001", "SP2609010002", "SP2609010003"}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("expected %s, got %s", want[i], numbers[i])
		}
	}

	// a new day resets the sequence
	next := &models.Order{OrderDate: day.AddDate(0, 0, 1)}
	if err := s.CreateOrder(ctx, next); err != nil {
		t.Fatalf("create: %v", err)
	}
	if next.OrderNumber != "SP2609020001" {
		t.Fatalf("expected sequence reset on new day, got %s", next.OrderNumber)
	}
}

func TestCreateOrderPersistsToFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	o := &models.Order{
		Customer:    models.OrderCustomer{Name: "Ayşe Yılmaz", Email: "ayse@example.com"},
		Items:       []models.OrderItem{{ProductID: "p1", Quantity: 1, UnitPrice: 49.9, TotalPrice: 49.9}},
		Subtotal:    49.9,
		TotalAmount: 49.9,
		Status:      models.OrderStatusPending,
	}
	if err := s.CreateOrder(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	s.ClearCache()
	var orders []models.Order
	if err := s.Collection(store.Orders).Find(store.Filter{}).All(ctx, &orders); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != o.ID {
		t.Fatalf("expected persisted order, got %+v", orders)
	}
	if orders[0].Customer.Email != "ayse@example.com" {
		t.Fatalf("customer block lost: %+v", orders[0].Customer)
	}
}

func TestProductCountsByCategory(t *testing.T) {
	s := newTestStore(t)

	counts, err := s.ProductCountsByCategory(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts["Hijyen"] != 2 {
		t.Fatalf("expected 2 active Hijyen products, got %d", counts["Hijyen"])
	}
	if counts["Arşiv"] != 0 {
		t.Fatalf("inactive products must not be counted, got %d", counts["Arşiv"])
	}
}

func TestConcurrentReadsDuringStockUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// p2 starts at 100; 50 decrements race against 50 full-collection reads
	// that marshal every cached document. Run with -race.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			var products []models.Product
			_ = s.Collection(store.Products).
				Find(store.Filter{"status": "active"}).
				Sort("name", 1).
				All(ctx, &products)
		}()
		go func() {
			defer wg.Done()
			if _, err := s.UpdateStock(ctx, "p2", -1); err != nil {
				t.Errorf("updateStock: %v", err)
			}
		}()
	}
	wg.Wait()

	var p models.Product
	if err := s.Collection(store.Products).FindByID(ctx, "p2", &p); err != nil {
		t.Fatalf("findByID: %v", err)
	}
	if p.Stock != 50 {
		t.Fatalf("expected stock 50 after 50 decrements, got %d", p.Stock)
	}

	// and the file agrees
	s.ClearCache()
	if err := s.Collection(store.Products).FindByID(ctx, "p2", &p); err != nil {
		t.Fatalf("reread: %v", err)
	}
	if p.Stock != 50 {
		t.Fatalf("expected persisted stock 50, got %d", p.Stock)
	}
}

func TestUpdateStockFailedWriteKeepsCacheOnPersistedState(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "products", productsFixture)
	s := New(dir)
	ctx := context.Background()

	// warm the cache from the intact file
	var p models.Product
	if err := s.Collection(store.Products).FindByID(ctx, "p1", &p); err != nil {
		t.Fatalf("warm read: %v", err)
	}
	if p.Stock != 5 {
		t.Fatalf("expected stock 5, got %d", p.Stock)
	}

	// make the rewrite fail: replace products.json with a directory so the
	// write errors regardless of file permissions
	path := filepath.Join(dir, "products.json")
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := s.UpdateStock(ctx, "p1", -1); err == nil {
		t.Fatalf("expected write failure")
	}

	// the cache must still serve the last persisted stock, not the failed
	// mutation
	if err := s.Collection(store.Products).FindByID(ctx, "p1", &p); err != nil {
		t.Fatalf("read after failed write: %v", err)
	}
	if p.Stock != 5 {
		t.Fatalf("expected stock 5 after failed write, got %d", p.Stock)
	}
}
