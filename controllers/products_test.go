package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store/filestore"
)

const catalogProducts = `[
  {"_id": "p1", "name": "Dezenfektan", "sku": "HYG-001", "category": "Hijyen", "retailPrice": 49.9, "stock": 5, "status": "active"},
  {"_id": "p2", "name": "Maske", "sku": "HYG-002", "category": "Hijyen", "retailPrice": 19.9, "stock": 100, "status": "active"},
  {"_id": "p3", "name": "Ameliyat Eldiveni", "sku": "MED-001", "category": "Medikal", "retailPrice": 89.9, "stock": 10, "status": "active"},
  {"_id": "p4", "name": "Eski Ürün", "sku": "HYG-099", "category": "Hijyen", "retailPrice": 9.9, "stock": 0, "status": "inactive"}
]`

const catalogCategories = `[
  {"_id": "c1", "name": "Hijyen", "slug": "hijyen", "isActive": true, "order": 2},
  {"_id": "c2", "name": "Medikal", "slug": "medikal", "isActive": true, "order": 1},
  {"_id": "c3", "name": "Arşiv", "slug": "arsiv", "isActive": false, "order": 3}
]`

func newCatalogStore(t *testing.T) *filestore.Store {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "products.json"), []byte(catalogProducts), 0o644); err != nil {
		t.Fatalf("write products fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "categories.json"), []byte(catalogCategories), 0o644); err != nil {
		t.Fatalf("write categories fixture: %v", err)
	}
	return filestore.New(dir)
}

func decodeData(t *testing.T, body []byte, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %s", body)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestProductListActiveOnlySorted(t *testing.T) {
	c := NewProductController(newCatalogStore(t))

	req := httptest.NewRequest("GET", "http://example.local/v1/products", nil)
	rec := httptest.NewRecorder()
	c.List(rec, req)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var data struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
	}
	decodeData(t, rec.Body.Bytes(), &data)

	if data.Total != 3 || len(data.Products) != 3 {
		t.Fatalf("expected 3 active products, got total=%d len=%d", data.Total, len(data.Products))
	}
	// ascending by name
	if data.Products[0].Name != "Ameliyat Eldiveni" {
		t.Fatalf("expected name sort, got %s first", data.Products[0].Name)
	}
	for _, p := range data.Products {
		if p.Status != models.ProductStatusActive {
			t.Fatalf("inactive product leaked: %s", p.SKU)
		}
	}
}

func TestProductListCategoryAndSearch(t *testing.T) {
	c := NewProductController(newCatalogStore(t))

	req := httptest.NewRequest("GET", "http://example.local/v1/products?category=Hijyen&search=mas", nil)
	rec := httptest.NewRecorder()
	c.List(rec, req)

	var data struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
	}
	decodeData(t, rec.Body.Bytes(), &data)
	if data.Total != 1 || data.Products[0].SKU != "HYG-002" {
		t.Fatalf("expected the mask only, got %+v", data.Products)
	}
}

func TestProductListPagination(t *testing.T) {
	c := NewProductController(newCatalogStore(t))

	req := httptest.NewRequest("GET", "http://example.local/v1/products?page=2&limit=2", nil)
	rec := httptest.NewRecorder()
	c.List(rec, req)

	var data struct {
		Products []models.Product `json:"products"`
		Total    int              `json:"total"`
		Page     int              `json:"page"`
	}
	decodeData(t, rec.Body.Bytes(), &data)
	if data.Total != 3 || data.Page != 2 || len(data.Products) != 1 {
		t.Fatalf("expected 1 product on page 2 of 3, got total=%d len=%d", data.Total, len(data.Products))
	}
}

func TestProductGetNotFound(t *testing.T) {
	c := NewProductController(newCatalogStore(t))

	req := httptest.NewRequest("GET", "http://example.local/v1/products/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rec := httptest.NewRecorder()
	c.Get(rec, req)
	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCategoryListWithCounts(t *testing.T) {
	c := NewCategoryController(newCatalogStore(t))

	req := httptest.NewRequest("GET", "http://example.local/v1/categories", nil)
	rec := httptest.NewRecorder()
	c.List(rec, req)
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cats []struct {
		Name         string `json:"name"`
		ProductCount int64  `json:"productCount"`
	}
	decodeData(t, rec.Body.Bytes(), &cats)

	if len(cats) != 2 {
		t.Fatalf("expected 2 active categories, got %d", len(cats))
	}
	if cats[0].Name != "Medikal" || cats[1].Name != "Hijyen" {
		t.Fatalf("expected display order Medikal, Hijyen; got %s, %s", cats[0].Name, cats[1].Name)
	}
	// only active products count
	if cats[0].ProductCount != 1 || cats[1].ProductCount != 2 {
		t.Fatalf("unexpected counts: %+v", cats)
	}
}
