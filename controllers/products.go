package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

type ProductController struct {
	store store.Store
}

func NewProductController(st store.Store) *ProductController {
	return &ProductController{store: st}
}

// List handles GET /v1/products with optional category, search and paging
// parameters. Search is a contains-match applied after the exact-match
// filter, because that is all the flat-file backend can do; both backends
// therefore behave the same.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{"status": models.ProductStatusActive}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		filter["category"] = category
	}

	var products []models.Product
	err := c.store.Collection(store.Products).
		Find(filter).
		Sort("name", 1).
		All(r.Context(), &products)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Ürünler yüklenemedi")
		return
	}

	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		needle := strings.ToLower(search)
		matched := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.SKU), needle) {
				matched = append(matched, p)
			}
		}
		products = matched
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 24)
	if limit > 100 {
		limit = 100
	}
	total := len(products)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"products": products[start:end],
			"total":    total,
			"page":     page,
			"limit":    limit,
		},
	})
}

// Get handles GET /v1/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var product models.Product
	err := c.store.Collection(store.Products).FindByID(r.Context(), id, &product)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Ürün bulunamadı")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Ürün yüklenemedi")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: product})
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
