package controllers

import (
	"net/http"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

type CategoryController struct {
	store store.Store
}

func NewCategoryController(st store.Store) *CategoryController {
	return &CategoryController{store: st}
}

type categoryWithCount struct {
	models.Category
	ProductCount int64 `json:"productCount"`
}

// List handles GET /v1/categories: active categories in display order, each
// carrying its active-product roll-up. Counts join on category NAME; a
// renamed category shows zero until its products are updated.
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	err := c.store.Collection(store.Categories).
		Find(store.Filter{"isActive": true}).
		Sort("order", 1).
		All(r.Context(), &categories)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Kategoriler yüklenemedi")
		return
	}

	counts, err := c.store.ProductCountsByCategory(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Kategoriler yüklenemedi")
		return
	}

	out := make([]categoryWithCount, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryWithCount{Category: cat, ProductCount: counts[cat.Name]})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: out})
}
