package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

type SettingController struct {
	store store.Store
}

func NewSettingController(st store.Store) *SettingController {
	return &SettingController{store: st}
}

// List handles GET /v1/settings.
func (c *SettingController) List(w http.ResponseWriter, r *http.Request) {
	var settings []models.Setting
	err := c.store.Collection(store.Settings).Find(store.Filter{}).All(r.Context(), &settings)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Ayarlar yüklenemedi")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: settings})
}

// Get handles GET /v1/settings/{key}.
func (c *SettingController) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var setting models.Setting
	err := c.store.Collection(store.Settings).FindOne(r.Context(), store.Filter{"key": key}, &setting)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Ayar bulunamadı")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Ayar yüklenemedi")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: setting})
}
