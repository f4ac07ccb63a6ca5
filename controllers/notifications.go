package controllers

import (
	"net/http"
	"strings"

	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

type NotificationController struct {
	store store.Store
}

func NewNotificationController(st store.Store) *NotificationController {
	return &NotificationController{store: st}
}

// List handles GET /v1/notifications (authenticated). Supports ?read=true
// and ?read=false filtering; newest first.
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{}
	switch strings.TrimSpace(r.URL.Query().Get("read")) {
	case "true":
		filter["read"] = true
	case "false":
		filter["read"] = false
	}

	limit := queryInt(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}

	var notifications []models.Notification
	err := c.store.Collection(store.Notifications).
		Find(filter).
		Sort("createdAt", -1).
		Limit(limit).
		All(r.Context(), &notifications)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Bildirimler yüklenemedi")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: notifications})
}
