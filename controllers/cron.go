package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tarkandemir/hygieia-shop/utils"
)

// CronController triggers the scheduled catalog sync. The actual sync runs
// as a GitHub Actions workflow; this endpoint only dispatches it, so the
// scheduler (an external cron ping) needs nothing but the shared secret.
type CronController struct {
	client *http.Client
}

func NewCronController() *CronController {
	return &CronController{client: &http.Client{Timeout: 15 * time.Second}}
}

// Sync handles POST /v1/cron/sync.
func (c *CronController) Sync(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		utils.WriteError(w, http.StatusServiceUnavailable, "Cron is not configured")
		return
	}
	authz := r.Header.Get("Authorization")
	if authz != "Bearer "+secret {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token := os.Getenv("GITHUB_TOKEN")
	repo := os.Getenv("GITHUB_REPO") // owner/name
	workflow := os.Getenv("GITHUB_WORKFLOW")
	if workflow == "" {
		workflow = "sync.yml"
	}
	if token == "" || repo == "" {
		utils.WriteError(w, http.StatusServiceUnavailable, "Cron is not configured")
		return
	}

	url := fmt.Sprintf("https://api.github.com/repos/%s/actions/workflows/%s/dispatches", repo, workflow)
	body, _ := json.Marshal(map[string]string{"ref": "main"})

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Sync could not be triggered")
		return
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[cron] workflow dispatch failed: %v", err)
		utils.WriteError(w, http.StatusBadGateway, "Sync could not be triggered")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		log.Printf("[cron] workflow dispatch returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		utils.WriteError(w, http.StatusBadGateway, "Sync could not be triggered")
		return
	}

	utils.WriteJSON(w, http.StatusAccepted, utils.APIResponse{
		Success: true,
		Message: "Sync triggered",
	})
}
