package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/tarkandemir/hygieia-shop/controllers"
	"github.com/tarkandemir/hygieia-shop/middleware"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func InitRouter(st store.Store) *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.Handle("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"service":   "hygieia-shop-api",
		})
	})).Methods(http.MethodGet)

	// Add CORS middleware - origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := []string{
		"http://localhost:3000", "http://localhost:8080", "http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if originsEnv != "" {
		parts := strings.Split(originsEnv, ",")
		for _, p := range parts {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/v1").Subrouter()

	// Add catch-all OPTIONS handler for CORS preflight
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// Rate limiter for checkout: 30/min per IP
	orderLimiter := middleware.NewIPRateLimiter("orders", 30, time.Minute)
	// Rate limiter for cron: 1000/hour
	cronLimiter := middleware.NewIPRateLimiter("cron", 1000, time.Hour)

	productController := controllers.NewProductController(st)
	categoryController := controllers.NewCategoryController(st)
	orderController := controllers.NewOrderController(st)
	settingController := controllers.NewSettingController(st)
	notificationController := controllers.NewNotificationController(st)
	authController := controllers.NewAuthController(st)
	cronController := controllers.NewCronController()

	// Catalog
	api.Handle("/products", http.HandlerFunc(productController.List)).Methods(http.MethodGet)
	api.Handle("/products/{id}", http.HandlerFunc(productController.Get)).Methods(http.MethodGet)
	api.Handle("/categories", http.HandlerFunc(categoryController.List)).Methods(http.MethodGet)

	// Checkout and order tracking
	api.Handle("/orders", orderLimiter.Middleware(http.HandlerFunc(orderController.Create))).Methods(http.MethodPost)
	api.Handle("/orders", http.HandlerFunc(orderController.Track)).Methods(http.MethodGet)
	api.Handle("/orders/list", utils.AuthMiddleware(http.HandlerFunc(orderController.List))).Methods(http.MethodGet)

	// Site settings (read-only)
	api.Handle("/settings", http.HandlerFunc(settingController.List)).Methods(http.MethodGet)
	api.Handle("/settings/{key}", http.HandlerFunc(settingController.Get)).Methods(http.MethodGet)

	// Admin-side reads
	api.Handle("/notifications", utils.AuthMiddleware(http.HandlerFunc(notificationController.List))).Methods(http.MethodGet)

	// Auth
	api.Handle("/auth/login", http.HandlerFunc(authController.Login)).Methods(http.MethodPost)

	// Cron endpoint for catalog sync (protected via CRON_SECRET bearer token)
	api.Handle("/cron/sync", cronLimiter.Middleware(http.HandlerFunc(cronController.Sync))).Methods(http.MethodPost)

	return r
}
