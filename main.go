package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tarkandemir/hygieia-shop/database"
	"github.com/tarkandemir/hygieia-shop/middleware"
	"github.com/tarkandemir/hygieia-shop/routes"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/store/filestore"
	"github.com/tarkandemir/hygieia-shop/store/mongostore"
	"github.com/tarkandemir/hygieia-shop/utils"
)

func main() {
	// Load .env if present (do not overwrite already-set environment variables).
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	ctx := context.Background()

	st, err := openStore(ctx)
	if err != nil {
		log.Fatalf("failed to open data store: %v", err)
	}

	// Optional Redis for cross-replica rate limiting; nil client means the
	// in-memory fallback is used.
	utils.InitRedis(ctx)

	// Initialize router
	router := routes.InitRouter(st)

	// Wrap router with global middleware in recommended order
	// Logging -> Security headers -> Request ID -> Max Body -> Timeout -> Recovery
	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(
					middleware.TimeoutMiddleware(
						middleware.RecoveryMiddleware(router),
					),
				),
			),
		),
	)

	// Create HTTP server with production-ready configuration
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Printf("[store] close: %v", err)
	}

	log.Println("Server exited")
}

// openStore picks the data backend. DATA_SOURCE forces it ("file" or
// "mongodb"); otherwise a set MONGODB_URI means the live database and its
// absence means the flat-file snapshot under DATA_DIR.
func openStore(ctx context.Context) (store.Store, error) {
	source := strings.ToLower(os.Getenv("DATA_SOURCE"))
	if source == "" {
		if os.Getenv("MONGODB_URI") != "" {
			source = "mongodb"
		} else {
			source = "file"
		}
	}

	switch source {
	case "mongodb":
		if os.Getenv("JWT_SECRET") == "" {
			log.Fatalf("Required environment variable JWT_SECRET is not set")
		}
		db, err := database.Connect(ctx)
		if err != nil {
			return nil, err
		}
		log.Printf("[store] using mongodb database %q", db.Name())
		return mongostore.New(db), nil
	default:
		dir := os.Getenv("DATA_DIR")
		if dir == "" {
			dir = "data"
		}
		log.Printf("[store] using flat-file data from %s", dir)
		return filestore.New(dir), nil
	}
}
