package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Connect opens the MongoDB client with pooling, timeouts and retry. Two
// slightly different timeout policies existed historically; this is the
// consolidated one: small pool, aggressive server selection, majority
// writes.
func Connect(ctx context.Context) (*mongo.Database, error) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		return nil, errors.New("MONGODB_URI is not set")
	}

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(2 * time.Second).
		SetConnectTimeout(2 * time.Second).
		SetSocketTimeout(20 * time.Second).
		SetMaxConnIdleTime(10 * time.Second).
		SetRetryReads(true).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority())

	// Retry connection with exponential backoff, same as the old MySQL
	// helper did.
	maxRetries := atoi(getenv("DB_CONNECT_RETRIES", "5"))
	if maxRetries <= 0 {
		maxRetries = 5
	}
	backoff := time.Second

	var client *mongo.Client
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		client, err = mongo.Connect(ctx, opts)
		if err == nil {
			if err = client.Ping(ctx, nil); err == nil {
				break
			}
			_ = client.Disconnect(ctx)
		}
		log.Printf("[database] connect attempt %d failed: %v", attempt+1, err)
		time.Sleep(backoff)
		backoff *= 2
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	name := getenv("MONGODB_DB", "")
	if name == "" {
		// fall back to the database named in the URI path
		name = databaseFromURI(uri)
	}
	if name == "" {
		name = "shop"
	}

	log.Printf("[database] connected to mongodb database %q", name)
	return client.Database(name), nil
}

func databaseFromURI(uri string) string {
	// mongodb://host/dbname?params or mongodb+srv://...
	rest := uri
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[i+1:]
	} else {
		return ""
	}
	if i := strings.Index(rest, "?"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	if v <= 0 {
		return 0
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}
