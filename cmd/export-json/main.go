package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tarkandemir/hygieia-shop/database"
	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
)

// Dumps the live database into the flat-file layout the file store reads:
// one pretty-printed JSON array per collection under the output directory.
// Decoding goes through the typed models so ObjectIDs come out as hex
// strings and dates as RFC 3339, exactly what the file store parses back.
// Run it whenever the catalog changes and commit the result.

func main() {
	outDir := flag.String("out", "data", "output directory for the JSON files")
	flag.Parse()

	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Client().Disconnect(context.Background())

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("failed to create %s: %v", *outDir, err)
	}

	export(ctx, db, *outDir, store.Products, &[]models.Product{})
	export(ctx, db, *outDir, store.Categories, &[]models.Category{})
	export(ctx, db, *outDir, store.Orders, &[]models.Order{})
	export(ctx, db, *outDir, store.Settings, &[]models.Setting{})
	export(ctx, db, *outDir, store.Notifications, &[]models.Notification{})
	export(ctx, db, *outDir, store.Users, &[]models.User{})
}

func export(ctx context.Context, db *mongo.Database, outDir, name string, out interface{}) {
	cur, err := db.Collection(name).Find(ctx, bson.M{})
	if err != nil {
		log.Fatalf("[export] %s: find: %v", name, err)
	}
	if err := cur.All(ctx, out); err != nil {
		log.Fatalf("[export] %s: decode: %v", name, err)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("[export] %s: marshal: %v", name, err)
	}

	path := filepath.Join(outDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("[export] %s: write: %v", name, err)
	}
	log.Printf("[export] %s -> %s", name, path)
}
