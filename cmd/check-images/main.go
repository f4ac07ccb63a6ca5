package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tarkandemir/hygieia-shop/database"
	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
)

// Read-only report of image storage across the catalog: how many products
// still carry inline base64 images (and how heavy they are) versus external
// URLs. Run before and after cmd/migrate-images.

func main() {
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

	cur, err := db.Collection(store.Products).Find(ctx, bson.M{})
	if err != nil {
		log.Fatalf("find products: %v", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		log.Fatalf("decode products: %v", err)
	}

	var withInline, withoutImages int
	var inlineImages, externalImages int
	var inlineBytes int64
	for _, p := range products {
		if len(p.Images) == 0 {
			withoutImages++
			continue
		}
		inline := false
		for _, img := range p.Images {
			if strings.HasPrefix(img, "data:image") {
				inline = true
				inlineImages++
				inlineBytes += int64(len(img))
			} else {
				externalImages++
			}
		}
		if inline {
			withInline++
			log.Printf("[check] %s (%s): inline images present", p.ID, p.Name)
		}
	}

	log.Printf("[check] %d products total", len(products))
	log.Printf("[check] %d with inline images, %d without any image", withInline, withoutImages)
	log.Printf("[check] %d inline images (~%.1f MB encoded), %d external", inlineImages, float64(inlineBytes)/(1<<20), externalImages)
}
