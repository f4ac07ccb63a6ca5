package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/tarkandemir/hygieia-shop/database"
	"github.com/tarkandemir/hygieia-shop/models"
	"github.com/tarkandemir/hygieia-shop/store"
	"github.com/tarkandemir/hygieia-shop/utils"
)

// Moves inline base64 product images out of the database. Each data URI is
// decoded and either uploaded to object storage (when S3 is configured) or
// written under -dir, and the product's images array is rewritten with the
// resulting URLs. Non-inline entries are left untouched.

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing anything")
	localDir := flag.String("dir", "public/uploads", "local target directory when S3 is not configured")
	flag.Parse()

	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Client().Disconnect(context.Background())

	useS3 := utils.S3Configured()
	if useS3 {
		log.Printf("[migrate] target: s3 bucket %s", os.Getenv("S3_BUCKET"))
	} else {
		log.Printf("[migrate] target: local directory %s", *localDir)
		if !*dryRun {
			if err := os.MkdirAll(*localDir, 0o755); err != nil {
				log.Fatalf("failed to create %s: %v", *localDir, err)
			}
		}
	}

	cur, err := db.Collection(store.Products).Find(ctx, bson.M{})
	if err != nil {
		log.Fatalf("find products: %v", err)
	}
	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		log.Fatalf("decode products: %v", err)
	}

	var migrated, skipped, failed int
	for _, p := range products {
		if !p.HasInlineImages() {
			skipped++
			continue
		}

		images := make([]string, 0, len(p.Images))
		changed := false
		for i, img := range p.Images {
			if !strings.HasPrefix(img, "data:image") {
				images = append(images, img)
				continue
			}

			url, err := extractImage(ctx, p.ID, i, img, useS3, *localDir, *dryRun)
			if err != nil {
				log.Printf("[migrate] %s image %d: %v", p.ID, i, err)
				failed++
				images = append(images, img) // keep the inline copy on failure
				continue
			}
			images = append(images, url)
			changed = true
		}

		if !changed {
			continue
		}
		if *dryRun {
			log.Printf("[migrate] would update %s (%s): %d images", p.ID, p.Name, len(images))
			migrated++
			continue
		}

		_, err := db.Collection(store.Products).UpdateOne(ctx,
			bson.M{"_id": p.ID},
			bson.M{"$set": bson.M{"images": images, "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Printf("[migrate] %s: update failed: %v", p.ID, err)
			failed++
			continue
		}
		log.Printf("[migrate] updated %s (%s)", p.ID, p.Name)
		migrated++
	}

	log.Printf("[migrate] done: %d migrated, %d without inline images, %d failures", migrated, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// extractImage decodes one data URI and stores the bytes, returning the URL
// to put in the images array.
func extractImage(ctx context.Context, productID string, index int, dataURI string, useS3 bool, localDir string, dryRun bool) (string, error) {
	meta, payload, ok := strings.Cut(dataURI, ",")
	if !ok {
		return "", fmt.Errorf("malformed data URI")
	}

	ext := ".jpg"
	switch {
	case strings.Contains(meta, "image/png"):
		ext = ".png"
	case strings.Contains(meta, "image/webp"):
		ext = ".webp"
	case strings.Contains(meta, "image/gif"):
		ext = ".gif"
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	name := fmt.Sprintf("products/%s-%d%s", productID, index, ext)
	if dryRun {
		return "/" + name, nil
	}

	if useS3 {
		return utils.UploadToS3(ctx, name, bytes.NewReader(raw))
	}

	path := filepath.Join(localDir, filepath.Base(name))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Join(filepath.Base(localDir), filepath.Base(name))), nil
}
