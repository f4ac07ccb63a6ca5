package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3-compatible object storage for product images. Works against Cloudflare
// R2 or plain S3; the image migration tool uploads extracted base64 images
// here when S3_BUCKET is configured.

// S3Configured reports whether object storage credentials are present.
func S3Configured() bool {
	return os.Getenv("S3_BUCKET") != "" &&
		os.Getenv("S3_ACCESS_KEY_ID") != "" &&
		os.Getenv("S3_SECRET_ACCESS_KEY") != ""
}

func s3Client() (*s3.Client, error) {
	accessKey := os.Getenv("S3_ACCESS_KEY_ID")
	secretKey := os.Getenv("S3_SECRET_ACCESS_KEY")
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("S3_ACCESS_KEY_ID or S3_SECRET_ACCESS_KEY is not set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(getenvDefault("S3_REGION", "auto")),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		// endpoint override for R2 and other S3-compatible stores
		if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// UploadToS3 stores an object under the configured bucket and returns its
// public URL (S3_PUBLIC_BASE_URL + key).
func UploadToS3(ctx context.Context, objectName string, body io.Reader) (string, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("S3_BUCKET is not set")
	}
	client, err := s3Client()
	if err != nil {
		return "", err
	}

	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}

	base := getenvDefault("S3_PUBLIC_BASE_URL", "")
	if base == "" {
		return objectName, nil
	}
	return base + "/" + objectName, nil
}
