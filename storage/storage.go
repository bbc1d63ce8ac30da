// Package storage persists uploaded recipe images and turns inline data URIs
// into stored file references.
package storage

import (
	"context"
	"fmt"

	"github.com/rpupo63/foodgram-backend/config"
)

// Store saves a blob under key and returns the reference clients use to fetch it
type Store interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// New builds the store selected by STORAGE_BACKEND ("local" or "s3").
func New(ctx context.Context, c map[string]string) (Store, error) {
	switch backend := config.GetString(c, "STORAGE_BACKEND", "local"); backend {
	case "local":
		return NewLocalStore(
			config.GetString(c, "MEDIA_ROOT", "media"),
			config.GetString(c, "MEDIA_URL", "/media/"),
		), nil
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:    config.GetString(c, "S3_BUCKET", ""),
			Region:    config.GetString(c, "S3_REGION", "us-east-1"),
			Endpoint:  config.GetString(c, "S3_ENDPOINT", ""),
			AccessKey: config.GetString(c, "S3_ACCESS_KEY", ""),
			SecretKey: config.GetString(c, "S3_SECRET_KEY", ""),
			PublicURL: config.GetString(c, "S3_PUBLIC_URL", ""),
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
