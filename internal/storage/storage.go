// Package storage keeps perfume images on a local directory or an
// S3-compatible bucket (AWS S3, MinIO, R2, Supabase storage's S3 endpoint).
package storage

import (
	"context"
	"fmt"
	"strings"

	"perfumeria/internal/config"
)

// Disk is the object storage driver.
type Disk interface {
	// Put writes content to path, replacing any existing object.
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// Delete removes path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// PathFromURL reverses URL. ok is false for URLs this disk did not produce.
	PathFromURL(url string) (path string, ok bool)
}

// New builds the disk selected by STORAGE_DISK.
func New(ctx context.Context, cfg config.Config) (Disk, error) {
	switch cfg.StorageDisk {
	case "", "local":
		return NewLocal(cfg.MediaDir, cfg.MediaURL)
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", cfg.StorageDisk)
	}
}

func trimBase(baseURL, url string) (string, bool) {
	prefix := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	path := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "", false
	}
	return path, true
}
