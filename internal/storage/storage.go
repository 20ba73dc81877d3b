// Package storage stores image objects in named buckets and resolves their
// public URLs. Three backends are available: the local filesystem, AWS S3 and
// the Supabase storage REST API.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"erasmus33/internal/config"
)

const (
	BucketHouseImages     = "house_images"
	BucketRoomImages      = "room_images"
	BucketProfilePictures = "profile_pictures"
)

var ErrInvalidKey = errors.New("invalid object key")

// Driver is implemented by every storage backend.
type Driver interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, bucket string, keys ...string) error
	PublicURL(bucket, key string) string
	// KeyFromURL reverses PublicURL. ok is false for URLs this driver did not issue.
	KeyFromURL(bucket, url string) (key string, ok bool)
}

// New picks the driver configured by STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (Driver, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.PublicBaseURL), nil
	case "s3":
		return NewS3(ctx, S3Configuration{
			Region:          cfg.S3Region,
			BucketPrefix:    cfg.S3BucketPrefix,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}, log)
	case "supabase":
		return NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func keyFromPrefix(prefix, url string) (string, bool) {
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
