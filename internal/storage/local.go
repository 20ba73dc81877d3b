package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local keeps objects under <baseDir>/<bucket>/<key>.
type Local struct {
	baseDir    string
	publicBase string
}

func NewLocal(baseDir, publicBase string) *Local {
	return &Local{baseDir: baseDir, publicBase: publicBase}
}

// Dir is the directory served under the public base URL.
func (l *Local) Dir() string { return l.baseDir }

func (l *Local) Upload(ctx context.Context, bucket, key string, body io.Reader, _ int64, _ string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath := filepath.Join(l.baseDir, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("failed to create bucket directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		_ = os.Remove(absPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (l *Local) Remove(_ context.Context, bucket string, keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := validateKey(key); err != nil {
			errs = append(errs, err)
			continue
		}
		err := os.Remove(filepath.Join(l.baseDir, bucket, filepath.FromSlash(key)))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Local) PublicURL(bucket, key string) string {
	return l.publicBase + "/" + bucket + "/" + key
}

func (l *Local) KeyFromURL(bucket, url string) (string, bool) {
	return keyFromPrefix(l.publicBase+"/"+bucket+"/", url)
}
