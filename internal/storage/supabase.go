package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Supabase talks to the Supabase storage REST API.
type Supabase struct {
	client  *resty.Client
	baseURL string
}

func NewSupabase(baseURL, serviceKey string) *Supabase {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(serviceKey).
		SetHeader("apikey", serviceKey)
	return &Supabase{client: client, baseURL: baseURL}
}

func (s *Supabase) Upload(ctx context.Context, bucket, key string, body io.Reader, _ int64, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(body).
		Post("/storage/v1/object/" + bucket + "/" + escapeKey(key))
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to upload %s/%s: status %d: %s", bucket, key, resp.StatusCode(), resp.String())
	}
	return nil
}

func (s *Supabase) Remove(ctx context.Context, bucket string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	for _, key := range keys {
		if err := validateKey(key); err != nil {
			return err
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string][]string{"prefixes": keys}).
		Delete("/storage/v1/object/" + bucket)
	if err != nil {
		return fmt.Errorf("failed to remove from %s: %w", bucket, err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to remove from %s: status %d: %s", bucket, resp.StatusCode(), resp.String())
	}
	return nil
}

func (s *Supabase) publicPrefix(bucket string) string {
	return s.baseURL + "/storage/v1/object/public/" + bucket + "/"
}

func (s *Supabase) PublicURL(bucket, key string) string {
	return s.publicPrefix(bucket) + escapeKey(key)
}

func (s *Supabase) KeyFromURL(bucket, rawURL string) (string, bool) {
	escaped, ok := keyFromPrefix(s.publicPrefix(bucket), rawURL)
	if !ok {
		return "", false
	}
	key, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}
	return key, true
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
