package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseUploadAndRemove(t *testing.T) {
	var uploaded, removed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
			assert.Equal(t, "png-bytes", string(body))
			uploaded = append(uploaded, r.URL.EscapedPath())
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"Key":"ok"}`))
		case http.MethodDelete:
			var req struct {
				Prefixes []string `json:"prefixes"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "/storage/v1/object/profile_pictures", r.URL.Path)
			removed = append(removed, req.Prefixes...)
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	s := NewSupabase(srv.URL+"/", "service-key")
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, BucketProfilePictures, "u1/my photo.png", strings.NewReader("png-bytes"), 9, "image/png"))
	assert.Equal(t, []string{"/storage/v1/object/profile_pictures/u1/my%20photo.png"}, uploaded)

	url := s.PublicURL(BucketProfilePictures, "u1/my photo.png")
	assert.Equal(t, srv.URL+"/storage/v1/object/public/profile_pictures/u1/my%20photo.png", url)
	key, ok := s.KeyFromURL(BucketProfilePictures, url)
	require.True(t, ok)
	assert.Equal(t, "u1/my photo.png", key)

	require.NoError(t, s.Remove(ctx, BucketProfilePictures, key))
	assert.Equal(t, []string{"u1/my photo.png"}, removed)
}

func TestSupabaseUploadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer srv.Close()

	err := NewSupabase(srv.URL, "bad").Upload(context.Background(), BucketHouseImages, "h/a.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
