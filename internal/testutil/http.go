package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"erasmus33/internal/domain"
)

// Envelope is the response body written by the response package.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// DoJSON sends body encoded as JSON. An empty token sends no Authorization.
func DoJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return serve(h, req, token)
}

// DoMultipart sends files under field.
func DoMultipart(t *testing.T, h http.Handler, method, path, token, field string, files ...File) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := MultipartBody(t, field, files...)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	return serve(h, req, token)
}

func serve(h http.Handler, req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Decode parses the envelope and unmarshals its data into v, if v is not nil.
func Decode(t *testing.T, w *httptest.ResponseRecorder, v any) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("decode data %q: %v", env.Data, err)
		}
	}
	return env
}

// SeedUser inserts a user with an empty profile and returns its id.
func SeedUser(t *testing.T, db *gorm.DB, email string, role domain.UserRole) uuid.UUID {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "x", Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	p := &domain.Profile{ID: u.ID, FirstName: "Test", LastName: email, Email: email}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return u.ID
}
