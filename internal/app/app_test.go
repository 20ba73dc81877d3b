package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"erasmus33/internal/config"
	"erasmus33/internal/domain"
	"erasmus33/internal/storage"
	"erasmus33/internal/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, func(email string, role domain.UserRole)) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	require.NoError(t, Migrate(db))

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		BcryptCost: bcrypt.MinCost,
		Storage:    config.StorageConfig{Driver: "local", PublicBaseURL: "http://localhost:8080/static/uploads"},
		Upload:     config.UploadConfig{MaxFileSize: 1 << 20, MaxFiles: 5},
	}
	driver := storage.NewLocal(t.TempDir(), cfg.Storage.PublicBaseURL)

	setRole := func(email string, role domain.UserRole) {
		require.NoError(t, db.Model(&domain.User{}).Where("email = ?", email).Update("role", role).Error)
	}
	return NewRouter(cfg, db, driver, nil), setRole
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

func register(t *testing.T, r http.Handler, email string) authData {
	t.Helper()
	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "secret1", "first_name": "Test", "last_name": "User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data authData
	testutil.Decode(t, w, &data)
	return data
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data authData
	testutil.Decode(t, w, &data)
	return data.Token
}

func TestHealthAndNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := testutil.DoJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", testutil.Decode(t, w, nil).Error.Code)
}

func TestRentalFlow(t *testing.T) {
	r, setRole := newTestRouter(t)

	register(t, r, "admin@example.com")
	setRole("admin@example.com", domain.RoleAdmin)
	adminTok := login(t, r, "admin@example.com")
	tenant := register(t, r, "ana@example.com")

	// tenants cannot manage houses
	w := testutil.DoJSON(t, r, http.MethodPost, "/api/v1/houses", tenant.Token, gin.H{"house_number": 1, "street": "Rua", "city": "Lisboa"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/v1/houses", adminTok, gin.H{"house_number": 1, "street": "Rua", "city": "Lisboa"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var house struct {
		House domain.House `json:"house"`
	}
	testutil.Decode(t, w, &house)

	w = testutil.DoJSON(t, r, http.MethodPost, "/api/v1/rooms", adminTok, gin.H{"house_id": house.House.ID, "room_number": 4, "price": 320})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var room struct {
		Room domain.Room `json:"room"`
	}
	testutil.Decode(t, w, &room)

	w = testutil.DoMultipart(t, r, http.MethodPost, "/api/v1/rooms/"+room.Room.ID.String()+"/images", adminTok, "images",
		testutil.File{Name: "room.png", Content: testutil.PNG})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	testutil.Decode(t, w, &room)
	require.Len(t, room.Room.ImageURLs, 1)

	// uploaded files are served from the public base path
	imageURL := room.Room.ImageURLs[0]
	require.True(t, strings.HasPrefix(imageURL, "http://localhost:8080/static/uploads/room_images/"))
	req := httptest.NewRequest(http.MethodGet, strings.TrimPrefix(imageURL, "http://localhost:8080"), nil)
	static := httptest.NewRecorder()
	r.ServeHTTP(static, req)
	assert.Equal(t, http.StatusOK, static.Code)

	w = testutil.DoJSON(t, r, http.MethodPut, "/api/v1/rooms/"+room.Room.ID.String()+"/tenant", adminTok, gin.H{"profile_id": tenant.User.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/profile/me/room", tenant.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), room.Room.ID.String())

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/profile/me", tenant.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"room_id":"`+room.Room.ID.String()+`"`)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/rooms?available=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), room.Room.ID.String())

	w = testutil.DoJSON(t, r, http.MethodDelete, "/api/v1/houses/"+house.House.ID.String(), adminTok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/profile/me/room", tenant.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	static = httptest.NewRecorder()
	r.ServeHTTP(static, req)
	assert.Equal(t, http.StatusNotFound, static.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/admin/profiles", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@example.com")
}

func TestRoomFeed_RequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/v1/ws/rooms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := testutil.Decode(t, w, nil)
	assert.Equal(t, "AUTH_HEADER_MISSING", env.Error.Code)
}

func TestAdminRoutes_StaleTokens(t *testing.T) {
	r, setRole := newTestRouter(t)

	register(t, r, "a1@example.com")
	a2 := register(t, r, "a2@example.com")
	a3 := register(t, r, "a3@example.com")
	for _, email := range []string{"a1@example.com", "a2@example.com", "a3@example.com"} {
		setRole(email, domain.RoleAdmin)
	}
	a1Tok := login(t, r, "a1@example.com")
	a2Tok := login(t, r, "a2@example.com")
	a3Tok := login(t, r, "a3@example.com")

	w := testutil.DoJSON(t, r, http.MethodPatch, "/api/v1/admin/profiles/"+a2.User.ID+"/role", a1Tok, gin.H{"role": "tenant"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the token still says admin, the account does not
	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/admin/profiles", a2Tok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = testutil.DoJSON(t, r, http.MethodPost, "/api/v1/houses", a2Tok, gin.H{"house_number": 1, "street": "Rua", "city": "Lisboa"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.DoJSON(t, r, http.MethodDelete, "/api/v1/admin/profiles/"+a3.User.ID, a1Tok, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/v1/admin/profiles", a3Tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", testutil.Decode(t, w, nil).Error.Code)
}
