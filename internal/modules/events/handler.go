package events

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"erasmus33/internal/pkg/jwt"
	"erasmus33/internal/pkg/response"
)

type Handler struct {
	hub      *Hub
	jwt      *jwt.Service
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler serves the room feed. allowedOrigins restricts browser
// origins; an empty list or "*" accepts any origin.
func NewHandler(hub *Hub, jwtService *jwt.Service, allowedOrigins []string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{hub: hub, jwt: jwtService, log: log}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/rooms", h.Subscribe)
}

// Subscribe handles GET /ws/rooms?token=JWT. Browsers cannot set headers on
// websocket requests, so the token may come from the query string.
func (h *Handler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Token is required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	userID := uuid.MustParse(claims.UserID)

	if h.hub.isClosed() {
		response.Error(c, http.StatusServiceUnavailable, "SHUTTING_DOWN", "Server is shutting down")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client, ok := h.hub.register(userID, conn)
	if !ok {
		// The hub closed between the check and the upgrade.
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	h.log.Debug("websocket connected", zap.String("user_id", userID.String()))

	go h.hub.writeLoop(client)
	h.hub.readLoop(client)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		return set[origin]
	}
}
