package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"erasmus33/internal/pkg/jwt"
	"erasmus33/internal/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth validates the bearer token and stores user_id and role in the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, uuid.MustParse(claims.UserID))
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// MustUserID writes a 401 and returns false when no user is authenticated.
func MustUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := CurrentUserID(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return id, ok
}
