package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"erasmus33/internal/domain"
	"erasmus33/internal/pkg/response"
)

const RoleAdmin = string(domain.RoleAdmin)

// UserLookup loads the stored state of an authenticated user.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// RequireRole checks the role stored for the user, not the one in the token,
// so demotions and deleted accounts take effect before the token expires.
func RequireRole(users UserLookup, requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		user, err := users.GetByID(c.Request.Context(), id)
		if errors.Is(err, domain.ErrUserNotFound) {
			response.Abort(c, http.StatusUnauthorized, "USER_NOT_FOUND", "Account no longer exists")
			return
		}
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Could not verify permissions")
			return
		}

		c.Set(ContextRole, string(user.Role))
		if string(user.Role) != requiredRole {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly(users UserLookup) gin.HandlerFunc {
	return RequireRole(users, RoleAdmin)
}
