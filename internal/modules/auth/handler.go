package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"erasmus33/internal/middleware"
	"erasmus33/internal/pkg/response"
	"erasmus33/internal/pkg/validator"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		if errors.Is(err, ErrEmptyName) || errors.Is(err, ErrPasswordTooLong) {
			response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
			return
		}
		h.log.Error("registration failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		return
	}

	response.Success(c, http.StatusCreated, AuthResponse{User: toPublic(user), Token: token})
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, AuthResponse{User: toPublic(user), Token: token})
}

// GetMe handles GET /api/v1/auth/me
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User no longer exists")
			return
		}
		h.log.Error("get me failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": toPublic(user)})
}
