package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"erasmus33/internal/domain/upload"
	"erasmus33/internal/middleware"
	"erasmus33/internal/pkg/pagination"
	"erasmus33/internal/pkg/response"
	"erasmus33/internal/pkg/validator"
)

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

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	me := protected.Group("/profile/me")
	{
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
		me.POST("/picture", h.UploadPicture)
		me.DELETE("/picture", h.DeletePicture)
		me.GET("/room", h.GetMyRoom)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	profiles := admin.Group("/profiles")
	{
		profiles.GET("", h.List)
		profiles.GET("/:id", h.Get)
		profiles.PATCH("/:id/role", h.SetRole)
		profiles.DELETE("/:id", h.Delete)
	}
}

// GetMe handles GET /api/v1/profile/me
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": p})
}

// UpdateMe handles PUT /api/v1/profile/me
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": p})
}

// UploadPicture handles POST /api/v1/profile/me/picture (multipart field "file")
func (h *Handler) UploadPicture(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILES", "A file is required in field 'file'")
		return
	}

	url, err := h.service.UploadPicture(c.Request.Context(), userID, fh)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, PictureResponse{ProfilePictureURL: url})
}

// DeletePicture handles DELETE /api/v1/profile/me/picture
func (h *Handler) DeletePicture(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePicture(c.Request.Context(), userID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMyRoom handles GET /api/v1/profile/me/room
func (h *Handler) GetMyRoom(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}
	room, err := h.service.MyRoom(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

// List handles GET /api/v1/admin/profiles?search=&role=&page=&limit=
func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c)
	profiles, total, err := h.service.List(c.Request.Context(), c.Query("search"), c.Query("role"), p)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"profiles":   profiles,
		"pagination": p.Meta(total),
	})
}

// Get handles GET /api/v1/admin/profiles/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": p})
}

// SetRole handles PATCH /api/v1/admin/profiles/:id/role
func (h *Handler) SetRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	p, err := h.service.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": p})
}

// Delete handles DELETE /api/v1/admin/profiles/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	if status, code, ok := upload.HTTPError(err); ok {
		response.Error(c, status, code, err.Error())
		return
	}

	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")
	case errors.Is(err, ErrNoRoom):
		response.Error(c, http.StatusNotFound, "ROOM_NOT_FOUND", "You are not assigned to a room")
	case errors.Is(err, ErrNoPicture):
		response.Error(c, http.StatusNotFound, "PICTURE_NOT_FOUND", "Profile has no picture")
	case errors.Is(err, ErrEmptyName):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be tenant or admin")
	case errors.Is(err, ErrLastAdmin):
		response.Error(c, http.StatusConflict, "LAST_ADMIN", "At least one admin must remain")
	default:
		h.log.Error("profile request failed", zap.Error(err), zap.String("path", c.FullPath()))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
