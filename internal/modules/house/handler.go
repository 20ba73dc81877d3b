package house

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"erasmus33/internal/domain/upload"
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

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	houses := v1.Group("/houses")
	{
		houses.GET("", h.List)
		houses.GET("/:id", h.Get)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	houses := admin.Group("/houses")
	{
		houses.POST("", h.Create)
		houses.PUT("/:id", h.Update)
		houses.DELETE("/:id", h.Delete)
		houses.POST("/:id/images", h.AddImages)
		houses.DELETE("/:id/images", h.RemoveImage)
	}
}

// List handles GET /api/v1/houses?city=&page=&limit=
func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c)
	houses, total, err := h.service.List(c.Request.Context(), c.Query("city"), p)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"houses":     houses,
		"pagination": p.Meta(total),
	})
}

// Get handles GET /api/v1/houses/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	house, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"house": house})
}

// Create handles POST /api/v1/houses
func (h *Handler) Create(c *gin.Context) {
	var req CreateHouseRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	house, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"house": house})
}

// Update handles PUT /api/v1/houses/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateHouseRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	house, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"house": house})
}

// Delete handles DELETE /api/v1/houses/:id
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

// AddImages handles POST /api/v1/houses/:id/images (multipart field "images")
func (h *Handler) AddImages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Expected multipart form data")
		return
	}

	house, res, err := h.service.AddImages(c.Request.Context(), id, form.File["images"])
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"house":  house,
		"failed": res.Failed,
	})
}

// RemoveImage handles DELETE /api/v1/houses/:id/images with body {"url": "..."}
func (h *Handler) RemoveImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RemoveImageRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	house, err := h.service.RemoveImage(c.Request.Context(), id, req.URL)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"house": house})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid house ID")
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
	case errors.Is(err, ErrHouseNotFound):
		response.Error(c, http.StatusNotFound, "HOUSE_NOT_FOUND", "House not found")
	case errors.Is(err, ErrDuplicateHouseNumber):
		response.Error(c, http.StatusConflict, "DUPLICATE_HOUSE_NUMBER", "A house with this number already exists")
	case errors.Is(err, ErrTooManyImages):
		response.Error(c, http.StatusUnprocessableEntity, "TOO_MANY_IMAGES", "Image limit per house exceeded")
	case errors.Is(err, ErrImageNotFound):
		response.Error(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found on this house")
	case errors.Is(err, ErrBlankField):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		h.log.Error("house request failed", zap.Error(err), zap.String("path", c.FullPath()))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
