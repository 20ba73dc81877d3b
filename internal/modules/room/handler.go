package room

import (
	"errors"
	"net/http"
	"strconv"

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
	rooms := v1.Group("/rooms")
	{
		rooms.GET("", h.List)
		rooms.GET("/:id", h.Get)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	rooms := admin.Group("/rooms")
	{
		rooms.POST("", h.Create)
		rooms.PUT("/:id", h.Update)
		rooms.DELETE("/:id", h.Delete)
		rooms.POST("/:id/images", h.AddImages)
		rooms.DELETE("/:id/images", h.RemoveImage)
		rooms.PUT("/:id/tenant", h.AssignTenant)
		rooms.DELETE("/:id/tenant", h.VacateTenant)
	}
}

// List handles GET /api/v1/rooms?house_id=&available=&min_price=&max_price=&page=&limit=
func (h *Handler) List(c *gin.Context) {
	var f ListFilter

	if v := c.Query("house_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_FILTER", "house_id must be a UUID")
			return
		}
		f.HouseID = &id
	}
	if v := c.Query("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_FILTER", "available must be true or false")
			return
		}
		f.Available = &b
	}
	for name, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_FILTER", name+" must be a non-negative number")
			return
		}
		*dst = &price
	}

	p := pagination.FromQuery(c)
	rooms, total, err := h.service.List(c.Request.Context(), f, p)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"rooms":      rooms,
		"pagination": p.Meta(total),
	})
}

// Get handles GET /api/v1/rooms/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

// Create handles POST /api/v1/rooms
func (h *Handler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	room, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

// Update handles PUT /api/v1/rooms/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	room, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

// Delete handles DELETE /api/v1/rooms/:id
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

// AddImages handles POST /api/v1/rooms/:id/images (multipart field "images")
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

	room, res, err := h.service.AddImages(c.Request.Context(), id, form.File["images"])
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"room":   room,
		"failed": res.Failed,
	})
}

// RemoveImage handles DELETE /api/v1/rooms/:id/images with body {"url": "..."}
func (h *Handler) RemoveImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RemoveImageRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	room, err := h.service.RemoveImage(c.Request.Context(), id, req.URL)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

// AssignTenant handles PUT /api/v1/rooms/:id/tenant
func (h *Handler) AssignTenant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req AssignTenantRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	room, err := h.service.AssignTenant(c.Request.Context(), id, req.ProfileID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

// VacateTenant handles DELETE /api/v1/rooms/:id/tenant
func (h *Handler) VacateTenant(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := h.service.VacateTenant(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
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
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
	case errors.Is(err, ErrHouseNotFound):
		response.Error(c, http.StatusNotFound, "HOUSE_NOT_FOUND", "House not found")
	case errors.Is(err, ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")
	case errors.Is(err, ErrDuplicateRoomNumber):
		response.Error(c, http.StatusConflict, "DUPLICATE_ROOM_NUMBER", "This house already has a room with this number")
	case errors.Is(err, ErrRoomOccupied):
		response.Error(c, http.StatusConflict, "ROOM_OCCUPIED", "Room already has a tenant")
	case errors.Is(err, ErrTooManyImages):
		response.Error(c, http.StatusUnprocessableEntity, "TOO_MANY_IMAGES", "Image limit per room exceeded")
	case errors.Is(err, ErrImageNotFound):
		response.Error(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found on this room")
	case errors.Is(err, ErrInvalidPriceRange):
		response.Error(c, http.StatusBadRequest, "INVALID_FILTER", err.Error())
	default:
		h.log.Error("room request failed", zap.Error(err), zap.String("path", c.FullPath()))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
