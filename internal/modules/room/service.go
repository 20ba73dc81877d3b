package room

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"erasmus33/internal/domain"
	"erasmus33/internal/domain/upload"
	"erasmus33/internal/modules/events"
	"erasmus33/internal/pkg/pagination"
	"erasmus33/internal/repository"
	"erasmus33/internal/storage"
)

type Service struct {
	rooms     RoomRepositoryInterface
	uploads   ImageUploader
	maxImages int
	events    events.Publisher
	log       *zap.Logger
}

func NewService(rooms RoomRepositoryInterface, uploads ImageUploader, maxImages int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{rooms: rooms, uploads: uploads, maxImages: maxImages, log: log}
}

// WithEvents makes the service publish availability changes to p.
func (s *Service) WithEvents(p events.Publisher) *Service {
	s.events = p
	return s
}

func (s *Service) publish(typ string, r *domain.Room) {
	avail := r.Available
	houseID := r.HouseID
	roomID := r.ID
	events.Publish(s.events, events.Event{
		Type:      typ,
		RoomID:    &roomID,
		HouseID:   &houseID,
		TenantID:  r.TenantID,
		Available: &avail,
	})
}

type ListFilter struct {
	HouseID   *uuid.UUID
	Available *bool
	MinPrice  *float64
	MaxPrice  *float64
}

func (s *Service) Create(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	r := &domain.Room{
		HouseID:     req.HouseID,
		RoomNumber:  req.RoomNumber,
		Price:       req.Price,
		SizeSqm:     req.SizeSqm,
		Description: strings.TrimSpace(req.Description),
		Available:   true,
	}
	if req.Available != nil {
		r.Available = *req.Available
	}
	if err := s.rooms.Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info("room created", zap.String("room_id", r.ID.String()), zap.Int("house_number", r.HouseNumber))
	s.publish(events.RoomCreated, r)
	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter, p pagination.Params) ([]domain.Room, int64, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, 0, ErrInvalidPriceRange
	}
	return s.rooms.List(ctx, repository.RoomFilter{
		HouseID:   f.HouseID,
		Available: f.Available,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		Offset:    p.Offset(),
		Limit:     p.Normalize().Limit,
	})
}

// Update applies the fields present in req. An occupied room cannot be
// marked available; vacate it instead.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRoomRequest) (*domain.Room, error) {
	fields := map[string]any{}
	if req.HouseID != nil {
		fields["house_id"] = *req.HouseID
	}
	if req.RoomNumber != nil {
		fields["room_number"] = *req.RoomNumber
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.SizeSqm != nil {
		fields["size_sqm"] = *req.SizeSqm
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Available != nil {
		fields["available"] = *req.Available
	}
	r, err := s.rooms.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.publish(events.RoomUpdated, r)
	return r, nil
}

// Delete removes the room, ending its tenancy, and then its images.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.rooms.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.uploads.RemoveURLs(ctx, storage.BucketRoomImages, deleted.ImageURLs...)
	s.log.Info("room deleted", zap.String("room_id", id.String()))
	deleted.TenantID = nil
	deleted.Available = false
	s.publish(events.RoomDeleted, deleted)
	return nil
}

// AddImages uploads files and appends their URLs to the room. Uploaded
// objects are removed again when the database update fails.
func (s *Service) AddImages(ctx context.Context, id uuid.UUID, files []*multipart.FileHeader) (*domain.Room, upload.Result, error) {
	if len(files) == 0 {
		return nil, upload.Result{}, upload.ErrNoFiles
	}

	count, err := s.rooms.ImageCount(ctx, id)
	if err != nil {
		return nil, upload.Result{}, err
	}
	if s.maxImages > 0 && count+len(files) > s.maxImages {
		return nil, upload.Result{}, ErrTooManyImages
	}

	res := s.uploads.UploadImages(ctx, storage.BucketRoomImages, id.String(), files)
	if len(res.Uploaded) == 0 {
		return nil, res, res.FirstError()
	}

	r, err := s.rooms.AppendImages(ctx, id, res.URLs(), s.maxImages)
	if err != nil {
		s.uploads.Discard(ctx, storage.BucketRoomImages, res.Uploaded)
		return nil, res, err
	}
	return r, res, nil
}

func (s *Service) RemoveImage(ctx context.Context, id uuid.UUID, url string) (*domain.Room, error) {
	r, err := s.rooms.RemoveImage(ctx, id, url)
	if err != nil {
		return nil, err
	}
	s.uploads.RemoveURLs(ctx, storage.BucketRoomImages, url)
	return r, nil
}

func (s *Service) AssignTenant(ctx context.Context, roomID, profileID uuid.UUID) (*domain.Room, error) {
	r, err := s.rooms.AssignTenant(ctx, roomID, profileID)
	if err != nil {
		return nil, err
	}
	s.log.Info("tenant assigned", zap.String("room_id", roomID.String()), zap.String("profile_id", profileID.String()))
	s.publish(events.TenantAssigned, r)
	return r, nil
}

func (s *Service) VacateTenant(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	r, err := s.rooms.VacateTenant(ctx, roomID)
	if err != nil {
		return nil, err
	}
	s.publish(events.TenantVacated, r)
	return r, nil
}
