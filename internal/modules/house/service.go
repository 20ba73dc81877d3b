package house

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
	houses    HouseRepositoryInterface
	uploads   ImageUploader
	maxImages int
	events    events.Publisher
	log       *zap.Logger
}

// NewService creates the house service. maxImages caps the images per house;
// zero disables the cap.
func NewService(houses HouseRepositoryInterface, uploads ImageUploader, maxImages int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{houses: houses, uploads: uploads, maxImages: maxImages, log: log}
}

// WithEvents makes the service announce house deletions to p.
func (s *Service) WithEvents(p events.Publisher) *Service {
	s.events = p
	return s
}

func (s *Service) Create(ctx context.Context, req CreateHouseRequest) (*domain.House, error) {
	h := &domain.House{
		HouseNumber: req.HouseNumber,
		Street:      strings.TrimSpace(req.Street),
		PostalCode:  strings.TrimSpace(req.PostalCode),
		City:        strings.TrimSpace(req.City),
		Description: strings.TrimSpace(req.Description),
		TotalRooms:  req.TotalRooms,
	}
	if h.Street == "" || h.City == "" {
		return nil, ErrBlankField
	}
	if err := s.houses.Create(ctx, h); err != nil {
		return nil, err
	}
	s.log.Info("house created", zap.String("house_id", h.ID.String()), zap.Int("house_number", h.HouseNumber))
	return h, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.House, error) {
	return s.houses.GetByID(ctx, id, true)
}

func (s *Service) List(ctx context.Context, city string, p pagination.Params) ([]domain.House, int64, error) {
	return s.houses.List(ctx, repository.HouseFilter{
		City:   city,
		Offset: p.Offset(),
		Limit:  p.Normalize().Limit,
	})
}

// Update applies the fields present in req. A changed house number is
// propagated to the house's rooms.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateHouseRequest) (*domain.House, error) {
	fields := map[string]any{}
	if req.HouseNumber != nil {
		fields["house_number"] = *req.HouseNumber
	}
	if req.Street != nil {
		v := strings.TrimSpace(*req.Street)
		if v == "" {
			return nil, ErrBlankField
		}
		fields["street"] = v
	}
	if req.City != nil {
		v := strings.TrimSpace(*req.City)
		if v == "" {
			return nil, ErrBlankField
		}
		fields["city"] = v
	}
	if req.PostalCode != nil {
		fields["postal_code"] = strings.TrimSpace(*req.PostalCode)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.TotalRooms != nil {
		fields["total_rooms"] = *req.TotalRooms
	}
	return s.houses.Update(ctx, id, fields)
}

// Delete removes the house with its rooms, then their images.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	houseImages, roomImages, err := s.houses.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.uploads.RemoveURLs(ctx, storage.BucketHouseImages, houseImages...)
	s.uploads.RemoveURLs(ctx, storage.BucketRoomImages, roomImages...)
	s.log.Info("house deleted", zap.String("house_id", id.String()), zap.Int("room_images", len(roomImages)))
	events.Publish(s.events, events.Event{Type: events.HouseDeleted, HouseID: &id})
	return nil
}

// AddImages uploads files and appends their URLs to the house. Files that
// fail are reported in the result; if the database update fails the
// uploaded objects are removed again.
func (s *Service) AddImages(ctx context.Context, id uuid.UUID, files []*multipart.FileHeader) (*domain.House, upload.Result, error) {
	if len(files) == 0 {
		return nil, upload.Result{}, upload.ErrNoFiles
	}

	count, err := s.houses.ImageCount(ctx, id)
	if err != nil {
		return nil, upload.Result{}, err
	}
	if s.maxImages > 0 && count+len(files) > s.maxImages {
		return nil, upload.Result{}, ErrTooManyImages
	}

	res := s.uploads.UploadImages(ctx, storage.BucketHouseImages, id.String(), files)
	if len(res.Uploaded) == 0 {
		return nil, res, res.FirstError()
	}

	h, err := s.houses.AppendImages(ctx, id, res.URLs(), s.maxImages)
	if err != nil {
		s.uploads.Discard(ctx, storage.BucketHouseImages, res.Uploaded)
		return nil, res, err
	}
	return h, res, nil
}

func (s *Service) RemoveImage(ctx context.Context, id uuid.UUID, url string) (*domain.House, error) {
	h, err := s.houses.RemoveImage(ctx, id, url)
	if err != nil {
		return nil, err
	}
	s.uploads.RemoveURLs(ctx, storage.BucketHouseImages, url)
	return h, nil
}
