package profile

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"erasmus33/internal/domain"
	"erasmus33/internal/domain/upload"
	"erasmus33/internal/pkg/pagination"
	"erasmus33/internal/repository"
	"erasmus33/internal/storage"
)

type Service struct {
	profiles ProfileRepositoryInterface
	users    UserRepositoryInterface
	rooms    RoomReader
	uploads  ImageUploader
	log      *zap.Logger
}

func NewService(profiles ProfileRepositoryInterface, users UserRepositoryInterface, rooms RoomReader, uploads ImageUploader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{profiles: profiles, users: users, rooms: rooms, uploads: uploads, log: log}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// Update applies the fields present in req. Names may be changed but not blanked.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*domain.Profile, error) {
	fields := map[string]any{}

	if req.FirstName != nil {
		v := strings.TrimSpace(*req.FirstName)
		if v == "" {
			return nil, ErrEmptyName
		}
		fields["first_name"] = v
	}
	if req.LastName != nil {
		v := strings.TrimSpace(*req.LastName)
		if v == "" {
			return nil, ErrEmptyName
		}
		fields["last_name"] = v
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Nationality != nil {
		fields["nationality"] = strings.TrimSpace(*req.Nationality)
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			fields["birth_date"] = nil
		} else {
			d, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				return nil, err
			}
			fields["birth_date"] = d
		}
	}

	return s.profiles.Update(ctx, id, fields)
}

// UploadPicture stores a new profile picture and removes the previous one.
func (s *Service) UploadPicture(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (string, error) {
	if _, err := s.profiles.GetByID(ctx, id); err != nil {
		return "", err
	}

	img, err := s.uploads.UploadImage(ctx, storage.BucketProfilePictures, id.String(), fh)
	if err != nil {
		return "", err
	}

	previous, err := s.profiles.SetPicture(ctx, id, img.URL)
	if err != nil {
		s.uploads.Discard(ctx, storage.BucketProfilePictures, []upload.Image{img})
		return "", err
	}
	if previous != "" {
		s.uploads.RemoveURLs(ctx, storage.BucketProfilePictures, previous)
	}
	return img.URL, nil
}

func (s *Service) DeletePicture(ctx context.Context, id uuid.UUID) error {
	previous, err := s.profiles.SetPicture(ctx, id, "")
	if err != nil {
		return err
	}
	if previous == "" {
		return ErrNoPicture
	}
	s.uploads.RemoveURLs(ctx, storage.BucketProfilePictures, previous)
	return nil
}

// MyRoom returns the room rented by the profile.
func (s *Service) MyRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room, err := s.rooms.GetByTenant(ctx, id)
	if errors.Is(err, domain.ErrRoomNotFound) {
		return nil, ErrNoRoom
	}
	return room, err
}

func (s *Service) List(ctx context.Context, search, role string, p pagination.Params) ([]domain.Profile, int64, error) {
	f := repository.ProfileFilter{Search: search, Offset: p.Offset(), Limit: p.Normalize().Limit}
	if role != "" {
		r, err := domain.ParseUserRole(role)
		if err != nil {
			return nil, 0, ErrInvalidRole
		}
		f.Role = r
	}
	return s.profiles.List(ctx, f)
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (s *Service) SetRole(ctx context.Context, id uuid.UUID, role string) (*domain.Profile, error) {
	newRole, err := domain.ParseUserRole(role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	if err := s.users.UpdateRole(ctx, id, newRole); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	s.log.Info("role changed", zap.String("user_id", id.String()), zap.String("role", string(newRole)))
	return s.profiles.GetByID(ctx, id)
}

// Delete removes a user with its profile, frees its room and its picture.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.profiles.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if deleted.ProfilePictureURL != "" {
		s.uploads.RemoveURLs(ctx, storage.BucketProfilePictures, deleted.ProfilePictureURL)
	}
	s.log.Info("account deleted", zap.String("user_id", id.String()))
	return nil
}
