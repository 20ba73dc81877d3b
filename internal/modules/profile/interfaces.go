package profile

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"erasmus33/internal/domain"
	"erasmus33/internal/domain/upload"
	"erasmus33/internal/repository"
)

type ProfileRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context, f repository.ProfileFilter) ([]domain.Profile, int64, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Profile, error)
	SetPicture(ctx context.Context, id uuid.UUID, url string) (string, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

type UserRepositoryInterface interface {
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) error
}

type RoomReader interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Room, error)
}

type ImageUploader interface {
	UploadImage(ctx context.Context, bucket, prefix string, fh *multipart.FileHeader) (upload.Image, error)
	Discard(ctx context.Context, bucket string, images []upload.Image)
	RemoveURLs(ctx context.Context, bucket string, urls ...string)
}
