package room

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"erasmus33/internal/domain"
	"erasmus33/internal/domain/upload"
	"erasmus33/internal/repository"
)

type RoomRepositoryInterface interface {
	Create(ctx context.Context, r *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	List(ctx context.Context, f repository.RoomFilter) ([]domain.Room, int64, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.Room, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	AssignTenant(ctx context.Context, roomID, profileID uuid.UUID) (*domain.Room, error)
	VacateTenant(ctx context.Context, roomID uuid.UUID) (*domain.Room, error)
	AppendImages(ctx context.Context, id uuid.UUID, urls []string, max int) (*domain.Room, error)
	RemoveImage(ctx context.Context, id uuid.UUID, url string) (*domain.Room, error)
	ImageCount(ctx context.Context, id uuid.UUID) (int, error)
}

type ImageUploader interface {
	UploadImages(ctx context.Context, bucket, prefix string, files []*multipart.FileHeader) upload.Result
	Discard(ctx context.Context, bucket string, images []upload.Image)
	RemoveURLs(ctx context.Context, bucket string, urls ...string)
}
