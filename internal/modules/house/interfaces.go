package house

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"erasmus33/internal/domain"
	"erasmus33/internal/domain/upload"
	"erasmus33/internal/repository"
)

type HouseRepositoryInterface interface {
	Create(ctx context.Context, h *domain.House) error
	GetByID(ctx context.Context, id uuid.UUID, withRooms bool) (*domain.House, error)
	List(ctx context.Context, f repository.HouseFilter) ([]domain.House, int64, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.House, error)
	Delete(ctx context.Context, id uuid.UUID) (houseImages, roomImages []string, err error)
	AppendImages(ctx context.Context, id uuid.UUID, urls []string, max int) (*domain.House, error)
	RemoveImage(ctx context.Context, id uuid.UUID, url string) (*domain.House, error)
	ImageCount(ctx context.Context, id uuid.UUID) (int, error)
}

type ImageUploader interface {
	UploadImages(ctx context.Context, bucket, prefix string, files []*multipart.FileHeader) upload.Result
	Discard(ctx context.Context, bucket string, images []upload.Image)
	RemoveURLs(ctx context.Context, bucket string, urls ...string)
}
