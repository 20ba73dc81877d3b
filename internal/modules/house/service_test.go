package house

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"erasmus33/internal/domain"
	"erasmus33/internal/domain/upload"
	"erasmus33/internal/repository"
	"erasmus33/internal/storage"
)

type mockHouseRepo struct {
	mock.Mock
}

func (m *mockHouseRepo) Create(ctx context.Context, h *domain.House) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockHouseRepo) GetByID(ctx context.Context, id uuid.UUID, withRooms bool) (*domain.House, error) {
	args := m.Called(ctx, id, withRooms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *mockHouseRepo) List(ctx context.Context, f repository.HouseFilter) ([]domain.House, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.House), args.Get(1).(int64), args.Error(2)
}

func (m *mockHouseRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*domain.House, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *mockHouseRepo) Delete(ctx context.Context, id uuid.UUID) ([]string, []string, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]string), args.Get(1).([]string), args.Error(2)
}

func (m *mockHouseRepo) AppendImages(ctx context.Context, id uuid.UUID, urls []string, max int) (*domain.House, error) {
	args := m.Called(ctx, id, urls, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *mockHouseRepo) RemoveImage(ctx context.Context, id uuid.UUID, url string) (*domain.House, error) {
	args := m.Called(ctx, id, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *mockHouseRepo) ImageCount(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) UploadImages(ctx context.Context, bucket, prefix string, files []*multipart.FileHeader) upload.Result {
	return m.Called(ctx, bucket, prefix, files).Get(0).(upload.Result)
}

func (m *mockUploader) Discard(ctx context.Context, bucket string, images []upload.Image) {
	m.Called(ctx, bucket, images)
}

func (m *mockUploader) RemoveURLs(ctx context.Context, bucket string, urls ...string) {
	m.Called(ctx, bucket, urls)
}

func TestService_AddImages_DiscardsOnDatabaseFailure(t *testing.T) {
	repo := new(mockHouseRepo)
	uploader := new(mockUploader)
	id := uuid.New()
	files := []*multipart.FileHeader{{Filename: "a.png", Size: 10}}
	uploaded := []upload.Image{{Key: id.String() + "/a.png", URL: "/static/uploads/house_images/" + id.String() + "/a.png"}}

	repo.On("ImageCount", mock.Anything, id).Return(0, nil)
	uploader.On("UploadImages", mock.Anything, storage.BucketHouseImages, id.String(), files).
		Return(upload.Result{Uploaded: uploaded})
	repo.On("AppendImages", mock.Anything, id, []string{uploaded[0].URL}, 5).
		Return(nil, errors.New("db down"))
	uploader.On("Discard", mock.Anything, storage.BucketHouseImages, uploaded).Return()

	svc := NewService(repo, uploader, 5, nil)
	_, _, err := svc.AddImages(context.Background(), id, files)

	assert.EqualError(t, err, "db down")
	uploader.AssertExpectations(t)
}

func TestService_AddImages_LimitCheckedBeforeUpload(t *testing.T) {
	repo := new(mockHouseRepo)
	uploader := new(mockUploader)
	id := uuid.New()

	repo.On("ImageCount", mock.Anything, id).Return(4, nil)

	svc := NewService(repo, uploader, 5, nil)
	_, _, err := svc.AddImages(context.Background(), id, make([]*multipart.FileHeader, 2))

	assert.ErrorIs(t, err, ErrTooManyImages)
	uploader.AssertNotCalled(t, "UploadImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_AddImages_AllFailed(t *testing.T) {
	repo := new(mockHouseRepo)
	uploader := new(mockUploader)
	id := uuid.New()
	files := []*multipart.FileHeader{{Filename: "a.txt", Size: 10}}

	repo.On("ImageCount", mock.Anything, id).Return(0, nil)
	uploader.On("UploadImages", mock.Anything, storage.BucketHouseImages, id.String(), files).
		Return(upload.Result{Failed: []upload.FileError{{Name: "a.txt", Err: upload.ErrInvalidMimeType}}})

	svc := NewService(repo, uploader, 0, nil)
	_, res, err := svc.AddImages(context.Background(), id, files)

	assert.ErrorIs(t, err, upload.ErrInvalidMimeType)
	assert.Len(t, res.Failed, 1)
	repo.AssertNotCalled(t, "AppendImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Delete_RemovesImages(t *testing.T) {
	repo := new(mockHouseRepo)
	uploader := new(mockUploader)
	id := uuid.New()

	repo.On("Delete", mock.Anything, id).Return([]string{"h1"}, []string{"r1", "r2"}, nil)
	uploader.On("RemoveURLs", mock.Anything, storage.BucketHouseImages, []string{"h1"}).Return()
	uploader.On("RemoveURLs", mock.Anything, storage.BucketRoomImages, []string{"r1", "r2"}).Return()

	svc := NewService(repo, uploader, 0, nil)
	require.NoError(t, svc.Delete(context.Background(), id))
	uploader.AssertExpectations(t)
}

func TestService_Update_BuildsFields(t *testing.T) {
	repo := new(mockHouseRepo)
	id := uuid.New()
	number := 12
	city := "  Porto "

	repo.On("Update", mock.Anything, id, map[string]any{"house_number": 12, "city": "Porto"}).
		Return(&domain.House{ID: id, HouseNumber: 12, City: "Porto"}, nil)

	svc := NewService(repo, new(mockUploader), 0, nil)
	h, err := svc.Update(context.Background(), id, UpdateHouseRequest{HouseNumber: &number, City: &city})
	require.NoError(t, err)
	assert.Equal(t, 12, h.HouseNumber)

	blank := " "
	_, err = svc.Update(context.Background(), id, UpdateHouseRequest{Street: &blank})
	assert.ErrorIs(t, err, ErrBlankField)
}
