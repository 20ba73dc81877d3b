package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"erasmus33/internal/storage"
)

const DefaultMaxFileSize = 10 * 1024 * 1024

// AllowedMimeTypes defines which image types are accepted
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is an object stored in a bucket.
type Image struct {
	Key string `json:"-"`
	URL string `json:"url"`
}

// FileError reports a file that could not be stored.
type FileError struct {
	Name   string `json:"file"`
	Reason string `json:"error"`
	Err    error  `json:"-"`
}

// Result of a multi-file upload. Uploaded keeps the input order.
type Result struct {
	Uploaded []Image     `json:"uploaded"`
	Failed   []FileError `json:"failed,omitempty"`
}

func (r Result) URLs() []string {
	urls := make([]string, 0, len(r.Uploaded))
	for _, img := range r.Uploaded {
		urls = append(urls, img.URL)
	}
	return urls
}

// FirstError returns the error of the first failed file, if any.
func (r Result) FirstError() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return r.Failed[0].Err
}

// Service uploads images to a storage bucket and removes them again.
// It is shared by houses, rooms and profiles.
type Service struct {
	driver  storage.Driver
	maxSize int64
	log     *zap.Logger
}

func NewService(driver storage.Driver, maxSize int64, log *zap.Logger) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{driver: driver, maxSize: maxSize, log: log}
}

// UploadImages stores files one after the other under prefix. A failing file
// is logged and reported in Result.Failed; the remaining files are still tried.
func (s *Service) UploadImages(ctx context.Context, bucket, prefix string, files []*multipart.FileHeader) Result {
	var res Result
	for _, fh := range files {
		img, err := s.UploadImage(ctx, bucket, prefix, fh)
		if err != nil {
			s.log.Warn("image upload failed",
				zap.String("bucket", bucket), zap.String("file", fh.Filename), zap.Error(err))
			res.Failed = append(res.Failed, FileError{Name: fh.Filename, Reason: err.Error(), Err: err})
			continue
		}
		res.Uploaded = append(res.Uploaded, img)
	}
	return res
}

// UploadImage validates and stores a single file.
func (s *Service) UploadImage(ctx context.Context, bucket, prefix string, fileHeader *multipart.FileHeader) (Image, error) {
	if fileHeader.Size == 0 {
		return Image{}, ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return Image{}, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Image{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Image{}, fmt.Errorf("failed to read file: %w", err)
	}
	if n == 0 {
		return Image{}, ErrEmptyFile
	}
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return Image{}, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return Image{}, fmt.Errorf("failed to rewind file: %w", err)
	}

	key := path.Join(prefix, fmt.Sprintf("%s_%s%s", uuid.NewString(), sanitizeName(fileHeader.Filename), mimeToExt(mimeType)))
	if err := s.driver.Upload(ctx, bucket, key, file, fileHeader.Size, mimeType); err != nil {
		return Image{}, err
	}

	return Image{Key: key, URL: s.driver.PublicURL(bucket, key)}, nil
}

// Discard removes freshly uploaded images whose database update failed.
func (s *Service) Discard(ctx context.Context, bucket string, images []Image) {
	if len(images) == 0 {
		return
	}
	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.Key)
	}
	if err := s.driver.Remove(ctx, bucket, keys...); err != nil {
		s.log.Error("failed to discard orphaned images", zap.String("bucket", bucket), zap.Strings("keys", keys), zap.Error(err))
	}
}

// RemoveURLs removes the objects behind urls. URLs not issued by the driver
// are skipped. Failures are logged, not returned.
func (s *Service) RemoveURLs(ctx context.Context, bucket string, urls ...string) {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if key, ok := s.driver.KeyFromURL(bucket, u); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.driver.Remove(ctx, bucket, keys...); err != nil {
		s.log.Error("failed to remove images", zap.String("bucket", bucket), zap.Strings("keys", keys), zap.Error(err))
	}
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name)) // strip extension (added separately)
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "." || name == "_" {
		return "image"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
