package upload

import (
	"errors"
	"net/http"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrEmptyFile       = errors.New("file is empty")
	ErrNoFiles         = errors.New("no files provided")
)

// HTTPError maps upload errors to a status and error code for handlers.
func HTTPError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", true
	case errors.Is(err, ErrInvalidMimeType):
		return http.StatusUnsupportedMediaType, "INVALID_FILE_TYPE", true
	case errors.Is(err, ErrEmptyFile):
		return http.StatusBadRequest, "EMPTY_FILE", true
	case errors.Is(err, ErrNoFiles):
		return http.StatusBadRequest, "NO_FILES", true
	}
	return 0, "", false
}
