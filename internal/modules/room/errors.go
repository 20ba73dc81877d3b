package room

import (
	"errors"

	"erasmus33/internal/domain"
)

var (
	ErrRoomNotFound        = domain.ErrRoomNotFound
	ErrHouseNotFound       = domain.ErrHouseNotFound
	ErrProfileNotFound     = domain.ErrProfileNotFound
	ErrDuplicateRoomNumber = domain.ErrDuplicateRoomNumber
	ErrRoomOccupied        = domain.ErrRoomOccupied
	ErrTooManyImages       = domain.ErrImageLimitExceeded
	ErrImageNotFound       = domain.ErrImageNotFound
	ErrInvalidPriceRange   = errors.New("min_price is greater than max_price")
)
