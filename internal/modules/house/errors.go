package house

import (
	"errors"

	"erasmus33/internal/domain"
)

var (
	ErrHouseNotFound        = domain.ErrHouseNotFound
	ErrDuplicateHouseNumber = domain.ErrDuplicateHouseNumber
	ErrTooManyImages        = domain.ErrImageLimitExceeded
	ErrImageNotFound        = domain.ErrImageNotFound
	ErrBlankField           = errors.New("street and city cannot be blank")
)
