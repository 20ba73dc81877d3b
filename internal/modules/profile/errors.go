package profile

import (
	"errors"

	"erasmus33/internal/domain"
)

var (
	ErrProfileNotFound = domain.ErrProfileNotFound
	ErrNoRoom          = errors.New("tenant has no room")
	ErrEmptyName       = errors.New("first and last name cannot be empty")
	ErrInvalidRole     = errors.New("invalid role")
	ErrLastAdmin       = domain.ErrLastAdmin
	ErrNoPicture       = errors.New("profile has no picture")
)
