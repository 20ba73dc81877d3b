package domain

import "errors"

// Lookup and integrity errors shared by repositories and services.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrHouseNotFound   = errors.New("house not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrImageNotFound   = errors.New("image not found")

	ErrEmailTaken           = errors.New("email already registered")
	ErrDuplicateHouseNumber = errors.New("house number already exists")
	ErrDuplicateRoomNumber  = errors.New("room number already exists in this house")
	ErrImageLimitExceeded   = errors.New("image limit exceeded")
	ErrRoomOccupied         = errors.New("room already has a tenant")
	ErrLastAdmin            = errors.New("cannot remove the last admin")
)
