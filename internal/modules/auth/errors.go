package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmptyName          = errors.New("first and last name cannot be empty")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)
