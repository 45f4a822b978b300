package skater

import "errors"

var (
	// ErrValidation means required input was missing or malformed.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("skater not found")
	ErrImageTooLarge      = errors.New("image exceeds upload limit")
	ErrUnsupportedImage   = errors.New("unsupported image")
	// ErrMedia means the photo could not be written to the media store.
	ErrMedia = errors.New("media store failure")
	// ErrStorage wraps every other credential store failure.
	ErrStorage = errors.New("storage failure")
)
