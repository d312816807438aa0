package app

import "errors"

var (
	// Upload pipeline.
	ErrUnsupportedType      = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file too large (max 5MB)")
	ErrStorageNotConfigured = errors.New("image storage is not configured")

	// Listings.
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidListing  = errors.New("invalid listing")
	ErrForbidden       = errors.New("forbidden")

	// Auth.
	ErrEmailAndPasswordRequired = errors.New("email and password required")
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
)
