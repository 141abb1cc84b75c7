package domain

import "errors"

// Sentinel errors for profile operations.
var (
	// ErrProfileNotFound indicates the requested profile does not exist.
	// HTTP Status: 404 Not Found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileExists indicates a profile already exists for the owner.
	// HTTP Status: 409 Conflict
	ErrProfileExists = errors.New("profile already exists")

	// ErrUnauthorized indicates the caller may not perform the operation.
	// HTTP Status: 403 Forbidden
	ErrUnauthorized = errors.New("unauthorized access")
)
