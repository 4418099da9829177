package domain

import "errors"

// Each sentinel belongs to exactly one error kind; the HTTP error handler maps
// kinds to status codes with errors.Is.
var (
	// BadRequest
	ErrValidation = errors.New("validation failed")

	// Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Forbidden
	ErrForbidden = errors.New("access forbidden")

	// NotFound
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")

	// Conflict
	ErrUserExists = errors.New("user already exists")
)
