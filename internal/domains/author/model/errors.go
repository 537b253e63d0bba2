package model

import "errors"

var (
	// Validation errors
	ErrInvalidName = errors.New("author name is invalid")
	ErrInvalidRate = errors.New("commission rate must be between 0 and 100")

	// Business rule errors
	ErrAuthorNotFound  = errors.New("author not found")
	ErrDuplicateEmail  = errors.New("author with this email already exists")
	ErrAuthorHasBooks  = errors.New("cannot delete author with linked books")
	ErrVersionMismatch = errors.New("author version mismatch - conflict detected")
)

// ToHTTPStatus converts an error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return 404
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrVersionMismatch), errors.Is(err, ErrAuthorHasBooks):
		return 409
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidRate):
		return 400
	default:
		return 500
	}
}

// ToErrorCode converts an error to an API error code.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrDuplicateEmail):
		return "DUPLICATE_EMAIL"
	case errors.Is(err, ErrAuthorHasBooks):
		return "AUTHOR_HAS_BOOKS"
	case errors.Is(err, ErrVersionMismatch):
		return "VERSION_CONFLICT"
	case errors.Is(err, ErrInvalidName):
		return "INVALID_NAME"
	case errors.Is(err, ErrInvalidRate):
		return "INVALID_RATE"
	default:
		return "INTERNAL_ERROR"
	}
}
