package model

import "errors"

var (
	// Validation errors
	ErrInvalidTitle  = errors.New("book title is invalid")
	ErrInvalidPrice  = errors.New("book price must not be negative")
	ErrNoAuthors     = errors.New("book must have at least one author")
	ErrAuthorUnknown = errors.New("referenced author does not exist")

	// Business rule errors
	ErrBookNotFound    = errors.New("book not found")
	ErrDuplicateISBN   = errors.New("book with this ISBN already exists")
	ErrBookHasSales    = errors.New("cannot delete book with recorded sales")
	ErrVersionMismatch = errors.New("book version mismatch - conflict detected")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return 404
	case errors.Is(err, ErrDuplicateISBN), errors.Is(err, ErrBookHasSales), errors.Is(err, ErrVersionMismatch):
		return 409
	case errors.Is(err, ErrInvalidTitle), errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrNoAuthors), errors.Is(err, ErrAuthorUnknown):
		return 400
	default:
		return 500
	}
}

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrDuplicateISBN):
		return "DUPLICATE_ISBN"
	case errors.Is(err, ErrBookHasSales):
		return "BOOK_HAS_SALES"
	case errors.Is(err, ErrVersionMismatch):
		return "VERSION_CONFLICT"
	case errors.Is(err, ErrNoAuthors):
		return "NO_AUTHORS"
	case errors.Is(err, ErrAuthorUnknown):
		return "AUTHOR_UNKNOWN"
	case errors.Is(err, ErrInvalidTitle):
		return "INVALID_TITLE"
	case errors.Is(err, ErrInvalidPrice):
		return "INVALID_PRICE"
	default:
		return "INTERNAL_ERROR"
	}
}
