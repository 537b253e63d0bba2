package model

import "errors"

var (
	// Validation errors
	ErrInvalidWindow = errors.New("start_date must not be after end_date")
	ErrInvalidRate   = errors.New("commission rate must be between 0 and 100")
	ErrInvalidAmount = errors.New("commission amount must not be negative")

	// Business rule errors
	ErrCommissionNotFound = errors.New("commission not found")
	ErrAuthorNotFound     = errors.New("author not found")
	ErrAuthorHasNoBooks   = errors.New("author has no books")
	ErrNoSalesInPeriod    = errors.New("no unprocessed sales found for the period")
	ErrAlreadyPaid        = errors.New("commission is already paid")

	// ErrSalesAlreadyClaimed means a concurrent run claimed part of the batch
	// between the locked read and the conditional claim. The transaction is
	// rolled back; the caller may retry.
	ErrSalesAlreadyClaimed = errors.New("one or more sales were claimed by another commission")

	ErrVersionMismatch = errors.New("commission version mismatch - conflict detected")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrCommissionNotFound),
		errors.Is(err, ErrAuthorNotFound),
		errors.Is(err, ErrNoSalesInPeriod):
		return 404
	case errors.Is(err, ErrSalesAlreadyClaimed), errors.Is(err, ErrVersionMismatch):
		return 409
	case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrInvalidRate),
		errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAuthorHasNoBooks),
		errors.Is(err, ErrAlreadyPaid):
		return 400
	default:
		return 500
	}
}

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrCommissionNotFound):
		return "COMMISSION_NOT_FOUND"
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrAuthorHasNoBooks):
		return "AUTHOR_HAS_NO_BOOKS"
	case errors.Is(err, ErrNoSalesInPeriod):
		return "NO_SALES_IN_PERIOD"
	case errors.Is(err, ErrAlreadyPaid):
		return "COMMISSION_ALREADY_PAID"
	case errors.Is(err, ErrSalesAlreadyClaimed):
		return "SALES_ALREADY_CLAIMED"
	case errors.Is(err, ErrVersionMismatch):
		return "VERSION_CONFLICT"
	case errors.Is(err, ErrInvalidWindow):
		return "INVALID_DATE_WINDOW"
	case errors.Is(err, ErrInvalidRate):
		return "INVALID_RATE"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	default:
		return "INTERNAL_ERROR"
	}
}
