package model

import "errors"

var (
	// Validation errors
	ErrInvalidQuantity  = errors.New("sale quantity must be at least 1")
	ErrInvalidUnitPrice = errors.New("sale unit price must not be negative")
	ErrInvalidOrigin    = errors.New("sale origin must be direct or partner")
	ErrInvalidPlatform  = errors.New("sale platform is not a known channel")
	ErrInvalidStatus    = errors.New("sale status must be completed or canceled")

	// Business rule errors
	ErrSaleNotFound    = errors.New("sale not found")
	ErrSaleProcessed   = errors.New("sale is linked to a commission and cannot be modified")
	ErrSaleCanceled    = errors.New("sale is already canceled")
	ErrBookUnknown     = errors.New("referenced book does not exist")
	ErrCustomerUnknown = errors.New("referenced customer does not exist")
	ErrVersionMismatch = errors.New("sale version mismatch - conflict detected")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSaleNotFound):
		return 404
	case errors.Is(err, ErrVersionMismatch):
		return 409
	case errors.Is(err, ErrSaleProcessed), errors.Is(err, ErrSaleCanceled),
		errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidUnitPrice),
		errors.Is(err, ErrInvalidOrigin), errors.Is(err, ErrInvalidPlatform),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrBookUnknown),
		errors.Is(err, ErrCustomerUnknown):
		return 400
	default:
		return 500
	}
}

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrSaleNotFound):
		return "SALE_NOT_FOUND"
	case errors.Is(err, ErrSaleProcessed):
		return "SALE_PROCESSED"
	case errors.Is(err, ErrSaleCanceled):
		return "SALE_CANCELED"
	case errors.Is(err, ErrBookUnknown):
		return "BOOK_UNKNOWN"
	case errors.Is(err, ErrCustomerUnknown):
		return "CUSTOMER_UNKNOWN"
	case errors.Is(err, ErrVersionMismatch):
		return "VERSION_CONFLICT"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrInvalidUnitPrice):
		return "INVALID_UNIT_PRICE"
	case errors.Is(err, ErrInvalidOrigin):
		return "INVALID_ORIGIN"
	case errors.Is(err, ErrInvalidPlatform):
		return "INVALID_PLATFORM"
	case errors.Is(err, ErrInvalidStatus):
		return "INVALID_STATUS"
	default:
		return "INTERNAL_ERROR"
	}
}
