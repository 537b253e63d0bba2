package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

// CreateSaleRequest - POST /v1/sales
// CustomerName/CustomerEmail optionally backfill a customer record.
type CreateSaleRequest struct {
	BookID    uuid.UUID       `json:"book_id"`
	Platform  Platform        `json:"platform"`
	SaleDate  string          `json:"sale_date"` // YYYY-MM-DD
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Origin    Origin          `json:"origin"`

	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
}

func (r CreateSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required),
		validation.Field(&r.SaleDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.Origin, validation.Required),
		validation.Field(&r.CustomerEmail, is.Email),
	)
}

// UpdateSaleRequest - PUT /v1/sales/:id
// Only unprocessed sales may be edited; Version required for conflict detection.
type UpdateSaleRequest struct {
	BookID    *uuid.UUID       `json:"book_id,omitempty"`
	Platform  *Platform        `json:"platform,omitempty"`
	SaleDate  *string          `json:"sale_date,omitempty"`
	Quantity  *int             `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Origin    *Origin          `json:"origin,omitempty"`
	Version   int              `json:"version"`
}

func (r UpdateSaleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SaleDate, validation.Date(DateLayout)),
		validation.Field(&r.Quantity, validation.Min(1)),
	)
}

// BulkCreateRequest - POST /v1/sales/bulk
// The JSON-batch import path; file parsing happens client-side.
type BulkCreateRequest struct {
	Sales []CreateSaleRequest `json:"sales"`
}

func (r BulkCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Sales, validation.Required, validation.Length(1, 1000)),
	)
}

// BulkCreateResponse reports per-row outcomes for a batch.
type BulkCreateResponse struct {
	CreatedCount int         `json:"created_count"`
	FailedCount  int         `json:"failed_count"`
	Errors       []BulkError `json:"errors,omitempty"`
}

type BulkError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// SaleFilter - query parameters for listing
type SaleFilter struct {
	BookID    *uuid.UUID
	AuthorID  *uuid.UUID
	Origin    *Origin
	Status    *Status
	Processed *bool
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// SaleWithBook is a ledger row joined with its book title.
type SaleWithBook struct {
	Sale
	BookTitle string `json:"book_title"`
}

// SaleResponse mirrors the entity plus the book title for listings.
type SaleResponse struct {
	Sale
	BookTitle string          `json:"book_title,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func (s Sale) ToResponse(bookTitle string) *SaleResponse {
	return &SaleResponse{
		Sale:      s,
		BookTitle: bookTitle,
		LineTotal: s.LineTotal(),
	}
}

// RevenueSummary aggregates completed sales over a window, split by origin.
// Percentages match the commission engine's split constants.
type RevenueSummary struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalQuantity int             `json:"total_quantity"`
	SaleCount     int             `json:"sale_count"`

	Direct  OriginRevenue `json:"direct"`
	Partner OriginRevenue `json:"partner"`
}

type OriginRevenue struct {
	SaleCount        int             `json:"sale_count"`
	Quantity         int             `json:"quantity"`
	GrossSales       decimal.Decimal `json:"gross_sales"`
	PublisherRetains decimal.Decimal `json:"publisher_retains"`
}
