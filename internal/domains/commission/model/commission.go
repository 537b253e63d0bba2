package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission is a payable record aggregating an author's share of revenue
// from a batch of sales over a date window.
//
// CalculatedAmount is the engine's original figure and never changes after
// creation. CommissionAmount starts equal to it and is the payable value an
// operator may override. The sale_ids column mirrors the commission_id
// back-references on the claimed sales.
type Commission struct {
	ID       uuid.UUID `json:"id" db:"id"`
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`

	// CommissionRate is the author-share percent snapshotted at creation,
	// applied to the publisher's retention of each sale.
	CommissionRate decimal.Decimal `json:"commission_rate" db:"commission_rate"`

	CalculatedAmount decimal.Decimal `json:"calculated_amount" db:"calculated_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount" db:"commission_amount"`

	TotalSales    decimal.Decimal `json:"total_sales" db:"total_sales"`
	TotalQuantity int             `json:"total_quantity" db:"total_quantity"`

	IsPaid        bool       `json:"is_paid" db:"is_paid"`
	PaymentDate   *time.Time `json:"payment_date" db:"payment_date"`
	PaymentMethod *string    `json:"payment_method" db:"payment_method"`
	Notes         *string    `json:"notes" db:"notes"`

	SaleIDs []uuid.UUID `json:"sale_ids" db:"sale_ids"`

	DividedDetails  []DividedDetail  `json:"divided_details" db:"divided_details"`
	IntegralDetails []IntegralDetail `json:"integral_details" db:"integral_details"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DividedDetail is the audit breakdown for a co-authored book: the rate is
// split evenly across the book's authors. It never changes the aggregate.
type DividedDetail struct {
	BookID         uuid.UUID       `json:"book_id"`
	BookTitle      string          `json:"book_title"`
	CoAuthors      []string        `json:"co_authors"`
	OriginalRate   decimal.Decimal `json:"original_rate"`
	DividedRate    decimal.Decimal `json:"divided_rate"`
	BookCommission decimal.Decimal `json:"book_commission"`
}

// IntegralDetail is the audit breakdown for a single-author book.
type IntegralDetail struct {
	BookID         uuid.UUID       `json:"book_id"`
	BookTitle      string          `json:"book_title"`
	Rate           decimal.Decimal `json:"rate"`
	BookCommission decimal.Decimal `json:"book_commission"`
}
