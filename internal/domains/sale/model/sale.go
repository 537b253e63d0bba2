package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Origin tags which channel a sale came through.
// It determines the revenue-split percentages in the commission engine.
type Origin string

const (
	// OriginDirect - sold through the publisher's own channel.
	OriginDirect Origin = "direct"
	// OriginPartner - sold through a third-party reseller.
	OriginPartner Origin = "partner"
)

func (o Origin) IsValid() bool {
	switch o {
	case OriginDirect, OriginPartner:
		return true
	}
	return false
}

func (o Origin) String() string {
	return string(o)
}

// Status is the sale lifecycle status.
// Canceled sales remain visible but never aggregate into commissions or revenue.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Platform is the sales channel a sale was recorded on.
type Platform string

const (
	PlatformAmazon        Platform = "amazon"
	PlatformKobo          Platform = "kobo"
	PlatformGooglePlay    Platform = "google_play"
	PlatformAppleBooks    Platform = "apple_books"
	PlatformPhysical      Platform = "physical"
	PlatformPublisherSite Platform = "publisher_site"
	PlatformOther         Platform = "other"
)

func (p Platform) IsValid() bool {
	switch p {
	case PlatformAmazon, PlatformKobo, PlatformGooglePlay, PlatformAppleBooks,
		PlatformPhysical, PlatformPublisherSite, PlatformOther:
		return true
	}
	return false
}

// Sale is one entry in the sale ledger.
//
// The processed flag and commission back-reference always move together:
// both are set when a commission claims the sale, both are cleared when
// that commission is deleted. Only the commission engine writes them.
type Sale struct {
	ID       uuid.UUID `json:"id" db:"id"`
	BookID   uuid.UUID `json:"book_id" db:"book_id"`
	Platform Platform  `json:"platform" db:"platform"`

	SaleDate  time.Time       `json:"sale_date" db:"sale_date"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`

	Origin Origin `json:"origin" db:"origin"`
	Status Status `json:"status" db:"status"`

	Processed    bool       `json:"processed" db:"processed"`
	CommissionID *uuid.UUID `json:"commission_id" db:"commission_id"`

	CustomerID *uuid.UUID `json:"customer_id" db:"customer_id"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LineTotal is quantity x unit price.
func (s *Sale) LineTotal() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// IsEligibleForCommission reports whether the sale can enter a commission run.
func (s *Sale) IsEligibleForCommission() bool {
	return !s.Processed && s.Status == StatusCompleted
}
