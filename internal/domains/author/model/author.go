package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Author represents the core Author entity.
// Domain model, independent of database/API concerns.
type Author struct {
	ID uuid.UUID `json:"id" db:"id"`

	Name  string  `json:"name" db:"name"`
	Email *string `json:"email" db:"email"` // unique when present

	// CommissionRate is the author's share of the publisher retention,
	// in percent (0-100). Zero means "use the house default".
	CommissionRate decimal.Decimal `json:"commission_rate" db:"commission_rate"`

	Bio *string `json:"bio" db:"bio"`

	// Versioning for optimistic locking, incremented on each update
	Version int `json:"version" db:"version"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasOwnRate reports whether the author carries an explicit commission rate.
func (a *Author) HasOwnRate() bool {
	return a.CommissionRate.IsPositive()
}
