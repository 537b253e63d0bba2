package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	salemodel "publisher-backend/internal/domains/sale/model"
)

// CreateCommissionRequest - POST /v1/commissions
type CreateCommissionRequest struct {
	AuthorID  uuid.UUID `json:"author_id"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	EndDate   string    `json:"end_date"`   // YYYY-MM-DD
}

func (r CreateCommissionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AuthorID, validation.Required),
		validation.Field(&r.StartDate, validation.Required, validation.Date(salemodel.DateLayout)),
		validation.Field(&r.EndDate, validation.Required, validation.Date(salemodel.DateLayout)),
	)
}

// UpdateCommissionRequest - PUT /v1/commissions/:id
// Overrides the payable amount, rate snapshot or notes. The engine's
// calculated_amount and the sale linkage are never touched here.
type UpdateCommissionRequest struct {
	CommissionAmount *decimal.Decimal `json:"commission_amount,omitempty"`
	CommissionRate   *decimal.Decimal `json:"commission_rate,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	Version          int              `json:"version"`
}

// PayCommissionRequest - PUT /v1/commissions/:id/payCommission
type PayCommissionRequest struct {
	PaymentMethod *string `json:"payment_method,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

func (r PayCommissionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PaymentMethod, validation.Length(0, 100)),
	)
}

// CommissionDetailResponse - GET /v1/commissions/:id, with the consumed
// sales populated alongside their book titles.
type CommissionDetailResponse struct {
	Commission
	AuthorName string                   `json:"author_name"`
	Sales      []salemodel.SaleResponse `json:"sales"`
}

// CommissionListResponse wraps a listing with the payable sum, used by the
// pending and paid views.
type CommissionListResponse struct {
	Data        []Commission    `json:"data"`
	Total       int64           `json:"total"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
