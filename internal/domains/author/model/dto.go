package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAuthorRequest - POST /v1/authors
type CreateAuthorRequest struct {
	Name           string          `json:"name"`
	Email          *string         `json:"email,omitempty"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Bio            *string         `json:"bio,omitempty"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Bio, validation.Length(0, 5000)),
	)
}

// UpdateAuthorRequest - PUT /v1/authors/:id
// All fields optional for partial updates; Version required for conflict detection.
type UpdateAuthorRequest struct {
	Name           *string          `json:"name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	Bio            *string          `json:"bio,omitempty"`
	Version        int              `json:"version"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(2, 255)),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Bio, validation.Length(0, 5000)),
	)
}

// AuthorResponse - basic author information
type AuthorResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Email          *string         `json:"email,omitempty"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Bio            *string         `json:"bio,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AuthorDetailResponse - author with aggregated book count
type AuthorDetailResponse struct {
	AuthorResponse
	BookCount int `json:"book_count"`
}

// AuthorListResponse - paginated list
type AuthorListResponse struct {
	Data       []AuthorResponse `json:"data"`
	Pagination PaginationMeta   `json:"pagination"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// AuthorFilter - query parameters for listing
type AuthorFilter struct {
	Search string `form:"search"`
	SortBy string `form:"sort_by"` // name, created_at, updated_at
	Order  string `form:"order"`   // asc, desc
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// Conversion methods

func (a Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		CommissionRate: a.CommissionRate,
		Bio:            a.Bio,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (a *Author) ToDetailResponse(bookCount int) *AuthorDetailResponse {
	return &AuthorDetailResponse{
		AuthorResponse: *a.ToResponse(),
		BookCount:      bookCount,
	}
}

func (r *CreateAuthorRequest) ToEntity() *Author {
	return &Author{
		Name:           r.Name,
		Email:          r.Email,
		CommissionRate: r.CommissionRate,
		Bio:            r.Bio,
		Version:        0,
	}
}
