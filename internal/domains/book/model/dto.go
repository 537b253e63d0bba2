package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBookRequest - POST /v1/books
type CreateBookRequest struct {
	Title       string          `json:"title"`
	ISBN        *string         `json:"isbn,omitempty"`
	AuthorIDs   []uuid.UUID     `json:"author_ids"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	PublishDate *time.Time      `json:"publish_date,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.ISBN, validation.Length(10, 17)),
		validation.Field(&r.AuthorIDs, validation.Required, validation.Length(1, 10)),
	)
}

// UpdateBookRequest - PUT /v1/books/:id
// All fields optional; Version required for conflict detection.
type UpdateBookRequest struct {
	Title       *string          `json:"title,omitempty"`
	ISBN        *string          `json:"isbn,omitempty"`
	AuthorIDs   []uuid.UUID      `json:"author_ids,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	PublishDate *time.Time       `json:"publish_date,omitempty"`
	Version     int              `json:"version"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.ISBN, validation.Length(10, 17)),
		validation.Field(&r.AuthorIDs, validation.Length(0, 10)),
	)
}

// BookResponse - book with its author references
type BookResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	ISBN        *string         `json:"isbn,omitempty"`
	AuthorIDs   []uuid.UUID     `json:"author_ids"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	PublishDate *time.Time      `json:"publish_date,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BookListResponse - paginated list
type BookListResponse struct {
	Data       []BookResponse `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
}

// BookFilter - query parameters for listing
type BookFilter struct {
	Search   string     `form:"search"` // partial title match
	AuthorID *uuid.UUID `form:"author_id"`
	SortBy   string     `form:"sort_by"` // title, created_at, publish_date
	Order    string     `form:"order"`
	Limit    int        `form:"limit"`
	Offset   int        `form:"offset"`
}

// Conversion methods

func (b Book) ToResponse() *BookResponse {
	authorIDs := b.AuthorIDs
	if authorIDs == nil {
		authorIDs = []uuid.UUID{}
	}
	return &BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		ISBN:        b.ISBN,
		AuthorIDs:   authorIDs,
		Price:       b.Price,
		Description: b.Description,
		PublishDate: b.PublishDate,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (r *CreateBookRequest) ToEntity() *Book {
	return &Book{
		Title:       r.Title,
		ISBN:        r.ISBN,
		AuthorIDs:   r.AuthorIDs,
		Price:       r.Price,
		Description: r.Description,
		PublishDate: r.PublishDate,
		Version:     0,
	}
}
