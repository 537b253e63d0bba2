package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book represents the core Book entity.
// A book belongs to one or more authors through the book_authors junction.
type Book struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Title string    `json:"title" db:"title"`
	ISBN  *string   `json:"isbn" db:"isbn"` // unique when present

	// Relationships
	AuthorIDs []uuid.UUID `json:"author_ids"`

	// Pricing
	Price decimal.Decimal `json:"price" db:"price"`

	Description *string    `json:"description" db:"description"`
	PublishDate *time.Time `json:"publish_date" db:"publish_date"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsCoAuthored reports whether the book has more than one author.
// Co-authored books get their commission share divided (see commission domain).
func (b *Book) IsCoAuthored() bool {
	return len(b.AuthorIDs) > 1
}
