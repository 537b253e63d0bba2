package repository

import (
	"context"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/book/model"
)

// RepositoryInterface defines Book data access operations.
type RepositoryInterface interface {
	// Create inserts the book and its book_authors junction rows in one transaction.
	// Errors: ErrDuplicateISBN, ErrAuthorUnknown (junction FK).
	Create(ctx context.Context, book *model.Book) (*model.Book, error)

	// GetByID retrieves a book with its author ids.
	// Errors: ErrBookNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// GetAll retrieves a paginated list with filtering.
	GetAll(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error)

	// Update updates the book with optimistic locking.
	// When authorIDs is non-nil the junction rows are replaced in the same transaction.
	// Errors: ErrVersionMismatch, ErrBookNotFound, ErrDuplicateISBN, ErrAuthorUnknown.
	Update(ctx context.Context, book *model.Book, currentVersion int, replaceAuthors bool) (*model.Book, error)

	// Delete removes a book.
	// Errors: ErrBookNotFound, ErrBookHasSales (FK violation from sales).
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks existence without fetching the row.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// GetSaleCount returns the number of sales recorded for the book.
	GetSaleCount(ctx context.Context, bookID uuid.UUID) (int, error)
}
