package repository

import (
	"context"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/author/model"
)

// RepositoryInterface defines Author data access operations.
// Abstraction allows mocking in tests and swapping implementations.
type RepositoryInterface interface {
	// Create inserts a new author.
	// Errors: ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, author *model.Author) (*model.Author, error)

	// GetByID retrieves an author by UUID.
	// Errors: ErrAuthorNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// GetAll retrieves a paginated list with filtering and sorting.
	GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)

	// Update updates an author with optimistic locking.
	// Errors: ErrVersionMismatch on conflict, ErrAuthorNotFound.
	Update(ctx context.Context, author *model.Author, currentVersion int) (*model.Author, error)

	// Delete removes an author.
	// Errors: ErrAuthorNotFound, ErrAuthorHasBooks (FK violation).
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks existence without fetching the row.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// GetBookCount returns the number of books linked to the author.
	GetBookCount(ctx context.Context, authorID uuid.UUID) (int, error)
}
