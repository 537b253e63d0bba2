package service

import (
	"context"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/book/model"
)

// ServiceInterface defines business logic operations for the Book domain.
type ServiceInterface interface {
	// Create creates a new book.
	// Business rules: title required, price >= 0, at least one valid author.
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)

	// GetByID retrieves a book with its author references.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// GetAll retrieves a paginated list with filtering by title/author.
	GetAll(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error)

	// Update applies a partial update with optimistic locking.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error)

	// Delete removes a book.
	// Business rule: cannot delete while the book has recorded sales.
	Delete(ctx context.Context, id uuid.UUID) error
}
