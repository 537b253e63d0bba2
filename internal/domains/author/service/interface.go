package service

import (
	"context"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/author/model"
)

// ServiceInterface defines business logic operations for the Author domain.
type ServiceInterface interface {
	// Create creates a new author.
	// Business rules:
	// - Name required, 2-255 chars
	// - Email unique when present
	// - Commission rate within 0-100 (0 means "house default applies")
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)

	// GetByID retrieves an author.
	// Errors: ErrAuthorNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// GetAll retrieves a paginated list.
	// Default limit 20, max 100; default sort created_at DESC.
	GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)

	// Update applies a partial update with optimistic locking.
	// Errors: ErrAuthorNotFound, ErrVersionMismatch, ErrDuplicateEmail.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error)

	// Delete removes an author.
	// Business rule: cannot delete while the author owns books - the
	// commission engine needs the author -> books -> sales chain resolvable.
	// Errors: ErrAuthorNotFound, ErrAuthorHasBooks.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetWithBookCount retrieves an author plus the aggregated book count.
	GetWithBookCount(ctx context.Context, id uuid.UUID) (*model.Author, int, error)
}
