package repository

import (
	"context"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/customer/model"
)

// RepositoryInterface defines Customer data access operations.
type RepositoryInterface interface {
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	GetAll(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
