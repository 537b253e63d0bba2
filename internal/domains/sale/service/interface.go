package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/sale/model"
)

// ServiceInterface defines Sale Ledger business logic operations.
type ServiceInterface interface {
	// Create records a sale. Resolves the optional customer reference,
	// creating the customer on the fly when only name/email are given.
	Create(ctx context.Context, req *model.CreateSaleRequest) (*model.Sale, error)

	// BulkCreate imports a batch of sales, reporting per-row failures
	// instead of aborting the whole batch.
	BulkCreate(ctx context.Context, req *model.BulkCreateRequest) (*model.BulkCreateResponse, error)

	// GetByID retrieves one sale.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// GetAll lists sales with filtering and pagination.
	GetAll(ctx context.Context, filter model.SaleFilter) ([]model.SaleWithBook, int64, error)

	// Update edits an unprocessed sale with optimistic locking.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateSaleRequest) (*model.Sale, error)

	// Delete removes an unprocessed sale.
	Delete(ctx context.Context, id uuid.UUID) error

	// Cancel flips an unprocessed sale to canceled, dropping it from all
	// revenue and commission aggregation while keeping it visible.
	Cancel(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// GetRevenueSummary aggregates completed sales over an optional window.
	GetRevenueSummary(ctx context.Context, start, end *time.Time) (*model.RevenueSummary, error)
}
