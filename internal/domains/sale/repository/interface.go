package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"publisher-backend/internal/domains/sale/model"
)

// RepositoryInterface defines Sale Ledger data access operations.
//
// The ...WithTx methods operate on the ledger's processed/commission columns
// inside a caller-owned transaction. They exist for the commission engine:
// claiming and releasing sales must happen atomically with the commission
// record itself.
type RepositoryInterface interface {
	// Create inserts a new sale.
	// Errors: ErrBookUnknown (FK violation).
	Create(ctx context.Context, sale *model.Sale) (*model.Sale, error)

	// GetByID retrieves one sale.
	// Errors: ErrSaleNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// GetAll lists sales (joined with book titles) with filtering.
	GetAll(ctx context.Context, filter model.SaleFilter) ([]model.SaleWithBook, int64, error)

	// Update updates an unprocessed sale with optimistic locking.
	// The processed guard is enforced in the WHERE clause as well as the
	// service layer, so a concurrent claim can never race an edit.
	// Errors: ErrSaleNotFound, ErrVersionMismatch, ErrSaleProcessed.
	Update(ctx context.Context, sale *model.Sale, currentVersion int) (*model.Sale, error)

	// Delete removes an unprocessed sale.
	// Errors: ErrSaleNotFound, ErrSaleProcessed.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetStatus flips the lifecycle status (completed/canceled).
	// Errors: ErrSaleNotFound, ErrSaleProcessed.
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Sale, error)

	// GetRevenueSummary aggregates completed sales over an optional window.
	GetRevenueSummary(ctx context.Context, start, end *time.Time) (*model.RevenueSummary, error)

	// GetEligibleForUpdateWithTx locks and returns the sales a commission run
	// may consume: the author's books, sale date within [start, end],
	// processed = false, status = completed. Rows are locked FOR UPDATE so
	// concurrent runs for the same author serialize.
	GetEligibleForUpdateWithTx(ctx context.Context, tx pgx.Tx, authorID uuid.UUID, start, end time.Time) ([]model.Sale, error)

	// ClaimWithTx marks the given sales processed and links them to the
	// commission, but only where processed is still false. Returns the number
	// of rows actually claimed; the caller must verify it equals len(saleIDs).
	ClaimWithTx(ctx context.Context, tx pgx.Tx, commissionID uuid.UUID, saleIDs []uuid.UUID) (int64, error)

	// ReleaseByCommissionWithTx resets processed and clears the commission
	// back-reference for every sale the commission had claimed.
	ReleaseByCommissionWithTx(ctx context.Context, tx pgx.Tx, commissionID uuid.UUID) (int64, error)
}
