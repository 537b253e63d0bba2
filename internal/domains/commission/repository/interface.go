package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"publisher-backend/internal/domains/commission/model"
	salemodel "publisher-backend/internal/domains/sale/model"
)

// BookInfo is the book metadata the calculator needs for its per-book
// breakdown: the title and every author name on the book.
type BookInfo struct {
	Title       string
	AuthorNames []string
}

// RepositoryInterface defines commission data access operations.
//
// Creation and deletion take a caller-owned transaction because they must
// commit atomically with the claim/release writes on the sale ledger.
type RepositoryInterface interface {
	// CreateWithTx inserts a commission inside the caller's transaction.
	CreateWithTx(ctx context.Context, tx pgx.Tx, commission *model.Commission) (*model.Commission, error)

	// GetByID retrieves one commission.
	// Errors: ErrCommissionNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Commission, error)

	// GetByIDWithTx reads a commission inside a transaction, locking the row.
	// Errors: ErrCommissionNotFound.
	GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Commission, error)

	// GetAll lists every commission, newest first.
	GetAll(ctx context.Context) ([]model.Commission, error)

	// GetByPaidStatus lists commissions filtered on is_paid, newest first,
	// along with the sum of their payable amounts.
	GetByPaidStatus(ctx context.Context, paid bool) ([]model.Commission, decimal.Decimal, error)

	// Update persists an amount/rate/notes override with optimistic locking.
	// Errors: ErrCommissionNotFound, ErrVersionMismatch.
	Update(ctx context.Context, commission *model.Commission, currentVersion int) (*model.Commission, error)

	// MarkPaid flips an unpaid commission to paid, stamping payment_date.
	// Errors: ErrCommissionNotFound, ErrAlreadyPaid.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentMethod, notes *string) (*model.Commission, error)

	// DeleteWithTx removes a commission inside the caller's transaction.
	// Errors: ErrCommissionNotFound.
	DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error

	// GetSales returns the sales a commission consumed, with book titles.
	GetSales(ctx context.Context, commissionID uuid.UUID) ([]salemodel.SaleWithBook, error)

	// GetBookInfoWithTx loads title and author names for a set of books,
	// inside the commission-creation transaction.
	GetBookInfoWithTx(ctx context.Context, tx pgx.Tx, bookIDs []uuid.UUID) (map[uuid.UUID]BookInfo, error)
}
