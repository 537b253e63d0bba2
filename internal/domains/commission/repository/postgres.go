package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"publisher-backend/internal/domains/commission/model"
	salemodel "publisher-backend/internal/domains/sale/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const commissionColumns = `id, author_id, start_date, end_date, commission_rate,
    calculated_amount, commission_amount, total_sales, total_quantity,
    is_paid, payment_date, payment_method, notes,
    sale_ids, divided_details, integral_details,
    version, created_at, updated_at`

func scanCommission(row pgx.Row) (*model.Commission, error) {
	var c model.Commission
	err := row.Scan(
		&c.ID, &c.AuthorID, &c.StartDate, &c.EndDate, &c.CommissionRate,
		&c.CalculatedAmount, &c.CommissionAmount, &c.TotalSales, &c.TotalQuantity,
		&c.IsPaid, &c.PaymentDate, &c.PaymentMethod, &c.Notes,
		&c.SaleIDs, &c.DividedDetails, &c.IntegralDetails,
		&c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, c *model.Commission) (*model.Commission, error) {
	query := `
        INSERT INTO commissions (
            author_id, start_date, end_date, commission_rate,
            calculated_amount, commission_amount, total_sales, total_quantity,
            is_paid, sale_ids, divided_details, integral_details, version
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $10, $11, 0)
        RETURNING ` + commissionColumns

	created, err := scanCommission(tx.QueryRow(ctx, query,
		c.AuthorID, c.StartDate, c.EndDate, c.CommissionRate,
		c.CalculatedAmount, c.CommissionAmount, c.TotalSales, c.TotalQuantity,
		c.SaleIDs, c.DividedDetails, c.IntegralDetails,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create commission: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE id = $1`

	c, err := scanCommission(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommissionNotFound
		}
		return nil, fmt.Errorf("failed to get commission by id: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE id = $1 FOR UPDATE`

	c, err := scanCommission(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommissionNotFound
		}
		return nil, fmt.Errorf("failed to get commission by id: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) GetAll(ctx context.Context) ([]model.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query commissions: %w", err)
	}
	defer rows.Close()

	return collectCommissions(rows)
}

func (r *postgresRepository) GetByPaidStatus(ctx context.Context, paid bool) ([]model.Commission, decimal.Decimal, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE is_paid = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, paid)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to query commissions: %w", err)
	}
	defer rows.Close()

	commissions, err := collectCommissions(rows)
	if err != nil {
		return nil, decimal.Zero, err
	}

	sum := decimal.Zero
	for i := range commissions {
		sum = sum.Add(commissions[i].CommissionAmount)
	}
	return commissions, sum, nil
}

func collectCommissions(rows pgx.Rows) ([]model.Commission, error) {
	var commissions []model.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission: %w", err)
		}
		commissions = append(commissions, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commissions: %w", err)
	}
	return commissions, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Commission, currentVersion int) (*model.Commission, error) {
	query := `
        UPDATE commissions
        SET commission_amount = $1,
            commission_rate = $2,
            notes = $3,
            version = version + 1,
            updated_at = NOW()
        WHERE id = $4 AND version = $5
        RETURNING ` + commissionColumns

	updated, err := scanCommission(r.pool.QueryRow(ctx, query,
		c.CommissionAmount, c.CommissionRate, c.Notes, c.ID, currentVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, checkErr := r.exists(ctx, c.ID)
			if checkErr != nil {
				return nil, checkErr
			}
			if exists {
				return nil, model.ErrVersionMismatch
			}
			return nil, model.ErrCommissionNotFound
		}
		return nil, fmt.Errorf("failed to update commission: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentMethod, notes *string) (*model.Commission, error) {
	query := `
        UPDATE commissions
        SET is_paid = TRUE,
            payment_date = NOW(),
            payment_method = COALESCE($2, payment_method),
            notes = COALESCE($3, notes),
            version = version + 1,
            updated_at = NOW()
        WHERE id = $1 AND is_paid = FALSE
        RETURNING ` + commissionColumns

	paid, err := scanCommission(r.pool.QueryRow(ctx, query, id, paymentMethod, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, checkErr := r.exists(ctx, id)
			if checkErr != nil {
				return nil, checkErr
			}
			if exists {
				return nil, model.ErrAlreadyPaid
			}
			return nil, model.ErrCommissionNotFound
		}
		return nil, fmt.Errorf("failed to mark commission paid: %w", err)
	}
	return paid, nil
}

func (r *postgresRepository) DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM commissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete commission: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrCommissionNotFound
	}
	return nil
}

func (r *postgresRepository) GetSales(ctx context.Context, commissionID uuid.UUID) ([]salemodel.SaleWithBook, error) {
	query := `
        SELECT s.id, s.book_id, s.platform, s.sale_date, s.quantity, s.unit_price, s.origin, s.status,
               s.processed, s.commission_id, s.customer_id, s.version, s.created_at, s.updated_at,
               b.title
        FROM sales s
        JOIN books b ON b.id = s.book_id
        WHERE s.commission_id = $1
        ORDER BY s.sale_date, s.created_at`

	rows, err := r.pool.Query(ctx, query, commissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query commission sales: %w", err)
	}
	defer rows.Close()

	var sales []salemodel.SaleWithBook
	for rows.Next() {
		var s salemodel.SaleWithBook
		err := rows.Scan(
			&s.ID, &s.BookID, &s.Platform, &s.SaleDate, &s.Quantity, &s.UnitPrice,
			&s.Origin, &s.Status, &s.Processed, &s.CommissionID, &s.CustomerID,
			&s.Version, &s.CreatedAt, &s.UpdatedAt,
			&s.BookTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commission sales: %w", err)
	}

	return sales, nil
}

func (r *postgresRepository) GetBookInfoWithTx(ctx context.Context, tx pgx.Tx, bookIDs []uuid.UUID) (map[uuid.UUID]BookInfo, error) {
	query := `
        SELECT b.id, b.title, array_agg(a.name ORDER BY ba.position)
        FROM books b
        JOIN book_authors ba ON ba.book_id = b.id
        JOIN authors a ON a.id = ba.author_id
        WHERE b.id = ANY($1)
        GROUP BY b.id, b.title`

	rows, err := tx.Query(ctx, query, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query book info: %w", err)
	}
	defer rows.Close()

	info := make(map[uuid.UUID]BookInfo, len(bookIDs))
	for rows.Next() {
		var id uuid.UUID
		var bi BookInfo
		if err := rows.Scan(&id, &bi.Title, &bi.AuthorNames); err != nil {
			return nil, fmt.Errorf("failed to scan book info: %w", err)
		}
		info[id] = bi
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book info: %w", err)
	}

	return info, nil
}

func (r *postgresRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM commissions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check commission existence: %w", err)
	}
	return exists, nil
}
