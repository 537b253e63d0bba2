package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"publisher-backend/internal/domains/sale/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const saleColumns = `id, book_id, platform, sale_date, quantity, unit_price, origin, status,
    processed, commission_id, customer_id, version, created_at, updated_at`

func scanSale(row pgx.Row) (*model.Sale, error) {
	var s model.Sale
	err := row.Scan(
		&s.ID, &s.BookID, &s.Platform, &s.SaleDate, &s.Quantity, &s.UnitPrice,
		&s.Origin, &s.Status, &s.Processed, &s.CommissionID, &s.CustomerID,
		&s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepository) Create(ctx context.Context, s *model.Sale) (*model.Sale, error) {
	query := `
        INSERT INTO sales (book_id, platform, sale_date, quantity, unit_price, origin, status, customer_id, version)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
        RETURNING ` + saleColumns

	created, err := scanSale(r.pool.QueryRow(ctx, query,
		s.BookID, s.Platform, s.SaleDate, s.Quantity, s.UnitPrice, s.Origin, s.Status, s.CustomerID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, model.ErrBookUnknown
		}
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	s, err := scanSale(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale by id: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) GetAll(ctx context.Context, filter model.SaleFilter) ([]model.SaleWithBook, int64, error) {
	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := []interface{}{}
	argPos := 1

	addArg := func(clause string, value interface{}) {
		where.WriteString(fmt.Sprintf(clause, argPos))
		args = append(args, value)
		argPos++
	}

	if filter.BookID != nil {
		addArg(" AND s.book_id = $%d", *filter.BookID)
	}
	if filter.AuthorID != nil {
		addArg(" AND s.book_id IN (SELECT book_id FROM book_authors WHERE author_id = $%d)", *filter.AuthorID)
	}
	if filter.Origin != nil {
		addArg(" AND s.origin = $%d", *filter.Origin)
	}
	if filter.Status != nil {
		addArg(" AND s.status = $%d", *filter.Status)
	}
	if filter.Processed != nil {
		addArg(" AND s.processed = $%d", *filter.Processed)
	}
	if filter.StartDate != nil {
		addArg(" AND s.sale_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addArg(" AND s.sale_date <= $%d", *filter.EndDate)
	}

	query := `
        SELECT s.id, s.book_id, s.platform, s.sale_date, s.quantity, s.unit_price, s.origin, s.status,
               s.processed, s.commission_id, s.customer_id, s.version, s.created_at, s.updated_at,
               b.title
        FROM sales s
        JOIN books b ON b.id = s.book_id` + where.String() +
		fmt.Sprintf(" ORDER BY s.sale_date DESC, s.created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []model.SaleWithBook
	for rows.Next() {
		var s model.SaleWithBook
		err := rows.Scan(
			&s.ID, &s.BookID, &s.Platform, &s.SaleDate, &s.Quantity, &s.UnitPrice,
			&s.Origin, &s.Status, &s.Processed, &s.CommissionID, &s.CustomerID,
			&s.Version, &s.CreatedAt, &s.UpdatedAt,
			&s.BookTitle,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating sales: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM sales s` + where.String()
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args[:argPos-1]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	return sales, total, nil
}

// Update updates an unprocessed sale with optimistic locking.
// processed = false sits in the WHERE clause so a concurrent claim cannot
// slip between the service-layer check and this write.
func (r *postgresRepository) Update(ctx context.Context, s *model.Sale, currentVersion int) (*model.Sale, error) {
	query := `
        UPDATE sales
        SET book_id = $1,
            platform = $2,
            sale_date = $3,
            quantity = $4,
            unit_price = $5,
            origin = $6,
            version = version + 1,
            updated_at = NOW()
        WHERE id = $7 AND version = $8 AND processed = FALSE
        RETURNING ` + saleColumns

	updated, err := scanSale(r.pool.QueryRow(ctx, query,
		s.BookID, s.Platform, s.SaleDate, s.Quantity, s.UnitPrice, s.Origin,
		s.ID, currentVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, s.ID)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, model.ErrBookUnknown
		}
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	return updated, nil
}

// classifyMissedUpdate distinguishes not-found / processed / version conflict
// after a conditional update matched no rows.
func (r *postgresRepository) classifyMissedUpdate(ctx context.Context, id uuid.UUID) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Processed {
		return model.ErrSaleProcessed
	}
	return model.ErrVersionMismatch
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1 AND processed = FALSE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		exists, checkErr := r.exists(ctx, id)
		if checkErr != nil {
			return checkErr
		}
		if exists {
			return model.ErrSaleProcessed
		}
		return model.ErrSaleNotFound
	}
	return nil
}

func (r *postgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Sale, error) {
	query := `
        UPDATE sales
        SET status = $1, version = version + 1, updated_at = NOW()
        WHERE id = $2 AND processed = FALSE
        RETURNING ` + saleColumns

	updated, err := scanSale(r.pool.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, checkErr := r.exists(ctx, id)
			if checkErr != nil {
				return nil, checkErr
			}
			if exists {
				return nil, model.ErrSaleProcessed
			}
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to set sale status: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sales WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check sale existence: %w", err)
	}
	return exists, nil
}

// GetRevenueSummary aggregates completed sales, split by origin.
// Canceled sales never count.
func (r *postgresRepository) GetRevenueSummary(ctx context.Context, start, end *time.Time) (*model.RevenueSummary, error) {
	var where strings.Builder
	where.WriteString(" WHERE status = 'completed'")

	args := []interface{}{}
	argPos := 1
	if start != nil {
		where.WriteString(fmt.Sprintf(" AND sale_date >= $%d", argPos))
		args = append(args, *start)
		argPos++
	}
	if end != nil {
		where.WriteString(fmt.Sprintf(" AND sale_date <= $%d", argPos))
		args = append(args, *end)
		argPos++
	}

	query := `
        SELECT origin,
               COUNT(*),
               COALESCE(SUM(quantity), 0),
               COALESCE(SUM(quantity * unit_price), 0)
        FROM sales` + where.String() + `
        GROUP BY origin`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue summary: %w", err)
	}
	defer rows.Close()

	summary := &model.RevenueSummary{StartDate: start, EndDate: end}

	for rows.Next() {
		var origin model.Origin
		var rev model.OriginRevenue
		if err := rows.Scan(&origin, &rev.SaleCount, &rev.Quantity, &rev.GrossSales); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}

		switch origin {
		case model.OriginDirect:
			summary.Direct = rev
		case model.OriginPartner:
			summary.Partner = rev
		}

		summary.SaleCount += rev.SaleCount
		summary.TotalQuantity += rev.Quantity
		summary.TotalSales = summary.TotalSales.Add(rev.GrossSales)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue rows: %w", err)
	}

	return summary, nil
}

// GetEligibleForUpdateWithTx locks and returns the sales a commission run may
// consume. FOR UPDATE OF s serializes concurrent runs touching the same rows.
func (r *postgresRepository) GetEligibleForUpdateWithTx(ctx context.Context, tx pgx.Tx, authorID uuid.UUID, start, end time.Time) ([]model.Sale, error) {
	query := `
        SELECT s.id, s.book_id, s.platform, s.sale_date, s.quantity, s.unit_price, s.origin, s.status,
               s.processed, s.commission_id, s.customer_id, s.version, s.created_at, s.updated_at
        FROM sales s
        JOIN book_authors ba ON ba.book_id = s.book_id
        WHERE ba.author_id = $1
          AND s.sale_date >= $2
          AND s.sale_date <= $3
          AND s.processed = FALSE
          AND s.status = 'completed'
        ORDER BY s.sale_date, s.created_at
        FOR UPDATE OF s`

	rows, err := tx.Query(ctx, query, authorID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan eligible sale: %w", err)
		}
		sales = append(sales, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating eligible sales: %w", err)
	}

	return sales, nil
}

// ClaimWithTx is the optimistic check-and-set: only still-unprocessed rows
// are claimed, and the row count tells the caller whether it won all of them.
func (r *postgresRepository) ClaimWithTx(ctx context.Context, tx pgx.Tx, commissionID uuid.UUID, saleIDs []uuid.UUID) (int64, error) {
	cmdTag, err := tx.Exec(ctx, `
        UPDATE sales
        SET processed = TRUE,
            commission_id = $1,
            version = version + 1,
            updated_at = NOW()
        WHERE id = ANY($2)
          AND processed = FALSE
          AND commission_id IS NULL`,
		commissionID, saleIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to claim sales: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

func (r *postgresRepository) ReleaseByCommissionWithTx(ctx context.Context, tx pgx.Tx, commissionID uuid.UUID) (int64, error) {
	cmdTag, err := tx.Exec(ctx, `
        UPDATE sales
        SET processed = FALSE,
            commission_id = NULL,
            version = version + 1,
            updated_at = NOW()
        WHERE commission_id = $1`,
		commissionID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to release sales: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
