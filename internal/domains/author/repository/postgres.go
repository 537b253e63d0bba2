package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"publisher-backend/internal/domains/author/model"
	"publisher-backend/pkg/cache"
)

// postgresRepository implements RepositoryInterface.
// Uses pgxpool for PostgreSQL and Redis for caching.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Cache key constants
const (
	authorCacheKeyPrefix = "author:"
	authorListKeyPrefix  = "authors:list:"
	cacheTTL             = 15 * time.Minute
)

const authorColumns = `id, name, email, commission_rate, bio, version, created_at, updated_at`

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.CommissionRate,
		&a.Bio,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new author with generated ID and timestamps.
func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (name, email, commission_rate, bio, version)
        VALUES ($1, $2, $3, $4, 0)
        RETURNING ` + authorColumns

	created, err := scanAuthor(r.pool.QueryRow(ctx, query, a.Name, a.Email, a.CommissionRate, a.Bio))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.Message, "email") {
				return nil, model.ErrDuplicateEmail
			}
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	r.invalidateListCache(ctx)

	return created, nil
}

// GetByID retrieves an author by UUID with read-through caching.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	cacheKey := authorCacheKeyPrefix + id.String()

	var cachedAuthor model.Author
	if found, err := r.cache.Get(ctx, cacheKey, &cachedAuthor); err == nil && found {
		return &cachedAuthor, nil
	}

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	if data, err := json.Marshal(a); err == nil {
		r.cache.Set(ctx, cacheKey, string(data), cacheTTL)
	}

	return a, nil
}

// authorList is the shape cached for list queries.
type authorList struct {
	Items []model.Author `json:"items"`
	Total int64          `json:"total"`
}

func listCacheKey(f model.AuthorFilter) string {
	return fmt.Sprintf("%s%s:%s:%s:%d:%d",
		authorListKeyPrefix, f.Search, f.SortBy, f.Order, f.Limit, f.Offset)
}

// GetAll retrieves a paginated list with filtering and sorting.
// Results are cached per filter; every write invalidates the whole
// list keyspace through invalidateListCache.
func (r *postgresRepository) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	cacheKey := listCacheKey(filter)

	var cached authorList
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached.Items, cached.Total, nil
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + authorColumns + ` FROM authors WHERE 1=1`)

	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	// Sort column is whitelisted in the service layer; default here as well.
	sortColumn := "created_at"
	switch filter.SortBy {
	case "name":
		sortColumn = "name"
	case "updated_at":
		sortColumn = "updated_at"
	}

	sortOrder := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		sortOrder = "ASC"
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s", sortColumn, sortOrder))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1))
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating authors: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM authors WHERE 1=1`
	countArgs := []interface{}{}
	if filter.Search != "" {
		countQuery += " AND name ILIKE $1"
		countArgs = append(countArgs, "%"+filter.Search+"%")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	if data, err := json.Marshal(authorList{Items: authors, Total: total}); err == nil {
		r.cache.Set(ctx, cacheKey, string(data), cacheTTL)
	}

	return authors, total, nil
}

// Update updates an author with optimistic locking.
// The WHERE clause includes the version check.
func (r *postgresRepository) Update(ctx context.Context, a *model.Author, currentVersion int) (*model.Author, error) {
	query := `
        UPDATE authors
        SET name = $1,
            email = $2,
            commission_rate = $3,
            bio = $4,
            version = version + 1,
            updated_at = NOW()
        WHERE id = $5 AND version = $6
        RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(
		ctx, query,
		a.Name, a.Email, a.CommissionRate, a.Bio,
		a.ID, currentVersion,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, checkErr := r.ExistsByID(ctx, a.ID)
			if checkErr != nil {
				return nil, checkErr
			}
			if !exists {
				return nil, model.ErrAuthorNotFound
			}
			// Author exists but the version did not match
			return nil, model.ErrVersionMismatch
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.Message, "email") {
				return nil, model.ErrDuplicateEmail
			}
		}

		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.cache.Delete(ctx, authorCacheKeyPrefix+a.ID.String())
	r.invalidateListCache(ctx)

	return updated, nil
}

// Delete removes an author by ID.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return model.ErrAuthorHasBooks
		}
		return fmt.Errorf("failed to delete author: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	r.cache.Delete(ctx, authorCacheKeyPrefix+id.String())
	r.invalidateListCache(ctx)

	return nil
}

// ExistsByID checks if an author exists (lightweight query).
func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return exists, nil
}

// GetBookCount returns the number of books linked to this author.
func (r *postgresRepository) GetBookCount(ctx context.Context, authorID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM book_authors WHERE author_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, authorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get book count: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	r.cache.DeletePattern(ctx, authorListKeyPrefix+"*")
}
