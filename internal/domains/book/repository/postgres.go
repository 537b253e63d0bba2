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

	"publisher-backend/internal/domains/book/model"
	"publisher-backend/pkg/cache"
	"publisher-backend/pkg/database"
)

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

const (
	bookCacheKeyPrefix = "book:"
	bookListKeyPrefix  = "books:list:"
	cacheTTL           = 15 * time.Minute
)

// bookSelect aggregates author ids from the junction in one query.
const bookSelect = `
    SELECT b.id, b.title, b.isbn, b.price, b.description, b.publish_date,
           b.version, b.created_at, b.updated_at,
           COALESCE(array_agg(ba.author_id ORDER BY ba.position) FILTER (WHERE ba.author_id IS NOT NULL), '{}') AS author_ids
    FROM books b
    LEFT JOIN book_authors ba ON ba.book_id = b.id
`

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.ISBN,
		&b.Price,
		&b.Description,
		&b.PublishDate,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.AuthorIDs,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the book plus its junction rows in one transaction.
func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	created, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		query := `
            INSERT INTO books (title, isbn, price, description, publish_date, version)
            VALUES ($1, $2, $3, $4, $5, 0)
            RETURNING id, title, isbn, price, description, publish_date, version, created_at, updated_at
        `

		var out model.Book
		err := tx.QueryRow(ctx, query, b.Title, b.ISBN, b.Price, b.Description, b.PublishDate).Scan(
			&out.ID, &out.Title, &out.ISBN, &out.Price, &out.Description,
			&out.PublishDate, &out.Version, &out.CreatedAt, &out.UpdatedAt,
		)
		if err != nil {
			return nil, mapBookWriteError(err)
		}

		if err := insertBookAuthors(ctx, tx, out.ID, b.AuthorIDs); err != nil {
			return nil, err
		}
		out.AuthorIDs = b.AuthorIDs

		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateListCache(ctx)

	return created, nil
}

func insertBookAuthors(ctx context.Context, tx pgx.Tx, bookID uuid.UUID, authorIDs []uuid.UUID) error {
	for i, authorID := range authorIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO book_authors (book_id, author_id, position) VALUES ($1, $2, $3)`,
			bookID, authorID, i,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return fmt.Errorf("%w: %s", model.ErrAuthorUnknown, authorID)
			}
			return fmt.Errorf("failed to link author %s: %w", authorID, err)
		}
	}
	return nil
}

func mapBookWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.Message, "isbn") {
			return model.ErrDuplicateISBN
		}
	}
	return fmt.Errorf("failed to write book: %w", err)
}

// GetByID retrieves a book with read-through caching.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCacheKeyPrefix + id.String()

	var cached model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := bookSelect + ` WHERE b.id = $1 GROUP BY b.id`

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	if data, err := json.Marshal(b); err == nil {
		r.cache.Set(ctx, cacheKey, string(data), cacheTTL)
	}

	return b, nil
}

// bookList is the shape cached for list queries.
type bookList struct {
	Items []model.Book `json:"items"`
	Total int64        `json:"total"`
}

func listCacheKey(f model.BookFilter) string {
	authorPart := ""
	if f.AuthorID != nil {
		authorPart = f.AuthorID.String()
	}
	return fmt.Sprintf("%s%s:%s:%s:%s:%d:%d",
		bookListKeyPrefix, f.Search, authorPart, f.SortBy, f.Order, f.Limit, f.Offset)
}

// GetAll retrieves a paginated list with filtering.
// Results are cached per filter; every write invalidates the whole
// list keyspace through invalidateListCache.
func (r *postgresRepository) GetAll(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error) {
	cacheKey := listCacheKey(filter)

	var cached bookList
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return cached.Items, cached.Total, nil
	}

	var where strings.Builder
	where.WriteString(" WHERE 1=1")

	args := []interface{}{}
	argPos := 1

	if filter.Search != "" {
		where.WriteString(fmt.Sprintf(" AND b.title ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}
	if filter.AuthorID != nil {
		where.WriteString(fmt.Sprintf(
			" AND b.id IN (SELECT book_id FROM book_authors WHERE author_id = $%d)", argPos))
		args = append(args, *filter.AuthorID)
		argPos++
	}

	sortColumn := "b.created_at"
	switch filter.SortBy {
	case "title":
		sortColumn = "b.title"
	case "publish_date":
		sortColumn = "b.publish_date"
	}

	sortOrder := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		sortOrder = "ASC"
	}

	query := bookSelect + where.String() +
		" GROUP BY b.id" +
		fmt.Sprintf(" ORDER BY %s %s", sortColumn, sortOrder) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating books: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM books b" + where.String()
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args[:argPos-1]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	if data, err := json.Marshal(bookList{Items: books, Total: total}); err == nil {
		r.cache.Set(ctx, cacheKey, string(data), cacheTTL)
	}

	return books, total, nil
}

// Update updates the book with optimistic locking; optionally replaces junction rows.
func (r *postgresRepository) Update(ctx context.Context, b *model.Book, currentVersion int, replaceAuthors bool) (*model.Book, error) {
	updated, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Book, error) {
		query := `
            UPDATE books
            SET title = $1,
                isbn = $2,
                price = $3,
                description = $4,
                publish_date = $5,
                version = version + 1,
                updated_at = NOW()
            WHERE id = $6 AND version = $7
            RETURNING id, title, isbn, price, description, publish_date, version, created_at, updated_at
        `

		var out model.Book
		err := tx.QueryRow(ctx, query,
			b.Title, b.ISBN, b.Price, b.Description, b.PublishDate,
			b.ID, currentVersion,
		).Scan(
			&out.ID, &out.Title, &out.ISBN, &out.Price, &out.Description,
			&out.PublishDate, &out.Version, &out.CreatedAt, &out.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				exists, checkErr := r.ExistsByID(ctx, b.ID)
				if checkErr != nil {
					return nil, checkErr
				}
				if !exists {
					return nil, model.ErrBookNotFound
				}
				return nil, model.ErrVersionMismatch
			}
			return nil, mapBookWriteError(err)
		}

		if replaceAuthors {
			if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, b.ID); err != nil {
				return nil, fmt.Errorf("failed to clear book authors: %w", err)
			}
			if err := insertBookAuthors(ctx, tx, b.ID, b.AuthorIDs); err != nil {
				return nil, err
			}
		}
		out.AuthorIDs = b.AuthorIDs

		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	r.cache.Delete(ctx, bookCacheKeyPrefix+b.ID.String())
	r.invalidateListCache(ctx)

	return updated, nil
}

// Delete removes a book by ID.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear book authors: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // referenced by sales
				return model.ErrBookHasSales
			}
			return fmt.Errorf("failed to delete book: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.cache.Delete(ctx, bookCacheKeyPrefix+id.String())
	r.invalidateListCache(ctx)

	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) GetSaleCount(ctx context.Context, bookID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE book_id = $1`, bookID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get sale count: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	r.cache.DeletePattern(ctx, bookListKeyPrefix+"*")
}
