package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	authorRepo "publisher-backend/internal/domains/author/repository"
	"publisher-backend/internal/domains/book/model"
	"publisher-backend/internal/domains/book/repository"
)

type bookService struct {
	repo       repository.RepositoryInterface
	authorRepo authorRepo.RepositoryInterface // cross-domain: author existence checks
}

func NewBookService(repo repository.RepositoryInterface, authors authorRepo.RepositoryInterface) ServiceInterface {
	return &bookService{
		repo:       repo,
		authorRepo: authors,
	}
}

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrInvalidTitle
	}
	if req.Price.IsNegative() {
		return nil, model.ErrInvalidPrice
	}

	authorIDs := dedupeIDs(req.AuthorIDs)
	if len(authorIDs) == 0 {
		return nil, model.ErrNoAuthors
	}

	// Fail fast with a clear error instead of a raw FK violation.
	for _, authorID := range authorIDs {
		exists, err := s.authorRepo.ExistsByID(ctx, authorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check author: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", model.ErrAuthorUnknown, authorID)
		}
	}

	newBook := req.ToEntity()
	newBook.Title = title
	newBook.AuthorIDs = authorIDs

	return s.repo.Create(ctx, newBook)
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) GetAll(ctx context.Context, filter model.BookFilter) ([]model.Book, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	allowedSortColumns := map[string]bool{
		"title":        true,
		"created_at":   true,
		"publish_date": true,
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if !allowedSortColumns[filter.SortBy] {
		return nil, 0, fmt.Errorf("invalid sort column: %s", filter.SortBy)
	}

	return s.repo.GetAll(ctx, filter)
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Version != current.Version {
		return nil, model.ErrVersionMismatch
	}

	updated := *current
	replaceAuthors := false

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, model.ErrInvalidTitle
		}
		updated.Title = title
	}
	if req.ISBN != nil {
		updated.ISBN = req.ISBN
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, model.ErrInvalidPrice
		}
		updated.Price = *req.Price
	}
	if req.Description != nil {
		updated.Description = req.Description
	}
	if req.PublishDate != nil {
		updated.PublishDate = req.PublishDate
	}
	if req.AuthorIDs != nil {
		authorIDs := dedupeIDs(req.AuthorIDs)
		if len(authorIDs) == 0 {
			return nil, model.ErrNoAuthors
		}
		for _, authorID := range authorIDs {
			exists, err := s.authorRepo.ExistsByID(ctx, authorID)
			if err != nil {
				return nil, fmt.Errorf("failed to check author: %w", err)
			}
			if !exists {
				return nil, fmt.Errorf("%w: %s", model.ErrAuthorUnknown, authorID)
			}
		}
		updated.AuthorIDs = authorIDs
		replaceAuthors = true
	}

	return s.repo.Update(ctx, &updated, current.Version, replaceAuthors)
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	// Referential integrity guard: books with sales stay.
	saleCount, err := s.repo.GetSaleCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check sale count: %w", err)
	}
	if saleCount > 0 {
		return fmt.Errorf("%w: book has %d recorded sales", model.ErrBookHasSales, saleCount)
	}

	return s.repo.Delete(ctx, id)
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
