package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"publisher-backend/internal/domains/author/model"
	"publisher-backend/internal/domains/author/repository"
)

var oneHundred = decimal.NewFromInt(100)

// authorService implements ServiceInterface.
type authorService struct {
	repo repository.RepositoryInterface
}

func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrInvalidName
	}

	if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(oneHundred) {
		return nil, model.ErrInvalidRate
	}

	newAuthor := req.ToEntity()
	newAuthor.Name = name
	if newAuthor.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*newAuthor.Email))
		newAuthor.Email = &email
	}

	created, err := s.repo.Create(ctx, newAuthor)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	if id == uuid.Nil {
		return nil, model.ErrAuthorNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) GetAll(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	// Sanitize pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	// Whitelist sort columns
	allowedSortColumns := map[string]bool{
		"name":       true,
		"created_at": true,
		"updated_at": true,
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if !allowedSortColumns[filter.SortBy] {
		return nil, 0, fmt.Errorf("invalid sort column: %s", filter.SortBy)
	}

	filter.Order = strings.ToUpper(filter.Order)
	if filter.Order != "ASC" && filter.Order != "DESC" {
		filter.Order = "DESC"
	}

	return s.repo.GetAll(ctx, filter)
}

// Update applies a partial update with conflict detection.
func (s *authorService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Client must send the version it is updating from.
	if req.Version != current.Version {
		return nil, model.ErrVersionMismatch
	}

	updated := *current

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, model.ErrInvalidName
		}
		updated.Name = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		updated.Email = &email
	}
	if req.CommissionRate != nil {
		if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(oneHundred) {
			return nil, model.ErrInvalidRate
		}
		updated.CommissionRate = *req.CommissionRate
	}
	if req.Bio != nil {
		updated.Bio = req.Bio
	}

	return s.repo.Update(ctx, &updated, current.Version)
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	// Referential integrity guard: an author with books cannot go away,
	// commissions resolve author -> books -> sales.
	bookCount, err := s.repo.GetBookCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check book count: %w", err)
	}
	if bookCount > 0 {
		return fmt.Errorf("%w: author has %d linked books", model.ErrAuthorHasBooks, bookCount)
	}

	return s.repo.Delete(ctx, id)
}

func (s *authorService) GetWithBookCount(ctx context.Context, id uuid.UUID) (*model.Author, int, error) {
	if id == uuid.Nil {
		return nil, 0, model.ErrAuthorNotFound
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	bookCount, err := s.repo.GetBookCount(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	return a, bookCount, nil
}
