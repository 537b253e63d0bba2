package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/customer/model"
	"publisher-backend/internal/domains/customer/repository"
)

// ServiceInterface defines business logic operations for the Customer domain.
type ServiceInterface interface {
	Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetAll(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// FindOrCreateByEmail backfills a customer from sale contact fields.
	// Matches by email when one exists, otherwise creates a new record.
	FindOrCreateByEmail(ctx context.Context, name, email string) (*model.Customer, error)
}

type customerService struct {
	repo repository.RepositoryInterface
}

func NewCustomerService(repo repository.RepositoryInterface) ServiceInterface {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &model.Customer{
		Name:  strings.TrimSpace(req.Name),
		Email: normalizeEmail(req.Email),
		Phone: req.Phone,
		Notes: req.Notes,
	}
	if c.Name == "" {
		return nil, model.ErrInvalidName
	}

	return s.repo.Create(ctx, c)
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	if id == uuid.Nil {
		return nil, model.ErrCustomerNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *customerService) GetAll(ctx context.Context, filter model.CustomerFilter) ([]model.Customer, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.GetAll(ctx, filter)
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req *model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = strings.TrimSpace(req.Name)
	current.Email = normalizeEmail(req.Email)
	current.Phone = req.Phone
	current.Notes = req.Notes

	return s.repo.Update(ctx, current)
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *customerService) FindOrCreateByEmail(ctx context.Context, name, email string) (*model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, model.ErrCustomerNotFound
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, model.ErrCustomerNotFound) {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}

	return s.repo.Create(ctx, &model.Customer{
		Name:  name,
		Email: &email,
	})
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}
