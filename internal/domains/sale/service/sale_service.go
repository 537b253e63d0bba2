package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookrepo "publisher-backend/internal/domains/book/repository"
	customermodel "publisher-backend/internal/domains/customer/model"
	customerservice "publisher-backend/internal/domains/customer/service"
	"publisher-backend/internal/domains/sale/model"
	"publisher-backend/internal/domains/sale/repository"
	"publisher-backend/pkg/logger"
)

// Publisher retention per origin, as percentages of the gross line total.
// The same splits drive the commission engine.
var (
	directRetentionPercent  = decimal.NewFromInt(90)
	partnerRetentionPercent = decimal.NewFromInt(30)
	oneHundred              = decimal.NewFromInt(100)
)

type saleService struct {
	repo        repository.RepositoryInterface
	bookRepo    bookrepo.RepositoryInterface
	customerSvc customerservice.ServiceInterface
}

func NewSaleService(
	repo repository.RepositoryInterface,
	bookRepo bookrepo.RepositoryInterface,
	customerSvc customerservice.ServiceInterface,
) ServiceInterface {
	return &saleService{
		repo:        repo,
		bookRepo:    bookRepo,
		customerSvc: customerSvc,
	}
}

func (s *saleService) Create(ctx context.Context, req *model.CreateSaleRequest) (*model.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := validateEnums(req.Origin, req.Platform); err != nil {
		return nil, err
	}
	if req.UnitPrice.IsNegative() {
		return nil, model.ErrInvalidUnitPrice
	}

	saleDate, err := model.ParseDate(req.SaleDate)
	if err != nil {
		return nil, fmt.Errorf("invalid sale_date: %w", err)
	}

	exists, err := s.bookRepo.ExistsByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrBookUnknown
	}

	customerID, err := s.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		BookID:     req.BookID,
		Platform:   req.Platform,
		SaleDate:   saleDate,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		Origin:     req.Origin,
		Status:     model.StatusCompleted,
		CustomerID: customerID,
	}

	created, err := s.repo.Create(ctx, sale)
	if err != nil {
		return nil, err
	}

	logger.Info("Sale recorded", map[string]interface{}{
		"sale_id": created.ID.String(),
		"book_id": created.BookID.String(),
		"origin":  created.Origin.String(),
	})

	return created, nil
}

// resolveCustomer turns the request's customer fields into a customer id.
// An explicit id must exist; name+email find or create a record; neither
// leaves the sale anonymous.
func (s *saleService) resolveCustomer(ctx context.Context, req *model.CreateSaleRequest) (*uuid.UUID, error) {
	if req.CustomerID != nil {
		if _, err := s.customerSvc.GetByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, customermodel.ErrCustomerNotFound) {
				return nil, model.ErrCustomerUnknown
			}
			return nil, err
		}
		return req.CustomerID, nil
	}

	if req.CustomerEmail != "" {
		customer, err := s.customerSvc.FindOrCreateByEmail(ctx, req.CustomerName, req.CustomerEmail)
		if err != nil {
			return nil, err
		}
		return &customer.ID, nil
	}

	return nil, nil
}

func (s *saleService) BulkCreate(ctx context.Context, req *model.BulkCreateRequest) (*model.BulkCreateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := &model.BulkCreateResponse{}
	for i := range req.Sales {
		if _, err := s.Create(ctx, &req.Sales[i]); err != nil {
			resp.FailedCount++
			resp.Errors = append(resp.Errors, model.BulkError{Index: i, Message: err.Error()})
			continue
		}
		resp.CreatedCount++
	}

	logger.Info("Bulk sale import finished", map[string]interface{}{
		"created": resp.CreatedCount,
		"failed":  resp.FailedCount,
	})

	return resp, nil
}

func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *saleService) GetAll(ctx context.Context, filter model.SaleFilter) ([]model.SaleWithBook, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.GetAll(ctx, filter)
}

func (s *saleService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateSaleRequest) (*model.Sale, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Processed {
		return nil, model.ErrSaleProcessed
	}

	if req.BookID != nil {
		exists, err := s.bookRepo.ExistsByID(ctx, *req.BookID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, model.ErrBookUnknown
		}
		existing.BookID = *req.BookID
	}
	if req.Platform != nil {
		if !req.Platform.IsValid() {
			return nil, model.ErrInvalidPlatform
		}
		existing.Platform = *req.Platform
	}
	if req.SaleDate != nil {
		saleDate, err := model.ParseDate(*req.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("invalid sale_date: %w", err)
		}
		existing.SaleDate = saleDate
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, model.ErrInvalidQuantity
		}
		existing.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, model.ErrInvalidUnitPrice
		}
		existing.UnitPrice = *req.UnitPrice
	}
	if req.Origin != nil {
		if !req.Origin.IsValid() {
			return nil, model.ErrInvalidOrigin
		}
		existing.Origin = *req.Origin
	}

	return s.repo.Update(ctx, existing, req.Version)
}

func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *saleService) Cancel(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Processed {
		return nil, model.ErrSaleProcessed
	}
	if existing.Status == model.StatusCanceled {
		return nil, model.ErrSaleCanceled
	}

	canceled, err := s.repo.SetStatus(ctx, id, model.StatusCanceled)
	if err != nil {
		return nil, err
	}

	logger.Info("Sale canceled", map[string]interface{}{"sale_id": id.String()})
	return canceled, nil
}

func (s *saleService) GetRevenueSummary(ctx context.Context, start, end *time.Time) (*model.RevenueSummary, error) {
	summary, err := s.repo.GetRevenueSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary.Direct.PublisherRetains = percentOf(summary.Direct.GrossSales, directRetentionPercent)
	summary.Partner.PublisherRetains = percentOf(summary.Partner.GrossSales, partnerRetentionPercent)
	return summary, nil
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(oneHundred).Round(2)
}

func validateEnums(origin model.Origin, platform model.Platform) error {
	if !origin.IsValid() {
		return model.ErrInvalidOrigin
	}
	if platform != "" && !platform.IsValid() {
		return model.ErrInvalidPlatform
	}
	return nil
}
