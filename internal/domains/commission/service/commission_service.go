package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	authormodel "publisher-backend/internal/domains/author/model"
	authorrepo "publisher-backend/internal/domains/author/repository"
	"publisher-backend/internal/domains/commission/model"
	"publisher-backend/internal/domains/commission/repository"
	salemodel "publisher-backend/internal/domains/sale/model"
	salerepo "publisher-backend/internal/domains/sale/repository"
	"publisher-backend/pkg/database"
	"publisher-backend/pkg/logger"
)

type commissionService struct {
	db          database.Beginner
	repo        repository.RepositoryInterface
	saleRepo    salerepo.RepositoryInterface
	authorRepo  authorrepo.RepositoryInterface
	calculator  *Calculator
	defaultRate decimal.Decimal
}

// NewCommissionService wires the lifecycle manager. defaultSharePercent is
// the house author-share rate used when the author record carries none.
func NewCommissionService(
	db database.Beginner,
	repo repository.RepositoryInterface,
	saleRepo salerepo.RepositoryInterface,
	authorRepo authorrepo.RepositoryInterface,
	defaultSharePercent int,
) ServiceInterface {
	return &commissionService{
		db:          db,
		repo:        repo,
		saleRepo:    saleRepo,
		authorRepo:  authorRepo,
		calculator:  NewCalculator(),
		defaultRate: decimal.NewFromInt(int64(defaultSharePercent)),
	}
}

// Create is the critical section of the whole system. The eligible sales
// are read under row locks, the commission is inserted and the sales are
// claimed with a conditional update, all inside one transaction. If the
// claim touches fewer rows than the batch, another run got there first and
// everything rolls back.
func (s *commissionService) Create(ctx context.Context, req *model.CreateCommissionRequest) (*model.Commission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start, err := salemodel.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := salemodel.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	if start.After(end) {
		return nil, model.ErrInvalidWindow
	}

	author, err := s.authorRepo.GetByID(ctx, req.AuthorID)
	if err != nil {
		if errors.Is(err, authormodel.ErrAuthorNotFound) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, err
	}

	bookCount, err := s.authorRepo.GetBookCount(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	if bookCount == 0 {
		return nil, model.ErrAuthorHasNoBooks
	}

	rate := s.defaultRate
	if author.HasOwnRate() {
		rate = author.CommissionRate
	}

	created, err := database.WithTransactionResult(ctx, s.db, func(tx pgx.Tx) (*model.Commission, error) {
		sales, err := s.saleRepo.GetEligibleForUpdateWithTx(ctx, tx, author.ID, start, end)
		if err != nil {
			return nil, err
		}
		if len(sales) == 0 {
			return nil, model.ErrNoSalesInPeriod
		}

		lines, err := s.buildLines(ctx, tx, sales)
		if err != nil {
			return nil, err
		}

		result, err := s.calculator.Calculate(rate, lines)
		if err != nil {
			return nil, err
		}

		commission := &model.Commission{
			AuthorID:         author.ID,
			StartDate:        start,
			EndDate:          end,
			CommissionRate:   rate,
			CalculatedAmount: result.AuthorCommission,
			CommissionAmount: result.AuthorCommission,
			TotalSales:       result.TotalSales,
			TotalQuantity:    result.TotalQuantity,
			SaleIDs:          result.SaleIDs,
			DividedDetails:   result.DividedDetails,
			IntegralDetails:  result.IntegralDetails,
		}

		created, err := s.repo.CreateWithTx(ctx, tx, commission)
		if err != nil {
			return nil, err
		}

		claimed, err := s.saleRepo.ClaimWithTx(ctx, tx, created.ID, result.SaleIDs)
		if err != nil {
			return nil, err
		}
		if claimed != int64(len(result.SaleIDs)) {
			return nil, model.ErrSalesAlreadyClaimed
		}

		return created, nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Commission created", map[string]interface{}{
		"commission_id": created.ID.String(),
		"author_id":     author.ID.String(),
		"sale_count":    len(created.SaleIDs),
		"amount":        created.CommissionAmount.String(),
	})

	return created, nil
}

// buildLines enriches the locked sales with book titles and author names
// for the calculator's per-book breakdown.
func (s *commissionService) buildLines(ctx context.Context, tx pgx.Tx, sales []salemodel.Sale) ([]SaleLine, error) {
	bookIDs := make([]uuid.UUID, 0, len(sales))
	seen := make(map[uuid.UUID]bool)
	for i := range sales {
		if !seen[sales[i].BookID] {
			seen[sales[i].BookID] = true
			bookIDs = append(bookIDs, sales[i].BookID)
		}
	}

	info, err := s.repo.GetBookInfoWithTx(ctx, tx, bookIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]SaleLine, len(sales))
	for i, sale := range sales {
		bi := info[sale.BookID]
		lines[i] = SaleLine{
			SaleID:      sale.ID,
			BookID:      sale.BookID,
			BookTitle:   bi.Title,
			BookAuthors: bi.AuthorNames,
			Quantity:    sale.Quantity,
			UnitPrice:   sale.UnitPrice,
			Origin:      sale.Origin,
		}
	}
	return lines, nil
}

func (s *commissionService) GetByID(ctx context.Context, id uuid.UUID) (*model.CommissionDetailResponse, error) {
	commission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sales, err := s.repo.GetSales(ctx, id)
	if err != nil {
		return nil, err
	}

	authorName := ""
	if author, err := s.authorRepo.GetByID(ctx, commission.AuthorID); err == nil {
		authorName = author.Name
	}

	saleResponses := make([]salemodel.SaleResponse, len(sales))
	for i, sale := range sales {
		saleResponses[i] = *sale.ToResponse(sale.BookTitle)
	}

	return &model.CommissionDetailResponse{
		Commission: *commission,
		AuthorName: authorName,
		Sales:      saleResponses,
	}, nil
}

func (s *commissionService) GetAll(ctx context.Context) ([]model.Commission, error) {
	return s.repo.GetAll(ctx)
}

func (s *commissionService) GetPending(ctx context.Context) (*model.CommissionListResponse, error) {
	return s.listByPaidStatus(ctx, false)
}

func (s *commissionService) GetPaid(ctx context.Context) (*model.CommissionListResponse, error) {
	return s.listByPaidStatus(ctx, true)
}

func (s *commissionService) listByPaidStatus(ctx context.Context, paid bool) (*model.CommissionListResponse, error) {
	commissions, sum, err := s.repo.GetByPaidStatus(ctx, paid)
	if err != nil {
		return nil, err
	}
	return &model.CommissionListResponse{
		Data:        commissions,
		Total:       int64(len(commissions)),
		TotalAmount: sum,
	}, nil
}

func (s *commissionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCommissionRequest) (*model.Commission, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CommissionAmount != nil {
		if req.CommissionAmount.IsNegative() {
			return nil, model.ErrInvalidAmount
		}
		existing.CommissionAmount = *req.CommissionAmount
	}
	if req.CommissionRate != nil {
		if req.CommissionRate.IsNegative() || req.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, model.ErrInvalidRate
		}
		existing.CommissionRate = *req.CommissionRate
	}
	if req.Notes != nil {
		existing.Notes = req.Notes
	}

	return s.repo.Update(ctx, existing, req.Version)
}

func (s *commissionService) MarkPaid(ctx context.Context, id uuid.UUID, req *model.PayCommissionRequest) (*model.Commission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paid, err := s.repo.MarkPaid(ctx, id, req.PaymentMethod, req.Notes)
	if err != nil {
		return nil, err
	}

	logger.Info("Commission paid", map[string]interface{}{
		"commission_id": id.String(),
		"amount":        paid.CommissionAmount.String(),
	})

	return paid, nil
}

// Delete reverses a commission. The release and the delete share one
// transaction so a crash can never orphan processed sales behind a
// missing commission.
func (s *commissionService) Delete(ctx context.Context, id uuid.UUID) error {
	var released int64

	err := database.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.repo.GetByIDWithTx(ctx, tx, id); err != nil {
			return err
		}

		var err error
		released, err = s.saleRepo.ReleaseByCommissionWithTx(ctx, tx, id)
		if err != nil {
			return err
		}

		return s.repo.DeleteWithTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("Commission reversed", map[string]interface{}{
		"commission_id":  id.String(),
		"sales_released": released,
	})

	return nil
}
