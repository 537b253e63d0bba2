package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "publisher-backend/internal/domains/author/model"
	"publisher-backend/internal/domains/commission/model"
	"publisher-backend/internal/domains/commission/repository"
	salemodel "publisher-backend/internal/domains/sale/model"
)

// ────────────────────────────────────────────────────────────────
// In-memory fakes
// ────────────────────────────────────────────────────────────────

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rolledBack = true; return nil }

type fakeBeginner struct {
	tx *fakeTx
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	b.tx = &fakeTx{}
	return b.tx, nil
}

type fakeAuthorRepo struct {
	authors    map[uuid.UUID]*authormodel.Author
	bookCounts map[uuid.UUID]int
}

func (r *fakeAuthorRepo) Create(ctx context.Context, a *authormodel.Author) (*authormodel.Author, error) {
	return a, nil
}

func (r *fakeAuthorRepo) GetByID(ctx context.Context, id uuid.UUID) (*authormodel.Author, error) {
	a, ok := r.authors[id]
	if !ok {
		return nil, authormodel.ErrAuthorNotFound
	}
	return a, nil
}

func (r *fakeAuthorRepo) GetAll(ctx context.Context, filter authormodel.AuthorFilter) ([]authormodel.Author, int64, error) {
	return nil, 0, nil
}

func (r *fakeAuthorRepo) Update(ctx context.Context, a *authormodel.Author, version int) (*authormodel.Author, error) {
	return a, nil
}

func (r *fakeAuthorRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeAuthorRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.authors[id]
	return ok, nil
}

func (r *fakeAuthorRepo) GetBookCount(ctx context.Context, id uuid.UUID) (int, error) {
	return r.bookCounts[id], nil
}

// fakeSaleRepo keeps a sale store and honors the processed flag, so claim
// and release behave like the real ledger.
type fakeSaleRepo struct {
	sales map[uuid.UUID]*salemodel.Sale

	// claimShortfall simulates a concurrent run winning part of the batch:
	// that many sales are reported as not claimed.
	claimShortfall int64
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *salemodel.Sale) (*salemodel.Sale, error) {
	return s, nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*salemodel.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, salemodel.ErrSaleNotFound
	}
	return s, nil
}

func (r *fakeSaleRepo) GetAll(ctx context.Context, filter salemodel.SaleFilter) ([]salemodel.SaleWithBook, int64, error) {
	return nil, 0, nil
}

func (r *fakeSaleRepo) Update(ctx context.Context, s *salemodel.Sale, version int) (*salemodel.Sale, error) {
	return s, nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeSaleRepo) SetStatus(ctx context.Context, id uuid.UUID, status salemodel.Status) (*salemodel.Sale, error) {
	return nil, nil
}

func (r *fakeSaleRepo) GetRevenueSummary(ctx context.Context, start, end *time.Time) (*salemodel.RevenueSummary, error) {
	return &salemodel.RevenueSummary{}, nil
}

func (r *fakeSaleRepo) GetEligibleForUpdateWithTx(ctx context.Context, tx pgx.Tx, authorID uuid.UUID, start, end time.Time) ([]salemodel.Sale, error) {
	var eligible []salemodel.Sale
	for _, s := range r.sales {
		if !s.Processed && s.Status == salemodel.StatusCompleted &&
			!s.SaleDate.Before(start) && !s.SaleDate.After(end) {
			eligible = append(eligible, *s)
		}
	}
	return eligible, nil
}

func (r *fakeSaleRepo) ClaimWithTx(ctx context.Context, tx pgx.Tx, commissionID uuid.UUID, saleIDs []uuid.UUID) (int64, error) {
	var claimed int64
	for _, id := range saleIDs {
		s, ok := r.sales[id]
		if !ok || s.Processed {
			continue
		}
		s.Processed = true
		cid := commissionID
		s.CommissionID = &cid
		claimed++
	}
	return claimed - r.claimShortfall, nil
}

func (r *fakeSaleRepo) ReleaseByCommissionWithTx(ctx context.Context, tx pgx.Tx, commissionID uuid.UUID) (int64, error) {
	var released int64
	for _, s := range r.sales {
		if s.CommissionID != nil && *s.CommissionID == commissionID {
			s.Processed = false
			s.CommissionID = nil
			released++
		}
	}
	return released, nil
}

type fakeCommissionRepo struct {
	commissions map[uuid.UUID]*model.Commission
	bookInfo    map[uuid.UUID]repository.BookInfo
}

func newFakeCommissionRepo() *fakeCommissionRepo {
	return &fakeCommissionRepo{
		commissions: make(map[uuid.UUID]*model.Commission),
		bookInfo:    make(map[uuid.UUID]repository.BookInfo),
	}
}

func (r *fakeCommissionRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, c *model.Commission) (*model.Commission, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	r.commissions[c.ID] = c
	return c, nil
}

func (r *fakeCommissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Commission, error) {
	c, ok := r.commissions[id]
	if !ok {
		return nil, model.ErrCommissionNotFound
	}
	return c, nil
}

func (r *fakeCommissionRepo) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Commission, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeCommissionRepo) GetAll(ctx context.Context) ([]model.Commission, error) {
	var out []model.Commission
	for _, c := range r.commissions {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCommissionRepo) GetByPaidStatus(ctx context.Context, paid bool) ([]model.Commission, decimal.Decimal, error) {
	var out []model.Commission
	sum := decimal.Zero
	for _, c := range r.commissions {
		if c.IsPaid == paid {
			out = append(out, *c)
			sum = sum.Add(c.CommissionAmount)
		}
	}
	return out, sum, nil
}

func (r *fakeCommissionRepo) Update(ctx context.Context, c *model.Commission, version int) (*model.Commission, error) {
	stored, ok := r.commissions[c.ID]
	if !ok {
		return nil, model.ErrCommissionNotFound
	}
	if stored.Version != version {
		return nil, model.ErrVersionMismatch
	}
	stored.CommissionAmount = c.CommissionAmount
	stored.CommissionRate = c.CommissionRate
	stored.Notes = c.Notes
	stored.Version++
	return stored, nil
}

func (r *fakeCommissionRepo) MarkPaid(ctx context.Context, id uuid.UUID, method, notes *string) (*model.Commission, error) {
	c, ok := r.commissions[id]
	if !ok {
		return nil, model.ErrCommissionNotFound
	}
	if c.IsPaid {
		return nil, model.ErrAlreadyPaid
	}
	now := time.Now()
	c.IsPaid = true
	c.PaymentDate = &now
	if method != nil {
		c.PaymentMethod = method
	}
	if notes != nil {
		c.Notes = notes
	}
	return c, nil
}

func (r *fakeCommissionRepo) DeleteWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if _, ok := r.commissions[id]; !ok {
		return model.ErrCommissionNotFound
	}
	delete(r.commissions, id)
	return nil
}

func (r *fakeCommissionRepo) GetSales(ctx context.Context, commissionID uuid.UUID) ([]salemodel.SaleWithBook, error) {
	return nil, nil
}

func (r *fakeCommissionRepo) GetBookInfoWithTx(ctx context.Context, tx pgx.Tx, bookIDs []uuid.UUID) (map[uuid.UUID]repository.BookInfo, error) {
	return r.bookInfo, nil
}

// ────────────────────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────────────────────

type fixture struct {
	svc        ServiceInterface
	beginner   *fakeBeginner
	authorRepo *fakeAuthorRepo
	saleRepo   *fakeSaleRepo
	repo       *fakeCommissionRepo

	authorID uuid.UUID
	bookID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		beginner:   &fakeBeginner{},
		authorRepo: &fakeAuthorRepo{authors: map[uuid.UUID]*authormodel.Author{}, bookCounts: map[uuid.UUID]int{}},
		saleRepo:   &fakeSaleRepo{sales: map[uuid.UUID]*salemodel.Sale{}},
		repo:       newFakeCommissionRepo(),
		authorID:   uuid.New(),
		bookID:     uuid.New(),
	}

	f.authorRepo.authors[f.authorID] = &authormodel.Author{ID: f.authorID, Name: "Machado"}
	f.authorRepo.bookCounts[f.authorID] = 1
	f.repo.bookInfo[f.bookID] = repository.BookInfo{Title: "Dom Casmurro", AuthorNames: []string{"Machado"}}

	f.svc = NewCommissionService(f.beginner, f.repo, f.saleRepo, f.authorRepo, 10)
	return f
}

func (f *fixture) addSale(day string, qty int, price string, origin salemodel.Origin) uuid.UUID {
	date, _ := salemodel.ParseDate(day)
	id := uuid.New()
	f.saleRepo.sales[id] = &salemodel.Sale{
		ID:        id,
		BookID:    f.bookID,
		SaleDate:  date,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
		Origin:    origin,
		Status:    salemodel.StatusCompleted,
	}
	return id
}

func (f *fixture) createRequest() *model.CreateCommissionRequest {
	return &model.CreateCommissionRequest{
		AuthorID:  f.authorID,
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
	}
}

// ────────────────────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────────────────────

func TestCommissionService_Create(t *testing.T) {
	f := newFixture(t)
	saleID := f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "9.00", created.CalculatedAmount.StringFixed(2))
	assert.Equal(t, "9.00", created.CommissionAmount.StringFixed(2))
	assert.Equal(t, "100.00", created.TotalSales.StringFixed(2))
	assert.Equal(t, 2, created.TotalQuantity)
	assert.False(t, created.IsPaid)
	assert.Equal(t, []uuid.UUID{saleID}, created.SaleIDs)

	sale := f.saleRepo.sales[saleID]
	assert.True(t, sale.Processed)
	require.NotNil(t, sale.CommissionID)
	assert.Equal(t, created.ID, *sale.CommissionID)

	assert.True(t, f.beginner.tx.committed)
}

func TestCommissionService_CreateSkipsCanceledSales(t *testing.T) {
	f := newFixture(t)
	keptID := f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)
	canceledID := f.addSale("2026-01-12", 4, "80", salemodel.OriginDirect)
	f.saleRepo.sales[canceledID].Status = salemodel.StatusCanceled

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	// Only the completed sale aggregates.
	assert.Equal(t, "100.00", created.TotalSales.StringFixed(2))
	assert.Equal(t, "9.00", created.CommissionAmount.StringFixed(2))
	assert.Equal(t, 2, created.TotalQuantity)
	assert.Equal(t, []uuid.UUID{keptID}, created.SaleIDs)

	// The canceled sale stays out of the ledger entirely.
	canceled := f.saleRepo.sales[canceledID]
	assert.False(t, canceled.Processed)
	assert.Nil(t, canceled.CommissionID)
}

func TestCommissionService_CreateUsesAuthorRate(t *testing.T) {
	f := newFixture(t)
	f.authorRepo.authors[f.authorID].CommissionRate = decimal.RequireFromString("20")
	f.addSale("2026-01-10", 1, "100", salemodel.OriginDirect)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	assert.Equal(t, "20.00", created.CommissionRate.StringFixed(2))
	assert.Equal(t, "18.00", created.CommissionAmount.StringFixed(2))
}

func TestCommissionService_CreateEmptyWindowWritesNothing(t *testing.T) {
	f := newFixture(t)
	f.addSale("2025-06-01", 1, "50", salemodel.OriginDirect) // outside window

	_, err := f.svc.Create(context.Background(), f.createRequest())
	assert.ErrorIs(t, err, model.ErrNoSalesInPeriod)

	assert.Empty(t, f.repo.commissions)
	assert.True(t, f.beginner.tx.rolledBack)
}

func TestCommissionService_CreateAuthorNotFound(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest()
	req.AuthorID = uuid.New()

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestCommissionService_CreateAuthorWithoutBooks(t *testing.T) {
	f := newFixture(t)
	f.authorRepo.bookCounts[f.authorID] = 0

	_, err := f.svc.Create(context.Background(), f.createRequest())
	assert.ErrorIs(t, err, model.ErrAuthorHasNoBooks)
}

func TestCommissionService_CreateInvalidWindow(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest()
	req.StartDate = "2026-02-01"
	req.EndDate = "2026-01-01"

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidWindow)
}

func TestCommissionService_CreateAbortsOnPartialClaim(t *testing.T) {
	f := newFixture(t)
	f.addSale("2026-01-10", 1, "50", salemodel.OriginDirect)
	f.addSale("2026-01-11", 1, "50", salemodel.OriginDirect)
	f.saleRepo.claimShortfall = 1

	_, err := f.svc.Create(context.Background(), f.createRequest())
	assert.ErrorIs(t, err, model.ErrSalesAlreadyClaimed)
	assert.True(t, f.beginner.tx.rolledBack)
}

// ────────────────────────────────────────────────────────────────
// Delete / round-trip
// ────────────────────────────────────────────────────────────────

func TestCommissionService_DeleteReleasesSales(t *testing.T) {
	f := newFixture(t)
	saleID := f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), created.ID))

	sale := f.saleRepo.sales[saleID]
	assert.False(t, sale.Processed)
	assert.Nil(t, sale.CommissionID)

	_, err = f.svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrCommissionNotFound)
}

func TestCommissionService_DeleteThenRecreateReproducesTotals(t *testing.T) {
	f := newFixture(t)
	f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)
	f.addSale("2026-01-15", 1, "200", salemodel.OriginPartner)

	first, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), first.ID))

	second, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	assert.True(t, second.TotalSales.Equal(first.TotalSales))
	assert.True(t, second.CalculatedAmount.Equal(first.CalculatedAmount))
	assert.ElementsMatch(t, first.SaleIDs, second.SaleIDs)
}

func TestCommissionService_DeleteMissing(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrCommissionNotFound)
}

// ────────────────────────────────────────────────────────────────
// MarkPaid / Edit
// ────────────────────────────────────────────────────────────────

func TestCommissionService_MarkPaid(t *testing.T) {
	f := newFixture(t)
	f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	method := "pix"
	paid, err := f.svc.MarkPaid(context.Background(), created.ID, &model.PayCommissionRequest{PaymentMethod: &method})
	require.NoError(t, err)

	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "pix", *paid.PaymentMethod)
}

func TestCommissionService_MarkPaidTwiceFails(t *testing.T) {
	f := newFixture(t)
	f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(context.Background(), created.ID, &model.PayCommissionRequest{})
	require.NoError(t, err)
	firstPaymentDate := *paid.PaymentDate

	_, err = f.svc.MarkPaid(context.Background(), created.ID, &model.PayCommissionRequest{})
	assert.ErrorIs(t, err, model.ErrAlreadyPaid)
	assert.Equal(t, firstPaymentDate, *f.repo.commissions[created.ID].PaymentDate)
}

func TestCommissionService_EditPreservesCalculatedAmount(t *testing.T) {
	f := newFixture(t)
	f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	override := decimal.RequireFromString("12.34")
	updated, err := f.svc.Update(context.Background(), created.ID, &model.UpdateCommissionRequest{
		CommissionAmount: &override,
		Version:          created.Version,
	})
	require.NoError(t, err)

	assert.Equal(t, "12.34", updated.CommissionAmount.StringFixed(2))
	assert.Equal(t, "9.00", updated.CalculatedAmount.StringFixed(2))
	assert.Equal(t, created.SaleIDs, updated.SaleIDs)
}

func TestCommissionService_EditRejectsNegativeAmount(t *testing.T) {
	f := newFixture(t)
	f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)

	created, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	negative := decimal.RequireFromString("-1")
	_, err = f.svc.Update(context.Background(), created.ID, &model.UpdateCommissionRequest{
		CommissionAmount: &negative,
		Version:          created.Version,
	})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

// ────────────────────────────────────────────────────────────────
// Lists
// ────────────────────────────────────────────────────────────────

func TestCommissionService_PendingAndPaidSums(t *testing.T) {
	f := newFixture(t)
	f.addSale("2026-01-10", 2, "50", salemodel.OriginDirect)
	f.addSale("2026-02-10", 2, "50", salemodel.OriginDirect)

	first, err := f.svc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	req := f.createRequest()
	req.StartDate = "2026-02-01"
	req.EndDate = "2026-02-28"
	_, err = f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(context.Background(), first.ID, &model.PayCommissionRequest{})
	require.NoError(t, err)

	pending, err := f.svc.GetPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Total)
	assert.Equal(t, "9.00", pending.TotalAmount.StringFixed(2))

	paid, err := f.svc.GetPaid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), paid.Total)
	assert.Equal(t, "9.00", paid.TotalAmount.StringFixed(2))
}
