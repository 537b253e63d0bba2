package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"publisher-backend/internal/domains/commission/model"
	salemodel "publisher-backend/internal/domains/sale/model"
)

// Revenue split per origin, as percentages of the gross line total.
// The publisher retains the retention; the author's share is a percentage
// of that retention, not of the gross.
var (
	directRetentionPercent  = decimal.NewFromInt(90)
	partnerRetentionPercent = decimal.NewFromInt(30)
	oneHundred              = decimal.NewFromInt(100)
)

// SaleLine is one eligible sale enriched with its book metadata, the
// calculator's only view of the ledger.
type SaleLine struct {
	SaleID      uuid.UUID
	BookID      uuid.UUID
	BookTitle   string
	BookAuthors []string
	Quantity    int
	UnitPrice   decimal.Decimal
	Origin      salemodel.Origin
}

func (l SaleLine) lineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OriginTotals are the per-origin sub-aggregates of a calculation.
type OriginTotals struct {
	SaleCount        int             `json:"sale_count"`
	Quantity         int             `json:"quantity"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	AuthorCommission decimal.Decimal `json:"author_commission"`
	PublisherRevenue decimal.Decimal `json:"publisher_revenue"`

	// PartnerRevenue is the reseller's cut. Zero for the direct origin,
	// where the remainder is platform cost instead.
	PartnerRevenue decimal.Decimal `json:"partner_revenue"`
}

// CalculationResult is the engine's output for one author and window.
type CalculationResult struct {
	TotalSales       decimal.Decimal
	TotalQuantity    int
	AuthorCommission decimal.Decimal

	Direct  OriginTotals
	Partner OriginTotals

	SaleIDs         []uuid.UUID
	DividedDetails  []model.DividedDetail
	IntegralDetails []model.IntegralDetail
}

// Calculator computes an author's commission from a batch of sale lines.
// Pure, no I/O. Accumulation is unrounded; every monetary aggregate is
// rounded to 2 places on output.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

type bookAccumulator struct {
	bookID     uuid.UUID
	title      string
	authors    []string
	commission decimal.Decimal
}

// Calculate applies the per-origin split to every line and aggregates.
// rate is the author's share of the publisher retention, in percent.
func (c *Calculator) Calculate(rate decimal.Decimal, lines []SaleLine) (*CalculationResult, error) {
	if len(lines) == 0 {
		return nil, model.ErrNoSalesInPeriod
	}

	result := &CalculationResult{SaleIDs: make([]uuid.UUID, 0, len(lines))}

	perBook := make(map[uuid.UUID]*bookAccumulator)
	bookOrder := make([]uuid.UUID, 0)

	for _, line := range lines {
		total := line.lineTotal()

		var retentionPercent decimal.Decimal
		if line.Origin == salemodel.OriginPartner {
			retentionPercent = partnerRetentionPercent
		} else {
			retentionPercent = directRetentionPercent
		}

		retention := total.Mul(retentionPercent).Div(oneHundred)
		commission := retention.Mul(rate).Div(oneHundred)
		publisherRevenue := retention.Sub(commission)

		result.TotalSales = result.TotalSales.Add(total)
		result.TotalQuantity += line.Quantity
		result.AuthorCommission = result.AuthorCommission.Add(commission)

		sub := &result.Direct
		if line.Origin == salemodel.OriginPartner {
			sub = &result.Partner
			sub.PartnerRevenue = sub.PartnerRevenue.Add(total.Sub(retention))
		}
		sub.SaleCount++
		sub.Quantity += line.Quantity
		sub.TotalSales = sub.TotalSales.Add(total)
		sub.AuthorCommission = sub.AuthorCommission.Add(commission)
		sub.PublisherRevenue = sub.PublisherRevenue.Add(publisherRevenue)

		result.SaleIDs = append(result.SaleIDs, line.SaleID)

		acc, ok := perBook[line.BookID]
		if !ok {
			acc = &bookAccumulator{bookID: line.BookID, title: line.BookTitle, authors: line.BookAuthors}
			perBook[line.BookID] = acc
			bookOrder = append(bookOrder, line.BookID)
		}
		acc.commission = acc.commission.Add(commission)
	}

	c.buildBreakdown(result, rate, perBook, bookOrder)
	c.round(result)

	return result, nil
}

// buildBreakdown emits the audit-only per-book details. Co-authored books
// get a divided entry (rate split evenly across the book's authors);
// single-author books get an integral entry. The aggregates above are not
// affected.
func (c *Calculator) buildBreakdown(result *CalculationResult, rate decimal.Decimal, perBook map[uuid.UUID]*bookAccumulator, order []uuid.UUID) {
	for _, bookID := range order {
		acc := perBook[bookID]
		authorCount := len(acc.authors)

		if authorCount > 1 {
			count := decimal.NewFromInt(int64(authorCount))
			result.DividedDetails = append(result.DividedDetails, model.DividedDetail{
				BookID:         acc.bookID,
				BookTitle:      acc.title,
				CoAuthors:      acc.authors,
				OriginalRate:   rate,
				DividedRate:    rate.Div(count).Round(2),
				BookCommission: acc.commission.Div(count).Round(2),
			})
			continue
		}

		result.IntegralDetails = append(result.IntegralDetails, model.IntegralDetail{
			BookID:         acc.bookID,
			BookTitle:      acc.title,
			Rate:           rate,
			BookCommission: acc.commission.Round(2),
		})
	}
}

func (c *Calculator) round(result *CalculationResult) {
	result.TotalSales = result.TotalSales.Round(2)
	result.AuthorCommission = result.AuthorCommission.Round(2)

	for _, sub := range []*OriginTotals{&result.Direct, &result.Partner} {
		sub.TotalSales = sub.TotalSales.Round(2)
		sub.AuthorCommission = sub.AuthorCommission.Round(2)
		sub.PublisherRevenue = sub.PublisherRevenue.Round(2)
		sub.PartnerRevenue = sub.PartnerRevenue.Round(2)
	}
}
