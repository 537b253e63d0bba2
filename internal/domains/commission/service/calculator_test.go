package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher-backend/internal/domains/commission/model"
	salemodel "publisher-backend/internal/domains/sale/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(bookID uuid.UUID, title string, authors []string, qty int, price string, origin salemodel.Origin) SaleLine {
	return SaleLine{
		SaleID:      uuid.New(),
		BookID:      bookID,
		BookTitle:   title,
		BookAuthors: authors,
		Quantity:    qty,
		UnitPrice:   dec(price),
		Origin:      origin,
	}
}

func TestCalculator_DirectSale(t *testing.T) {
	// One book at R$50, two copies sold direct: lineTotal 100,
	// retention 90%, author share 10% of retention.
	bookID := uuid.New()
	calc := NewCalculator()

	result, err := calc.Calculate(dec("10"), []SaleLine{
		line(bookID, "Dom Casmurro", []string{"Machado"}, 2, "50", salemodel.OriginDirect),
	})
	require.NoError(t, err)

	assert.Equal(t, "100.00", result.TotalSales.StringFixed(2))
	assert.Equal(t, 2, result.TotalQuantity)
	assert.Equal(t, "9.00", result.AuthorCommission.StringFixed(2))
	assert.Equal(t, "81.00", result.Direct.PublisherRevenue.StringFixed(2))
	assert.Equal(t, 1, result.Direct.SaleCount)
	assert.Equal(t, 0, result.Partner.SaleCount)
}

func TestCalculator_PartnerSale(t *testing.T) {
	// One copy at R$200 through a partner: retention 30%,
	// author 10% of retention, partner keeps 70%.
	bookID := uuid.New()
	calc := NewCalculator()

	result, err := calc.Calculate(dec("10"), []SaleLine{
		line(bookID, "Dom Casmurro", []string{"Machado"}, 1, "200", salemodel.OriginPartner),
	})
	require.NoError(t, err)

	assert.Equal(t, "200.00", result.TotalSales.StringFixed(2))
	assert.Equal(t, "6.00", result.AuthorCommission.StringFixed(2))
	assert.Equal(t, "54.00", result.Partner.PublisherRevenue.StringFixed(2))
	assert.Equal(t, "140.00", result.Partner.PartnerRevenue.StringFixed(2))
}

func TestCalculator_SplitIdentities(t *testing.T) {
	bookID := uuid.New()
	calc := NewCalculator()

	t.Run("partner splits sum to line total", func(t *testing.T) {
		result, err := calc.Calculate(dec("10"), []SaleLine{
			line(bookID, "B", []string{"A"}, 3, "19.90", salemodel.OriginPartner),
		})
		require.NoError(t, err)

		sum := result.Partner.AuthorCommission.
			Add(result.Partner.PublisherRevenue).
			Add(result.Partner.PartnerRevenue)
		assert.True(t, sum.Equal(result.Partner.TotalSales),
			"commission + publisher + partner = %s, want %s", sum, result.Partner.TotalSales)
	})

	t.Run("direct splits plus platform cost sum to line total", func(t *testing.T) {
		result, err := calc.Calculate(dec("10"), []SaleLine{
			line(bookID, "B", []string{"A"}, 3, "19.90", salemodel.OriginDirect),
		})
		require.NoError(t, err)

		platformCost := result.Direct.TotalSales.Mul(dec("0.10"))
		sum := result.Direct.AuthorCommission.
			Add(result.Direct.PublisherRevenue).
			Add(platformCost)
		assert.True(t, sum.Equal(result.Direct.TotalSales),
			"commission + publisher + platform = %s, want %s", sum, result.Direct.TotalSales)
	})
}

func TestCalculator_CustomRate(t *testing.T) {
	// An author with a negotiated 20% share of retention.
	bookID := uuid.New()
	calc := NewCalculator()

	result, err := calc.Calculate(dec("20"), []SaleLine{
		line(bookID, "B", []string{"A"}, 1, "100", salemodel.OriginDirect),
	})
	require.NoError(t, err)

	// retention 90, 20% of it is 18
	assert.Equal(t, "18.00", result.AuthorCommission.StringFixed(2))
	assert.Equal(t, "72.00", result.Direct.PublisherRevenue.StringFixed(2))
}

func TestCalculator_MixedOrigins(t *testing.T) {
	bookID := uuid.New()
	calc := NewCalculator()

	result, err := calc.Calculate(dec("10"), []SaleLine{
		line(bookID, "B", []string{"A"}, 2, "50", salemodel.OriginDirect),
		line(bookID, "B", []string{"A"}, 1, "200", salemodel.OriginPartner),
	})
	require.NoError(t, err)

	assert.Equal(t, "300.00", result.TotalSales.StringFixed(2))
	assert.Equal(t, 3, result.TotalQuantity)
	assert.Equal(t, "15.00", result.AuthorCommission.StringFixed(2))
	assert.Equal(t, 1, result.Direct.SaleCount)
	assert.Equal(t, 1, result.Partner.SaleCount)
	assert.Len(t, result.SaleIDs, 2)
}

func TestCalculator_CoAuthoredBreakdown(t *testing.T) {
	soloBook := uuid.New()
	coBook := uuid.New()
	calc := NewCalculator()

	result, err := calc.Calculate(dec("10"), []SaleLine{
		line(soloBook, "Solo", []string{"Ana"}, 1, "100", salemodel.OriginDirect),
		line(coBook, "Duo", []string{"Ana", "Bruno"}, 1, "100", salemodel.OriginDirect),
	})
	require.NoError(t, err)

	// The aggregate uses the full rate regardless of co-authorship.
	assert.Equal(t, "18.00", result.AuthorCommission.StringFixed(2))

	require.Len(t, result.IntegralDetails, 1)
	integral := result.IntegralDetails[0]
	assert.Equal(t, soloBook, integral.BookID)
	assert.Equal(t, "9.00", integral.BookCommission.StringFixed(2))

	require.Len(t, result.DividedDetails, 1)
	divided := result.DividedDetails[0]
	assert.Equal(t, coBook, divided.BookID)
	assert.Equal(t, []string{"Ana", "Bruno"}, divided.CoAuthors)
	assert.Equal(t, "10.00", divided.OriginalRate.StringFixed(2))
	assert.Equal(t, "5.00", divided.DividedRate.StringFixed(2))
	assert.Equal(t, "4.50", divided.BookCommission.StringFixed(2))
}

func TestCalculator_EmptyInput(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Calculate(dec("10"), nil)
	assert.ErrorIs(t, err, model.ErrNoSalesInPeriod)
}

func TestCalculator_RoundsAggregatesOnly(t *testing.T) {
	// 3 × 33.33 = 99.99; retention 89.991; commission 8.9991 → 9.00 rounded.
	bookID := uuid.New()
	calc := NewCalculator()

	result, err := calc.Calculate(dec("10"), []SaleLine{
		line(bookID, "B", []string{"A"}, 3, "33.33", salemodel.OriginDirect),
	})
	require.NoError(t, err)

	assert.Equal(t, "99.99", result.TotalSales.StringFixed(2))
	assert.Equal(t, "9.00", result.AuthorCommission.StringFixed(2))
	assert.Equal(t, "80.99", result.Direct.PublisherRevenue.StringFixed(2))
}
