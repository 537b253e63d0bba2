package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 15, d.Day())

	_, err = ParseDate("15/01/2026")
	assert.Error(t, err)

	_, err = ParseDate("2026-13-40")
	assert.Error(t, err)
}

func TestOriginIsValid(t *testing.T) {
	assert.True(t, OriginDirect.IsValid())
	assert.True(t, OriginPartner.IsValid())
	assert.False(t, Origin("wholesale").IsValid())
	assert.False(t, Origin("").IsValid())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusCompleted.IsValid())
	assert.True(t, StatusCanceled.IsValid())
	assert.False(t, Status("refunded").IsValid())
}

func TestSaleLineTotal(t *testing.T) {
	s := Sale{Quantity: 3, UnitPrice: decimal.RequireFromString("19.90")}
	assert.Equal(t, "59.70", s.LineTotal().StringFixed(2))
}

func TestSaleIsEligibleForCommission(t *testing.T) {
	s := Sale{Status: StatusCompleted}
	assert.True(t, s.IsEligibleForCommission())

	s.Processed = true
	assert.False(t, s.IsEligibleForCommission())

	s.Processed = false
	s.Status = StatusCanceled
	assert.False(t, s.IsEligibleForCommission())
}

func TestCreateSaleRequestValidate(t *testing.T) {
	valid := CreateSaleRequest{
		BookID:    uuid.New(),
		SaleDate:  "2026-01-15",
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("50"),
		Origin:    OriginDirect,
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing book", func(t *testing.T) {
		req := valid
		req.BookID = uuid.Nil
		assert.Error(t, req.Validate())
	})

	t.Run("malformed date", func(t *testing.T) {
		req := valid
		req.SaleDate = "January 15"
		assert.Error(t, req.Validate())
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := valid
		req.Quantity = 0
		assert.Error(t, req.Validate())
	})

	t.Run("bad customer email", func(t *testing.T) {
		req := valid
		req.CustomerEmail = "not-an-email"
		assert.Error(t, req.Validate())
	})
}

func TestBulkCreateRequestValidate(t *testing.T) {
	assert.Error(t, BulkCreateRequest{}.Validate())

	req := BulkCreateRequest{Sales: []CreateSaleRequest{{
		BookID:   uuid.New(),
		SaleDate: "2026-01-15",
		Quantity: 1,
		Origin:   OriginDirect,
	}}}
	assert.NoError(t, req.Validate())
}
