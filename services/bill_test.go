package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"restaurant-orders/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog is a read-only catalog for pricing tests.
type stubCatalog map[int64]models.FoodItem

func (c stubCatalog) LookupFood(ctx context.Context, foodID int64) (*models.FoodItem, error) {
	f, ok := c[foodID]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

type brokenCatalog struct{}

func (brokenCatalog) LookupFood(ctx context.Context, foodID int64) (*models.FoodItem, error) {
	return nil, errors.New("connection reset")
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testCatalog = stubCatalog{
	1: {ID: 1, Category: models.CategoryVeg, Name: "Paneer Tikka", Price: price("250.00")},
	2: {ID: 2, Category: models.CategoryNonVeg, Name: "Chicken Curry", Price: price("300.00")},
	3: {ID: 3, Category: models.CategoryVeg, Name: "Masala Chai", Price: price("0.10")},
	4: {ID: 4, Category: models.CategoryVeg, Name: "Lassi", Price: price("0.20")},
}

func TestPrice(t *testing.T) {
	bill, err := Price(context.Background(), []models.CartEntry{
		{FoodID: 1, Quantity: 1},
		{FoodID: 2, Quantity: 2},
	}, testCatalog)
	require.NoError(t, err)
	require.Len(t, bill.Lines, 2)

	assert.Equal(t, "Paneer Tikka", bill.Lines[0].Name)
	assert.Equal(t, "250.00", bill.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "Chicken Curry", bill.Lines[1].Name)
	assert.Equal(t, 2, bill.Lines[1].Quantity)
	assert.Equal(t, "600.00", bill.Lines[1].LineTotal.StringFixed(2))
	assert.Equal(t, "850.00", bill.Total.StringFixed(2))
}

func TestPriceHasNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 in binary floating point is 0.30000000000000004
	bill, err := Price(context.Background(), []models.CartEntry{
		{FoodID: 3, Quantity: 1},
		{FoodID: 4, Quantity: 1},
	}, testCatalog)
	require.NoError(t, err)
	assert.True(t, bill.Total.Equal(price("0.30")), "total = %s", bill.Total)

	bill, err = Price(context.Background(), []models.CartEntry{{FoodID: 3, Quantity: 3}}, testCatalog)
	require.NoError(t, err)
	assert.True(t, bill.Total.Equal(price("0.30")), "total = %s", bill.Total)
}

func TestPriceTotalEqualsSumOfLines(t *testing.T) {
	cat := stubCatalog{
		1: {ID: 1, Name: "a", Price: price("19.99")},
		2: {ID: 2, Name: "b", Price: price("0.05")},
		3: {ID: 3, Name: "c", Price: price("1234.567")},
	}
	bill, err := Price(context.Background(), []models.CartEntry{
		{FoodID: 1, Quantity: 7},
		{FoodID: 2, Quantity: 13},
		{FoodID: 3, Quantity: 3},
	}, cat)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, l := range bill.Lines {
		assert.True(t, l.LineTotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
		sum = sum.Add(l.LineTotal)
	}
	assert.True(t, bill.Total.Equal(sum), "total %s != sum %s", bill.Total, sum)
	assert.Equal(t, "1234.57", bill.Lines[2].UnitPrice.StringFixed(2))
}

func TestPriceMergesRepeatedItems(t *testing.T) {
	bill, err := Price(context.Background(), []models.CartEntry{
		{FoodID: 2, Quantity: 1},
		{FoodID: 1, Quantity: 1},
		{FoodID: 2, Quantity: 3},
	}, testCatalog)
	require.NoError(t, err)
	require.Len(t, bill.Lines, 2)
	assert.Equal(t, int64(2), bill.Lines[0].FoodID)
	assert.Equal(t, 4, bill.Lines[0].Quantity)
	assert.Equal(t, int64(1), bill.Lines[1].FoodID)
	assert.Equal(t, "1450.00", bill.Total.StringFixed(2))
}

func TestPriceErrors(t *testing.T) {
	tests := []struct {
		name string
		cart []models.CartEntry
		want error
	}{
		{"empty", nil, ErrEmptyCart},
		{"zero quantity", []models.CartEntry{{FoodID: 1, Quantity: 0}}, ErrInvalidQuantity},
		{"negative quantity", []models.CartEntry{{FoodID: 1, Quantity: 2}, {FoodID: 2, Quantity: -1}}, ErrInvalidQuantity},
		{"quantity above line limit", []models.CartEntry{{FoodID: 1, Quantity: MaxQuantity + 1}}, ErrInvalidQuantity},
		{"merged quantity above line limit", []models.CartEntry{{FoodID: 1, Quantity: MaxQuantity}, {FoodID: 2, Quantity: 1}, {FoodID: 1, Quantity: 2}}, ErrInvalidQuantity},
		{"merge would overflow int", []models.CartEntry{{FoodID: 1, Quantity: math.MaxInt}, {FoodID: 1, Quantity: 2}}, ErrInvalidQuantity},
		{"unknown item", []models.CartEntry{{FoodID: 1, Quantity: 1}, {FoodID: 99, Quantity: 1}}, ErrUnknownFoodItem},
		// quantities are checked before any lookup
		{"invalid before unknown", []models.CartEntry{{FoodID: 99, Quantity: 1}, {FoodID: 1, Quantity: 0}}, ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, err := Price(context.Background(), tt.cart, testCatalog)
			assert.Nil(t, bill)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPriceLookupFailureIsRetryable(t *testing.T) {
	_, err := Price(context.Background(), []models.CartEntry{{FoodID: 1, Quantity: 1}}, brokenCatalog{})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.NotErrorIs(t, err, ErrUnknownFoodItem)
}

func TestValidateCartMergesUpToLimit(t *testing.T) {
	cart, err := ValidateCart([]models.CartEntry{
		{FoodID: 1, Quantity: MaxQuantity - 1},
		{FoodID: 1, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, MaxQuantity, cart[0].Quantity)
}
