package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"restaurant-orders/models"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity one order line can hold (order_items.quantity is INT).
const MaxQuantity = math.MaxInt32

// ValidateCart checks quantities and merges repeated food ids into one entry,
// keeping the position of the first occurrence.
func ValidateCart(cart []models.CartEntry) ([]models.CartEntry, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	merged := make([]models.CartEntry, 0, len(cart))
	pos := make(map[int64]int, len(cart))
	for _, e := range cart {
		if e.Quantity < 1 || e.Quantity > MaxQuantity {
			return nil, fmt.Errorf("%w: food %d has quantity %d", ErrInvalidQuantity, e.FoodID, e.Quantity)
		}
		if i, ok := pos[e.FoodID]; ok {
			if e.Quantity > MaxQuantity-merged[i].Quantity {
				return nil, fmt.Errorf("%w: food %d exceeds %d in total", ErrInvalidQuantity, e.FoodID, MaxQuantity)
			}
			merged[i].Quantity += e.Quantity
			continue
		}
		pos[e.FoodID] = len(merged)
		merged = append(merged, e)
	}
	return merged, nil
}

// Price turns a cart into priced lines and a total using the current catalog prices.
// It has no side effects.
func Price(ctx context.Context, cart []models.CartEntry, lookup CatalogLookup) (*models.Bill, error) {
	entries, err := ValidateCart(cart)
	if err != nil {
		return nil, err
	}
	bill := &models.Bill{
		Lines: make([]models.BillLine, 0, len(entries)),
		Total: decimal.Zero,
	}
	for _, e := range entries {
		item, err := lookup.LookupFood(ctx, e.FoodID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrUnknownFoodItem, e.FoodID)
			}
			return nil, fmt.Errorf("%w: lookup food %d: %w", ErrPersistence, e.FoodID, err)
		}
		unit := item.Price.Round(2)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(e.Quantity))).Round(2)
		bill.Lines = append(bill.Lines, models.BillLine{
			FoodID:    e.FoodID,
			Name:      item.Name,
			UnitPrice: unit,
			Quantity:  e.Quantity,
			LineTotal: lineTotal,
		})
		bill.Total = bill.Total.Add(lineTotal)
	}
	bill.Total = bill.Total.Round(2)
	return bill, nil
}
