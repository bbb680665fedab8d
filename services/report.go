package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"restaurant-orders/models"

	"github.com/shopspring/decimal"
)

// UnknownFoodName stands in for food items deleted from the catalog after being ordered.
const UnknownFoodName = "unknown"

// MonthRange returns [first day of month, first day of next month) in loc.
func MonthRange(month, year int, loc *time.Location) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	if year < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0), nil
}

// MonthlyReport sums revenue and ranks items by quantity sold for one calendar month.
// A month without orders yields a zero report, not an error.
func (e *Engine) MonthlyReport(ctx context.Context, month, year int) (*models.MonthlyReport, error) {
	start, end, err := MonthRange(month, year, e.loc)
	if err != nil {
		return nil, err
	}

	orders, err := e.store.QueryOrdersInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: query orders: %w", ErrPersistence, err)
	}
	report := &models.MonthlyReport{
		Month:        month,
		Year:         year,
		OrdersCount:  len(orders),
		TotalRevenue: decimal.Zero,
		Items:        []models.ReportItem{},
	}
	if len(orders) == 0 {
		return report, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		report.TotalRevenue = report.TotalRevenue.Add(o.Total)
	}
	report.TotalRevenue = report.TotalRevenue.Round(2)

	lines, err := e.store.QueryLinesForOrders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: query order lines: %w", ErrPersistence, err)
	}

	byFood := make(map[int64]*models.ReportItem)
	for _, l := range lines {
		it, ok := byFood[l.FoodID]
		if !ok {
			it = &models.ReportItem{FoodID: l.FoodID, Revenue: decimal.Zero}
			byFood[l.FoodID] = it
		}
		it.Quantity += int64(l.Quantity)
		it.Revenue = it.Revenue.Add(l.LineTotal())
	}

	names := newNameCache(e.store)
	for _, it := range byFood {
		name, err := names.get(ctx, it.FoodID)
		if err != nil {
			return nil, err
		}
		it.Name = name
		report.Items = append(report.Items, *it)
	}
	sort.Slice(report.Items, func(i, j int) bool {
		a, b := report.Items[i], report.Items[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.FoodID < b.FoodID
	})
	return report, nil
}

// nameCache resolves food names once per id, substituting UnknownFoodName for
// ids no longer in the catalog.
type nameCache struct {
	lookup CatalogLookup
	names  map[int64]string
}

func newNameCache(lookup CatalogLookup) *nameCache {
	return &nameCache{lookup: lookup, names: make(map[int64]string)}
}

func (c *nameCache) get(ctx context.Context, foodID int64) (string, error) {
	if n, ok := c.names[foodID]; ok {
		return n, nil
	}
	item, err := c.lookup.LookupFood(ctx, foodID)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warningf("food %d missing from catalog, reporting as %q", foodID, UnknownFoodName)
		c.names[foodID] = UnknownFoodName
	case err != nil:
		return "", fmt.Errorf("%w: lookup food %d: %w", ErrPersistence, foodID, err)
	default:
		c.names[foodID] = item.Name
	}
	return c.names[foodID], nil
}
