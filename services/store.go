package services

import (
	"context"
	"time"

	"restaurant-orders/models"
)

// CatalogLookup resolves a food id to its current catalog row.
// Implementations return ErrNotFound when the id does not exist.
type CatalogLookup interface {
	LookupFood(ctx context.Context, foodID int64) (*models.FoodItem, error)
}

type CatalogLister interface {
	ListFoodItems(ctx context.Context) ([]models.FoodItem, error)
}

// OrderStore persists orders. CommitOrder writes the header and all lines
// as one unit or nothing at all. Readers never see an order without its lines.
type OrderStore interface {
	CommitOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) (int64, error)
	QueryOrdersInRange(ctx context.Context, start, end time.Time) ([]models.Order, error)
	QueryLinesForOrders(ctx context.Context, orderIDs []int64) ([]models.OrderLine, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderLine, error)
}

// Store is what the engine needs from storage.
type Store interface {
	CatalogLookup
	CatalogLister
	OrderStore
}
