package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-orders/models"

	"github.com/google/uuid"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("services")

// Engine places orders and builds reports. It keeps no state between calls
// besides its collaborators, so one Engine may be shared by all callers.
type Engine struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

func NewEngine(store Store, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{store: store, loc: loc, now: time.Now}
}

// PlaceOrder validates and prices the cart, then commits the order header and
// its lines atomically. Prices are read once here and frozen on the lines.
func (e *Engine) PlaceOrder(ctx context.Context, userID string, cart []models.CartEntry) (*models.Order, []models.OrderLine, error) {
	bill, err := Price(ctx, cart, e.store)
	if err != nil {
		log.Debugf("order rejected user=%s: %v", userID, err)
		return nil, nil, err
	}

	order := &models.Order{
		UserID:    userID,
		CreatedAt: e.now().In(e.loc).Truncate(time.Second),
		Total:     bill.Total,
	}
	lines := make([]models.OrderLine, len(bill.Lines))
	for i, bl := range bill.Lines {
		lines[i] = models.OrderLine{
			FoodID:    bl.FoodID,
			Quantity:  bl.Quantity,
			UnitPrice: bl.UnitPrice,
		}
	}

	id, err := e.store.CommitOrder(ctx, order, lines)
	if err != nil {
		attempt := uuid.NewString()
		log.Errorf("commit order failed attempt=%s user=%s lines=%d total=%s: %v",
			attempt, userID, len(lines), order.Total.StringFixed(2), err)
		if errors.Is(err, ErrPersistence) || errors.Is(err, ErrUnknownFoodItem) || errors.Is(err, ErrInvalidQuantity) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	order.ID = id
	for i := range lines {
		lines[i].OrderID = id
	}
	log.Infof("order #%d placed user=%s lines=%d total=%s", id, userID, len(lines), order.Total.StringFixed(2))
	return order, lines, nil
}

// GetReceipt re-reads a committed order for display. Lines whose food item
// was deleted from the catalog are shown with UnknownFoodName.
func (e *Engine) GetReceipt(ctx context.Context, orderID int64) (*models.Receipt, error) {
	order, lines, err := e.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get order %d: %w", ErrPersistence, orderID, err)
	}
	r := &models.Receipt{Order: *order, Lines: make([]models.BillLine, 0, len(lines))}
	names := newNameCache(e.store)
	for _, l := range lines {
		name, err := names.get(ctx, l.FoodID)
		if err != nil {
			return nil, err
		}
		r.Lines = append(r.Lines, models.BillLine{
			FoodID:    l.FoodID,
			Name:      name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
		})
	}
	return r, nil
}

// Menu returns the catalog grouped by category, in models.Categories order.
func (e *Engine) Menu(ctx context.Context) (map[string][]models.FoodItem, error) {
	items, err := e.store.ListFoodItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list food items: %w", ErrPersistence, err)
	}
	out := make(map[string][]models.FoodItem, len(models.Categories))
	for _, it := range items {
		out[it.Category] = append(out[it.Category], it)
	}
	return out, nil
}
