package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"restaurant-orders/models"

	"github.com/shopspring/decimal"
)

// MemoryStore keeps the catalog and orders in process memory. A single
// RWMutex makes every commit all-or-nothing for readers.
type MemoryStore struct {
	mu        sync.RWMutex
	foods     map[int64]models.FoodItem
	orders    map[int64]models.Order
	lines     map[int64][]models.OrderLine
	nextFood  int64
	nextOrder int64
	commitErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		foods:  make(map[int64]models.FoodItem),
		orders: make(map[int64]models.Order),
		lines:  make(map[int64][]models.OrderLine),
	}
}

// AddFood inserts a catalog row and returns its id.
func (s *MemoryStore) AddFood(category, name string, price decimal.Decimal) (int64, error) {
	if !models.ValidCategory(category) {
		return 0, fmt.Errorf("invalid category: %s", category)
	}
	if name == "" {
		return 0, fmt.Errorf("name is required")
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("price must be >= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.foods {
		if f.Name == name {
			return 0, fmt.Errorf("food %q already exists", name)
		}
	}
	s.nextFood++
	s.foods[s.nextFood] = models.FoodItem{ID: s.nextFood, Category: category, Name: name, Price: price}
	return s.nextFood, nil
}

func (s *MemoryStore) SetPrice(foodID int64, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.foods[foodID]; ok {
		f.Price = price
		s.foods[foodID] = f
	}
}

func (s *MemoryStore) DeleteFood(foodID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.foods, foodID)
}

// FailCommits makes every following CommitOrder return err (nil restores commits).
func (s *MemoryStore) FailCommits(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

func (s *MemoryStore) LookupFood(ctx context.Context, foodID int64) (*models.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.foods[foodID]
	if !ok {
		return nil, fmt.Errorf("food %d: %w", foodID, ErrNotFound)
	}
	return &f, nil
}

func (s *MemoryStore) ListFoodItems(ctx context.Context) ([]models.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.FoodItem, 0, len(s.foods))
	for _, f := range s.foods {
		items = append(items, f)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) CommitOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("%w: order has no lines", ErrPersistence)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commitErr != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistence, s.commitErr)
	}
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if seen[l.FoodID] {
			return 0, fmt.Errorf("%w: duplicate line for food %d", ErrPersistence, l.FoodID)
		}
		seen[l.FoodID] = true
		if l.Quantity < 1 || l.Quantity > MaxQuantity {
			return 0, fmt.Errorf("%w: food %d has quantity %d", ErrInvalidQuantity, l.FoodID, l.Quantity)
		}
		if _, ok := s.foods[l.FoodID]; !ok {
			return 0, fmt.Errorf("%w: %d", ErrUnknownFoodItem, l.FoodID)
		}
	}

	s.nextOrder++
	id := s.nextOrder
	o := *order
	o.ID = id
	stored := make([]models.OrderLine, len(lines))
	for i, l := range lines {
		l.OrderID = id
		stored[i] = l
	}
	s.orders[id] = o
	s.lines[id] = stored
	return id, nil
}

func (s *MemoryStore) QueryOrdersInRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if !o.CreatedAt.Before(start) && o.CreatedAt.Before(end) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) QueryLinesForOrders(ctx context.Context, orderIDs []int64) ([]models.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.OrderLine
	for _, id := range orderIDs {
		out = append(out, s.lines[id]...)
	}
	return out, nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	lines := append([]models.OrderLine(nil), s.lines[orderID]...)
	return &o, lines, nil
}

// Counts returns the number of stored orders and lines.
func (s *MemoryStore) Counts() (orders, lines int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ls := range s.lines {
		lines += len(ls)
	}
	return len(s.orders), lines
}
