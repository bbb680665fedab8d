package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-orders/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore implements Store on the food_items, orders and order_items tables.
// Money crosses the wire as text to keep NUMERIC exact.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) LookupFood(ctx context.Context, foodID int64) (*models.FoodItem, error) {
	var f models.FoodItem
	var price string
	err := s.pool.QueryRow(ctx, `
		SELECT food_id, type, name, price::text FROM food_items WHERE food_id = $1`,
		foodID,
	).Scan(&f.ID, &f.Category, &f.Name, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("food %d: %w", foodID, ErrNotFound)
		}
		return nil, err
	}
	if f.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("food %d price %q: %w", foodID, price, err)
	}
	return &f, nil
}

func (s *PostgresStore) ListFoodItems(ctx context.Context) ([]models.FoodItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT food_id, type, name, price::text FROM food_items
		ORDER BY type, food_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.FoodItem
	for rows.Next() {
		var f models.FoodItem
		var price string
		if err := rows.Scan(&f.ID, &f.Category, &f.Name, &price); err != nil {
			return nil, err
		}
		if f.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("food %d price %q: %w", f.ID, price, err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// AddFood inserts a catalog row. Catalog management lives outside the engine;
// this exists for seeding and integration tests.
func (s *PostgresStore) AddFood(ctx context.Context, category, name string, price decimal.Decimal) (int64, error) {
	if !models.ValidCategory(category) {
		return 0, fmt.Errorf("invalid category: %s", category)
	}
	if name == "" {
		return 0, fmt.Errorf("name is required")
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("price must be >= 0")
	}
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO food_items (type, name, price) VALUES ($1, $2, $3::numeric)
		RETURNING food_id`,
		category, name, price.StringFixed(2),
	).Scan(&id)
	return id, err
}

// CommitOrder inserts the header and every line in one transaction.
// Each line insert re-checks the catalog row so a concurrent delete aborts the order.
func (s *PostgresStore) CommitOrder(ctx context.Context, order *models.Order, lines []models.OrderLine) (int64, error) {
	if len(lines) == 0 {
		return 0, fmt.Errorf("%w: order has no lines", ErrPersistence)
	}
	for _, l := range lines {
		if l.Quantity < 1 || l.Quantity > MaxQuantity {
			return 0, fmt.Errorf("%w: food %d has quantity %d", ErrInvalidQuantity, l.FoodID, l.Quantity)
		}
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx: %w", ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, created_at, total)
		VALUES ($1, $2, $3::numeric)
		RETURNING order_id`,
		order.UserID, order.CreatedAt, order.Total.StringFixed(2),
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: insert order: %w", ErrPersistence, err)
	}

	for i, l := range lines {
		tag, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, food_id, position, quantity, price)
			SELECT $1, $2, $3, $4, $5::numeric
			WHERE EXISTS (SELECT 1 FROM food_items WHERE food_id = $2)`,
			orderID, l.FoodID, i, l.Quantity, l.UnitPrice.StringFixed(2),
		)
		if err != nil {
			return 0, fmt.Errorf("%w: insert order item food=%d: %w", ErrPersistence, l.FoodID, err)
		}
		if tag.RowsAffected() == 0 {
			return 0, fmt.Errorf("%w: %d", ErrUnknownFoodItem, l.FoodID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: commit tx: %w", ErrPersistence, err)
	}
	return orderID, nil
}

func (s *PostgresStore) QueryOrdersInRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT order_id, user_id, created_at, total::text
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY order_id`,
		start, end,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (s *PostgresStore) QueryLinesForOrders(ctx context.Context, orderIDs []int64) ([]models.OrderLine, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT order_id, food_id, quantity, price::text
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`,
		orderIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLines(rows)
}

func (s *PostgresStore) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderLine, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, `
		SELECT order_id, user_id, created_at, total::text
		FROM orders WHERE order_id = $1`,
		orderID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, nil, err
	}
	lines, err := s.QueryLinesForOrders(ctx, []int64{orderID})
	if err != nil {
		return nil, nil, err
	}
	return o, lines, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var total string
	if err := row.Scan(&o.ID, &o.UserID, &o.CreatedAt, &total); err != nil {
		return nil, err
	}
	var err error
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("order %d total %q: %w", o.ID, total, err)
	}
	return &o, nil
}

func scanLines(rows pgx.Rows) ([]models.OrderLine, error) {
	var out []models.OrderLine
	for rows.Next() {
		var l models.OrderLine
		var price string
		if err := rows.Scan(&l.OrderID, &l.FoodID, &l.Quantity, &price); err != nil {
			return nil, err
		}
		var err error
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("order %d food %d price %q: %w", l.OrderID, l.FoodID, price, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
