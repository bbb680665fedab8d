package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartEntry is one requested (food, quantity) pair. Carts are never persisted.
type CartEntry struct {
	FoodID   int64
	Quantity int
}

// Order is a row from orders table.
type Order struct {
	ID        int64
	UserID    string
	CreatedAt time.Time // second precision
	Total     decimal.Decimal
}

// OrderLine is a row from order_items. UnitPrice is the catalog price at order time.
type OrderLine struct {
	OrderID   int64
	FoodID    int64
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// BillLine is a priced cart entry.
type BillLine struct {
	FoodID    int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

type Bill struct {
	Lines []BillLine
	Total decimal.Decimal
}

// Receipt is a committed order with its priced lines, for rendering.
type Receipt struct {
	Order Order
	Lines []BillLine
}

type ReportItem struct {
	FoodID   int64
	Name     string
	Quantity int64
	Revenue  decimal.Decimal
}

// MonthlyReport is derived from committed orders and never stored.
type MonthlyReport struct {
	Month        int
	Year         int
	OrdersCount  int
	TotalRevenue decimal.Decimal
	Items        []ReportItem // quantity desc, food id asc
}
