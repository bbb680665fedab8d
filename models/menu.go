package models

import "github.com/shopspring/decimal"

type FoodItem struct {
	ID       int64
	Category string // "veg", "non-veg"
	Name     string
	Price    decimal.Decimal
}

const (
	CategoryVeg    = "veg"
	CategoryNonVeg = "non-veg"
)

// Categories lists menu sections in display order.
var Categories = []string{CategoryVeg, CategoryNonVeg}

func ValidCategory(c string) bool {
	return c == CategoryVeg || c == CategoryNonVeg
}
