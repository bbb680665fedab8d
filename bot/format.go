package bot

import (
	"fmt"
	"strconv"
	"strings"

	"restaurant-orders/models"
)

// ParseCart reads "<food id>x<qty>" tokens separated by spaces or commas.
// A bare id means quantity 1.
func ParseCart(s string) ([]models.CartEntry, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\n' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("no items selected")
	}
	cart := make([]models.CartEntry, 0, len(fields))
	for _, f := range fields {
		idStr, qtyStr, hasQty := strings.Cut(strings.ToLower(f), "x")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid food ID %q", idStr)
		}
		qty := 1
		if hasQty {
			if qty, err = strconv.Atoi(qtyStr); err != nil {
				return nil, fmt.Errorf("invalid quantity %q", qtyStr)
			}
		}
		cart = append(cart, models.CartEntry{FoodID: id, Quantity: qty})
	}
	return cart, nil
}

// ParsePeriod reads "MM YYYY" or "MM/YYYY".
func ParsePeriod(s string) (month, year int, err error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '/' || r == '-' })
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected month and year")
	}
	if month, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid month %q", parts[0])
	}
	if year, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", parts[1])
	}
	return month, year, nil
}

var categoryTitles = map[string]string{
	models.CategoryVeg:    "Veg Food Items",
	models.CategoryNonVeg: "Non-veg Food Items",
}

func FormatMenu(menu map[string][]models.FoodItem) string {
	var sb strings.Builder
	empty := true
	for _, cat := range models.Categories {
		items := menu[cat]
		if len(items) == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(&sb, "%s\n", categoryTitles[cat])
		for _, it := range items {
			fmt.Fprintf(&sb, "%d  %s  Rs %s\n", it.ID, it.Name, it.Price.StringFixed(2))
		}
		sb.WriteString("\n")
	}
	if empty {
		return "No items in menu!"
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatReceipt(r *models.Receipt) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Bill #%d (%s)\n", r.Order.ID, r.Order.CreatedAt.Format("2006-01-02 15:04:05"))
	for _, l := range r.Lines {
		fmt.Fprintf(&sb, "%s  Rs %s x %d = Rs %s\n",
			l.Name, l.UnitPrice.StringFixed(2), l.Quantity, l.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&sb, "\nTotal: Rs %s", r.Order.Total.StringFixed(2))
	return sb.String()
}

func FormatReport(r *models.MonthlyReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Monthly Report (%02d/%d)\n", r.Month, r.Year)
	fmt.Fprintf(&sb, "Orders: %d\n", r.OrdersCount)
	fmt.Fprintf(&sb, "Total Income: Rs %s\n", r.TotalRevenue.StringFixed(2))
	if len(r.Items) == 0 {
		sb.WriteString("\nNo items sold.")
		return sb.String()
	}
	sb.WriteString("\nTop Selling Items\n")
	for _, it := range r.Items {
		fmt.Fprintf(&sb, "- %s: %d units sold (Rs %s revenue)\n", it.Name, it.Quantity, it.Revenue.StringFixed(2))
	}
	return strings.TrimRight(sb.String(), "\n")
}
