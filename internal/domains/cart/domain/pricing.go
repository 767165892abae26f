package domain

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

var (
	// FreeDeliveryThreshold is the items total from which delivery is free.
	FreeDeliveryThreshold = decimal.NewFromInt(2000)
	// FlatDeliveryFee applies below FreeDeliveryThreshold.
	FlatDeliveryFee = decimal.NewFromInt(300)
)

// LineItem is a cart entry resolved against live product data.
type LineItem struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
	// Available is the live stock at the time the line was built.
	Available int
}

// BuildLineItems joins entries with products. Entries whose product is missing
// are skipped. Unit prices are the undiscounted list price.
func BuildLineItems(entries []Entry, products map[int64]*catalogdomain.Product) []LineItem {
	lines := make([]LineItem, 0, len(entries))
	for _, e := range entries {
		p, ok := products[e.ProductID]
		if !ok || p == nil {
			continue
		}
		lines = append(lines, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  e.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(e.Quantity))),
			Available: p.StockQuantity,
		})
	}
	return lines
}

// TotalAmount sums the line totals.
func TotalAmount(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

// DeliveryFee is free from FreeDeliveryThreshold, otherwise FlatDeliveryFee.
func DeliveryFee(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThanOrEqual(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return FlatDeliveryFee
}

// Quote is the priced view of a cart.
type Quote struct {
	Lines         []LineItem
	ItemsTotal    decimal.Decimal
	DeliveryFee   decimal.Decimal
	GrandTotal    decimal.Decimal
	TotalQuantity int
}

// NewQuote prices lines. An empty cart has no delivery fee.
func NewQuote(lines []LineItem) Quote {
	q := Quote{Lines: lines, ItemsTotal: TotalAmount(lines), DeliveryFee: decimal.Zero}
	for _, l := range lines {
		q.TotalQuantity += l.Quantity
	}
	if len(lines) > 0 {
		q.DeliveryFee = DeliveryFee(q.ItemsTotal)
	}
	q.GrandTotal = q.ItemsTotal.Add(q.DeliveryFee)
	return q
}
