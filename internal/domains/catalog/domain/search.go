package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Thresholds used by the catalog filters.
var (
	ExpensiveThreshold = decimal.NewFromInt(1000)
	LowStockThreshold  = 10
)

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	SortNameAsc   SortOrder = "name_asc"
	SortNameDesc  SortOrder = "name_desc"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortStockAsc  SortOrder = "stock_asc"
)

// ParseSortOrder accepts the known orders; empty means name_asc.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(raw))); order {
	case "":
		return SortNameAsc, nil
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortStockAsc:
		return order, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", raw)
	}
}

// SearchQuery filters and orders the catalog.
type SearchQuery struct {
	Text          string
	CategoryID    *int64
	OnlyExpensive bool
	LowStock      bool
	Sort          SortOrder
}

// Matches reports whether p passes every filter of the query.
func (q SearchQuery) Matches(p *Product) bool {
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		if !strings.Contains(strings.ToLower(p.Name), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) &&
			!strings.Contains(strings.ToLower(p.SKU), text) {
			return false
		}
	}
	if q.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *q.CategoryID) {
		return false
	}
	if q.OnlyExpensive && !p.Price.GreaterThan(ExpensiveThreshold) {
		return false
	}
	if q.LowStock && p.StockQuantity >= LowStockThreshold {
		return false
	}
	return true
}

// Apply filters and sorts products in place of a database query.
func (q SearchQuery) Apply(products []*Product) []*Product {
	result := make([]*Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return q.less(result[i], result[j]) })
	return result
}

func (q SearchQuery) less(a, b *Product) bool {
	switch q.Sort {
	case SortNameDesc:
		return strings.ToLower(a.Name) > strings.ToLower(b.Name)
	case SortPriceAsc:
		if !a.Price.Equal(b.Price) {
			return a.Price.LessThan(b.Price)
		}
	case SortPriceDesc:
		if !a.Price.Equal(b.Price) {
			return a.Price.GreaterThan(b.Price)
		}
	case SortStockAsc:
		if a.StockQuantity != b.StockQuantity {
			return a.StockQuantity < b.StockQuantity
		}
	}
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}
