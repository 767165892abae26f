package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	maxProductNameLength = 200
	maxSKULength         = 64
)

var (
	ErrEmptyName          = errors.New("product name is required")
	ErrNameTooLong        = errors.New("product name must be at most 200 characters")
	ErrEmptySKU           = errors.New("product SKU is required")
	ErrSKUTooLong         = errors.New("product SKU must be at most 64 characters")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrNegativeStock      = errors.New("stock quantity must not be negative")
	ErrDiscountOutOfRange = errors.New("discount must be greater than 0 and less than 90 percent")
)

var (
	minDiscount = decimal.Zero
	maxDiscount = decimal.NewFromInt(90)
	hundred     = decimal.NewFromInt(100)
)

// Product is a sellable catalog item.
type Product struct {
	ID              int64
	SKU             string
	Name            string
	Description     string
	Price           decimal.Decimal
	DiscountPercent *decimal.Decimal
	StockQuantity   int
	CategoryID      *int64
	SupplierID      *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasDiscount reports whether a positive discount applies.
func (p *Product) HasDiscount() bool {
	return p.DiscountPercent != nil && p.DiscountPercent.IsPositive()
}

// EffectivePrice is the display price after discount, rounded to cents.
// Cart and checkout totals use Price, not this value.
func (p *Product) EffectivePrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price
	}
	factor := hundred.Sub(*p.DiscountPercent).Div(hundred)
	return p.Price.Mul(factor).Round(2)
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return p.StockQuantity >= qty
}

// Normalize trims the text fields.
func (p *Product) Normalize() {
	p.SKU = strings.TrimSpace(p.SKU)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

// Validate applies the administration rules for a product record.
func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return ErrEmptyName
	case len([]rune(p.Name)) > maxProductNameLength:
		return ErrNameTooLong
	case p.SKU == "":
		return ErrEmptySKU
	case len(p.SKU) > maxSKULength:
		return ErrSKUTooLong
	case p.Price.IsNegative():
		return ErrNegativePrice
	case p.StockQuantity < 0:
		return ErrNegativeStock
	}
	if p.DiscountPercent != nil {
		d := *p.DiscountPercent
		if d.LessThanOrEqual(minDiscount) || d.GreaterThanOrEqual(maxDiscount) {
			return ErrDiscountOutOfRange
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	copy := *p
	if p.DiscountPercent != nil {
		d := *p.DiscountPercent
		copy.DiscountPercent = &d
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		copy.CategoryID = &id
	}
	if p.SupplierID != nil {
		id := *p.SupplierID
		copy.SupplierID = &id
	}
	return &copy
}
