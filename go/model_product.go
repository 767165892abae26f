package storefrontserver

import (
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/storefront-api/internal/domains/catalog/domain"
)

// ProductMutation is the body of product create and update. Money accepts a
// JSON number or string.
type ProductMutation struct {
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	StockQuantity   int              `json:"stockQuantity"`
	CategoryID      *int64           `json:"categoryId,omitempty"`
	SupplierID      *int64           `json:"supplierId,omitempty"`
}

type Product struct {
	ID              int64            `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	HasDiscount     bool             `json:"hasDiscount"`
	EffectivePrice  decimal.Decimal  `json:"effectivePrice"`
	StockQuantity   int              `json:"stockQuantity"`
	CategoryID      *int64           `json:"categoryId,omitempty"`
	SupplierID      *int64           `json:"supplierId,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (m ProductMutation) toDomain(id int64) *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:              id,
		SKU:             m.SKU,
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		DiscountPercent: m.DiscountPercent,
		StockQuantity:   m.StockQuantity,
		CategoryID:      m.CategoryID,
		SupplierID:      m.SupplierID,
	}
}

func fromDomainProduct(p *catalogdomain.Product) Product {
	return Product{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		HasDiscount:     p.HasDiscount(),
		EffectivePrice:  p.EffectivePrice(),
		StockQuantity:   p.StockQuantity,
		CategoryID:      p.CategoryID,
		SupplierID:      p.SupplierID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func fromDomainProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, fromDomainProduct(p))
	}
	return out
}
