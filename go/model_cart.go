package storefrontserver

import (
	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
)

type CartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	Available int             `json:"available"`
}

// Cart is the priced cart view.
type Cart struct {
	Lines         []CartLine      `json:"lines"`
	ItemsTotal    decimal.Decimal `json:"itemsTotal"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	TotalQuantity int             `json:"totalQuantity"`
}

func fromDomainQuote(q cartdomain.Quote) Cart {
	lines := make([]CartLine, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, CartLine(l))
	}
	return Cart{
		Lines:         lines,
		ItemsTotal:    q.ItemsTotal,
		DeliveryFee:   q.DeliveryFee,
		GrandTotal:    q.GrandTotal,
		TotalQuantity: q.TotalQuantity,
	}
}
