package storefrontserver

import (
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
)

// CheckoutRequest selects the payment method: 1 cash, 2 card.
type CheckoutRequest struct {
	PaymentMethod int `json:"paymentMethod"`
}

type Receipt struct {
	OrderID     int64           `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	LineCount   int             `json:"lineCount"`
	Replayed    bool            `json:"replayed,omitempty"`
}

type OrderLine struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Order struct {
	ID            int64           `json:"id"`
	CustomerID    int64           `json:"customerId"`
	OrderDate     time.Time       `json:"orderDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	Lines         []OrderLine     `json:"lines"`
}

func fromDomainReceipt(r *ordersdomain.Receipt) Receipt {
	return Receipt{OrderID: r.OrderID, TotalAmount: r.TotalAmount, LineCount: r.LineCount, Replayed: r.Replayed}
}

func fromDomainOrder(o *ordersdomain.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.Total(),
		})
	}
	return Order{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		OrderDate:     o.OrderDate,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status.String(),
		PaymentMethod: o.PaymentMethod.String(),
		Lines:         lines,
	}
}

func fromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, fromDomainOrder(o))
	}
	return out
}
