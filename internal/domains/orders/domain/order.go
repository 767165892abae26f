package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/storefront-api/internal/domains/cart/domain"
)

// Status is the lifecycle state of a placed order.
type Status int

const (
	StatusNew        Status = 1
	StatusProcessing Status = 2
	StatusShipped    Status = 3
	StatusDelivered  Status = 4
	StatusCancelled  Status = 5
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusProcessing:
		return "processing"
	case StatusShipped:
		return "shipped"
	case StatusDelivered:
		return "delivered"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// PaymentMethod is how the customer pays on delivery.
type PaymentMethod int

const (
	PaymentCash PaymentMethod = 1
	PaymentCard PaymentMethod = 2
)

var ErrUnknownPaymentMethod = errors.New("payment method must be cash (1) or card (2)")

// ParsePaymentMethod validates a payment method id.
func ParsePaymentMethod(id int) (PaymentMethod, error) {
	switch pm := PaymentMethod(id); pm {
	case PaymentCash, PaymentCard:
		return pm, nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrUnknownPaymentMethod, id)
	}
}

func (p PaymentMethod) String() string {
	switch p {
	case PaymentCash:
		return "cash"
	case PaymentCard:
		return "card"
	default:
		return fmt.Sprintf("payment(%d)", int(p))
	}
}

// Order is a placed order header with its lines.
type Order struct {
	ID            int64
	CustomerID    int64
	OrderDate     time.Time
	TotalAmount   decimal.Decimal
	Status        Status
	PaymentMethod PaymentMethod
	Lines         []Line
}

// Line is one product of an order. UnitPrice is frozen at purchase time.
type Line struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal recomputes the total from the lines.
func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// NewOrder drafts a New order from priced line items. The header total and the
// lines come from the same snapshot, so they always agree.
func NewOrder(customerID int64, payment PaymentMethod, items []cartdomain.LineItem, now time.Time) *Order {
	order := &Order{
		CustomerID:    customerID,
		OrderDate:     now,
		TotalAmount:   cartdomain.TotalAmount(items),
		Status:        StatusNew,
		PaymentMethod: payment,
		Lines:         make([]Line, 0, len(items)),
	}
	for _, item := range items {
		order.Lines = append(order.Lines, Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return order
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	copy := *o
	copy.Lines = append([]Line(nil), o.Lines...)
	return &copy
}
