package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlaced is published once an order has been committed.
type OrderPlaced struct {
	EventID       string            `json:"eventId"`
	OrderID       int64             `json:"orderId"`
	CustomerID    int64             `json:"customerId"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	PaymentMethod string            `json:"paymentMethod"`
	Lines         []OrderPlacedLine `json:"lines"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

type OrderPlacedLine struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// EventPublisher announces committed orders to other systems.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlaced) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }
