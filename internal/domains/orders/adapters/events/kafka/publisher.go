package kafka

import (
	"context"
	"strconv"

	"github.com/Apurer/storefront-api/internal/domains/orders/ports"
)

// DefaultTopic receives OrderPlaced events when no topic is configured.
const DefaultTopic = "order_events"

var _ ports.EventPublisher = (*Publisher)(nil)

// EventProducer is satisfied by the platform kafka producer.
type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Publisher sends OrderPlaced events keyed by order id.
type Publisher struct {
	producer EventProducer
	topic    string
}

func NewPublisher(producer EventProducer, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{producer: producer, topic: topic}
}

type orderPlacedMessage struct {
	Type string `json:"type"`
	ports.OrderPlaced
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, event ports.OrderPlaced) error {
	key := strconv.FormatInt(event.OrderID, 10)
	return p.producer.PublishEvent(ctx, p.topic, key, orderPlacedMessage{Type: "order.placed", OrderPlaced: event})
}
