package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("write without deadline")
	}
	w.messages = append(w.messages, msgs...)
	return w.err
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEvent(t *testing.T) {
	w := &captureWriter{}
	p := NewProducerWithWriter(w)

	err := p.PublishEvent(context.Background(), "orders", "42", map[string]any{"orderId": 42})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "orders", w.messages[0].Topic)
	assert.Equal(t, []byte("42"), w.messages[0].Key)
	assert.JSONEq(t, `{"orderId":42}`, string(w.messages[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEventErrors(t *testing.T) {
	w := &captureWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w)

	err := p.PublishEvent(context.Background(), "orders", "1", struct{}{})
	require.ErrorContains(t, err, "leader not available")

	err = p.PublishEvent(context.Background(), "orders", "1", make(chan int))
	require.ErrorContains(t, err, "json.Marshal")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
