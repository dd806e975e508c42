package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"royalwood-storefront/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	key    string
	msg    amqp.Publishing
	err    error
	closed bool
}

func (c *recordingChannel) PublishWithContext(ctx context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	c.key = key
	c.msg = msg
	return c.err
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func sampleOrder() domain.OrderRecord {
	draft := domain.NewOrderDraft("Asha", "9876543210", "MG Road", "", []domain.CartLine{
		{ProductID: "p1", Name: "Teak Chair", UnitPrice: decimal.NewFromInt(4500), Quantity: 2},
	})
	return domain.OrderRecord{ID: "ord-1", OrderDraft: draft, CreatedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func TestPublishOrderPlaced(t *testing.T) {
	ch := &recordingChannel{}
	p := newPublisher(ch, nil)

	require.NoError(t, p.PublishOrderPlaced(context.Background(), sampleOrder()))

	assert.Equal(t, OrderPlacedQueue, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "ord-1", ch.msg.MessageId)

	var ev OrderPlaced
	require.NoError(t, json.Unmarshal(ch.msg.Body, &ev))
	assert.Equal(t, EventTypeOrderPlaced, ev.EventType)
	assert.Equal(t, 1, ev.EventVersion)
	assert.Equal(t, "ord-1", ev.OrderID)
	require.Len(t, ev.Items, 1)
	assert.Equal(t, 2, ev.Items[0].Quantity)
	assert.True(t, ev.Total.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, domain.OrderStatusPending, ev.Status)
}

func TestPublishError(t *testing.T) {
	ch := &recordingChannel{err: amqp.ErrClosed}
	p := newPublisher(ch, nil)

	err := p.PublishOrderPlaced(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, amqp.ErrClosed)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard{}.PublishOrderPlaced(context.Background(), sampleOrder()))
}
