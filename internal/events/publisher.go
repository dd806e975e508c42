package events

import (
	"context"
	"encoding/json"
	"fmt"

	"royalwood-storefront/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	ch     channel
	logger *zap.Logger
}

// Dial connects to the broker and declares the order queue. The returned
// close function releases both channel and connection.
func Dial(url string, logger *zap.Logger) (*Publisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	p, err := NewPublisher(conn, logger)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		_ = p.Close()
		return conn.Close()
	}
	return p, closeFn, nil
}

func NewPublisher(conn *amqp.Connection, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare %s: %w", OrderPlacedQueue, err)
	}
	return newPublisher(ch, logger), nil
}

func newPublisher(ch channel, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{ch: ch, logger: logger}
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o domain.OrderRecord) error {
	body, err := json.Marshal(newOrderPlaced(o))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", EventTypeOrderPlaced, err)
	}
	if err := p.publishJSON(ctx, OrderPlacedQueue, o.ID, body); err != nil {
		return fmt.Errorf("publish %s: %w", EventTypeOrderPlaced, err)
	}
	p.logger.Debug("events: published", zap.String("type", EventTypeOrderPlaced), zap.String("order_id", o.ID))
	return nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(pubCtx, "", routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    messageID,
		Type:         EventTypeOrderPlaced,
		Body:         body,
	})
}

// Discard drops events. Used when no broker is configured.
type Discard struct{}

func (Discard) PublishOrderPlaced(context.Context, domain.OrderRecord) error { return nil }
