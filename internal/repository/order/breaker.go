package order

import (
	"context"
	"errors"
	"time"

	"royalwood-storefront/internal/domain"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Creator is the write half of Repository that checkout submits to.
type Creator interface {
	Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error)
}

// BreakerSink fails fast once the order store has failed repeatedly, instead of
// letting every checkout wait on a dead database.
type BreakerSink struct {
	next Creator
	cb   *gobreaker.CircuitBreaker[*domain.OrderRecord]
}

// NewBreakerSink opens after failureThreshold consecutive failures and probes
// again after openTimeout. Validation errors do not count as failures.
func NewBreakerSink(next Creator, failureThreshold uint32, openTimeout time.Duration, logger *zap.Logger) *BreakerSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if failureThreshold == 0 {
		failureThreshold = 5
	}
	st := gobreaker.Settings{
		Name:        "order-sink",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			var verr *domain.ValidationError
			return err == nil || errors.As(err, &verr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("order sink breaker", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &BreakerSink{next: next, cb: gobreaker.NewCircuitBreaker[*domain.OrderRecord](st)}
}

func (b *BreakerSink) Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	rec, err := b.cb.Execute(func() (*domain.OrderRecord, error) {
		return b.next.Create(ctx, draft)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &domain.RemoteWriteError{Op: "create order", Err: err}
	}
	return rec, err
}

// State reports the breaker state name for readiness checks.
func (b *BreakerSink) State() string {
	return b.cb.State().String()
}
