package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/kvstore"
	"royalwood-storefront/internal/notify"
	"royalwood-storefront/internal/service/cart"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubSink struct {
	mu       sync.Mutex
	err      error
	block    chan struct{}
	started  chan struct{}
	onCreate func()
	drafts   []domain.OrderDraft
}

func (s *stubSink) Create(_ context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	if s.onCreate != nil {
		s.onCreate()
	}
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, draft)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.OrderRecord{
		ID:         "ord-1",
		OrderDraft: draft,
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

type stubEvents struct {
	published []domain.OrderRecord
	err       error
}

func (s *stubEvents) PublishOrderPlaced(_ context.Context, o domain.OrderRecord) error {
	s.published = append(s.published, o)
	return s.err
}

type fixture struct {
	store       *cart.Store
	sink        *stubSink
	events      *stubEvents
	recorder    *notify.Recorder
	workflow    *Workflow
	transitions []State
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return newFixtureWithKV(t, kvstore.NewMemory(), opts...)
}

func newFixtureWithKV(t *testing.T, kv kvstore.Store, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store:    cart.NewStore(kv, cart.KeyForSession("s1"), nil),
		sink:     &stubSink{},
		events:   &stubEvents{},
		recorder: notify.NewRecorder(0),
	}
	opts = append(opts,
		WithEvents(f.events),
		WithContactNumber("919876543210"),
		WithObserver(func(_, to State) { f.transitions = append(f.transitions, to) }),
	)
	f.workflow = New(f.store, f.sink, f.recorder, opts...)
	return f
}

func newRedisKV(t *testing.T) (*kvstore.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return kvstore.NewRedis(client, "test:", 0), mr
}

func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Add(ctx, "a", "Chair", decimal.NewFromInt(1000), ""))
	require.NoError(t, f.store.Add(ctx, "a", "Chair", decimal.NewFromInt(1000), ""))
	require.NoError(t, f.store.Add(ctx, "b", "Stool", decimal.NewFromInt(500), ""))
}

var validForm = Form{Name: " Asha ", Phone: "9876543210", Address: "MG Road, Kochi", Notes: "evening delivery"}

func TestBeginOnEmptyCartIsRefused(t *testing.T) {
	f := newFixture(t)

	res, err := f.workflow.Dispatch(context.Background(), Begin{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, StateIdle, res.State)
	assert.Equal(t, StateIdle, f.workflow.State())
	assert.Empty(t, f.transitions)

	notes := f.recorder.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SeverityError, notes[0].Severity)
	assert.Equal(t, "Your cart is empty!", notes[0].Message)
}

func TestSuccessfulSubmissionClearsCart(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()
	before, _ := f.store.ReadAll(ctx)

	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)
	res, err := f.workflow.Dispatch(ctx, Submit{Form: validForm})
	require.NoError(t, err)

	assert.Equal(t, StateIdle, res.State)
	assert.Equal(t, []State{StateCollecting, StateValidating, StateSubmitting, StateConfirmed, StateIdle}, f.transitions)

	lines, err := f.store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NotNil(t, res.Confirmation)
	assert.Equal(t, "ord-1", res.Confirmation.ID)
	assert.Equal(t, before, res.Confirmation.Items)
	assert.True(t, res.Confirmation.Total.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "Asha", res.Confirmation.CustomerName)
	assert.Equal(t, domain.OrderStatusPending, res.Confirmation.Status)

	require.Len(t, f.sink.drafts, 1)
	require.Len(t, f.events.published, 1)
	assert.Equal(t, Form{}, f.workflow.Form())

	notes := f.recorder.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SeveritySuccess, notes[0].Severity)
}

func TestFailedSubmissionKeepsCartAndForm(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.sink.err = errors.New("permission denied")
	ctx := context.Background()
	before, _ := f.store.ReadAll(ctx)

	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)
	res, err := f.workflow.Dispatch(ctx, Submit{Form: validForm})

	var rw *domain.RemoteWriteError
	require.ErrorAs(t, err, &rw)
	assert.Equal(t, StateCollecting, res.State)
	assert.Equal(t, []State{StateCollecting, StateValidating, StateSubmitting, StateFailed, StateCollecting}, f.transitions)

	after, _ := f.store.ReadAll(ctx)
	assert.Equal(t, before, after)
	assert.Equal(t, "Asha", f.workflow.Form().Name)
	assert.Nil(t, f.workflow.Confirmation())
	assert.Empty(t, f.events.published)

	notes := f.recorder.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "Error placing order. Please try again.", notes[0].Message)

	f.sink.err = nil
	res, err = f.workflow.Dispatch(ctx, Submit{Form: f.workflow.Form()})
	require.NoError(t, err)
	assert.NotNil(t, res.Confirmation)
}

func TestSubmitRequiresFields(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()
	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)

	res, err := f.workflow.Dispatch(ctx, Submit{Form: Form{Name: "Asha", Phone: "   ", Address: "Kochi"}})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)
	assert.Equal(t, StateCollecting, res.State)
	assert.Empty(t, f.sink.drafts)
	assert.Len(t, f.recorder.Drain(), 1)
}

func TestSubmitRechecksCartIsNotEmpty(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()
	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)

	require.NoError(t, f.store.Clear(ctx))
	res, err := f.workflow.Dispatch(ctx, Submit{Form: validForm})

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, StateCollecting, res.State)
	assert.Empty(t, f.sink.drafts)
}

func TestSubmitOutsideCollectingIsInvalid(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	_, err := f.workflow.Dispatch(context.Background(), Submit{Form: validForm})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.sink.drafts)
}

func TestCancelReturnsToIdle(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()
	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)

	res, err := f.workflow.Dispatch(ctx, Cancel{})
	require.NoError(t, err)
	assert.Equal(t, StateIdle, res.State)

	res, err = f.workflow.Dispatch(ctx, Cancel{})
	require.NoError(t, err)
	assert.Equal(t, StateIdle, res.State)
}

func TestSubmissionInFlight(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(t, WithLogger(zap.New(core)))
	f.fillCart(t)
	f.sink.block = make(chan struct{})
	f.sink.started = make(chan struct{})
	ctx := context.Background()
	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.workflow.Dispatch(ctx, Submit{Form: validForm})
		done <- err
	}()
	<-f.sink.started

	assert.Equal(t, StateSubmitting, f.workflow.State())
	_, err = f.workflow.Dispatch(ctx, Submit{Form: validForm})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.workflow.Dispatch(ctx, Cancel{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The cart stays usable while the order is outstanding.
	require.NoError(t, f.store.Add(ctx, "c", "Lamp", decimal.NewFromInt(800), ""))

	close(f.sink.block)
	require.NoError(t, <-done)
	assert.Equal(t, StateIdle, f.workflow.State())

	lines, _ := f.store.ReadAll(ctx)
	assert.Empty(t, lines)
	require.Len(t, f.sink.drafts, 1)
	assert.Len(t, f.sink.drafts[0].Items, 2)

	changed := logs.FilterMessageSnippet("cart changed while the order was in flight").All()
	require.Len(t, changed, 1)
	assert.Equal(t, int64(3), changed[0].ContextMap()["cart_lines"])
}

func TestContactConsumesConfirmation(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	ctx := context.Background()

	_, err := f.workflow.Dispatch(ctx, Contact{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)
	_, err = f.workflow.Dispatch(ctx, Submit{Form: validForm})
	require.NoError(t, err)

	res, err := f.workflow.Dispatch(ctx, Contact{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.ContactURL, "https://wa.me/919876543210?text="))
	u, err := url.Parse(res.ContactURL)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "order #ord-1 for Asha")
	assert.Contains(t, u.Query().Get("text"), "Chair (x2), Stool (x1)")

	_, err = f.workflow.Dispatch(ctx, Contact{})
	assert.ErrorIs(t, err, ErrNoConfirmation)
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.events.err = errors.New("broker down")
	ctx := context.Background()

	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)
	res, err := f.workflow.Dispatch(ctx, Submit{Form: validForm})
	require.NoError(t, err)
	assert.NotNil(t, res.Confirmation)
}

func TestStateText(t *testing.T) {
	b, err := StateSubmitting.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "submitting", string(b))
	assert.Equal(t, "state(42)", State(42).String())
}

func TestSubmitCompletesAfterCallerCancels(t *testing.T) {
	kv, _ := newRedisKV(t)
	f := newFixtureWithKV(t, kv)
	f.fillCart(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)

	// The client goes away while the order is being written.
	f.sink.onCreate = cancel

	res, err := f.workflow.Dispatch(ctx, Submit{Form: validForm})
	require.NoError(t, err)
	require.ErrorIs(t, ctx.Err(), context.Canceled)
	require.NotNil(t, res.Confirmation)

	lines, err := f.store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.Len(t, f.events.published, 1)
	assert.Equal(t, "ord-1", f.events.published[0].ID)
}

func TestSubmitNotifiesWhenCartUnreadable(t *testing.T) {
	kv, mr := newRedisKV(t)
	f := newFixtureWithKV(t, kv)
	f.fillCart(t)
	ctx := context.Background()

	_, err := f.workflow.Dispatch(ctx, Begin{})
	require.NoError(t, err)
	mr.Close()

	res, err := f.workflow.Dispatch(ctx, Submit{Form: validForm})
	require.Error(t, err)
	assert.Equal(t, StateCollecting, res.State)
	assert.Equal(t, StateCollecting, f.workflow.State())
	assert.Empty(t, f.sink.drafts)

	notes := f.recorder.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SeverityError, notes[0].Severity)
	assert.Equal(t, "Error placing order. Please try again.", notes[0].Message)
}
