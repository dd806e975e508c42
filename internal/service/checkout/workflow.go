// Package checkout drives a session from a populated cart to a placed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/notify"
	"royalwood-storefront/internal/whatsapp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrNoConfirmation is returned by Contact when no order is awaiting follow-up.
var ErrNoConfirmation = fmt.Errorf("no confirmed order: %w", domain.ErrNotFound)

const (
	msgEmptyCart     = "Your cart is empty!"
	msgMissingFields = "Please fill in your name, phone and address."
	msgOrderFailed   = "Error placing order. Please try again."
	msgOrderPlaced   = "Order placed successfully!"
)

// CartStore is the part of the cart the workflow reads and clears.
type CartStore interface {
	ReadAll(ctx context.Context) ([]domain.CartLine, error)
	Clear(ctx context.Context) error
}

// OrderSink durably records an order and assigns its id.
type OrderSink interface {
	Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error)
}

// OrderEvents is told about placed orders. Failures are logged, never surfaced.
type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, order domain.OrderRecord) error
}

// Result describes the workflow after a command.
type Result struct {
	State        State               `json:"state"`
	Confirmation *domain.OrderRecord `json:"confirmation,omitempty"`
	ContactURL   string              `json:"contactUrl,omitempty"`
}

type Option func(*Workflow)

func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

func WithEvents(e OrderEvents) Option {
	return func(w *Workflow) { w.events = e }
}

// WithContactNumber sets the WhatsApp number used by Contact.
func WithContactNumber(number string) Option {
	return func(w *Workflow) { w.contactNumber = number }
}

// WithObserver registers a callback invoked on every state change, under the workflow lock.
func WithObserver(fn func(from, to State)) Option {
	return func(w *Workflow) { w.observe = fn }
}

// Workflow is one session's checkout state machine. The lock is released
// while the order sink call is outstanding so the rest of the session stays
// responsive; a second Submit during that window is rejected.
type Workflow struct {
	mu           sync.Mutex
	state        State
	form         Form
	confirmation *domain.OrderRecord

	cart          CartStore
	sink          OrderSink
	notifier      notify.Notifier
	events        OrderEvents
	logger        *zap.Logger
	validate      *validator.Validate
	contactNumber string
	observe       func(from, to State)
}

func New(cart CartStore, sink OrderSink, notifier notify.Notifier, opts ...Option) *Workflow {
	w := &Workflow{
		state:    StateIdle,
		cart:     cart,
		sink:     sink,
		notifier: notifier,
		logger:   zap.NewNop(),
		validate: newValidator(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.notifier == nil {
		w.notifier = notify.Multi()
	}
	return w
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Dispatch applies cmd to the workflow.
func (w *Workflow) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case Begin:
		return w.begin(ctx)
	case Submit:
		return w.submit(ctx, c.Form)
	case Cancel:
		return w.cancel()
	case Contact:
		return w.contact()
	default:
		return Result{State: w.State()}, fmt.Errorf("unknown checkout command %T", cmd)
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Form returns the fields last submitted, kept so a failed order can be retried.
func (w *Workflow) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Confirmation returns the order awaiting follow-up without consuming it.
func (w *Workflow) Confirmation() *domain.OrderRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.confirmation
}

func (w *Workflow) begin(ctx context.Context) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateCollecting:
		return Result{State: w.state}, nil
	case StateIdle:
	default:
		return Result{State: w.state}, domain.ErrInvalidTransition
	}

	lines, err := w.cart.ReadAll(ctx)
	if err != nil {
		return Result{State: w.state}, err
	}
	if len(lines) == 0 {
		w.notifier.Notify(ctx, msgEmptyCart, notify.SeverityError)
		return Result{State: w.state}, emptyCartError()
	}

	w.transition(StateCollecting)
	return Result{State: w.state}, nil
}

func (w *Workflow) submit(ctx context.Context, form Form) (Result, error) {
	w.mu.Lock()
	if w.state != StateCollecting {
		state := w.state
		w.mu.Unlock()
		return Result{State: state}, domain.ErrInvalidTransition
	}

	w.transition(StateValidating)
	form = trimForm(form)
	w.form = form

	if err := w.validateForm(form); err != nil {
		w.transition(StateCollecting)
		w.mu.Unlock()
		w.notifier.Notify(ctx, msgMissingFields, notify.SeverityError)
		return Result{State: StateCollecting}, err
	}

	lines, err := w.cart.ReadAll(ctx)
	if err != nil {
		w.transition(StateCollecting)
		w.mu.Unlock()
		w.logger.Error("checkout: read cart", zap.Error(err))
		w.notifier.Notify(ctx, msgOrderFailed, notify.SeverityError)
		return Result{State: StateCollecting}, err
	}
	if len(lines) == 0 {
		w.transition(StateCollecting)
		w.mu.Unlock()
		w.notifier.Notify(ctx, msgEmptyCart, notify.SeverityError)
		return Result{State: StateCollecting}, emptyCartError()
	}

	draft := domain.NewOrderDraft(form.Name, form.Phone, form.Address, form.Notes, lines)
	w.transition(StateSubmitting)
	w.mu.Unlock()

	// An issued submission, including clearing the cart and announcing the
	// order, runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	record, err := w.sink.Create(ctx, draft)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.transition(StateFailed)
		w.logger.Error("checkout: order submission failed", zap.Error(err), zap.Int("lines", len(draft.Items)))
		w.notifier.Notify(ctx, msgOrderFailed, notify.SeverityError)
		w.transition(StateCollecting)
		var rw *domain.RemoteWriteError
		if !errors.As(err, &rw) {
			err = &domain.RemoteWriteError{Op: "create order", Err: err}
		}
		return Result{State: w.state}, err
	}

	w.transition(StateConfirmed)
	if current, err := w.cart.ReadAll(ctx); err == nil && !sameLines(current, draft.Items) {
		w.logger.Warn("checkout: cart changed while the order was in flight; clearing anyway",
			zap.String("order_id", record.ID), zap.Int("ordered_lines", len(draft.Items)), zap.Int("cart_lines", len(current)))
	}
	if err := w.cart.Clear(ctx); err != nil {
		w.logger.Error("checkout: order placed but cart not cleared", zap.String("order_id", record.ID), zap.Error(err))
	}
	w.confirmation = record
	w.form = Form{}
	w.notifier.Notify(ctx, msgOrderPlaced, notify.SeveritySuccess)
	w.logger.Info("checkout: order placed", zap.String("order_id", record.ID), zap.String("total", record.Total.String()))

	if w.events != nil {
		if err := w.events.PublishOrderPlaced(ctx, *record); err != nil {
			w.logger.Warn("checkout: publish order placed", zap.String("order_id", record.ID), zap.Error(err))
		}
	}

	w.transition(StateIdle)
	return Result{State: w.state, Confirmation: record}, nil
}

func (w *Workflow) cancel() (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateIdle:
	case StateCollecting:
		w.form = Form{}
		w.transition(StateIdle)
	default:
		return Result{State: w.state}, domain.ErrInvalidTransition
	}
	return Result{State: w.state}, nil
}

func (w *Workflow) contact() (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.confirmation == nil {
		return Result{State: w.state}, ErrNoConfirmation
	}
	record := *w.confirmation
	w.confirmation = nil
	return Result{
		State:      w.state,
		ContactURL: whatsapp.Link(w.contactNumber, whatsapp.OrderMessage(record)),
	}, nil
}

func (w *Workflow) validateForm(form Form) error {
	err := w.validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &domain.ValidationError{Field: fieldErrs[0].Field(), Message: "required", Err: err}
	}
	return &domain.ValidationError{Message: err.Error(), Err: err}
}

// transition must be called with w.mu held.
func (w *Workflow) transition(to State) {
	from := w.state
	w.state = to
	w.logger.Debug("checkout: transition", zap.Stringer("from", from), zap.Stringer("to", to))
	if w.observe != nil {
		w.observe(from, to)
	}
}

// sameLines reports whether a and b hold the same products in the same quantities.
func sameLines(a, b []domain.CartLine) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ProductID != b[i].ProductID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

func emptyCartError() error {
	return &domain.ValidationError{Field: "cart", Message: "cart is empty", Err: domain.ErrEmptyCart}
}

func trimForm(f Form) Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Address: strings.TrimSpace(f.Address),
		Notes:   strings.TrimSpace(f.Notes),
	}
}
