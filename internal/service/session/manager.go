// Package session owns the per-visitor state of the storefront: the durable
// cart, the checkout workflow, and pending notifications.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"royalwood-storefront/internal/kvstore"
	"royalwood-storefront/internal/notify"
	"royalwood-storefront/internal/service/cart"
	"royalwood-storefront/internal/service/checkout"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidSession = errors.New("invalid session id")

// Session bundles one visitor's collaborators. The cart lives in the key-value
// store; the rest is in memory and rebuilt after eviction.
type Session struct {
	ID       string
	Cart     *cart.Store
	Renderer *cart.Renderer
	Checkout *checkout.Workflow
	Notices  *notify.Recorder
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry

	kv            kvstore.Store
	sink          checkout.OrderSink
	events        checkout.OrderEvents
	notifier      notify.Notifier
	contactNumber string
	idleTTL       time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithEvents(e checkout.OrderEvents) Option {
	return func(m *Manager) { m.events = e }
}

// WithNotifier adds a notifier that every session reports to besides its own recorder.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithContactNumber(number string) Option {
	return func(m *Manager) { m.contactNumber = number }
}

func WithIdleTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.idleTTL = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(kv kvstore.Store, sink checkout.OrderSink, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*entry),
		kv:       kv,
		sink:     sink,
		idleTTL:  2 * time.Hour,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue returns a fresh session id.
func (m *Manager) Issue() string {
	return uuid.NewString()
}

// Get returns the session for id, building it on first use.
func (m *Manager) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[id]; ok {
		e.lastSeen = m.now()
		return e.session, nil
	}

	s := m.build(id)
	m.sessions[id] = &entry{session: s, lastSeen: m.now()}
	m.logger.Debug("session: created", zap.String("session_id", id))
	return s, nil
}

func (m *Manager) build(id string) *Session {
	logger := m.logger.With(zap.String("session_id", id))
	store := cart.NewStore(m.kv, cart.KeyForSession(id), logger)
	notices := notify.NewRecorder(0)

	opts := []checkout.Option{
		checkout.WithLogger(logger),
		checkout.WithContactNumber(m.contactNumber),
	}
	if m.events != nil {
		opts = append(opts, checkout.WithEvents(m.events))
	}
	return &Session{
		ID:       id,
		Cart:     store,
		Renderer: cart.NewRenderer(store),
		Checkout: checkout.New(store, m.sink, notify.Multi(notices, m.notifier), opts...),
		Notices:  notices,
	}
}

// Sweep drops in-memory state of sessions idle longer than the idle TTL.
// Sessions with an order in flight are kept. Sessions holding an unclaimed
// order confirmation are kept for twice the idle TTL.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-m.idleTTL)
	confirmationCutoff := now.Add(-2 * m.idleTTL)
	evicted := 0
	for id, e := range m.sessions {
		if e.lastSeen.After(cutoff) {
			continue
		}
		if e.session.Checkout.State() == checkout.StateSubmitting {
			continue
		}
		if e.session.Checkout.Confirmation() != nil && e.lastSeen.After(confirmationCutoff) {
			continue
		}
		delete(m.sessions, id)
		evicted++
	}
	if evicted > 0 {
		m.logger.Info("session: swept idle sessions", zap.Int("evicted", evicted), zap.Int("remaining", len(m.sessions)))
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
