// Package cart owns a session's durable cart and its display projection.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/kvstore"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// KeyForSession is the key a session's cart is persisted under.
func KeyForSession(sessionID string) string {
	return "cart:" + sessionID
}

// Store is the sole reader and writer of one persisted cart. Every mutation
// is written back before it returns.
type Store struct {
	mu     sync.Mutex
	kv     kvstore.Store
	key    string
	logger *zap.Logger
}

func NewStore(kv kvstore.Store, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, key: key, logger: logger.With(zap.String("cart_key", key))}
}

// Add increments the line for productID, or appends it with quantity 1.
func (s *Store) Add(ctx context.Context, productID, name string, unitPrice decimal.Decimal, imageRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(lines, productID); i >= 0 {
		lines[i].Quantity++
	} else {
		lines = append(lines, domain.CartLine{
			ProductID: productID,
			Name:      name,
			UnitPrice: unitPrice,
			ImageRef:  imageRef,
			Quantity:  1,
		})
	}
	return s.save(ctx, lines)
}

// Remove drops the line for productID. Absent lines are ignored.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	return s.save(ctx, kept)
}

// SetQuantity is a no-op when quantity < 1 or the line is absent.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(lines, productID)
	if i < 0 {
		return nil
	}
	lines[i].Quantity = quantity
	return s.save(ctx, lines)
}

// ReadAll returns the lines in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Clear removes the persisted cart. Clearing an empty cart is fine.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]domain.CartLine, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		perr := &domain.StorageParseError{Key: s.key, Err: err}
		s.logger.Warn("cart store: treating unreadable cart as empty", zap.Error(perr))
		return nil, nil
	}
	return normalize(lines), nil
}

func (s *Store) save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	body, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(body)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// normalize restores the line invariants on values written by someone else:
// one line per product, quantity at least 1.
func normalize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if i := indexOf(out, l.ProductID); i >= 0 {
			out[i].Quantity += l.Quantity
			continue
		}
		out = append(out, l)
	}
	return out
}

func indexOf(lines []domain.CartLine, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
