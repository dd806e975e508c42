package memory

import (
	"context"
	"fmt"
	"sort"

	"royalwood-storefront/internal/domain"
)

// Orders adapts Store to the order repository.
type Orders struct{ s *Store }

func (s *Store) Orders() *Orders { return &Orders{s: s} }

func (o *Orders) Create(_ context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if draft.Status == "" {
		draft.Status = domain.OrderStatusPending
	}
	items := make([]domain.CartLine, len(draft.Items))
	copy(items, draft.Items)
	draft.Items = items
	rec := domain.OrderRecord{ID: o.s.nextID("ord"), OrderDraft: draft, CreatedAt: o.s.stamp()}
	o.s.orders = append(o.s.orders, rec)
	return &rec, nil
}

func (o *Orders) List(_ context.Context) ([]domain.OrderRecord, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	out := append([]domain.OrderRecord{}, o.s.orders...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (o *Orders) UpdateStatus(_ context.Context, id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", status)}
	}
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for i := range o.s.orders {
		if o.s.orders[i].ID == id {
			o.s.orders[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (o *Orders) Count(_ context.Context) (int, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	return len(o.s.orders), nil
}

// Business adapts Store to the business profile repository.
type Business struct{ s *Store }

func (s *Store) Business() *Business { return &Business{s: s} }

func (b *Business) Get(_ context.Context) (*domain.BusinessInfo, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.s.business == nil {
		return nil, domain.ErrNotFound
	}
	info := *b.s.business
	return &info, nil
}

func (b *Business) Upsert(_ context.Context, info domain.BusinessInfo) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if info.LogoURL == "" && b.s.business != nil {
		info.LogoURL = b.s.business.LogoURL
	}
	b.s.business = &info
	return nil
}
