// Package memory holds in-process implementations of the catalog, business and
// order repositories. The api binary uses them when started with the "memory"
// database DSN; tests use them as fakes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"royalwood-storefront/internal/domain"
)

type Store struct {
	mu       sync.Mutex
	seq      int
	now      func() time.Time
	products []domain.Product
	packages []domain.InteriorPackage
	services []domain.Service
	orders   []domain.OrderRecord
	business *domain.BusinessInfo
}

func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// stamp returns strictly increasing timestamps so newest-first ordering is stable.
func (s *Store) stamp() time.Time {
	return s.now().Add(time.Duration(s.seq) * time.Microsecond)
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Product{}, s.products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateProduct(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("prod")
	p.CreatedAt = s.stamp()
	s.products = append(s.products, p)
	return &p, nil
}

func (s *Store) UpsertProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	for i, existing := range s.products {
		if existing.Name == p.Name {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
			s.products[i] = p
			s.mu.Unlock()
			return &p, nil
		}
	}
	s.mu.Unlock()
	return s.CreateProduct(ctx, p)
}

func (s *Store) ListPackages(_ context.Context) ([]domain.InteriorPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.InteriorPackage{}, s.packages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetPackage(_ context.Context, id string) (*domain.InteriorPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.packages {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreatePackage(_ context.Context, p domain.InteriorPackage) (*domain.InteriorPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Materials == nil {
		p.Materials = []string{}
	}
	p.ID = s.nextID("pkg")
	p.CreatedAt = s.stamp()
	s.packages = append(s.packages, p)
	return &p, nil
}

func (s *Store) ListServices(_ context.Context) ([]domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Service{}, s.services...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetService(_ context.Context, id string) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, svc := range s.services {
		if svc.ID == id {
			return &svc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateService(_ context.Context, svc domain.Service) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc.ID = s.nextID("svc")
	svc.CreatedAt = s.stamp()
	s.services = append(s.services, svc)
	return &svc, nil
}

func (s *Store) Delete(_ context.Context, kind domain.CatalogKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case domain.KindProducts:
		for i := range s.products {
			if s.products[i].ID == id {
				s.products = append(s.products[:i], s.products[i+1:]...)
				return nil
			}
		}
	case domain.KindPackages:
		for i := range s.packages {
			if s.packages[i].ID == id {
				s.packages = append(s.packages[:i], s.packages[i+1:]...)
				return nil
			}
		}
	case domain.KindServices:
		for i := range s.services {
			if s.services[i].ID == id {
				s.services = append(s.services[:i], s.services[i+1:]...)
				return nil
			}
		}
	default:
		return fmt.Errorf("memory store: unknown kind %q", kind)
	}
	return domain.ErrNotFound
}

func (s *Store) Count(_ context.Context, kind domain.CatalogKind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case domain.KindProducts:
		return len(s.products), nil
	case domain.KindPackages:
		return len(s.packages), nil
	case domain.KindServices:
		return len(s.services), nil
	}
	return 0, fmt.Errorf("memory store: unknown kind %q", kind)
}
