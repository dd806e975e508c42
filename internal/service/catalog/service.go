package catalog

import (
	"context"
	"errors"

	"royalwood-storefront/internal/domain"
	businessrepo "royalwood-storefront/internal/repository/business"
	catalogrepo "royalwood-storefront/internal/repository/catalog"
	"royalwood-storefront/internal/whatsapp"
)

// Service serves the read side of the storefront catalog.
type Service struct {
	repo          catalogrepo.Repository
	business      businessrepo.Repository
	contactNumber string
}

func New(repo catalogrepo.Repository, business businessrepo.Repository, contactNumber string) *Service {
	return &Service{repo: repo, business: business, contactNumber: contactNumber}
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) Packages(ctx context.Context) ([]domain.InteriorPackage, error) {
	return s.repo.ListPackages(ctx)
}

func (s *Service) Package(ctx context.Context, id string) (*domain.InteriorPackage, error) {
	return s.repo.GetPackage(ctx, id)
}

func (s *Service) Services(ctx context.Context) ([]domain.Service, error) {
	return s.repo.ListServices(ctx)
}

// PackageEnquiry returns the WhatsApp link asking about the package.
func (s *Service) PackageEnquiry(ctx context.Context, id string) (string, error) {
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return "", err
	}
	return whatsapp.Link(s.contactNumber, whatsapp.PackageEnquiry(p.Name)), nil
}

// ServiceEnquiry returns the WhatsApp link asking about the service.
func (s *Service) ServiceEnquiry(ctx context.Context, id string) (string, error) {
	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		return "", err
	}
	return whatsapp.Link(s.contactNumber, whatsapp.ServiceEnquiry(svc.Name)), nil
}

// Business returns the storefront profile, falling back to the default copy
// for anything not yet saved.
func (s *Service) Business(ctx context.Context) (domain.BusinessInfo, error) {
	info, err := s.business.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.BusinessInfo{}.WithDefaults(), nil
	}
	if err != nil {
		return domain.BusinessInfo{}, err
	}
	return info.WithDefaults(), nil
}
