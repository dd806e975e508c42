// Package admin implements the back-office operations: catalog maintenance,
// order status and the business profile.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"royalwood-storefront/internal/domain"
	businessrepo "royalwood-storefront/internal/repository/business"
	catalogrepo "royalwood-storefront/internal/repository/catalog"
	orderrepo "royalwood-storefront/internal/repository/order"
	"royalwood-storefront/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Image is an optional upload accompanying a create or save.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type ProductInput struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Price       string `json:"price" form:"price" validate:"required"`
	Description string `json:"description" form:"description"`
	ImageURL    string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

type PackageInput struct {
	Name       string `json:"name" form:"name" validate:"required"`
	PriceRange string `json:"priceRange" form:"priceRange"`
	// Materials is a comma-separated list.
	Materials   string `json:"materials" form:"materials"`
	Description string `json:"description" form:"description"`
	ImageURL    string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

type ServiceInput struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Price       string `json:"price" form:"price"`
	Description string `json:"description" form:"description"`
	ImageURL    string `json:"imageUrl" form:"imageUrl" validate:"omitempty,url"`
}

type BusinessInput struct {
	BusinessName string `json:"businessName" form:"businessName"`
	OwnerName    string `json:"ownerName" form:"ownerName"`
	Experience   string `json:"experience" form:"experience"`
	Phone        string `json:"phone" form:"phone"`
	Address      string `json:"address" form:"address"`
	Description  string `json:"description" form:"description"`
}

// Dashboard holds the collection sizes shown on the admin landing page.
type Dashboard struct {
	Products int `json:"products"`
	Packages int `json:"packages"`
	Services int `json:"services"`
	Orders   int `json:"orders"`
}

type Service struct {
	catalog  catalogrepo.Repository
	orders   orderrepo.Repository
	business businessrepo.Repository
	images   storage.ImageStore
	validate *validator.Validate
	logger   *zap.Logger
}

func New(catalog catalogrepo.Repository, orders orderrepo.Repository, business businessrepo.Repository, images storage.ImageStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if images == nil {
		images = storage.Disabled{}
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Service{
		catalog:  catalog,
		orders:   orders,
		business: business,
		images:   images,
		validate: v,
		logger:   logger,
	}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.Products, err = s.catalog.Count(ctx, domain.KindProducts); err != nil {
		return Dashboard{}, fmt.Errorf("count products: %w", err)
	}
	if d.Packages, err = s.catalog.Count(ctx, domain.KindPackages); err != nil {
		return Dashboard{}, fmt.Errorf("count packages: %w", err)
	}
	if d.Services, err = s.catalog.Count(ctx, domain.KindServices); err != nil {
		return Dashboard{}, fmt.Errorf("count services: %w", err)
	}
	if d.Orders, err = s.orders.Count(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("count orders: %w", err)
	}
	return d, nil
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *Service) Packages(ctx context.Context) ([]domain.InteriorPackage, error) {
	return s.catalog.ListPackages(ctx)
}

func (s *Service) Services(ctx context.Context) ([]domain.Service, error) {
	return s.catalog.ListServices(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput, img *Image) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Price = strings.TrimSpace(in.Price)
	if err := s.check(in); err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return nil, &domain.ValidationError{Field: "price", Message: "must be a non-negative number", Err: err}
	}
	imageURL, err := s.upload(ctx, domain.KindProducts, in.ImageURL, img)
	if err != nil {
		return nil, err
	}
	return s.catalog.CreateProduct(ctx, domain.Product{
		Name:        in.Name,
		Price:       price,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    imageURL,
	})
}

func (s *Service) CreatePackage(ctx context.Context, in PackageInput, img *Image) (*domain.InteriorPackage, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}
	imageURL, err := s.upload(ctx, domain.KindPackages, in.ImageURL, img)
	if err != nil {
		return nil, err
	}
	return s.catalog.CreatePackage(ctx, domain.InteriorPackage{
		Name:        in.Name,
		PriceRange:  strings.TrimSpace(in.PriceRange),
		Materials:   ParseMaterials(in.Materials),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    imageURL,
	})
}

func (s *Service) CreateService(ctx context.Context, in ServiceInput, img *Image) (*domain.Service, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.check(in); err != nil {
		return nil, err
	}
	imageURL, err := s.upload(ctx, domain.KindServices, in.ImageURL, img)
	if err != nil {
		return nil, err
	}
	return s.catalog.CreateService(ctx, domain.Service{
		Name:        in.Name,
		Price:       strings.TrimSpace(in.Price),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    imageURL,
	})
}

func (s *Service) Delete(ctx context.Context, kind domain.CatalogKind, id string) error {
	if err := s.catalog.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.logger.Info("admin: deleted catalog entry", zap.String("kind", string(kind)), zap.String("id", id))
	return nil
}

// Orders lists every order, newest first.
func (s *Service) Orders(ctx context.Context) ([]domain.OrderRecord, error) {
	return s.orders.List(ctx)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id, status string) error {
	status = strings.TrimSpace(status)
	if !domain.ValidOrderStatus(status) {
		return &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", status)}
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

// Business returns the stored profile with defaults filled in.
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

// SaveBusiness replaces the profile. Without a new logo the stored one is kept.
func (s *Service) SaveBusiness(ctx context.Context, in BusinessInput, logo *Image) (domain.BusinessInfo, error) {
	info := domain.BusinessInfo{
		BusinessName: strings.TrimSpace(in.BusinessName),
		OwnerName:    strings.TrimSpace(in.OwnerName),
		Experience:   strings.TrimSpace(in.Experience),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Description:  strings.TrimSpace(in.Description),
	}
	if logo != nil {
		url, err := s.images.Upload(ctx, storage.LogoPrefix, logo.Filename, logo.ContentType, logo.Body)
		if err != nil {
			return domain.BusinessInfo{}, err
		}
		info.LogoURL = url
	}
	if err := s.business.Upsert(ctx, info); err != nil {
		return domain.BusinessInfo{}, err
	}
	return s.Business(ctx)
}

// ParseMaterials splits a comma-separated list, trimming entries and dropping empties.
func ParseMaterials(raw string) []string {
	out := []string{}
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func (s *Service) upload(ctx context.Context, kind domain.CatalogKind, fallback string, img *Image) (string, error) {
	if img == nil {
		return strings.TrimSpace(fallback), nil
	}
	return s.images.Upload(ctx, string(kind), img.Filename, img.ContentType, img.Body)
}

func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := "required"
		if fe.Tag() != "required" {
			msg = "invalid " + fe.Tag()
		}
		return &domain.ValidationError{Field: fe.Field(), Message: msg, Err: err}
	}
	return &domain.ValidationError{Message: err.Error(), Err: err}
}
