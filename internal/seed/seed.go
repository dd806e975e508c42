package seed

import (
	"context"
	"errors"
	"fmt"

	"royalwood-storefront/internal/domain"
	businessrepo "royalwood-storefront/internal/repository/business"
	catalogrepo "royalwood-storefront/internal/repository/catalog"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type productSeed struct {
	Name        string
	Price       string
	Description string
}

var products = []productSeed{
	{Name: "Teak Dining Chair", Price: "4500", Description: "Solid teak chair with a hand rubbed oil finish"},
	{Name: "Sheesham Coffee Table", Price: "12999", Description: "Low coffee table in seasoned sheesham"},
	{Name: "Carved Wooden Stool", Price: "2499", Description: "Hand carved stool for everyday use"},
}

var packages = []domain.InteriorPackage{
	{
		Name:        "Modular Kitchen",
		PriceRange:  "₹1,50,000 - ₹3,00,000",
		Materials:   []string{"Marine plywood", "Laminate", "Soft close hinges"},
		Description: "Full kitchen fit-out designed around your space",
	},
	{
		Name:        "Bedroom Interiors",
		PriceRange:  "₹80,000 - ₹2,00,000",
		Materials:   []string{"Teak veneer", "MDF"},
		Description: "Wardrobes, bed and side tables in a matching finish",
	},
}

var services = []domain.Service{
	{Name: "Furniture Polishing", Price: "Starting at ₹500", Description: "Restore the shine on existing furniture"},
	{Name: "Custom Carpentry", Price: "On request", Description: "Made-to-measure pieces built on site"},
}

// Apply inserts demo data for manual testing. Products are upserted by name;
// packages and services are only added to empty tables, and business info
// is only written when none exists.
func Apply(ctx context.Context, catalog catalogrepo.Repository, business businessrepo.Repository, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, p := range products {
		if _, err := catalog.UpsertProduct(ctx, domain.Product{
			Name:        p.Name,
			Price:       decimal.RequireFromString(p.Price),
			Description: p.Description,
		}); err != nil {
			return fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
	}
	logger.Info("seed: products upserted", zap.Int("count", len(products)))

	n, err := catalog.Count(ctx, domain.KindPackages)
	if err != nil {
		return fmt.Errorf("count packages: %w", err)
	}
	if n == 0 {
		for _, p := range packages {
			if _, err := catalog.CreatePackage(ctx, p); err != nil {
				return fmt.Errorf("create package %q: %w", p.Name, err)
			}
		}
		logger.Info("seed: packages created", zap.Int("count", len(packages)))
	}

	n, err = catalog.Count(ctx, domain.KindServices)
	if err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if n == 0 {
		for _, s := range services {
			if _, err := catalog.CreateService(ctx, s); err != nil {
				return fmt.Errorf("create service %q: %w", s.Name, err)
			}
		}
		logger.Info("seed: services created", zap.Int("count", len(services)))
	}

	if _, err := business.Get(ctx); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get business info: %w", err)
		}
		if err := business.Upsert(ctx, domain.BusinessInfo{}.WithDefaults()); err != nil {
			return fmt.Errorf("save business info: %w", err)
		}
		logger.Info("seed: business info written")
	}

	return nil
}
