package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog entry.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// InteriorPackage is an enquiry-only design package.
type InteriorPackage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PriceRange  string    `json:"priceRange,omitempty"`
	Materials   []string  `json:"materials"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Service is an enquiry-only service offering. Price is free text.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CatalogKind names one of the catalog collections. The value doubles as the
// image upload prefix.
type CatalogKind string

const (
	KindProducts CatalogKind = "products"
	KindPackages CatalogKind = "packages"
	KindServices CatalogKind = "services"
)

func ParseCatalogKind(s string) (CatalogKind, bool) {
	switch k := CatalogKind(s); k {
	case KindProducts, KindPackages, KindServices:
		return k, true
	}
	return "", false
}
