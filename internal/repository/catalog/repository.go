package catalog

import (
	"context"

	"royalwood-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repository uses.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpsertProduct(ctx context.Context, p domain.Product) (*domain.Product, error)

	ListPackages(ctx context.Context) ([]domain.InteriorPackage, error)
	GetPackage(ctx context.Context, id string) (*domain.InteriorPackage, error)
	CreatePackage(ctx context.Context, p domain.InteriorPackage) (*domain.InteriorPackage, error)

	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
	CreateService(ctx context.Context, s domain.Service) (*domain.Service, error)

	Delete(ctx context.Context, kind domain.CatalogKind, id string) error
	Count(ctx context.Context, kind domain.CatalogKind) (int, error)
}
