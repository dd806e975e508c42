package catalog

import (
	"context"
	"errors"
	"fmt"

	"royalwood-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var tables = map[domain.CatalogKind]string{
	domain.KindProducts: "products",
	domain.KindPackages: "interior_packages",
	domain.KindServices: "services",
}

type postgresRepo struct {
	db     DBTX
	logger *zap.Logger
}

func NewPostgres(db DBTX, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{db: db, logger: logger}
}

const productColumns = `id::text, name, price::text, COALESCE(description, ''), COALESCE(image_url, ''), created_at`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Description, &p.ImageURL, &p.CreatedAt); err != nil {
		return p, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return p, fmt.Errorf("catalog repo: decode price id=%s: %w", p.ID, err)
	}
	p.Price = d
	return p, nil
}

func (r *postgresRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("catalog repo: list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("catalog repo: list products", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("catalog repo: get product", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price, description, image_url)
VALUES ($1, $2::numeric, NULLIF($3, ''), NULLIF($4, ''))
RETURNING id::text, created_at
`
	if err := r.db.QueryRow(ctx, q, p.Name, p.Price.String(), p.Description, p.ImageURL).Scan(&p.ID, &p.CreatedAt); err != nil {
		r.logger.Error("catalog repo: create product", zap.String("name", p.Name), zap.Error(err))
		return nil, &domain.RemoteWriteError{Op: "create product", Err: err}
	}
	r.logger.Info("catalog repo: created product", zap.String("id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

// UpsertProduct inserts or refreshes the product with the same name.
func (r *postgresRepo) UpsertProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price, description, image_url)
VALUES ($1, $2::numeric, NULLIF($3, ''), NULLIF($4, ''))
ON CONFLICT (name) DO UPDATE SET
    price = EXCLUDED.price,
    description = EXCLUDED.description,
    image_url = EXCLUDED.image_url
RETURNING id::text, created_at
`
	if err := r.db.QueryRow(ctx, q, p.Name, p.Price.String(), p.Description, p.ImageURL).Scan(&p.ID, &p.CreatedAt); err != nil {
		r.logger.Error("catalog repo: upsert product", zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("catalog repo: upserted product", zap.String("id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

const packageColumns = `id::text, name, COALESCE(price_range, ''), materials, COALESCE(description, ''), COALESCE(image_url, ''), created_at`

func scanPackage(row pgx.Row) (domain.InteriorPackage, error) {
	var p domain.InteriorPackage
	err := row.Scan(&p.ID, &p.Name, &p.PriceRange, &p.Materials, &p.Description, &p.ImageURL, &p.CreatedAt)
	if p.Materials == nil {
		p.Materials = []string{}
	}
	return p, err
}

func (r *postgresRepo) ListPackages(ctx context.Context) ([]domain.InteriorPackage, error) {
	rows, err := r.db.Query(ctx, `SELECT `+packageColumns+` FROM interior_packages ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("catalog repo: list packages", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.InteriorPackage{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetPackage(ctx context.Context, id string) (*domain.InteriorPackage, error) {
	p, err := scanPackage(r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM interior_packages WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("catalog repo: get package", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) CreatePackage(ctx context.Context, p domain.InteriorPackage) (*domain.InteriorPackage, error) {
	const q = `
INSERT INTO interior_packages (name, price_range, materials, description, image_url)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''))
RETURNING id::text, created_at
`
	if p.Materials == nil {
		p.Materials = []string{}
	}
	if err := r.db.QueryRow(ctx, q, p.Name, p.PriceRange, p.Materials, p.Description, p.ImageURL).Scan(&p.ID, &p.CreatedAt); err != nil {
		r.logger.Error("catalog repo: create package", zap.String("name", p.Name), zap.Error(err))
		return nil, &domain.RemoteWriteError{Op: "create package", Err: err}
	}
	r.logger.Info("catalog repo: created package", zap.String("id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

const serviceColumns = `id::text, name, COALESCE(price, ''), COALESCE(description, ''), COALESCE(image_url, ''), created_at`

func scanService(row pgx.Row) (domain.Service, error) {
	var s domain.Service
	err := row.Scan(&s.ID, &s.Name, &s.Price, &s.Description, &s.ImageURL, &s.CreatedAt)
	return s, err
}

func (r *postgresRepo) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("catalog repo: list services", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetService(ctx context.Context, id string) (*domain.Service, error) {
	s, err := scanService(r.db.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id::text = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("catalog repo: get service", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) CreateService(ctx context.Context, s domain.Service) (*domain.Service, error) {
	const q = `
INSERT INTO services (name, price, description, image_url)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
RETURNING id::text, created_at
`
	if err := r.db.QueryRow(ctx, q, s.Name, s.Price, s.Description, s.ImageURL).Scan(&s.ID, &s.CreatedAt); err != nil {
		r.logger.Error("catalog repo: create service", zap.String("name", s.Name), zap.Error(err))
		return nil, &domain.RemoteWriteError{Op: "create service", Err: err}
	}
	r.logger.Info("catalog repo: created service", zap.String("id", s.ID), zap.String("name", s.Name))
	return &s, nil
}

func (r *postgresRepo) Delete(ctx context.Context, kind domain.CatalogKind, id string) error {
	table, ok := tables[kind]
	if !ok {
		return fmt.Errorf("catalog repo: unknown kind %q", kind)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE id::text = $1`, id)
	if err != nil {
		r.logger.Error("catalog repo: delete", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return &domain.RemoteWriteError{Op: "delete " + string(kind), Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("catalog repo: deleted", zap.String("kind", string(kind)), zap.String("id", id))
	return nil
}

func (r *postgresRepo) Count(ctx context.Context, kind domain.CatalogKind) (int, error) {
	table, ok := tables[kind]
	if !ok {
		return 0, fmt.Errorf("catalog repo: unknown kind %q", kind)
	}
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
