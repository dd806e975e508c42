package business

import (
	"context"
	"errors"

	"royalwood-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

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

func (r *postgresRepo) Get(ctx context.Context) (*domain.BusinessInfo, error) {
	const q = `
SELECT business_name, owner_name, experience, phone, address, description, COALESCE(logo_url, '')
FROM business_info
WHERE id = $1
`
	var b domain.BusinessInfo
	err := r.db.QueryRow(ctx, q, MainID).Scan(&b.BusinessName, &b.OwnerName, &b.Experience, &b.Phone, &b.Address, &b.Description, &b.LogoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("business repo: get", zap.Error(err))
		return nil, err
	}
	return &b, nil
}

// Upsert replaces the profile. An empty LogoURL keeps the stored logo.
func (r *postgresRepo) Upsert(ctx context.Context, b domain.BusinessInfo) error {
	const q = `
INSERT INTO business_info (id, business_name, owner_name, experience, phone, address, description, logo_url, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), now())
ON CONFLICT (id) DO UPDATE SET
    business_name = EXCLUDED.business_name,
    owner_name = EXCLUDED.owner_name,
    experience = EXCLUDED.experience,
    phone = EXCLUDED.phone,
    address = EXCLUDED.address,
    description = EXCLUDED.description,
    logo_url = COALESCE(EXCLUDED.logo_url, business_info.logo_url),
    updated_at = now()
`
	_, err := r.db.Exec(ctx, q, MainID, b.BusinessName, b.OwnerName, b.Experience, b.Phone, b.Address, b.Description, b.LogoURL)
	if err != nil {
		r.logger.Error("business repo: upsert", zap.Error(err))
		return &domain.RemoteWriteError{Op: "save business info", Err: err}
	}
	r.logger.Info("business repo: saved", zap.String("business_name", b.BusinessName))
	return nil
}
