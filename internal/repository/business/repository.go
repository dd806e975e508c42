package business

import (
	"context"

	"royalwood-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MainID is the key of the single business profile row.
const MainID = "main"

type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Get(ctx context.Context) (*domain.BusinessInfo, error)
	Upsert(ctx context.Context, info domain.BusinessInfo) error
}
