package order

import (
	"context"

	"royalwood-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error)
	List(ctx context.Context) ([]domain.OrderRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Count(ctx context.Context) (int, error)
}
