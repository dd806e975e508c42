package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"royalwood-storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
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

func (r *postgresRepo) Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderRecord, error) {
	const q = `
INSERT INTO orders (customer_name, phone, address, notes, items, total, status)
VALUES ($1, $2, $3, $4, $5::jsonb, $6::numeric, $7)
RETURNING id::text, created_at
`
	items, err := json.Marshal(draft.Items)
	if err != nil {
		return nil, fmt.Errorf("order repo: encode items: %w", err)
	}
	status := draft.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	rec := domain.OrderRecord{OrderDraft: draft}
	rec.Status = status
	err = r.db.QueryRow(ctx, q,
		draft.CustomerName,
		draft.Phone,
		draft.Address,
		draft.Notes,
		items,
		draft.Total.String(),
		status,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		r.logger.Error("order repo: create", zap.String("customer", draft.CustomerName), zap.Error(err))
		return nil, &domain.RemoteWriteError{Op: "create order", Err: err}
	}
	r.logger.Info("order repo: created", zap.String("id", rec.ID), zap.Int("lines", len(draft.Items)), zap.String("total", draft.Total.String()))
	return &rec, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.OrderRecord, error) {
	const q = `
SELECT id::text, customer_name, phone, address, COALESCE(notes, ''), items, total::text, status, created_at
FROM orders
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		r.logger.Error("order repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.OrderRecord{}
	for rows.Next() {
		var (
			o     domain.OrderRecord
			items []byte
			total string
		)
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.Address, &o.Notes, &items, &total, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("order repo: decode items id=%s: %w", o.ID, err)
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("order repo: decode total id=%s: %w", o.ID, err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("order repo: list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("order repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", status)}
	}
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $2 WHERE id::text = $1`, id, status)
	if err != nil {
		r.logger.Error("order repo: update status", zap.String("id", id), zap.Error(err))
		return &domain.RemoteWriteError{Op: "update order status", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("order repo: status updated", zap.String("id", id), zap.String("status", status))
	return nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
