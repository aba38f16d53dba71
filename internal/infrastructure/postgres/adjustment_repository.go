package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo ajustes manuales sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.InventoryAdjustment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_adjustments (id, product_id, location_id, user_id, reason, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ProductID, a.LocationID, nullable(a.UserID), a.Reason, a.Quantity, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

// ListByLocation ajustes con created_at en [from, to).
func (r *AdjustmentRepo) ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]*entity.InventoryAdjustment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, location_id, user_id, reason, quantity, created_at
		FROM inventory_adjustments
		WHERE location_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at, id`, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.InventoryAdjustment, error) {
		var a entity.InventoryAdjustment
		var userID *string
		err := row.Scan(&a.ID, &a.ProductID, &a.LocationID, &userID, &a.Reason, &a.Quantity, &a.CreatedAt)
		a.UserID = fromNullable(userID)
		return &a, err
	})
}
