package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo ledger sobre PostgreSQL (sólo INSERT; usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementSelect = `
	SELECT id, product_id, location_id, quantity, type, reference, user_id, created_at
	FROM inventory_movements`

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, product_id, location_id, quantity, type, reference, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.LocationID, m.Quantity, string(m.Type), m.Reference, nullable(m.UserID), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

func (r *InventoryMovementRepo) ListByReference(ctx context.Context, reference string) ([]*entity.InventoryMovement, error) {
	return r.list(ctx, movementSelect+` WHERE reference = $1 ORDER BY created_at, id`, reference)
}

// ListByLocation movimientos con created_at en [from, to).
func (r *InventoryMovementRepo) ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]*entity.InventoryMovement, error) {
	return r.list(ctx, movementSelect+`
		WHERE location_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at, id`, locationID, from, to)
}

// SumBefore saldo por producto antes de un instante.
func (r *InventoryMovementRepo) SumBefore(ctx context.Context, locationID string, before time.Time) (map[string]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, SUM(quantity)::bigint
		FROM inventory_movements
		WHERE location_id = $1 AND created_at < $2
		GROUP BY product_id`, locationID, before)
	if err != nil {
		return nil, fmt.Errorf("sum movements before: %w", err)
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var productID string
		var qty int64
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan movement sum: %w", err)
		}
		out[productID] = qty
	}
	return out, rows.Err()
}

func (r *InventoryMovementRepo) SumFor(ctx context.Context, productID, locationID string) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::bigint
		FROM inventory_movements
		WHERE product_id = $1 AND location_id = $2`, productID, locationID).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("sum movements for pair: %w", err)
	}
	return qty, nil
}

// SumAll saldo derivado del ledger por par producto/ubicación.
func (r *InventoryMovementRepo) SumAll(ctx context.Context) ([]repository.MovementBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, location_id, SUM(quantity)::bigint
		FROM inventory_movements
		GROUP BY product_id, location_id
		ORDER BY location_id, product_id`)
	if err != nil {
		return nil, fmt.Errorf("sum movements: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.MovementBalance, error) {
		var b repository.MovementBalance
		err := row.Scan(&b.ProductID, &b.LocationID, &b.Quantity)
		return b, err
	})
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var typ string
		var userID *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LocationID, &m.Quantity, &typ, &m.Reference, &userID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		m.UserID = fromNullable(userID)
		list = append(list, &m)
	}
	return list, rows.Err()
}
