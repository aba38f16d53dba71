package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras y lotes sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseItemColumns = `id, purchase_id, product_id, location_id, quantity, unit_cost, total_cost, created_at`

// Create inserta la cabecera y sus ítems.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, user_id, location_id, total, created_at)
		VALUES ($1, $2, $3, $4, $5)`, p.ID, nullable(p.UserID), p.LocationID, p.Total, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	for _, it := range p.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_items (`+purchaseItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, p.ID, it.ProductID, it.LocationID, it.Quantity, it.UnitCost, it.TotalCost, it.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la compra con sus ítems.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	var p entity.Purchase
	var userID *string
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, location_id, total, created_at FROM purchases WHERE id = $1`, id,
	).Scan(&p.ID, &userID, &p.LocationID, &p.Total, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	p.UserID = fromNullable(userID)
	p.Items, err = r.listItems(ctx, `SELECT `+purchaseItemColumns+` FROM purchase_items WHERE purchase_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListItemsByLocation lotes recibidos en la ubicación con created_at en [from, to).
func (r *PurchaseRepo) ListItemsByLocation(ctx context.Context, locationID string, from, to time.Time) ([]*entity.PurchaseItem, error) {
	return r.listItems(ctx, `
		SELECT `+purchaseItemColumns+` FROM purchase_items
		WHERE location_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at, id`, locationID, from, to)
}

// LockLotsForProduct bloquea los lotes del producto y los devuelve en orden FIFO
// (fecha de la compra, luego id) con las unidades ya asignadas.
func (r *PurchaseRepo) LockLotsForProduct(ctx context.Context, productID string) ([]inventory.Lot, error) {
	// El bloqueo va en una sentencia aparte: FOR UPDATE no admite agregados.
	if _, err := r.q.Exec(ctx,
		`SELECT id FROM purchase_items WHERE product_id = $1 ORDER BY id FOR UPDATE`, productID); err != nil {
		return nil, fmt.Errorf("lock lots: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT pi.id, pi.quantity, COALESCE(u.used, 0)::bigint, pi.unit_cost, p.created_at
		FROM purchase_items pi
		JOIN purchases p ON p.id = pi.purchase_id
		LEFT JOIN (
			SELECT purchase_item_id, SUM(quantity_used) AS used
			FROM sale_item_cost_allocations
			GROUP BY purchase_item_id
		) u ON u.purchase_item_id = pi.id
		WHERE pi.product_id = $1
		ORDER BY p.created_at, pi.id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (inventory.Lot, error) {
		var l inventory.Lot
		err := row.Scan(&l.PurchaseItemID, &l.Quantity, &l.Used, &l.UnitCost, &l.PurchasedAt)
		return l, err
	})
}

func (r *PurchaseRepo) listItems(ctx context.Context, query string, args ...any) ([]*entity.PurchaseItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.LocationID, &it.Quantity,
			&it.UnitCost, &it.TotalCost, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
