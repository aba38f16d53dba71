package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas, líneas y asignaciones de costo sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta y sus líneas. Un transfer_code repetido viola ux_sales_transfer_code.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, user_id, shift_id, location_id, payment_method_id, total, transfer_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.ShiftID, s.LocationID, s.PaymentMethodID, s.Total, nullable(s.TransferCode), s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == "ux_sales_transfer_code" {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, s.TransferCode)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, location_id, quantity, unit_price, total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, s.ID, it.ProductID, it.LocationID, it.Quantity, it.UnitPrice, it.Total, it.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas y el nombre del método de pago.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	var code *string
	err := r.q.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.shift_id, s.location_id, s.payment_method_id, pm.name, s.total, s.transfer_code, s.created_at
		FROM sales s JOIN payment_methods pm ON pm.id = s.payment_method_id
		WHERE s.id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.ShiftID, &s.LocationID, &s.PaymentMethodID, &s.PaymentMethodName, &s.Total, &code, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.TransferCode = fromNullable(code)

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, location_id, quantity, unit_price, total, created_at
		FROM sale_items WHERE sale_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.LocationID, &it.Quantity,
			&it.UnitPrice, &it.Total, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, &it)
	}
	return &s, rows.Err()
}

func (r *SaleRepo) ExistsTransferCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE transfer_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists transfer code: %w", err)
	}
	return exists, nil
}

func (r *SaleRepo) CreateAllocation(ctx context.Context, a *entity.SaleItemCostAllocation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_item_cost_allocations (id, sale_item_id, purchase_item_id, quantity_used, unit_cost)
		VALUES ($1, $2, $3, $4, $5)`, a.ID, a.SaleItemID, a.PurchaseItemID, a.QuantityUsed, a.UnitCost)
	if err != nil {
		return fmt.Errorf("insert cost allocation: %w", err)
	}
	return nil
}

func (r *SaleRepo) ListAllocationsBySaleItem(ctx context.Context, saleItemID string) ([]*entity.SaleItemCostAllocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.sale_item_id, a.purchase_item_id, a.quantity_used, a.unit_cost
		FROM sale_item_cost_allocations a
		JOIN purchase_items pi ON pi.id = a.purchase_item_id
		JOIN purchases p ON p.id = pi.purchase_id
		WHERE a.sale_item_id = $1
		ORDER BY p.created_at, pi.id`, saleItemID)
	if err != nil {
		return nil, fmt.Errorf("list cost allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItemCostAllocation
	for rows.Next() {
		var a entity.SaleItemCostAllocation
		if err := rows.Scan(&a.ID, &a.SaleItemID, &a.PurchaseItemID, &a.QuantityUsed, &a.UnitCost); err != nil {
			return nil, fmt.Errorf("scan cost allocation: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *SaleRepo) SumAllocatedByPurchaseItem(ctx context.Context, purchaseItemID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_used), 0)::bigint
		FROM sale_item_cost_allocations WHERE purchase_item_id = $1`, purchaseItemID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum allocated: %w", err)
	}
	return total, nil
}

// ListSoldLines líneas vendidas en la ubicación con su costo FIFO agregado.
func (r *SaleRepo) ListSoldLines(ctx context.Context, locationID string, from, to time.Time) ([]repository.SoldLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, si.id, si.product_id, pm.name, si.quantity, si.total,
		       COALESCE(SUM(a.quantity_used * a.unit_cost), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN payment_methods pm ON pm.id = s.payment_method_id
		LEFT JOIN sale_item_cost_allocations a ON a.sale_item_id = si.id
		WHERE s.location_id = $1 AND s.created_at >= $2 AND s.created_at < $3
		GROUP BY s.id, si.id, pm.name
		ORDER BY s.created_at, si.id`, locationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sold lines: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.SoldLine, error) {
		var l repository.SoldLine
		err := row.Scan(&l.SaleID, &l.SaleItemID, &l.ProductID, &l.PaymentMethodName, &l.Quantity, &l.Total, &l.RealCost)
		return l, err
	})
}
