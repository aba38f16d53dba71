package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockSelect = `SELECT product_id, location_id, quantity, updated_at FROM warehouse_stock`

func (r *StockRepo) getOne(ctx context.Context, query, productID, locationID string) (*entity.WarehouseStock, error) {
	var s entity.WarehouseStock
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Get obtiene el saldo de un producto en una ubicación; nil si nunca tuvo movimientos.
func (r *StockRepo) Get(ctx context.Context, productID, locationID string) (*entity.WarehouseStock, error) {
	return r.getOne(ctx, stockSelect+` WHERE product_id = $1 AND location_id = $2`, productID, locationID)
}

// GetForUpdate obtiene el saldo y bloquea la fila hasta el fin de la transacción; nil si no existe.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.WarehouseStock, error) {
	return r.getOne(ctx, stockSelect+` WHERE product_id = $1 AND location_id = $2 FOR UPDATE`, productID, locationID)
}

// LockOrCreate crea la fila en cero si falta y la bloquea, así dos operaciones concurrentes
// sobre un par sin saldo también se serializan.
func (r *StockRepo) LockOrCreate(ctx context.Context, productID, locationID string) (*entity.WarehouseStock, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouse_stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, location_id) DO NOTHING`, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	ws, err := r.GetForUpdate(ctx, productID, locationID)
	if err == nil && ws == nil {
		err = fmt.Errorf("lock stock row %s/%s: fila no encontrada", productID, locationID)
	}
	return ws, err
}

// Increment suma delta al saldo en una sola sentencia y devuelve el resultado.
func (r *StockRepo) Increment(ctx context.Context, productID, locationID string, delta int64) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO warehouse_stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = warehouse_stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`, productID, locationID, delta).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return qty, nil
}

// Set sobrescribe el saldo (reparación del ledger).
func (r *StockRepo) Set(ctx context.Context, productID, locationID string, quantity int64) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO warehouse_stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`, productID, locationID, quantity)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}

func (r *StockRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.WarehouseStock, error) {
	return r.list(ctx, stockSelect+` WHERE location_id = $1 ORDER BY product_id`, locationID)
}

func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.WarehouseStock, error) {
	return r.list(ctx, stockSelect+` ORDER BY location_id, product_id`)
}

func (r *StockRepo) ListAllForUpdate(ctx context.Context) ([]*entity.WarehouseStock, error) {
	return r.list(ctx, stockSelect+` ORDER BY location_id, product_id FOR UPDATE`)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.WarehouseStock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.WarehouseStock
	for rows.Next() {
		var s entity.WarehouseStock
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
