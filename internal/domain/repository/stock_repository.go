package repository

import (
	"context"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por ubicación+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, productID, locationID string) (*entity.WarehouseStock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); nil si la fila no existe.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.WarehouseStock, error)
	// LockOrCreate bloquea la fila creándola en cero si falta. Nunca devuelve nil sin error.
	LockOrCreate(ctx context.Context, productID, locationID string) (*entity.WarehouseStock, error)
	// Increment suma delta al saldo (creando la fila si no existe) y devuelve el saldo resultante.
	Increment(ctx context.Context, productID, locationID string, delta int64) (int64, error)
	// Set sobrescribe el saldo; sólo para reparación del ledger.
	Set(ctx context.Context, productID, locationID string, quantity int64) error
	ListByLocation(ctx context.Context, locationID string) ([]*entity.WarehouseStock, error)
	ListAll(ctx context.Context) ([]*entity.WarehouseStock, error)
	// ListAllForUpdate como ListAll, bloqueando cada fila en orden (location_id, product_id).
	ListAllForUpdate(ctx context.Context) ([]*entity.WarehouseStock, error)
}
