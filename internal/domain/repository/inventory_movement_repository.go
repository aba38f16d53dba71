package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// MovementBalance suma de movimientos por (producto, ubicación).
type MovementBalance struct {
	ProductID  string
	LocationID string
	Quantity   int64
}

// InventoryMovementRepository define el puerto de persistencia del ledger (sólo inserción).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByReference(ctx context.Context, reference string) ([]*entity.InventoryMovement, error)
	// ListByLocation movimientos de la ubicación con created_at en [from, to).
	ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]*entity.InventoryMovement, error)
	// SumBefore saldo por producto de la ubicación con movimientos anteriores a before.
	SumBefore(ctx context.Context, locationID string, before time.Time) (map[string]int64, error)
	// SumFor saldo derivado del ledger para un par (producto, ubicación).
	SumFor(ctx context.Context, productID, locationID string) (int64, error)
	// SumAll saldo derivado del ledger para cada (producto, ubicación).
	SumAll(ctx context.Context) ([]MovementBalance, error)
}
