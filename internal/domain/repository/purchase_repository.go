package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/inventory"
)

// PurchaseRepository define el puerto de persistencia de compras y sus lotes.
type PurchaseRepository interface {
	// Create inserta la compra y sus ítems.
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// ListItemsByLocation ítems comprados en la ubicación con created_at en [from, to).
	ListItemsByLocation(ctx context.Context, locationID string, from, to time.Time) ([]*entity.PurchaseItem, error)
	// LockLotsForProduct bloquea (FOR UPDATE) los lotes del producto en todas las ubicaciones,
	// del más antiguo al más reciente, con la cantidad ya asignada de cada uno.
	LockLotsForProduct(ctx context.Context, productID string) ([]inventory.Lot, error)
}
