package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// AdjustmentRepository define el puerto de persistencia de ajustes.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.InventoryAdjustment) error
	ListByLocation(ctx context.Context, locationID string, from, to time.Time) ([]*entity.InventoryAdjustment, error)
}
