package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// ShiftRepository define el puerto de persistencia de turnos y fotos de stock.
type ShiftRepository interface {
	// CreateIfAbsent inserta el turno salvo que ya exista uno para (usuario, ubicación, fecha).
	// created=false indica que otro llamador lo creó; el turno devuelto es entonces el existente.
	CreateIfAbsent(ctx context.Context, shift *entity.Shift) (stored *entity.Shift, created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Shift, error)
	GetByUserLocationDate(ctx context.Context, userID, locationID string, date time.Time) (*entity.Shift, error)
	// GetOpenForUpdate bloquea el turno abierto más reciente (created_at) de la ubicación; nil si no hay.
	GetOpenForUpdate(ctx context.Context, locationID string) (*entity.Shift, error)
	Close(ctx context.Context, shiftID string, endTime time.Time) error
	// ListByLocationDate turnos de la ubicación en la fecha, en orden de apertura (created_at).
	ListByLocationDate(ctx context.Context, locationID string, date time.Time) ([]*entity.Shift, error)
	CreateSnapshots(ctx context.Context, snapshots []*entity.ShiftStockSnapshot) error
	ListSnapshots(ctx context.Context, shiftID string, snapshotType entity.SnapshotType) ([]*entity.ShiftStockSnapshot, error)
}
