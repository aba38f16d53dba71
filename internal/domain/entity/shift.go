package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shift turno de trabajo de un usuario en una ubicación; a lo sumo uno por día.
// EndTime nil = abierto. La transición abierto -> cerrado ocurre una sola vez.
type Shift struct {
	ID              string
	UserID          string
	StockLocationID string
	ShiftDate       time.Time // medianoche del día del turno en la zona horaria configurada
	StartTime       time.Time
	EndTime         *time.Time
	StartAmount     decimal.Decimal
	CreatedAt       time.Time // momento real de apertura; ordena los turnos del día
}

// IsOpen indica si el turno no ha sido cerrado.
func (s *Shift) IsOpen() bool { return s.EndTime == nil }

// SnapshotType momento de la foto de stock.
type SnapshotType string

const (
	SnapshotStart SnapshotType = "START"
	SnapshotEnd   SnapshotType = "END"
)

// ShiftStockSnapshot cantidad de un producto en la ubicación al abrir o cerrar un turno.
type ShiftStockSnapshot struct {
	ID         string
	ShiftID    string
	ProductID  string
	LocationID string
	Quantity   int64
	Type       SnapshotType
	CreatedAt  time.Time
}
