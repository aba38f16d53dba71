package entity

import "time"

// MovementType tipo de movimiento del ledger.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeSale       MovementType = "SALE"
	MovementTypePurchase   MovementType = "PURCHASE"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	MovementTypeTransfer   MovementType = "TRANSFER"
)

// Valid indica si el tipo es uno de los soportados.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeSale, MovementTypePurchase, MovementTypeAdjustment, MovementTypeTransfer:
		return true
	}
	return false
}

// InventoryMovement registro inmutable del ledger (append-only).
// Reference apunta a la venta, compra, ajuste o par de traslado que lo originó.
type InventoryMovement struct {
	ID         string
	ProductID  string
	LocationID string
	Quantity   int64 // positivo entrada, negativo salida
	Type       MovementType
	Reference  string
	UserID     string
	CreatedAt  time.Time
}
