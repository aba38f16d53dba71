package entity

import "time"

// InventoryAdjustment ajuste manual de stock.
// Quantity es el delta aplicado al stock: positivo suma unidades, negativo las resta.
// El movimiento ADJUSTMENT se registra con el mismo signo.
type InventoryAdjustment struct {
	ID         string
	ProductID  string
	LocationID string
	UserID     string
	Reason     string
	Quantity   int64
	CreatedAt  time.Time
}
