package entity

import "time"

// WarehouseStock es el saldo materializado de un producto en una ubicación.
// Siempre es igual a la suma de InventoryMovement.Quantity del par; solo lo modifica el ledger.
type WarehouseStock struct {
	ProductID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}
