package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase agrupa los lotes recibidos en una ubicación.
type Purchase struct {
	ID         string
	UserID     string
	LocationID string
	Total      decimal.Decimal
	CreatedAt  time.Time
	Items      []*PurchaseItem
}

// PurchaseItem es un lote consumible por la asignación FIFO. CreatedAt se hereda de la compra.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	LocationID string
	Quantity   int64
	UnitCost   decimal.Decimal
	TotalCost  decimal.Decimal
	CreatedAt  time.Time
}
