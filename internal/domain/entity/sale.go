package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta; pertenece a exactamente un turno.
// TransferCode vacío significa pago sin referencia (efectivo).
type Sale struct {
	ID                string
	UserID            string
	ShiftID           string
	LocationID        string
	PaymentMethodID   string
	PaymentMethodName string
	Total             decimal.Decimal
	TransferCode      string
	CreatedAt         time.Time
	Items             []*SaleItem
}

// SaleItem línea de venta.
type SaleItem struct {
	ID         string
	SaleID     string
	ProductID  string
	LocationID string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// SaleItemCostAllocation vincula una línea de venta con el lote del que toma su costo.
type SaleItemCostAllocation struct {
	ID             string
	SaleItemID     string
	PurchaseItemID string
	QuantityUsed   int64
	UnitCost       decimal.Decimal
}

// Cost devuelve QuantityUsed * UnitCost.
func (a *SaleItemCostAllocation) Cost() decimal.Decimal {
	return a.UnitCost.Mul(decimal.NewFromInt(a.QuantityUsed))
}
