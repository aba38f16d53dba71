package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de venta o de compra. UnitPrice es precio de venta o costo unitario según el caso;
// en ventas, cero toma el precio de la ubicación o el del producto.
type LineItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
}

// CreateSaleRequest body para POST /api/sales. Total cero = calculado a partir de las líneas.
type CreateSaleRequest struct {
	PaymentMethod string            `json:"payment_method" validate:"required,max=100"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Total         decimal.Decimal   `json:"total" validate:"gte=0"`
	TransferCode  string            `json:"transfer_code,omitempty" validate:"omitempty,max=100"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	LocationID string            `json:"location_id" validate:"required"`
	Items      []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Total      decimal.Decimal   `json:"total" validate:"gte=0"`
}

// CreateAdjustmentRequest body para POST /api/adjustments.
// Quantity es el delta sobre el stock: positivo suma, negativo resta.
type CreateAdjustmentRequest struct {
	LocationID string `json:"location_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	Reason     string `json:"reason" validate:"required,max=500"`
	Quantity   int64  `json:"quantity" validate:"ne=0"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	FromLocationID string `json:"from_location_id" validate:"required"`
	ToLocationID   string `json:"to_location_id" validate:"required,nefield=FromLocationID"`
	Quantity       int64  `json:"quantity" validate:"gt=0"`
}

// OpenShiftRequest body para POST /api/shifts/open. LocationID vacío usa la ubicación asignada al usuario.
type OpenShiftRequest struct {
	LocationID  string          `json:"location_id"`
	StartAmount decimal.Decimal `json:"start_amount" validate:"gte=0"`
}

// SaleItemResponse línea de venta con su costo FIFO.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Cost      decimal.Decimal `json:"cost"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	ShiftID       string             `json:"shift_id"`
	LocationID    string             `json:"location_id"`
	PaymentMethod string             `json:"payment_method"`
	TransferCode  string             `json:"transfer_code,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// PurchaseItemResponse lote de una compra.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	LocationID string                 `json:"location_id"`
	Total      decimal.Decimal        `json:"total"`
	Items      []PurchaseItemResponse `json:"items"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	UserID     string    `json:"user_id"`
	Reason     string    `json:"reason"`
	Quantity   int64     `json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransferResponse referencia compartida por los dos movimientos del traslado.
type TransferResponse struct {
	TransferID string `json:"transfer_id"`
}

// ShiftResponse salida de un turno.
type ShiftResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	LocationID  string          `json:"location_id"`
	ShiftDate   string          `json:"shift_date"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     *time.Time      `json:"end_time,omitempty"`
	StartAmount decimal.Decimal `json:"start_amount"`
	Open        bool            `json:"open"`
}

// LedgerDiscrepancyResponse diferencia entre saldo materializado y ledger.
type LedgerDiscrepancyResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Stored     int64  `json:"stored"`
	Derived    int64  `json:"derived"`
}

// LedgerVerifyResponse resultado de la verificación del ledger.
type LedgerVerifyResponse struct {
	Checked       int                         `json:"checked"`
	Repaired      bool                        `json:"repaired"`
	Discrepancies []LedgerDiscrepancyResponse `json:"discrepancies"`
}

// ShiftSnapshotResponse foto de stock de un turno.
type ShiftSnapshotResponse struct {
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}
