package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// SoldLine línea vendida para el reporte: ítem con su método de pago y costo FIFO asignado.
type SoldLine struct {
	SaleID            string
	SaleItemID        string
	ProductID         string
	PaymentMethodName string
	Quantity          int64
	Total             decimal.Decimal
	RealCost          decimal.Decimal
}

// SaleRepository define el puerto de persistencia de ventas y asignaciones de costo.
type SaleRepository interface {
	// Create inserta la venta y sus ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ExistsTransferCode(ctx context.Context, code string) (bool, error)
	CreateAllocation(ctx context.Context, allocation *entity.SaleItemCostAllocation) error
	ListAllocationsBySaleItem(ctx context.Context, saleItemID string) ([]*entity.SaleItemCostAllocation, error)
	// SumAllocatedByPurchaseItem total de unidades asignadas contra un lote.
	SumAllocatedByPurchaseItem(ctx context.Context, purchaseItemID string) (int64, error)
	// ListSoldLines ítems de ventas de la ubicación con created_at en [from, to).
	ListSoldLines(ctx context.Context, locationID string, from, to time.Time) ([]SoldLine, error)
}
