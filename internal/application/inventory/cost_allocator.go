package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	dominv "github.com/jhoicas/pos-ipv/internal/domain/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// CostAllocator asigna costo FIFO a las líneas de venta contra los lotes de compra.
type CostAllocator struct{}

// NewCostAllocator construye el asignador.
func NewCostAllocator() *CostAllocator { return &CostAllocator{} }

// AllocateCost consume lotes del producto (de cualquier ubicación, del más antiguo al más reciente)
// hasta cubrir la cantidad de la línea. Los lotes quedan bloqueados hasta el fin de la transacción,
// de modo que dos ventas concurrentes no asignan las mismas unidades.
// Si los lotes no alcanzan devuelve domain.ErrInsufficientCostBasis y nada se escribe.
// Tras escribir, cada lote tocado se vuelve a sumar: un lote asignado por encima de su cantidad
// devuelve domain.ErrConcurrencyConflict y la transacción se revierte.
func (a *CostAllocator) AllocateCost(ctx context.Context, repos repository.Repos, item *entity.SaleItem) ([]*entity.SaleItemCostAllocation, error) {
	if item.Quantity <= 0 {
		return nil, fmt.Errorf("%w: cantidad de la línea %s", domain.ErrInvalidInput, item.ID)
	}
	lots, err := repos.Purchases.LockLotsForProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	draws, remaining := dominv.PlanFIFO(lots, item.Quantity)
	if remaining > 0 {
		return nil, fmt.Errorf("%w: producto %s, faltan %d unidades sin lote", domain.ErrInsufficientCostBasis, item.ProductID, remaining)
	}
	capacity := make(map[string]int64, len(lots))
	for _, l := range lots {
		capacity[l.PurchaseItemID] = l.Quantity
	}
	out := make([]*entity.SaleItemCostAllocation, 0, len(draws))
	for _, d := range draws {
		alloc := &entity.SaleItemCostAllocation{
			ID:             uuid.New().String(),
			SaleItemID:     item.ID,
			PurchaseItemID: d.PurchaseItemID,
			QuantityUsed:   d.Quantity,
			UnitCost:       d.UnitCost,
		}
		if err := repos.Sales.CreateAllocation(ctx, alloc); err != nil {
			return nil, err
		}
		out = append(out, alloc)
	}
	for _, d := range draws {
		used, err := repos.Sales.SumAllocatedByPurchaseItem(ctx, d.PurchaseItemID)
		if err != nil {
			return nil, err
		}
		if used > capacity[d.PurchaseItemID] {
			return nil, fmt.Errorf("%w: lote %s asignado %d de %d", domain.ErrConcurrencyConflict, d.PurchaseItemID, used, capacity[d.PurchaseItemID])
		}
	}
	return out, nil
}
