package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

type purchaseRepo struct{ s *state }

func (r purchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	head := *p
	head.Items = nil
	r.s.purchases[p.ID] = head
	for _, it := range p.Items {
		r.s.purchaseItems = append(r.s.purchaseItems, *it)
	}
	return nil
}

func (r purchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	for _, it := range r.s.purchaseItems {
		if it.PurchaseID == id {
			p.Items = append(p.Items, ptr(it))
		}
	}
	return &p, nil
}

func (r purchaseRepo) ListItemsByLocation(_ context.Context, locationID string, from, to time.Time) ([]*entity.PurchaseItem, error) {
	var out []*entity.PurchaseItem
	for _, it := range r.s.purchaseItems {
		if it.LocationID == locationID && inWindow(it.CreatedAt, from, to) {
			out = append(out, ptr(it))
		}
	}
	return out, nil
}

func (r purchaseRepo) LockLotsForProduct(_ context.Context, productID string) ([]inventory.Lot, error) {
	used := map[string]int64{}
	for _, a := range r.s.allocations {
		used[a.PurchaseItemID] += a.QuantityUsed
	}
	type row struct {
		item        entity.PurchaseItem
		purchasedAt time.Time
	}
	var rows []row
	for _, it := range r.s.purchaseItems {
		if it.ProductID != productID {
			continue
		}
		rows = append(rows, row{item: it, purchasedAt: r.s.purchases[it.PurchaseID].CreatedAt})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].purchasedAt.Equal(rows[j].purchasedAt) {
			return rows[i].purchasedAt.Before(rows[j].purchasedAt)
		}
		return rows[i].item.ID < rows[j].item.ID
	})
	lots := make([]inventory.Lot, 0, len(rows))
	for _, rw := range rows {
		lots = append(lots, inventory.Lot{
			PurchaseItemID: rw.item.ID,
			Quantity:       rw.item.Quantity,
			Used:           used[rw.item.ID],
			UnitCost:       rw.item.UnitCost,
			PurchasedAt:    rw.purchasedAt,
		})
	}
	return lots, nil
}

type saleRepo struct{ s *state }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale.TransferCode != "" {
		for _, other := range r.s.sales {
			if other.TransferCode == sale.TransferCode {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, sale.TransferCode)
			}
		}
	}
	head := *sale
	head.Items = nil
	r.s.sales[sale.ID] = head
	for _, it := range sale.Items {
		r.s.saleItems = append(r.s.saleItems, *it)
	}
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	for _, it := range r.s.saleItems {
		if it.SaleID == id {
			sale.Items = append(sale.Items, ptr(it))
		}
	}
	return &sale, nil
}

func (r saleRepo) ExistsTransferCode(_ context.Context, code string) (bool, error) {
	for _, other := range r.s.sales {
		if other.TransferCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r saleRepo) CreateAllocation(_ context.Context, a *entity.SaleItemCostAllocation) error {
	r.s.allocations = append(r.s.allocations, *a)
	return nil
}

func (r saleRepo) ListAllocationsBySaleItem(_ context.Context, saleItemID string) ([]*entity.SaleItemCostAllocation, error) {
	var out []*entity.SaleItemCostAllocation
	for _, a := range r.s.allocations {
		if a.SaleItemID == saleItemID {
			out = append(out, ptr(a))
		}
	}
	return out, nil
}

func (r saleRepo) SumAllocatedByPurchaseItem(_ context.Context, purchaseItemID string) (int64, error) {
	var total int64
	for _, a := range r.s.allocations {
		if a.PurchaseItemID == purchaseItemID {
			total += a.QuantityUsed
		}
	}
	return total, nil
}

func (r saleRepo) ListSoldLines(_ context.Context, locationID string, from, to time.Time) ([]repository.SoldLine, error) {
	cost := map[string]decimal.Decimal{}
	for _, a := range r.s.allocations {
		cost[a.SaleItemID] = cost[a.SaleItemID].Add(a.Cost())
	}
	var out []repository.SoldLine
	for _, it := range r.s.saleItems {
		sale, ok := r.s.sales[it.SaleID]
		if !ok || sale.LocationID != locationID || !inWindow(sale.CreatedAt, from, to) {
			continue
		}
		out = append(out, repository.SoldLine{
			SaleID:            sale.ID,
			SaleItemID:        it.ID,
			ProductID:         it.ProductID,
			PaymentMethodName: sale.PaymentMethodName,
			Quantity:          it.Quantity,
			Total:             it.Total,
			RealCost:          cost[it.ID],
		})
	}
	return out, nil
}
