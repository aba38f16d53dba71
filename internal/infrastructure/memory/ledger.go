package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

type stockRepo struct{ s *state }

func (r stockRepo) Get(_ context.Context, productID, locationID string) (*entity.WarehouseStock, error) {
	ws, ok := r.s.stock[pairKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	return &ws, nil
}

// GetForUpdate equivale a Get: el candado del Store ya serializa la transacción.
func (r stockRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.WarehouseStock, error) {
	return r.Get(ctx, productID, locationID)
}

// LockOrCreate deja la fila en cero si falta; el rollback la descarta junto con el resto.
func (r stockRepo) LockOrCreate(_ context.Context, productID, locationID string) (*entity.WarehouseStock, error) {
	key := pairKey(productID, locationID)
	ws, ok := r.s.stock[key]
	if !ok {
		ws = entity.WarehouseStock{ProductID: productID, LocationID: locationID, UpdatedAt: time.Now()}
		r.s.stock[key] = ws
	}
	return &ws, nil
}

func (r stockRepo) Increment(_ context.Context, productID, locationID string, delta int64) (int64, error) {
	key := pairKey(productID, locationID)
	ws, ok := r.s.stock[key]
	if !ok {
		ws = entity.WarehouseStock{ProductID: productID, LocationID: locationID}
	}
	ws.Quantity += delta
	ws.UpdatedAt = time.Now()
	r.s.stock[key] = ws
	return ws.Quantity, nil
}

func (r stockRepo) Set(_ context.Context, productID, locationID string, quantity int64) error {
	r.s.stock[pairKey(productID, locationID)] = entity.WarehouseStock{
		ProductID: productID, LocationID: locationID, Quantity: quantity, UpdatedAt: time.Now(),
	}
	return nil
}

func (r stockRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, ws := range r.s.stock {
		if ws.LocationID == locationID {
			out = append(out, ptr(ws))
		}
	}
	sortStock(out)
	return out, nil
}

func (r stockRepo) ListAll(_ context.Context) ([]*entity.WarehouseStock, error) {
	out := make([]*entity.WarehouseStock, 0, len(r.s.stock))
	for _, ws := range r.s.stock {
		out = append(out, ptr(ws))
	}
	sortStock(out)
	return out, nil
}

func (r stockRepo) ListAllForUpdate(ctx context.Context) ([]*entity.WarehouseStock, error) {
	return r.ListAll(ctx)
}

func sortStock(rows []*entity.WarehouseStock) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LocationID != rows[j].LocationID {
			return rows[i].LocationID < rows[j].LocationID
		}
		return rows[i].ProductID < rows[j].ProductID
	})
}

type movementRepo struct{ s *state }

func (r movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.movements = append(r.s.movements, *m)
	return nil
}

func (r movementRepo) ListByReference(_ context.Context, reference string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.Reference == reference {
			out = append(out, ptr(m))
		}
	}
	return out, nil
}

func (r movementRepo) ListByLocation(_ context.Context, locationID string, from, to time.Time) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.LocationID == locationID && inWindow(m.CreatedAt, from, to) {
			out = append(out, ptr(m))
		}
	}
	return out, nil
}

func (r movementRepo) SumBefore(_ context.Context, locationID string, before time.Time) (map[string]int64, error) {
	out := map[string]int64{}
	for _, m := range r.s.movements {
		if m.LocationID == locationID && m.CreatedAt.Before(before) {
			out[m.ProductID] += m.Quantity
		}
	}
	return out, nil
}

func (r movementRepo) SumFor(_ context.Context, productID, locationID string) (int64, error) {
	var qty int64
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			qty += m.Quantity
		}
	}
	return qty, nil
}

func (r movementRepo) SumAll(_ context.Context) ([]repository.MovementBalance, error) {
	sums := map[string]*repository.MovementBalance{}
	for _, m := range r.s.movements {
		key := pairKey(m.ProductID, m.LocationID)
		b, ok := sums[key]
		if !ok {
			b = &repository.MovementBalance{ProductID: m.ProductID, LocationID: m.LocationID}
			sums[key] = b
		}
		b.Quantity += m.Quantity
	}
	out := make([]repository.MovementBalance, 0, len(sums))
	for _, b := range sums {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID != out[j].LocationID {
			return out[i].LocationID < out[j].LocationID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

type adjustmentRepo struct{ s *state }

func (r adjustmentRepo) Create(_ context.Context, a *entity.InventoryAdjustment) error {
	r.s.adjustments = append(r.s.adjustments, *a)
	return nil
}

func (r adjustmentRepo) ListByLocation(_ context.Context, locationID string, from, to time.Time) ([]*entity.InventoryAdjustment, error) {
	var out []*entity.InventoryAdjustment
	for _, a := range r.s.adjustments {
		if a.LocationID == locationID && inWindow(a.CreatedAt, from, to) {
			out = append(out, ptr(a))
		}
	}
	return out, nil
}
