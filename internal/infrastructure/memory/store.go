// Package memory implementa los puertos de persistencia en memoria.
// Cada transacción trabaja sobre una copia del estado y sólo la publica al confirmar;
// un único candado serializa las transacciones, lo que equivale a aislamiento serializable.
package memory

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

type state struct {
	products       map[string]entity.Product
	locationPrices map[string]entity.ProductLocationPrice
	locations      map[string]entity.StockLocation
	users          map[string]entity.User
	paymentMethods map[string]entity.PaymentMethod
	stock          map[string]entity.WarehouseStock
	movements      []entity.InventoryMovement
	purchases      map[string]entity.Purchase
	purchaseItems  []entity.PurchaseItem
	sales          map[string]entity.Sale
	saleItems      []entity.SaleItem
	allocations    []entity.SaleItemCostAllocation
	adjustments    []entity.InventoryAdjustment
	shifts         []entity.Shift
	snapshots      []entity.ShiftStockSnapshot
}

func newState() *state {
	return &state{
		products:       map[string]entity.Product{},
		locationPrices: map[string]entity.ProductLocationPrice{},
		locations:      map[string]entity.StockLocation{},
		users:          map[string]entity.User{},
		paymentMethods: map[string]entity.PaymentMethod{},
		stock:          map[string]entity.WarehouseStock{},
		purchases:      map[string]entity.Purchase{},
		sales:          map[string]entity.Sale{},
	}
}

func (s *state) clone() *state {
	return &state{
		products:       maps.Clone(s.products),
		locationPrices: maps.Clone(s.locationPrices),
		locations:      maps.Clone(s.locations),
		users:          maps.Clone(s.users),
		paymentMethods: maps.Clone(s.paymentMethods),
		stock:          maps.Clone(s.stock),
		movements:      slices.Clip(s.movements),
		purchases:      maps.Clone(s.purchases),
		purchaseItems:  slices.Clip(s.purchaseItems),
		sales:          maps.Clone(s.sales),
		saleItems:      slices.Clip(s.saleItems),
		allocations:    slices.Clip(s.allocations),
		adjustments:    slices.Clip(s.adjustments),
		shifts:         slices.Clone(s.shifts),
		snapshots:      slices.Clip(s.snapshots),
	}
}

// Store almacén en memoria; implementa inventory.TxRunner.
// La espera por el turno de escritura respeta la cancelación del contexto.
type Store struct {
	sem  chan struct{}
	data *state
}

// NewStore crea un almacén vacío con los métodos de pago por defecto.
func NewStore() *Store {
	st := newState()
	for _, pm := range []entity.PaymentMethod{
		{ID: uuid.New().String(), Name: entity.PaymentMethodCash},
		{ID: uuid.New().String(), Name: entity.PaymentMethodTransfer, RequiresReference: true},
	} {
		st.paymentMethods[pm.ID] = pm
	}
	return &Store{sem: make(chan struct{}, 1), data: st}
}

// Run ejecuta fn con repositorios sobre una copia del estado. Si fn devuelve error o el contexto
// se cancela antes de confirmar, la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.sem }()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.data.clone()
	if err := fn(ctx, work.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *state) repos() repository.Repos {
	return repository.Repos{
		Products:       productRepo{s},
		Locations:      locationRepo{s},
		Users:          userRepo{s},
		PaymentMethods: paymentMethodRepo{s},
		Stock:          stockRepo{s},
		Movements:      movementRepo{s},
		Purchases:      purchaseRepo{s},
		Sales:          saleRepo{s},
		Adjustments:    adjustmentRepo{s},
		Shifts:         shiftRepo{s},
	}
}

func pairKey(a, b string) string { return a + "|" + b }

func ptr[T any](v T) *T { return &v }

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
