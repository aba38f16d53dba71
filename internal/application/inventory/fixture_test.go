package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingInvalidator struct {
	mu    sync.Mutex
	bumps int
}

func (c *countingInvalidator) Bump(context.Context) error {
	c.mu.Lock()
	c.bumps++
	c.mu.Unlock()
	return nil
}

func (c *countingInvalidator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bumps
}

type fixture struct {
	store       *memory.Store
	clock       *fakeClock
	invalidator *countingInvalidator
	opts        inventory.Options

	sales       *inventory.SaleUseCase
	purchases   *inventory.PurchaseUseCase
	adjustments *inventory.AdjustmentUseCase
	transfers   *inventory.TransferUseCase
	shifts      *inventory.ShiftUseCase
	audit       *inventory.LedgerAuditUseCase

	locA, locB string
	seller     string // vendedor asignado a locA
	keeper     string // bodeguero asignado a locA
	product    string // precio de venta 8
}

func newFixture(t *testing.T, mutate ...func(*inventory.Options)) *fixture {
	t.Helper()
	f := &fixture{
		store:       memory.NewStore(),
		clock:       &fakeClock{now: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)},
		invalidator: &countingInvalidator{},
		locA:        uuid.New().String(),
		locB:        uuid.New().String(),
		seller:      uuid.New().String(),
		keeper:      uuid.New().String(),
		product:     uuid.New().String(),
	}
	f.opts = inventory.Options{Location: time.UTC, Now: f.clock.Now, Invalidator: f.invalidator}
	for _, m := range mutate {
		m(&f.opts)
	}
	f.sales = inventory.NewSaleUseCase(f.store, f.opts)
	f.purchases = inventory.NewPurchaseUseCase(f.store, f.opts)
	f.adjustments = inventory.NewAdjustmentUseCase(f.store, f.opts)
	f.transfers = inventory.NewTransferUseCase(f.store, f.opts)
	f.shifts = inventory.NewShiftUseCase(f.store, f.opts)
	f.audit = inventory.NewLedgerAuditUseCase(f.store, f.opts)

	now := f.clock.Now()
	err := f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		for _, l := range []*entity.StockLocation{
			{ID: f.locA, Name: "Tienda", IsActive: true, CreatedAt: now, UpdatedAt: now},
			{ID: f.locB, Name: "Almacén", IsActive: true, CreatedAt: now, UpdatedAt: now},
		} {
			if err := r.Locations.Create(ctx, l); err != nil {
				return err
			}
		}
		for _, u := range []*entity.User{
			{ID: f.seller, Name: "Ana", Role: entity.RoleVendedor, StockLocationID: f.locA, IsActive: true},
			{ID: f.keeper, Name: "Luis", Role: entity.RoleBodeguero, StockLocationID: f.locA, IsActive: true},
		} {
			if err := r.Users.Create(ctx, u); err != nil {
				return err
			}
		}
		return r.Products.Create(ctx, &entity.Product{
			ID: f.product, Name: "Refresco", SalePrice: decimal.NewFromInt(8), IsActive: true, CreatedAt: now, UpdatedAt: now,
		})
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) addUser(t *testing.T, locationID string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Users.Create(ctx, &entity.User{ID: id, Name: "Extra", Role: entity.RoleVendedor, StockLocationID: locationID, IsActive: true})
	}))
	return id
}

func (f *fixture) addProduct(t *testing.T, name string, price int64) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Products.Create(ctx, &entity.Product{ID: id, Name: name, SalePrice: decimal.NewFromInt(price), IsActive: true})
	}))
	return id
}

func (f *fixture) purchase(t *testing.T, locationID, productID string, qty, unitCost int64) *entity.Purchase {
	t.Helper()
	p, err := f.purchases.CreatePurchase(context.Background(), f.keeper, dto.CreatePurchaseRequest{
		LocationID: locationID,
		Items:      []dto.LineItemRequest{{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(unitCost)}},
	})
	require.NoError(t, err)
	return p
}

func cashSale(productID string, qty, price int64) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCash,
		Items:         []dto.LineItemRequest{{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}},
	}
}

func (f *fixture) stock(t *testing.T, productID, locationID string) int64 {
	t.Helper()
	var qty int64
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		ws, err := r.Stock.Get(ctx, productID, locationID)
		if ws != nil {
			qty = ws.Quantity
		}
		return err
	}))
	return qty
}

func (f *fixture) hasStockRow(t *testing.T, productID, locationID string) bool {
	t.Helper()
	var found bool
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		ws, err := r.Stock.Get(ctx, productID, locationID)
		found = ws != nil
		return err
	}))
	return found
}

func (f *fixture) movements(t *testing.T, reference string) []*entity.InventoryMovement {
	t.Helper()
	var out []*entity.InventoryMovement
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		var err error
		out, err = r.Movements.ListByReference(ctx, reference)
		return err
	}))
	return out
}

func (f *fixture) lots(t *testing.T, productID string) []inventoryLot {
	t.Helper()
	var out []inventoryLot
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		lots, err := r.Purchases.LockLotsForProduct(ctx, productID)
		for _, l := range lots {
			out = append(out, inventoryLot{id: l.PurchaseItemID, quantity: l.Quantity, used: l.Used})
		}
		return err
	}))
	return out
}

type inventoryLot struct {
	id             string
	quantity, used int64
}

// requireInvariants verifica saldo == Σ movimientos y que ningún lote esté sobreconsumido.
func (f *fixture) requireInvariants(t *testing.T, productIDs ...string) {
	t.Helper()
	audit, err := f.audit.VerifyLedger(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, audit.Discrepancies, "saldo materializado distinto del ledger")
	for _, p := range productIDs {
		for _, l := range f.lots(t, p) {
			require.LessOrEqual(t, l.used, l.quantity, "lote %s sobreconsumido", l.id)
		}
	}
}
