package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

func TestCompraSinStockPrevio(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.hasStockRow(t, f.product, f.locA))

	p := f.purchase(t, f.locA, f.product, 10, 5)

	assert.Equal(t, int64(10), f.stock(t, f.product, f.locA))
	require.Len(t, p.Items, 1)
	assert.Equal(t, int64(10), p.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(5).Equal(p.Items[0].UnitCost))
	assert.True(t, decimal.NewFromInt(50).Equal(p.Total))

	movs := f.movements(t, p.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypePurchase, movs[0].Type)
	assert.Equal(t, int64(10), movs[0].Quantity)
	f.requireInvariants(t, f.product)
}

func TestVentaAsignaCostoFIFO(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 10, 5)

	res, err := f.sales.CreateSale(context.Background(), f.seller, cashSale(f.product, 4, 8))
	require.NoError(t, err)

	assert.Equal(t, int64(6), f.stock(t, f.product, f.locA))
	require.Len(t, res.Allocations, 1)
	assert.Equal(t, int64(4), res.Allocations[0].QuantityUsed)
	assert.True(t, decimal.NewFromInt(5).Equal(res.Allocations[0].UnitCost))
	assert.True(t, decimal.NewFromInt(32).Equal(res.Sale.Total))

	item := res.Sale.Items[0]
	profit := item.Total.Sub(res.Costs()[item.ID])
	assert.True(t, decimal.NewFromInt(12).Equal(profit), "ganancia = 4x8 - 4x5")
	assert.NotEmpty(t, res.Sale.ShiftID)
	f.requireInvariants(t, f.product)
}

func TestVentaCruzaLotesYBaseInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 6, 5)
	f.clock.Advance(1)
	f.purchase(t, f.locA, f.product, 4, 6)

	_, err := f.sales.CreateSale(context.Background(), f.seller, cashSale(f.product, 4, 8))
	require.NoError(t, err)
	require.Equal(t, int64(6), f.stock(t, f.product, f.locA))

	// quedan 6 unidades sin asignar; pedir 7 debe revertir toda la venta
	_, err = f.sales.CreateSale(context.Background(), f.seller, cashSale(f.product, 7, 8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientCostBasis))
	assert.Equal(t, int64(6), f.stock(t, f.product, f.locA), "la venta fallida no deja movimientos")
	f.requireInvariants(t, f.product)

	// con un lote más sí alcanza, consumiendo en orden de compra
	f.clock.Advance(1)
	f.purchase(t, f.locA, f.product, 1, 9)
	res, err := f.sales.CreateSale(context.Background(), f.seller, cashSale(f.product, 7, 8))
	require.NoError(t, err)
	require.Len(t, res.Allocations, 3)
	assert.Equal(t, int64(2), res.Allocations[0].QuantityUsed)
	assert.True(t, decimal.NewFromInt(5).Equal(res.Allocations[0].UnitCost))
	assert.Equal(t, int64(4), res.Allocations[1].QuantityUsed)
	assert.Equal(t, int64(1), res.Allocations[2].QuantityUsed)

	var allocated int64
	for _, a := range res.Allocations {
		allocated += a.QuantityUsed
	}
	assert.Equal(t, res.Sale.Items[0].Quantity, allocated)
	for _, l := range f.lots(t, f.product) {
		assert.Equal(t, l.quantity, l.used)
	}
	f.requireInvariants(t, f.product)
}

func TestLotesDeOtraUbicacionCubrenCosto(t *testing.T) {
	f := newFixture(t)
	// compra en el almacén y traslado a la tienda: el costo se sigue por producto, no por ubicación
	f.purchase(t, f.locB, f.product, 5, 4)
	_, err := f.transfers.CreateTransfer(context.Background(), f.keeper, dto.CreateTransferRequest{
		ProductID: f.product, FromLocationID: f.locB, ToLocationID: f.locA, Quantity: 5,
	})
	require.NoError(t, err)

	res, err := f.sales.CreateSale(context.Background(), f.seller, cashSale(f.product, 5, 8))
	require.NoError(t, err)
	require.Len(t, res.Allocations, 1)
	assert.True(t, decimal.NewFromInt(4).Equal(res.Allocations[0].UnitCost))
	f.requireInvariants(t, f.product)
}

func TestTrasladoMueveStock(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 10, 5)
	_, err := f.sales.CreateSale(context.Background(), f.seller, cashSale(f.product, 4, 8))
	require.NoError(t, err)

	ref, err := f.transfers.CreateTransfer(context.Background(), f.keeper, dto.CreateTransferRequest{
		ProductID: f.product, FromLocationID: f.locA, ToLocationID: f.locB, Quantity: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.stock(t, f.product, f.locA))
	assert.Equal(t, int64(3), f.stock(t, f.product, f.locB))
	movs := f.movements(t, ref)
	require.Len(t, movs, 2)
	var sum int64
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeTransfer, m.Type)
		assert.Equal(t, ref, m.Reference)
		sum += m.Quantity
	}
	assert.Zero(t, sum)
	f.requireInvariants(t, f.product)
}

func TestTrasladoIdaYVuelta(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 7, 5)
	f.purchase(t, f.locB, f.product, 2, 5)
	beforeA, beforeB := f.stock(t, f.product, f.locA), f.stock(t, f.product, f.locB)

	ctx := context.Background()
	_, err := f.transfers.CreateTransfer(ctx, f.keeper, dto.CreateTransferRequest{
		ProductID: f.product, FromLocationID: f.locA, ToLocationID: f.locB, Quantity: 4,
	})
	require.NoError(t, err)
	_, err = f.transfers.CreateTransfer(ctx, f.keeper, dto.CreateTransferRequest{
		ProductID: f.product, FromLocationID: f.locB, ToLocationID: f.locA, Quantity: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, beforeA, f.stock(t, f.product, f.locA))
	assert.Equal(t, beforeB, f.stock(t, f.product, f.locB))
	f.requireInvariants(t, f.product)
}

func TestVentasConcurrentesSobreUltimoLote(t *testing.T) {
	tests := []struct {
		name         string
		secondLot    bool
		wantSuccess  int
		wantCostFail int
	}{
		{name: "sin más lotes", secondLot: false, wantSuccess: 1, wantCostFail: 1},
		{name: "con lote siguiente", secondLot: true, wantSuccess: 2, wantCostFail: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			other := f.addUser(t, f.locA)
			f.purchase(t, f.locA, f.product, 5, 5)
			if tt.secondLot {
				f.clock.Advance(1)
				f.purchase(t, f.locB, f.product, 5, 7)
			}

			var (
				wg   sync.WaitGroup
				errs = make([]error, 2)
			)
			for i, user := range []string{f.seller, other} {
				wg.Add(1)
				go func(i int, user string) {
					defer wg.Done()
					_, errs[i] = f.sales.CreateSale(context.Background(), user, cashSale(f.product, 5, 8))
				}(i, user)
			}
			wg.Wait()

			var ok, costFail int
			for _, err := range errs {
				switch {
				case err == nil:
					ok++
				case errors.Is(err, domain.ErrInsufficientCostBasis):
					costFail++
				default:
					t.Fatalf("error inesperado: %v", err)
				}
			}
			assert.Equal(t, tt.wantSuccess, ok)
			assert.Equal(t, tt.wantCostFail, costFail)
			for _, l := range f.lots(t, f.product) {
				assert.LessOrEqual(t, l.used, l.quantity)
			}
			f.requireInvariants(t, f.product)
		})
	}
}

func TestInvariantesTrasSecuenciaMixta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.addProduct(t, "Galletas", 3)

	f.purchase(t, f.locA, f.product, 20, 5)
	f.purchase(t, f.locA, other, 10, 1)
	_, err := f.sales.CreateSale(ctx, f.seller, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodTransfer,
		TransferCode:  "TRX-1",
		Items: []dto.LineItemRequest{
			{ProductID: f.product, Quantity: 3},
			{ProductID: other, Quantity: 2},
		},
	})
	require.NoError(t, err)
	_, err = f.adjustments.CreateAdjustment(ctx, f.keeper, dto.CreateAdjustmentRequest{
		LocationID: f.locA, ProductID: f.product, Reason: "rotura", Quantity: -2,
	})
	require.NoError(t, err)
	_, err = f.transfers.CreateTransfer(ctx, f.keeper, dto.CreateTransferRequest{
		ProductID: other, FromLocationID: f.locA, ToLocationID: f.locB, Quantity: 5,
	})
	require.NoError(t, err)
	_, err = f.shifts.CloseShift(ctx, f.locA)
	require.NoError(t, err)

	assert.Equal(t, int64(15), f.stock(t, f.product, f.locA))
	assert.Equal(t, int64(3), f.stock(t, other, f.locA))
	assert.Equal(t, int64(5), f.stock(t, other, f.locB))
	f.requireInvariants(t, f.product, other)
	assert.Equal(t, 6, f.invalidator.Count(), "cada escritura confirmada invalida el cache")
}
