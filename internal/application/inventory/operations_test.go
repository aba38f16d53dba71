package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

func TestCreateSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 10, 5)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    string
		req     dto.CreateSaleRequest
		wantErr error
	}{
		{name: "sin líneas", user: f.seller, req: dto.CreateSaleRequest{PaymentMethod: "efectivo"}, wantErr: domain.ErrInvalidInput},
		{name: "cantidad cero", user: f.seller, req: cashSale(f.product, 0, 8), wantErr: domain.ErrInvalidInput},
		{name: "precio negativo", user: f.seller, req: cashSale(f.product, 1, -1), wantErr: domain.ErrInvalidInput},
		{name: "usuario inexistente", user: "nadie", req: cashSale(f.product, 1, 8), wantErr: domain.ErrNotFound},
		{name: "producto inexistente", user: f.seller, req: cashSale("nope", 1, 8), wantErr: domain.ErrNotFound},
		{
			name:    "método de pago inexistente",
			user:    f.seller,
			req:     dto.CreateSaleRequest{PaymentMethod: "cheque", Items: cashSale(f.product, 1, 8).Items},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "transferencia sin código",
			user:    f.seller,
			req:     dto.CreateSaleRequest{PaymentMethod: entity.PaymentMethodTransfer, Items: cashSale(f.product, 1, 8).Items},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "total no coincide",
			user:    f.seller,
			req:     dto.CreateSaleRequest{PaymentMethod: "efectivo", Items: cashSale(f.product, 2, 8).Items, Total: decimal.NewFromInt(15)},
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sales.CreateSale(ctx, tt.user, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int64(10), f.stock(t, f.product, f.locA), "sin efectos laterales")
		})
	}
}

func TestCreateSale_CodigoDeTransferenciaUnico(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 10, 5)
	req := dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodTransfer,
		TransferCode:  " TRX-77 ",
		Items:         cashSale(f.product, 1, 8).Items,
	}
	res, err := f.sales.CreateSale(context.Background(), f.seller, req)
	require.NoError(t, err)
	assert.Equal(t, "TRX-77", res.Sale.TransferCode)

	_, err = f.sales.CreateSale(context.Background(), f.seller, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)
	assert.Equal(t, int64(9), f.stock(t, f.product, f.locA))
}

func TestCreateSale_PrecioPorUbicacion(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 10, 5)
	require.NoError(t, f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		return r.Products.SetLocationPrice(ctx, &entity.ProductLocationPrice{
			ProductID: f.product, LocationID: f.locA, SalePrice: decimal.NewFromInt(10),
		})
	}))

	res, err := f.sales.CreateSale(context.Background(), f.seller, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCash,
		Items:         []dto.LineItemRequest{{ProductID: f.product, Quantity: 2}},
		Total:         decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(res.Sale.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(20).Equal(res.Sale.Total))
}

func TestCreateSale_StockNegativoSegunConfiguracion(t *testing.T) {
	// sin verificación de stock la venta sólo necesita base de costo
	f := newFixture(t)
	f.purchase(t, f.locB, f.product, 5, 5)
	_, err := f.sales.CreateSale(context.Background(), f.seller, cashSale(f.product, 3, 8))
	require.NoError(t, err)
	assert.Equal(t, int64(-3), f.stock(t, f.product, f.locA))
	f.requireInvariants(t, f.product)

	strict := newFixture(t, func(o *inventory.Options) { o.CheckStockOnSale = true })
	strict.purchase(t, strict.locB, strict.product, 5, 5)
	_, err = strict.sales.CreateSale(context.Background(), strict.seller, cashSale(strict.product, 3, 8))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.False(t, strict.hasStockRow(t, strict.product, strict.locA))
}

func TestCreatePurchase_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.purchases.CreatePurchase(ctx, f.keeper, dto.CreatePurchaseRequest{LocationID: f.locA})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchases.CreatePurchase(ctx, f.keeper, dto.CreatePurchaseRequest{
		LocationID: f.locA,
		Items:      []dto.LineItemRequest{{ProductID: f.product, Quantity: 1, UnitPrice: decimal.NewFromInt(-2)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.purchases.CreatePurchase(ctx, f.keeper, dto.CreatePurchaseRequest{
		LocationID: "no-existe",
		Items:      []dto.LineItemRequest{{ProductID: f.product, Quantity: 1, UnitPrice: decimal.NewFromInt(2)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p := f.purchase(t, f.locA, f.product, 3, 7)
	got, err := f.purchases.GetPurchase(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	var product *entity.Product
	require.NoError(t, f.store.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		product, err = r.Products.GetByID(ctx, f.product)
		return err
	}))
	assert.True(t, decimal.NewFromInt(7).Equal(product.PurchasePrice), "último costo de compra")
}

func TestCreateAdjustment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := dto.CreateAdjustmentRequest{LocationID: f.locA, ProductID: f.product, Reason: "conteo", Quantity: 2}
	_, err := f.adjustments.CreateAdjustment(ctx, f.keeper, req)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sin fila de saldo")

	f.purchase(t, f.locA, f.product, 5, 5)

	blank := req
	blank.Reason = "   "
	_, err = f.adjustments.CreateAdjustment(ctx, f.keeper, blank)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tooMuch := req
	tooMuch.Quantity = -6
	_, err = f.adjustments.CreateAdjustment(ctx, f.keeper, tooMuch)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	loss := req
	loss.Quantity = -5
	adj, err := f.adjustments.CreateAdjustment(ctx, f.keeper, loss)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.stock(t, f.product, f.locA))
	movs := f.movements(t, adj.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movs[0].Type)
	assert.Equal(t, int64(-5), movs[0].Quantity, "el movimiento lleva el signo del ajuste")

	gain, err := f.adjustments.CreateAdjustment(ctx, f.keeper, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gain.Quantity)
	assert.Equal(t, int64(2), f.stock(t, f.product, f.locA))
	f.requireInvariants(t, f.product)
}

func TestCreateTransfer_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, f.locA, f.product, 2, 5)

	_, err := f.transfers.CreateTransfer(ctx, f.keeper, dto.CreateTransferRequest{
		ProductID: f.product, FromLocationID: f.locA, ToLocationID: f.locA, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.transfers.CreateTransfer(ctx, f.keeper, dto.CreateTransferRequest{
		ProductID: f.product, FromLocationID: f.locA, ToLocationID: f.locB, Quantity: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.transfers.CreateTransfer(ctx, f.keeper, dto.CreateTransferRequest{
		ProductID: f.product, FromLocationID: f.locB, ToLocationID: f.locA, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "origen sin fila de saldo")
	assert.False(t, f.hasStockRow(t, f.product, f.locB))
}

func TestTurnos_Idempotencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, f.locA, f.product, 4, 5)

	first, err := f.shifts.OpenShift(ctx, f.seller, dto.OpenShiftRequest{StartAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	second, err := f.shifts.OpenShift(ctx, f.seller, dto.OpenShiftRequest{LocationID: f.locA})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, decimal.NewFromInt(100).Equal(second.StartAmount))
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), first.StartTime)

	snaps, err := f.shifts.ListShiftSnapshots(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, entity.SnapshotStart, snaps[0].Type)
	assert.Equal(t, int64(4), snaps[0].Quantity)
}

func TestTurnos_AperturaConcurrente(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 4, 5)
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sh, err := f.shifts.OpenShift(ctx, f.seller, dto.OpenShiftRequest{})
			if assert.NoError(t, err) {
				ids[i] = sh.ID
			}
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	snaps, err := f.shifts.ListShiftSnapshots(ctx, ids[0])
	require.NoError(t, err)
	assert.Len(t, snaps, 1, "sólo el ganador escribe fotos START")
}

func TestTurnos_Cierre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.shifts.CloseShift(ctx, f.locA)
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)

	f.purchase(t, f.locA, f.product, 10, 5)
	_, err = f.sales.CreateSale(ctx, f.seller, cashSale(f.product, 4, 8))
	require.NoError(t, err)

	f.clock.Advance(8 * time.Hour)
	closed, err := f.shifts.CloseShift(ctx, f.locA)
	require.NoError(t, err)
	require.NotNil(t, closed.EndTime)
	assert.Equal(t, f.clock.Now(), *closed.EndTime)

	snaps, err := f.shifts.ListShiftSnapshots(ctx, closed.ID)
	require.NoError(t, err)
	var end []*entity.ShiftStockSnapshot
	for _, s := range snaps {
		if s.Type == entity.SnapshotEnd {
			end = append(end, s)
		}
	}
	require.Len(t, end, 1)
	assert.Equal(t, int64(6), end[0].Quantity)

	// quedaba otro turno abierto (el del vendedor o el del bodeguero); tras cerrarlo no queda ninguno
	_, err = f.shifts.CloseShift(ctx, f.locA)
	require.NoError(t, err)
	_, err = f.shifts.CloseShift(ctx, f.locA)
	assert.ErrorIs(t, err, domain.ErrNoOpenShift)

	got, err := f.shifts.GetShift(ctx, closed.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOpen())
	_, err = f.shifts.GetShift(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyLedger_DetectaYRepara(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, f.locA, f.product, 10, 5)

	require.NoError(t, f.store.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		return r.Stock.Set(ctx, f.product, f.locA, 42)
	}))

	audit, err := f.audit.VerifyLedger(ctx, false)
	require.NoError(t, err)
	require.Len(t, audit.Discrepancies, 1)
	assert.Equal(t, int64(42), audit.Discrepancies[0].Stored)
	assert.Equal(t, int64(10), audit.Discrepancies[0].Derived)
	assert.False(t, audit.Repaired)
	assert.Equal(t, int64(42), f.stock(t, f.product, f.locA))

	audit, err = f.audit.VerifyLedger(ctx, true)
	require.NoError(t, err)
	assert.True(t, audit.Repaired)
	assert.Equal(t, int64(10), f.stock(t, f.product, f.locA))
	f.requireInvariants(t, f.product)
}

func TestRecordMovement_Validaciones(t *testing.T) {
	f := newFixture(t)
	w := inventory.NewLedgerWriter()
	err := f.store.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		_, err := w.RecordMovement(ctx, r, inventory.MovementInput{ProductID: f.product, LocationID: f.locA, Quantity: 0, Type: entity.MovementTypeAdjustment})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = w.RecordMovement(ctx, r, inventory.MovementInput{ProductID: f.product, LocationID: f.locA, Quantity: 1, Type: "GIFT"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		mov, err := w.RecordMovement(ctx, r, inventory.MovementInput{ProductID: f.product, LocationID: f.locA, Quantity: 3, Type: entity.MovementTypeAdjustment})
		require.NoError(t, err)
		assert.NotEmpty(t, mov.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.stock(t, f.product, f.locA), "la fila de saldo se crea con la cantidad")
}

type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context, _ func(context.Context, repository.Repos) error) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	runner := inventory.WithTimeout(blockingRunner{}, 20*time.Millisecond)
	err := runner.Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = runner.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestCancelacionRevierte(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.locA, f.product, 10, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.sales.CreateSale(ctx, f.seller, cashSale(f.product, 2, 8))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(10), f.stock(t, f.product, f.locA))
}
