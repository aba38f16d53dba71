package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/memory"
)

func TestStore_RollbackEnError(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		if _, err := r.Stock.Increment(ctx, "p", "l", 5); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		ws, err := r.Stock.Get(ctx, "p", "l")
		assert.Nil(t, ws)
		return err
	}))
}

func TestStore_CommitYLectura(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		qty, err := r.Stock.Increment(ctx, "p", "l", 5)
		assert.Equal(t, int64(5), qty)
		if err != nil {
			return err
		}
		qty, err = r.Stock.Increment(ctx, "p", "l", -2)
		assert.Equal(t, int64(3), qty)
		return err
	}))
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		ws, err := r.Stock.Get(ctx, "p", "l")
		require.NotNil(t, ws)
		assert.Equal(t, int64(3), ws.Quantity)
		return err
	}))
}

func TestStore_ContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	err := s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		_, err := r.Stock.Increment(ctx, "p", "l", 1)
		cancel()
		return err
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		ws, err := r.Stock.Get(ctx, "p", "l")
		assert.Nil(t, ws, "la cancelación antes de confirmar descarta la transacción")
		return err
	}))
}

func TestStore_MetodosDePagoSembrados(t *testing.T) {
	s := memory.NewStore()
	require.NoError(t, s.Run(context.Background(), func(ctx context.Context, r repository.Repos) error {
		pms, err := r.PaymentMethods.List(ctx)
		require.Len(t, pms, 2)
		pm, _ := r.PaymentMethods.GetByName(ctx, "Transferencia")
		require.NotNil(t, pm)
		assert.True(t, pm.RequiresReference)
		return err
	}))
}

func TestStore_LotesEnOrdenFIFO(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		for i, p := range []struct {
			id string
			at time.Time
		}{{"new", t0.Add(time.Hour)}, {"old", t0}} {
			err := r.Purchases.Create(ctx, &entity.Purchase{
				ID: p.id, LocationID: "l", CreatedAt: p.at,
				Items: []*entity.PurchaseItem{{
					ID: p.id + "-item", PurchaseID: p.id, ProductID: "prod", LocationID: "l",
					Quantity: int64(i + 1), UnitCost: decimal.NewFromInt(1), CreatedAt: p.at,
				}},
			})
			if err != nil {
				return err
			}
		}
		return r.Sales.CreateAllocation(ctx, &entity.SaleItemCostAllocation{ID: "a", SaleItemID: "s", PurchaseItemID: "old-item", QuantityUsed: 1})
	}))
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		lots, err := r.Purchases.LockLotsForProduct(ctx, "prod")
		require.Len(t, lots, 2)
		assert.Equal(t, "old-item", lots[0].PurchaseItemID)
		assert.Equal(t, int64(1), lots[0].Used)
		assert.Equal(t, "new-item", lots[1].PurchaseItemID)
		return err
	}))
}

func TestStore_TurnoUnicoPorDia(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		first, created, err := r.Shifts.CreateIfAbsent(ctx, &entity.Shift{ID: "a", UserID: "u", StockLocationID: "l", ShiftDate: day, StartTime: day})
		require.NoError(t, err)
		assert.True(t, created)
		second, created, err := r.Shifts.CreateIfAbsent(ctx, &entity.Shift{ID: "b", UserID: "u", StockLocationID: "l", ShiftDate: day, StartTime: day})
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		if err != nil {
			return err
		}
		require.NoError(t, r.Shifts.Close(ctx, "a", day.Add(time.Hour)))
		assert.ErrorIs(t, r.Shifts.Close(ctx, "a", day.Add(2*time.Hour)), domain.ErrNoOpenShift)
		return nil
	}))
}

func TestStore_BloqueoDeSaldo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		ws, err := r.Stock.GetForUpdate(ctx, "p", "l")
		require.NoError(t, err)
		assert.Nil(t, ws, "GetForUpdate no crea filas")

		ws, err = r.Stock.LockOrCreate(ctx, "p", "l")
		require.NoError(t, err)
		require.NotNil(t, ws)
		assert.Equal(t, int64(0), ws.Quantity)

		_, err = r.Stock.Increment(ctx, "p", "l", 3)
		require.NoError(t, err)
		qty, err := r.Movements.SumFor(ctx, "p", "l")
		require.NoError(t, err)
		assert.Equal(t, int64(0), qty, "sin movimientos el saldo derivado es cero")
		return nil
	}))
	require.NoError(t, s.Run(ctx, func(ctx context.Context, r repository.Repos) error {
		rows, err := r.Stock.ListAllForUpdate(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(3), rows[0].Quantity)
		return nil
	}))
}
