package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lot(id string, qty, used int64, cost int64) Lot {
	return Lot{PurchaseItemID: id, Quantity: qty, Used: used, UnitCost: decimal.NewFromInt(cost), PurchasedAt: time.Now()}
}

func TestPlanFIFO(t *testing.T) {
	tests := []struct {
		name          string
		lots          []Lot
		quantity      int64
		wantDraws     []Draw
		wantRemaining int64
	}{
		{
			name:          "un lote cubre todo",
			lots:          []Lot{lot("a", 10, 0, 5)},
			quantity:      4,
			wantDraws:     []Draw{{PurchaseItemID: "a", Quantity: 4, UnitCost: decimal.NewFromInt(5)}},
			wantRemaining: 0,
		},
		{
			name:     "cruza dos lotes en orden",
			lots:     []Lot{lot("a", 10, 4, 5), lot("b", 5, 0, 7)},
			quantity: 8,
			wantDraws: []Draw{
				{PurchaseItemID: "a", Quantity: 6, UnitCost: decimal.NewFromInt(5)},
				{PurchaseItemID: "b", Quantity: 2, UnitCost: decimal.NewFromInt(7)},
			},
			wantRemaining: 0,
		},
		{
			name:          "salta lotes agotados",
			lots:          []Lot{lot("a", 5, 5, 5), lot("b", 3, 0, 9)},
			quantity:      2,
			wantDraws:     []Draw{{PurchaseItemID: "b", Quantity: 2, UnitCost: decimal.NewFromInt(9)}},
			wantRemaining: 0,
		},
		{
			name:          "lotes insuficientes",
			lots:          []Lot{lot("a", 10, 4, 5)},
			quantity:      7,
			wantDraws:     []Draw{{PurchaseItemID: "a", Quantity: 6, UnitCost: decimal.NewFromInt(5)}},
			wantRemaining: 1,
		},
		{
			name:          "sin lotes",
			lots:          nil,
			quantity:      3,
			wantDraws:     nil,
			wantRemaining: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draws, remaining := PlanFIFO(tt.lots, tt.quantity)
			assert.Equal(t, tt.wantRemaining, remaining)
			require.Len(t, draws, len(tt.wantDraws))
			for i := range draws {
				assert.Equal(t, tt.wantDraws[i].PurchaseItemID, draws[i].PurchaseItemID)
				assert.Equal(t, tt.wantDraws[i].Quantity, draws[i].Quantity)
				assert.True(t, tt.wantDraws[i].UnitCost.Equal(draws[i].UnitCost))
			}
		})
	}
}

func TestPlanFIFO_NuncaExcedeElLote(t *testing.T) {
	lots := []Lot{lot("a", 3, 1, 2), lot("b", 4, 0, 3), lot("c", 2, 0, 4)}
	draws, remaining := PlanFIFO(lots, 100)
	assert.Equal(t, int64(100-2-4-2), remaining)
	byLot := map[string]int64{}
	for _, d := range draws {
		byLot[d.PurchaseItemID] += d.Quantity
	}
	for _, l := range lots {
		assert.LessOrEqual(t, byLot[l.PurchaseItemID]+l.Used, l.Quantity)
	}
}

func TestIPVFigures(t *testing.T) {
	f := IPVFigures{
		Initial:  10,
		Inbound:  5,
		Outflow:  AdjustmentOutflow(-2) + 3,
		Sold:     4,
		Revenue:  decimal.NewFromInt(32),
		RealCost: decimal.NewFromInt(20),
	}
	assert.Equal(t, int64(5), f.Outflow)
	assert.Equal(t, int64(6), f.Remaining())
	assert.True(t, decimal.NewFromInt(12).Equal(f.Profit()))
	assert.False(t, f.IsZero())
	assert.True(t, IPVFigures{Revenue: decimal.Zero, RealCost: decimal.Zero}.IsZero())
}
