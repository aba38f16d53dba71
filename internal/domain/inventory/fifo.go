package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot estado de un lote de compra para la asignación FIFO.
// Used es la suma de QuantityUsed ya asignada contra el lote.
type Lot struct {
	PurchaseItemID string
	Quantity       int64
	Used           int64
	UnitCost       decimal.Decimal
	PurchasedAt    time.Time
}

// Available unidades aún no asignadas del lote (nunca negativo).
func (l Lot) Available() int64 {
	if a := l.Quantity - l.Used; a > 0 {
		return a
	}
	return 0
}

// Draw porción de un lote tomada por una línea de venta.
type Draw struct {
	PurchaseItemID string
	Quantity       int64
	UnitCost       decimal.Decimal
}

// PlanFIFO recorre los lotes en el orden recibido (más antiguo primero) y toma
// min(disponible, restante) de cada uno hasta cubrir quantity (servicio de dominio).
// Devuelve las porciones y la cantidad que quedó sin cubrir; remaining > 0 significa base de costo insuficiente.
func PlanFIFO(lots []Lot, quantity int64) (draws []Draw, remaining int64) {
	remaining = quantity
	for _, lot := range lots {
		if remaining <= 0 {
			break
		}
		available := lot.Available()
		if available <= 0 {
			continue
		}
		take := available
		if remaining < take {
			take = remaining
		}
		draws = append(draws, Draw{PurchaseItemID: lot.PurchaseItemID, Quantity: take, UnitCost: lot.UnitCost})
		remaining -= take
	}
	return draws, remaining
}
