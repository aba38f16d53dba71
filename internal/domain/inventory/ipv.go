package inventory

import "github.com/shopspring/decimal"

// IPVFigures cantidades de una fila del IPV para un producto en un día.
//
//	I inicial, E entradas (traslados recibidos + compras), M salidas (ajustes + traslados enviados),
//	V vendido, R restante = I + E - V - M.
type IPVFigures struct {
	Initial  int64
	Inbound  int64
	Outflow  int64
	Sold     int64
	Revenue  decimal.Decimal
	RealCost decimal.Decimal
}

// Remaining R = I + E - V - M.
func (f IPVFigures) Remaining() int64 {
	return f.Initial + f.Inbound - f.Sold - f.Outflow
}

// Profit G = ingresos - costo FIFO asignado.
func (f IPVFigures) Profit() decimal.Decimal {
	return f.Revenue.Sub(f.RealCost)
}

// IsZero indica que el producto no tuvo stock ni actividad en el día.
func (f IPVFigures) IsZero() bool {
	return f.Initial == 0 && f.Inbound == 0 && f.Outflow == 0 && f.Sold == 0 &&
		f.Revenue.IsZero() && f.RealCost.IsZero()
}

// AdjustmentOutflow contribución de un ajuste a M: un ajuste positivo (suma stock) reduce M.
func AdjustmentOutflow(adjustmentQty int64) int64 {
	return -adjustmentQty
}
