package dto

import "github.com/shopspring/decimal"

// IPVRow fila del reporte IPV para un producto.
// I inicial, E entradas, M ajustes y salidas, R restante, V vendido, T ingresos, G ganancia.
type IPVRow struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Initial       int64           `json:"initial"`
	Inbound       int64           `json:"inbound"`
	Outflow       int64           `json:"outflow"`
	Remaining     int64           `json:"remaining"`
	Sold          int64           `json:"sold"`
	Revenue       decimal.Decimal `json:"revenue"`
	Profit        decimal.Decimal `json:"profit"`
	ClosingCount  *int64          `json:"closing_count,omitempty"`
	Difference    *int64          `json:"difference,omitempty"`
}

// IPVTotals totales del día; ByPaymentMethod agrupa ingresos por nombre de método de pago.
type IPVTotals struct {
	Cash            decimal.Decimal            `json:"cash"`
	Transfer        decimal.Decimal            `json:"transfer"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
	Revenue         decimal.Decimal            `json:"revenue"`
	Profit          decimal.Decimal            `json:"profit"`
}

// IPVReport reporte diario de una ubicación.
type IPVReport struct {
	LocationID   string    `json:"location_id"`
	LocationName string    `json:"location_name"`
	Date         string    `json:"date"`
	ShiftIDs     []string  `json:"shift_ids"`
	Rows         []IPVRow  `json:"rows"`
	Totals       IPVTotals `json:"totals"`
}
