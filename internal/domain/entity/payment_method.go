package entity

// Métodos de pago sembrados por migración.
const (
	PaymentMethodCash     = "efectivo"
	PaymentMethodTransfer = "transferencia"
)

// PaymentMethod método de pago. RequiresReference exige código de transferencia único en la venta.
type PaymentMethod struct {
	ID                string
	Name              string
	RequiresReference bool
}
