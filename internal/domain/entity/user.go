package entity

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleVendedor  = "vendedor"
)

// User representa un usuario del punto de venta. Lo administra el sistema de autenticación;
// el núcleo solo lo lee para resolver su ubicación asignada.
type User struct {
	ID              string
	Name            string
	Role            string // admin, bodeguero, vendedor
	StockLocationID string // ubicación asignada; requerida para vender
	IsActive        bool
}
