package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso agregan detalle con fmt.Errorf("%w: ...") y los adaptadores comparan con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrInsufficientCostBasis: los lotes de compra no cubren la cantidad vendida (FIFO).
	ErrInsufficientCostBasis = errors.New("base de costo insuficiente")
	// ErrDuplicateReference: código de transferencia repetido en una venta.
	ErrDuplicateReference = errors.New("referencia duplicada")
	// ErrConcurrencyConflict: bloqueo/serialización fallida o timeout; el cliente puede reintentar.
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente")
	// ErrNoOpenShift: no hay turno abierto en la ubicación.
	ErrNoOpenShift = errors.New("no hay turno abierto")
)
