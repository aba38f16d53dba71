package entity

import "time"

// StockLocation representa un sitio físico con stock independiente (tienda, almacén).
type StockLocation struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
