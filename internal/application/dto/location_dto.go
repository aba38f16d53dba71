package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación de stock.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockResponse saldo de un producto en una ubicación.
type StockResponse struct {
	ProductID  string    `json:"product_id"`
	LocationID string    `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PaymentMethodResponse método de pago.
type PaymentMethodResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	RequiresReference bool   `json:"requires_reference"`
}
