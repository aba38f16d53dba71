package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"gte=0"`
	Notes         string          `json:"notes" validate:"max=1000"`
}

// UpdateProductRequest entrada para actualizar un producto; los campos nil no cambian.
type UpdateProductRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SalePrice *decimal.Decimal `json:"sale_price" validate:"omitempty,gte=0"`
	Notes     *string          `json:"notes" validate:"omitempty,max=1000"`
	IsActive  *bool            `json:"is_active"`
}

// SetLocationPriceRequest precio de venta de un producto en una ubicación.
type SetLocationPriceRequest struct {
	LocationID string          `json:"location_id" validate:"required"`
	SalePrice  decimal.Decimal `json:"sale_price" validate:"gte=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	IsActive      bool            `json:"is_active"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// LocationPriceResponse override de precio por ubicación.
type LocationPriceResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	SalePrice  decimal.Decimal `json:"sale_price"`
}
