package dto

// CreateUserRequest alta de un usuario del punto de venta. ID vacío genera uno nuevo.
type CreateUserRequest struct {
	ID              string `json:"id" validate:"omitempty,max=64"`
	Name            string `json:"name" validate:"required,max=200"`
	Role            string `json:"role" validate:"required,oneof=admin bodeguero vendedor"`
	StockLocationID string `json:"stock_location_id"`
}

// UserResponse salida de un usuario.
type UserResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Role            string `json:"role"`
	StockLocationID string `json:"stock_location_id,omitempty"`
	IsActive        bool   `json:"is_active"`
}

// TokenResponse token emitido para un usuario.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // segundos
	User        UserResponse `json:"user"`
}
