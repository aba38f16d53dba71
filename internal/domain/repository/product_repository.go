package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByName devuelven nil, nil cuando no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByName busca por entity.ProductNameKey.
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdatePurchasePrice(ctx context.Context, productID string, price decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)

	SetLocationPrice(ctx context.Context, price *entity.ProductLocationPrice) error
	DeleteLocationPrice(ctx context.Context, productID, locationID string) error
	GetLocationPrice(ctx context.Context, productID, locationID string) (*entity.ProductLocationPrice, error)
	ListLocationPrices(ctx context.Context, productID string) ([]*entity.ProductLocationPrice, error)
	ListPricesAtLocation(ctx context.Context, locationID string) ([]*entity.ProductLocationPrice, error)
}
