package repository

import (
	"context"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// StockLocationRepository define el puerto de persistencia para StockLocation (DIP).
type StockLocationRepository interface {
	Create(ctx context.Context, location *entity.StockLocation) error
	GetByID(ctx context.Context, id string) (*entity.StockLocation, error)
	GetByName(ctx context.Context, name string) (*entity.StockLocation, error)
	List(ctx context.Context) ([]*entity.StockLocation, error)
}
