package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

func activeUser(ctx context.Context, repos repository.Repos, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: usuario obligatorio", domain.ErrInvalidInput)
	}
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: usuario %s inactivo", domain.ErrInvalidInput, userID)
	}
	return user, nil
}

func activeLocation(ctx context.Context, repos repository.Repos, locationID string) (*entity.StockLocation, error) {
	loc, err := repos.Locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
	}
	if !loc.IsActive {
		return nil, fmt.Errorf("%w: ubicación %s inactiva", domain.ErrInvalidInput, locationID)
	}
	return loc, nil
}

func activeProduct(ctx context.Context, repos repository.Repos, productID string) (*entity.Product, error) {
	p, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if !p.IsActive {
		return nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, productID)
	}
	return p, nil
}

// checkTotal valida el total declarado: cero significa "calcular"; si no, debe coincidir con la suma de líneas.
func checkTotal(declared, computed decimal.Decimal) (decimal.Decimal, error) {
	if declared.IsZero() {
		return computed, nil
	}
	if !declared.Equal(computed) {
		return decimal.Zero, fmt.Errorf("%w: total %s no coincide con la suma de líneas %s", domain.ErrInvalidInput, declared, computed)
	}
	return declared, nil
}

// sumByProduct agrupa cantidades por producto conservando el orden de aparición.
func sumByProduct(items []dto.LineItemRequest) ([]string, map[string]int64) {
	order := make([]string, 0, len(items))
	qty := make(map[string]int64, len(items))
	for _, it := range items {
		if _, ok := qty[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	return order, qty
}
