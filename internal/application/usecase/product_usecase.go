package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// ProductUseCase casos de uso del catálogo de productos. PurchasePrice y el stock se manejan vía compras y movimientos.
type ProductUseCase struct {
	tx          inventory.TxRunner
	invalidator inventory.ReportInvalidator
	log         *logger.Logger
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso. invalidator puede ser nil (sin cache de reportes).
func NewProductUseCase(tx inventory.TxRunner, invalidator inventory.ReportInvalidator, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{tx: tx, invalidator: invalidator, log: logger.OrNop(log), now: time.Now}
}

// pricesChanged invalida los reportes IPV, que muestran precios de compra y venta.
func (uc *ProductUseCase) pricesChanged(ctx context.Context, productID string) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Bump(ctx); err != nil {
		uc.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo invalidar el cache de reportes")
	}
}

// Create crea un nuevo producto activo. El nombre es único sin distinguir mayúsculas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := cleanName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	now := uc.now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          name,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		IsActive:      true,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		existing, err := repos.Products.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, name)
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var out dto.ProductResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		p, err := findProduct(ctx, repos, id)
		if err != nil {
			return err
		}
		out = dto.ToProductResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update actualiza nombre, precio de venta, notas o estado. No permite modificar PurchasePrice.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var out dto.ProductResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		p, err := findProduct(ctx, repos, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := cleanName(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
			}
			other, err := repos.Products.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if other != nil && other.ID != p.ID {
				return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, name)
			}
			p.Name = name
		}
		if in.SalePrice != nil {
			p.SalePrice = *in.SalePrice
		}
		if in.Notes != nil {
			p.Notes = *in.Notes
		}
		if in.IsActive != nil {
			p.IsActive = *in.IsActive
		}
		p.UpdatedAt = uc.now()
		if err := repos.Products.Update(ctx, p); err != nil {
			return err
		}
		out = dto.ToProductResponse(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.pricesChanged(ctx, id)
	return &out, nil
}

// List lista productos con paginación, ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	if err := dto.Validate(page); err != nil {
		return nil, err
	}
	var items []dto.ProductResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		list, err := repos.Products.List(ctx, page.Limit, page.Offset)
		if err != nil {
			return err
		}
		items = make([]dto.ProductResponse, 0, len(list))
		for _, p := range list {
			items = append(items, dto.ToProductResponse(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// SetLocationPrice fija el precio de venta del producto en una ubicación (override).
func (uc *ProductUseCase) SetLocationPrice(ctx context.Context, productID string, in dto.SetLocationPriceRequest) (*dto.LocationPriceResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	price := &entity.ProductLocationPrice{ProductID: productID, LocationID: in.LocationID, SalePrice: in.SalePrice}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := findProduct(ctx, repos, productID); err != nil {
			return err
		}
		if _, err := findLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		return repos.Products.SetLocationPrice(ctx, price)
	})
	if err != nil {
		return nil, err
	}
	uc.pricesChanged(ctx, productID)
	out := dto.ToLocationPriceResponse(price)
	return &out, nil
}

// DeleteLocationPrice elimina el override; la ubicación vuelve al precio por defecto.
func (uc *ProductUseCase) DeleteLocationPrice(ctx context.Context, productID, locationID string) error {
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		current, err := repos.Products.GetLocationPrice(ctx, productID, locationID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: precio de %s en %s", domain.ErrNotFound, productID, locationID)
		}
		return repos.Products.DeleteLocationPrice(ctx, productID, locationID)
	})
	if err != nil {
		return err
	}
	uc.pricesChanged(ctx, productID)
	return nil
}

// ListLocationPrices lista los overrides de un producto.
func (uc *ProductUseCase) ListLocationPrices(ctx context.Context, productID string) ([]dto.LocationPriceResponse, error) {
	var out []dto.LocationPriceResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := findProduct(ctx, repos, productID); err != nil {
			return err
		}
		list, err := repos.Products.ListLocationPrices(ctx, productID)
		if err != nil {
			return err
		}
		out = make([]dto.LocationPriceResponse, 0, len(list))
		for _, lp := range list {
			out = append(out, dto.ToLocationPriceResponse(lp))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EffectivePrice devuelve el precio de venta del producto en la ubicación (override o por defecto).
func (uc *ProductUseCase) EffectivePrice(ctx context.Context, productID, locationID string) (*dto.LocationPriceResponse, error) {
	var out dto.LocationPriceResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		p, err := findProduct(ctx, repos, productID)
		if err != nil {
			return err
		}
		if _, err := findLocation(ctx, repos, locationID); err != nil {
			return err
		}
		lp, err := repos.Products.GetLocationPrice(ctx, productID, locationID)
		if err != nil {
			return err
		}
		out = dto.LocationPriceResponse{ProductID: productID, LocationID: locationID, SalePrice: p.SalePrice}
		if lp != nil {
			out.SalePrice = p.PriceAt(&lp.SalePrice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findProduct(ctx context.Context, repos repository.Repos, id string) (*entity.Product, error) {
	p, err := repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func cleanName(s string) string { return strings.Join(strings.Fields(s), " ") }
