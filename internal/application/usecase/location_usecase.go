package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// LocationUseCase casos de uso para ubicaciones de stock, sus saldos y los métodos de pago.
type LocationUseCase struct {
	tx  inventory.TxRunner
	now func() time.Time
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(tx inventory.TxRunner) *LocationUseCase {
	return &LocationUseCase{tx: tx, now: time.Now}
}

// Create crea una ubicación activa con nombre único.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := cleanName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	now := uc.now()
	loc := &entity.StockLocation{
		ID:        uuid.New().String(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		existing, err := repos.Locations.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ubicación %q", domain.ErrDuplicate, name)
		}
		return repos.Locations.Create(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToLocationResponse(loc)
	return &out, nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	var out dto.LocationResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		loc, err := findLocation(ctx, repos, id)
		if err != nil {
			return err
		}
		out = dto.ToLocationResponse(loc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List lista todas las ubicaciones.
func (uc *LocationUseCase) List(ctx context.Context) ([]dto.LocationResponse, error) {
	var out []dto.LocationResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		list, err := repos.Locations.List(ctx)
		if err != nil {
			return err
		}
		out = make([]dto.LocationResponse, 0, len(list))
		for _, l := range list {
			out = append(out, dto.ToLocationResponse(l))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListStock lista los saldos materializados de una ubicación.
func (uc *LocationUseCase) ListStock(ctx context.Context, locationID string) ([]dto.StockResponse, error) {
	var out []dto.StockResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := findLocation(ctx, repos, locationID); err != nil {
			return err
		}
		rows, err := repos.Stock.ListByLocation(ctx, locationID)
		if err != nil {
			return err
		}
		out = make([]dto.StockResponse, 0, len(rows))
		for _, ws := range rows {
			out = append(out, dto.ToStockResponse(ws))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPaymentMethods lista los métodos de pago disponibles.
func (uc *LocationUseCase) ListPaymentMethods(ctx context.Context) ([]dto.PaymentMethodResponse, error) {
	var out []dto.PaymentMethodResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		list, err := repos.PaymentMethods.List(ctx)
		if err != nil {
			return err
		}
		out = make([]dto.PaymentMethodResponse, 0, len(list))
		for _, pm := range list {
			out = append(out, dto.ToPaymentMethodResponse(pm))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findLocation(ctx context.Context, repos repository.Repos, id string) (*entity.StockLocation, error) {
	loc, err := repos.Locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
	}
	return loc, nil
}
