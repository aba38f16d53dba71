package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// AdjustmentUseCase registra ajustes manuales de stock.
// Quantity es el delta sobre el saldo y el movimiento ADJUSTMENT lleva el mismo signo.
type AdjustmentUseCase struct {
	*engine
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(tx TxRunner, opts Options) *AdjustmentUseCase {
	return &AdjustmentUseCase{engine: newEngine(tx, opts)}
}

// CreateAdjustment exige fila de saldo existente y que el resultado no quede negativo.
func (uc *AdjustmentUseCase) CreateAdjustment(ctx context.Context, userID string, in dto.CreateAdjustmentRequest) (*entity.InventoryAdjustment, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var adj *entity.InventoryAdjustment
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		now := uc.now()
		user, err := activeUser(ctx, repos, userID)
		if err != nil {
			return err
		}
		if _, err := activeLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}
		if _, err := activeProduct(ctx, repos, in.ProductID); err != nil {
			return err
		}

		// Bloquea la fila de saldo (SELECT FOR UPDATE)
		stock, err := repos.Stock.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if stock == nil {
			return fmt.Errorf("%w: sin stock del producto %s en %s", domain.ErrNotFound, in.ProductID, in.LocationID)
		}
		if stock.Quantity+in.Quantity < 0 {
			return fmt.Errorf("%w: saldo %d, ajuste %d", domain.ErrInsufficientStock, stock.Quantity, in.Quantity)
		}

		if _, err := uc.shifts.GetOrCreateTodayShift(ctx, repos, user.ID, in.LocationID); err != nil {
			return err
		}
		a := &entity.InventoryAdjustment{
			ID:         uuid.New().String(),
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			UserID:     user.ID,
			Reason:     in.Reason,
			Quantity:   in.Quantity,
			CreatedAt:  now,
		}
		if err := repos.Adjustments.Create(ctx, a); err != nil {
			return err
		}
		if _, err := uc.ledger.RecordMovement(ctx, repos, MovementInput{
			ProductID:  a.ProductID,
			LocationID: a.LocationID,
			Quantity:   a.Quantity,
			Type:       entity.MovementTypeAdjustment,
			Reference:  a.ID,
			UserID:     user.ID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		adj = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.committed(ctx, "adjustment")
	uc.log.Info().
		Str("adjustment_id", adj.ID).
		Str("product_id", adj.ProductID).
		Str("location_id", adj.LocationID).
		Int64("quantity", adj.Quantity).
		Str("reason", adj.Reason).
		Msg("ajuste registrado")
	return adj, nil
}
