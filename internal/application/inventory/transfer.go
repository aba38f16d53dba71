package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// TransferUseCase mueve unidades entre ubicaciones: salida en origen y entrada en destino
// con la misma referencia.
type TransferUseCase struct {
	*engine
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(tx TxRunner, opts Options) *TransferUseCase {
	return &TransferUseCase{engine: newEngine(tx, opts)}
}

// CreateTransfer devuelve el id de referencia compartido por los dos movimientos.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, userID string, in dto.CreateTransferRequest) (string, error) {
	if err := dto.Validate(in); err != nil {
		return "", err
	}

	reference := uuid.New().String()
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		now := uc.now()
		user, err := activeUser(ctx, repos, userID)
		if err != nil {
			return err
		}
		if _, err := activeProduct(ctx, repos, in.ProductID); err != nil {
			return err
		}
		for _, id := range []string{in.FromLocationID, in.ToLocationID} {
			if _, err := activeLocation(ctx, repos, id); err != nil {
				return err
			}
		}

		// Bloquea ambas filas en orden de id para que traslados opuestos no se bloqueen mutuamente.
		ordered := []string{in.FromLocationID, in.ToLocationID}
		sort.Strings(ordered)
		locked := make(map[string]*entity.WarehouseStock, 2)
		for _, id := range ordered {
			ws, err := repos.Stock.LockOrCreate(ctx, in.ProductID, id)
			if err != nil {
				return err
			}
			locked[id] = ws
		}
		if src := locked[in.FromLocationID]; src.Quantity < in.Quantity {
			return fmt.Errorf("%w: origen %s tiene %d, se piden %d", domain.ErrInsufficientStock, in.FromLocationID, src.Quantity, in.Quantity)
		}

		// Turno del día en ambos extremos
		for _, id := range []string{in.FromLocationID, in.ToLocationID} {
			if _, err := uc.shifts.GetOrCreateTodayShift(ctx, repos, user.ID, id); err != nil {
				return err
			}
		}

		legs := []MovementInput{
			{ProductID: in.ProductID, LocationID: in.FromLocationID, Quantity: -in.Quantity},
			{ProductID: in.ProductID, LocationID: in.ToLocationID, Quantity: in.Quantity},
		}
		for _, leg := range legs {
			leg.Type = entity.MovementTypeTransfer
			leg.Reference = reference
			leg.UserID = user.ID
			leg.CreatedAt = now
			if _, err := uc.ledger.RecordMovement(ctx, repos, leg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	uc.committed(ctx, "transfer")
	uc.log.Info().
		Str("transfer_id", reference).
		Str("product_id", in.ProductID).
		Str("from_location_id", in.FromLocationID).
		Str("to_location_id", in.ToLocationID).
		Int64("quantity", in.Quantity).
		Msg("traslado registrado")
	return reference, nil
}
