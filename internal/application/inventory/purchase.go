package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// PurchaseUseCase registra compras: cada línea es un lote FIFO y un movimiento PURCHASE positivo.
// Una compra nunca exige stock previo.
type PurchaseUseCase struct {
	*engine
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(tx TxRunner, opts Options) *PurchaseUseCase {
	return &PurchaseUseCase{engine: newEngine(tx, opts)}
}

// CreatePurchase recibe mercancía en la ubicación. UnitPrice de cada línea es el costo unitario del lote;
// el último costo queda como precio de compra del producto.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*entity.Purchase, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var purchase *entity.Purchase
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		now := uc.now()
		user, err := activeUser(ctx, repos, userID)
		if err != nil {
			return err
		}
		if _, err := activeLocation(ctx, repos, in.LocationID); err != nil {
			return err
		}

		p := &entity.Purchase{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			LocationID: in.LocationID,
			CreatedAt:  now,
		}
		computed := decimal.Zero
		for _, line := range in.Items {
			if _, err := activeProduct(ctx, repos, line.ProductID); err != nil {
				return err
			}
			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
			computed = computed.Add(lineTotal)
			p.Items = append(p.Items, &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: p.ID,
				ProductID:  line.ProductID,
				LocationID: in.LocationID,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitPrice,
				TotalCost:  lineTotal,
				CreatedAt:  now,
			})
		}
		if p.Total, err = checkTotal(in.Total, computed); err != nil {
			return err
		}

		// El turno se abre antes de mover stock para que la foto START refleje el saldo previo.
		if _, err := uc.shifts.GetOrCreateTodayShift(ctx, repos, user.ID, in.LocationID); err != nil {
			return err
		}
		if err := repos.Purchases.Create(ctx, p); err != nil {
			return err
		}
		for _, it := range p.Items {
			if _, err := uc.ledger.RecordMovement(ctx, repos, MovementInput{
				ProductID:  it.ProductID,
				LocationID: it.LocationID,
				Quantity:   it.Quantity,
				Type:       entity.MovementTypePurchase,
				Reference:  p.ID,
				UserID:     user.ID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			if err := repos.Products.UpdatePurchasePrice(ctx, it.ProductID, it.UnitCost); err != nil {
				return err
			}
		}
		purchase = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.committed(ctx, "purchase")
	uc.log.Info().
		Str("purchase_id", purchase.ID).
		Str("location_id", purchase.LocationID).
		Int("items", len(purchase.Items)).
		Str("total", purchase.Total.String()).
		Msg("compra registrada")
	return purchase, nil
}

// GetPurchase devuelve una compra con sus lotes.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, purchaseID string) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		purchase, err = repos.Purchases.GetByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, purchaseID)
		}
		return nil
	})
	return purchase, err
}
