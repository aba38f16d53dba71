package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// SaleResult venta confirmada con sus asignaciones de costo FIFO.
type SaleResult struct {
	Sale        *entity.Sale
	Allocations []*entity.SaleItemCostAllocation
}

// Costs costo FIFO acumulado por id de línea de venta.
func (r *SaleResult) Costs() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Sale.Items))
	for _, a := range r.Allocations {
		out[a.SaleItemID] = out[a.SaleItemID].Add(a.Cost())
	}
	return out
}

// SaleUseCase registra ventas: turno, cabecera y líneas, movimientos SALE y costo FIFO en una sola transacción.
type SaleUseCase struct {
	*engine
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx TxRunner, opts Options) *SaleUseCase {
	return &SaleUseCase{engine: newEngine(tx, opts)}
}

// CreateSale vende en la ubicación asignada al usuario.
// Sin CheckStockOnSale el saldo puede quedar negativo; el costo FIFO sí debe cubrirse por completo.
func (uc *SaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*SaleResult, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	in.TransferCode = strings.TrimSpace(in.TransferCode)

	var result *SaleResult
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		now := uc.now()
		user, err := activeUser(ctx, repos, userID)
		if err != nil {
			return err
		}
		if user.StockLocationID == "" {
			return fmt.Errorf("%w: el usuario %s no tiene ubicación asignada", domain.ErrInvalidInput, user.ID)
		}
		locationID := user.StockLocationID
		if _, err := activeLocation(ctx, repos, locationID); err != nil {
			return err
		}

		pm, err := repos.PaymentMethods.GetByName(ctx, in.PaymentMethod)
		if err != nil {
			return err
		}
		if pm == nil {
			return fmt.Errorf("%w: método de pago %q", domain.ErrNotFound, in.PaymentMethod)
		}
		if pm.RequiresReference && in.TransferCode == "" {
			return fmt.Errorf("%w: %s requiere código de transferencia", domain.ErrInvalidInput, pm.Name)
		}
		if in.TransferCode != "" {
			exists, err := repos.Sales.ExistsTransferCode(ctx, in.TransferCode)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, in.TransferCode)
			}
		}

		sale := &entity.Sale{
			ID:                uuid.New().String(),
			UserID:            user.ID,
			LocationID:        locationID,
			PaymentMethodID:   pm.ID,
			PaymentMethodName: pm.Name,
			TransferCode:      in.TransferCode,
			CreatedAt:         now,
		}
		computed := decimal.Zero
		for _, line := range in.Items {
			product, err := activeProduct(ctx, repos, line.ProductID)
			if err != nil {
				return err
			}
			price := line.UnitPrice
			if price.IsZero() {
				price, err = effectivePrice(ctx, repos, product, locationID)
				if err != nil {
					return err
				}
			}
			lineTotal := price.Mul(decimal.NewFromInt(line.Quantity))
			computed = computed.Add(lineTotal)
			sale.Items = append(sale.Items, &entity.SaleItem{
				ID:         uuid.New().String(),
				SaleID:     sale.ID,
				ProductID:  product.ID,
				LocationID: locationID,
				Quantity:   line.Quantity,
				UnitPrice:  price,
				Total:      lineTotal,
				CreatedAt:  now,
			})
		}
		if sale.Total, err = checkTotal(in.Total, computed); err != nil {
			return err
		}

		if uc.opts.CheckStockOnSale {
			order, qty := sumByProduct(in.Items)
			for _, productID := range order {
				stock, err := repos.Stock.LockOrCreate(ctx, productID, locationID)
				if err != nil {
					return err
				}
				if stock.Quantity < qty[productID] {
					return fmt.Errorf("%w: producto %s en %s", domain.ErrInsufficientStock, productID, locationID)
				}
			}
		}

		// (a) turno del día
		shift, err := uc.shifts.GetOrCreateTodayShift(ctx, repos, user.ID, locationID)
		if err != nil {
			return err
		}
		sale.ShiftID = shift.ID

		// (b) cabecera y líneas
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// (c) salida de stock por línea
		for _, it := range sale.Items {
			if _, err := uc.ledger.RecordMovement(ctx, repos, MovementInput{
				ProductID:  it.ProductID,
				LocationID: locationID,
				Quantity:   -it.Quantity,
				Type:       entity.MovementTypeSale,
				Reference:  sale.ID,
				UserID:     user.ID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}

		// (d) costo FIFO
		res := &SaleResult{Sale: sale}
		for _, it := range sale.Items {
			allocs, err := uc.costs.AllocateCost(ctx, repos, it)
			if err != nil {
				return err
			}
			res.Allocations = append(res.Allocations, allocs...)
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.committed(ctx, "sale")
	uc.log.Info().
		Str("sale_id", result.Sale.ID).
		Str("location_id", result.Sale.LocationID).
		Str("payment_method", result.Sale.PaymentMethodName).
		Int("items", len(result.Sale.Items)).
		Str("total", result.Sale.Total.String()).
		Msg("venta registrada")
	return result, nil
}

// GetSale devuelve la venta con sus asignaciones de costo.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*SaleResult, error) {
	var result *SaleResult
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		sale, err := repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		res := &SaleResult{Sale: sale}
		for _, it := range sale.Items {
			allocs, err := repos.Sales.ListAllocationsBySaleItem(ctx, it.ID)
			if err != nil {
				return err
			}
			res.Allocations = append(res.Allocations, allocs...)
		}
		result = res
		return nil
	})
	return result, err
}

// effectivePrice precio de la ubicación si existe, si no el del producto.
func effectivePrice(ctx context.Context, repos repository.Repos, product *entity.Product, locationID string) (decimal.Decimal, error) {
	lp, err := repos.Products.GetLocationPrice(ctx, product.ID, locationID)
	if err != nil {
		return decimal.Zero, err
	}
	if lp == nil {
		return product.PriceAt(nil), nil
	}
	return product.PriceAt(&lp.SalePrice), nil
}
