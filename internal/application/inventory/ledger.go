package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// MovementInput datos de un asiento del ledger.
type MovementInput struct {
	ProductID  string
	LocationID string
	Quantity   int64
	Type       entity.MovementType
	Reference  string
	UserID     string
	CreatedAt  time.Time
}

// LedgerWriter único punto de escritura de movimientos y saldos.
type LedgerWriter struct{}

// NewLedgerWriter construye el escritor del ledger.
func NewLedgerWriter() *LedgerWriter { return &LedgerWriter{} }

// RecordMovement agrega un movimiento e incrementa WarehouseStock en la misma transacción de repos,
// creando la fila de saldo si no existe.
func (w *LedgerWriter) RecordMovement(ctx context.Context, repos repository.Repos, in MovementInput) (*entity.InventoryMovement, error) {
	if in.ProductID == "" || in.LocationID == "" {
		return nil, fmt.Errorf("%w: producto y ubicación son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity == 0 {
		return nil, fmt.Errorf("%w: cantidad del movimiento no puede ser cero", domain.ErrInvalidInput)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	mov := &entity.InventoryMovement{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Type:       in.Type,
		Reference:  in.Reference,
		UserID:     in.UserID,
		CreatedAt:  in.CreatedAt,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	if _, err := repos.Stock.Increment(ctx, in.ProductID, in.LocationID, in.Quantity); err != nil {
		return nil, err
	}
	return mov, nil
}

// LedgerDiscrepancy saldo materializado que no coincide con la suma de movimientos.
type LedgerDiscrepancy struct {
	ProductID  string
	LocationID string
	Stored     int64
	Derived    int64
}

// LedgerAudit resultado de VerifyLedger.
type LedgerAudit struct {
	Checked       int
	Repaired      bool
	Discrepancies []LedgerDiscrepancy
}

// LedgerAuditUseCase recalcula los saldos desde el ledger.
type LedgerAuditUseCase struct {
	*engine
}

// NewLedgerAuditUseCase construye el caso de uso.
func NewLedgerAuditUseCase(tx TxRunner, opts Options) *LedgerAuditUseCase {
	return &LedgerAuditUseCase{engine: newEngine(tx, opts)}
}

// VerifyLedger compara cada WarehouseStock con la suma de sus movimientos. Con repair=true
// reescribe los saldos divergentes con el valor derivado, en una sola transacción.
// Las filas de saldo se bloquean antes de sumar; al reparar, cada par se vuelve a sumar
// con su fila ya bloqueada, de modo que una venta concurrente no queda pisada.
func (uc *LedgerAuditUseCase) VerifyLedger(ctx context.Context, repair bool) (*LedgerAudit, error) {
	audit := &LedgerAudit{}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		audit.Discrepancies = nil
		rows, err := repos.Stock.ListAllForUpdate(ctx)
		if err != nil {
			return err
		}
		sums, err := repos.Movements.SumAll(ctx)
		if err != nil {
			return err
		}
		derived := make(map[[2]string]int64, len(sums))
		for _, s := range sums {
			derived[[2]string{s.ProductID, s.LocationID}] = s.Quantity
		}
		seen := make(map[[2]string]bool, len(rows))
		for _, ws := range rows {
			key := [2]string{ws.ProductID, ws.LocationID}
			seen[key] = true
			if d := derived[key]; d != ws.Quantity {
				audit.Discrepancies = append(audit.Discrepancies, LedgerDiscrepancy{
					ProductID: ws.ProductID, LocationID: ws.LocationID, Stored: ws.Quantity, Derived: d,
				})
			}
		}
		audit.Checked = len(rows)
		// movimientos sin fila de saldo
		for _, s := range sums {
			if !seen[[2]string{s.ProductID, s.LocationID}] {
				audit.Checked++
				audit.Discrepancies = append(audit.Discrepancies, LedgerDiscrepancy{
					ProductID: s.ProductID, LocationID: s.LocationID, Stored: 0, Derived: s.Quantity,
				})
			}
		}
		if !repair || len(audit.Discrepancies) == 0 {
			return nil
		}
		for i := range audit.Discrepancies {
			d := &audit.Discrepancies[i]
			if _, err := repos.Stock.LockOrCreate(ctx, d.ProductID, d.LocationID); err != nil {
				return err
			}
			derived, err := repos.Movements.SumFor(ctx, d.ProductID, d.LocationID)
			if err != nil {
				return err
			}
			d.Derived = derived
			if err := repos.Stock.Set(ctx, d.ProductID, d.LocationID, derived); err != nil {
				return fmt.Errorf("reparar saldo %s/%s: %w", d.ProductID, d.LocationID, err)
			}
		}
		audit.Repaired = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	logDiscrepancies(uc.log, audit)
	if audit.Repaired {
		uc.committed(ctx, "ledger_repair")
	}
	return audit, nil
}

func logDiscrepancies(log *logger.Logger, audit *LedgerAudit) {
	for _, d := range audit.Discrepancies {
		log.Warn().
			Str("product_id", d.ProductID).
			Str("location_id", d.LocationID).
			Int64("stored", d.Stored).
			Int64("derived", d.Derived).
			Bool("repaired", audit.Repaired).
			Msg("saldo de inventario no coincide con el ledger")
	}
	log.Info().Int("checked", audit.Checked).Int("discrepancies", len(audit.Discrepancies)).Msg("verificación de ledger completada")
}
