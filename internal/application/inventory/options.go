package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// Options configuración compartida por los casos de uso de inventario.
type Options struct {
	// Location zona horaria que define "hoy" para los turnos. nil = UTC.
	Location *time.Location
	// Now reloj inyectable; nil = time.Now.
	Now func() time.Time
	// CheckStockOnSale exige saldo suficiente antes de vender.
	CheckStockOnSale bool
	Invalidator      ReportInvalidator
	Logger           *logger.Logger
}

type engine struct {
	tx     TxRunner
	opts   Options
	log    *logger.Logger
	ledger *LedgerWriter
	costs  *CostAllocator
	shifts *ShiftManager
}

func newEngine(tx TxRunner, opts Options) *engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &engine{
		tx:     tx,
		opts:   opts,
		log:    logger.OrNop(opts.Logger).Component("inventory"),
		ledger: NewLedgerWriter(),
		costs:  NewCostAllocator(),
		shifts: NewShiftManager(opts.Location, opts.Now),
	}
}

func (e *engine) now() time.Time { return e.opts.Now().In(e.opts.Location) }

// committed invalida el cache de reportes; un fallo del cache no afecta la operación ya confirmada.
func (e *engine) committed(ctx context.Context, op string) {
	if e.opts.Invalidator == nil {
		return
	}
	if err := e.opts.Invalidator.Bump(ctx); err != nil {
		e.log.Warn().Err(err).Str("op", op).Msg("no se pudo invalidar el cache de reportes")
	}
}
