// Package report construye el IPV: la conciliación diaria de inventario y ventas por ubicación.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	dominv "github.com/jhoicas/pos-ipv/internal/domain/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// Cache cache de reportes con claves versionadas. nil = sin cache.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
}

// IPVUseCase genera el reporte IPV. Es de sólo lectura y nunca falla por falta de datos.
type IPVUseCase struct {
	tx    inventory.TxRunner
	cache Cache
	loc   *time.Location
	log   *logger.Logger
}

// NewIPVUseCase construye el caso de uso; loc define el día calendario (nil = UTC).
func NewIPVUseCase(tx inventory.TxRunner, cache Cache, loc *time.Location, log *logger.Logger) *IPVUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &IPVUseCase{tx: tx, cache: cache, loc: loc, log: logger.OrNop(log).Component("ipv")}
}

// ParseDay interpreta "YYYY-MM-DD" en la zona configurada.
func (uc *IPVUseCase) ParseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, s, uc.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, formato esperado YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return d, nil
}

// BuildReport reporte de la ubicación para el día calendario de date.
func (uc *IPVUseCase) BuildReport(ctx context.Context, locationID string, date time.Time) (*dto.IPVReport, error) {
	if locationID == "" {
		return nil, fmt.Errorf("%w: ubicación obligatoria", domain.ErrInvalidInput)
	}
	day := inventory.DayStart(date, uc.loc)
	if uc.cache == nil {
		return uc.build(ctx, locationID, day)
	}
	key, err := uc.cache.BuildKey(ctx, "ipv", locationID, day.Format(time.DateOnly))
	if err != nil {
		uc.log.Warn().Err(err).Msg("cache de reportes no disponible")
		return uc.build(ctx, locationID, day)
	}
	var out dto.IPVReport
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return uc.build(ctx, locationID, day)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// dayData agregados crudos del día.
type dayData struct {
	location  *entity.StockLocation
	shifts    []*entity.Shift
	initial   map[string]int64
	closing   map[string]int64
	transfers []*entity.InventoryMovement
	purchased []*entity.PurchaseItem
	adjusted  []*entity.InventoryAdjustment
	sold      []repository.SoldLine
	products  map[string]*entity.Product
	overrides map[string]decimal.Decimal
}

func (uc *IPVUseCase) build(ctx context.Context, locationID string, day time.Time) (*dto.IPVReport, error) {
	dayEnd := day.AddDate(0, 0, 1)
	data := &dayData{}

	// 1) Ubicación y turnos del día: acotan la ventana de traslados.
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		loc, err := repos.Locations.GetByID(ctx, locationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
		}
		data.location = loc
		data.shifts, err = repos.Shifts.ListByLocationDate(ctx, locationID, day)
		return err
	})
	if err != nil {
		return nil, err
	}
	windowFrom, windowTo := shiftWindow(data.shifts, day, dayEnd)
	first, lastClosed := boundaryShifts(data.shifts)

	// 2) Agregados independientes en paralelo.
	g, gctx := errgroup.WithContext(ctx)
	load := func(fn func(ctx context.Context, repos repository.Repos) error) {
		g.Go(func() error { return uc.tx.Run(gctx, fn) })
	}
	load(func(ctx context.Context, repos repository.Repos) error {
		if first == nil {
			// Sin turnos: se reconstruye el saldo inicial desde el ledger.
			var err error
			data.initial, err = repos.Movements.SumBefore(ctx, locationID, day)
			return err
		}
		snaps, err := repos.Shifts.ListSnapshots(ctx, first.ID, entity.SnapshotStart)
		data.initial = snapshotQuantities(snaps)
		return err
	})
	load(func(ctx context.Context, repos repository.Repos) error {
		if lastClosed == nil {
			return nil
		}
		snaps, err := repos.Shifts.ListSnapshots(ctx, lastClosed.ID, entity.SnapshotEnd)
		data.closing = snapshotQuantities(snaps)
		return err
	})
	load(func(ctx context.Context, repos repository.Repos) error {
		movs, err := repos.Movements.ListByLocation(ctx, locationID, windowFrom, windowTo)
		for _, m := range movs {
			if m.Type == entity.MovementTypeTransfer {
				data.transfers = append(data.transfers, m)
			}
		}
		return err
	})
	load(func(ctx context.Context, repos repository.Repos) error {
		var err error
		data.purchased, err = repos.Purchases.ListItemsByLocation(ctx, locationID, day, dayEnd)
		return err
	})
	load(func(ctx context.Context, repos repository.Repos) error {
		var err error
		data.adjusted, err = repos.Adjustments.ListByLocation(ctx, locationID, day, dayEnd)
		return err
	})
	load(func(ctx context.Context, repos repository.Repos) error {
		var err error
		data.sold, err = repos.Sales.ListSoldLines(ctx, locationID, day, dayEnd)
		return err
	})
	load(func(ctx context.Context, repos repository.Repos) error {
		products, err := repos.Products.List(ctx, 0, 0)
		if err != nil {
			return err
		}
		data.products = make(map[string]*entity.Product, len(products))
		for _, p := range products {
			data.products[p.ID] = p
		}
		prices, err := repos.Products.ListPricesAtLocation(ctx, locationID)
		data.overrides = make(map[string]decimal.Decimal, len(prices))
		for _, lp := range prices {
			data.overrides[lp.ProductID] = lp.SalePrice
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ipv: %w", err)
	}

	report := assemble(data)
	report.Date = day.Format(time.DateOnly)
	uc.log.Debug().Str("location_id", locationID).Str("date", report.Date).Int("rows", len(report.Rows)).Msg("reporte IPV generado")
	return report, nil
}

// shiftWindow ventana de traslados: desde el primer turno hasta el cierre del último.
// Si algún turno sigue abierto, o no hay turnos, llega hasta el fin del día.
func shiftWindow(shifts []*entity.Shift, day, dayEnd time.Time) (time.Time, time.Time) {
	if len(shifts) == 0 {
		return day, dayEnd
	}
	from := shifts[0].StartTime
	var to time.Time
	for _, s := range shifts {
		if s.StartTime.Before(from) {
			from = s.StartTime
		}
		if s.IsOpen() {
			return from, dayEnd
		}
		if s.EndTime.After(to) {
			to = *s.EndTime
		}
	}
	// cierre inclusivo
	return from, to.Add(time.Nanosecond)
}

// boundaryShifts primer turno abierto en el día (la lista viene ordenada por apertura) y último turno cerrado.
func boundaryShifts(shifts []*entity.Shift) (first, lastClosed *entity.Shift) {
	if len(shifts) == 0 {
		return nil, nil
	}
	first = shifts[0]
	for _, s := range shifts {
		if s.IsOpen() {
			continue
		}
		if lastClosed == nil || !s.EndTime.Before(*lastClosed.EndTime) {
			lastClosed = s
		}
	}
	return first, lastClosed
}

func snapshotQuantities(snaps []*entity.ShiftStockSnapshot) map[string]int64 {
	out := make(map[string]int64, len(snaps))
	for _, s := range snaps {
		out[s.ProductID] += s.Quantity
	}
	return out
}

func assemble(d *dayData) *dto.IPVReport {
	figures := map[string]*dominv.IPVFigures{}
	row := func(productID string) *dominv.IPVFigures {
		f, ok := figures[productID]
		if !ok {
			f = &dominv.IPVFigures{Revenue: decimal.Zero, RealCost: decimal.Zero}
			figures[productID] = f
		}
		return f
	}

	for productID, qty := range d.initial {
		row(productID).Initial += qty
	}
	for _, m := range d.transfers {
		if m.Quantity > 0 {
			row(m.ProductID).Inbound += m.Quantity
		} else {
			row(m.ProductID).Outflow += -m.Quantity
		}
	}
	for _, it := range d.purchased {
		row(it.ProductID).Inbound += it.Quantity
	}
	for _, a := range d.adjusted {
		row(a.ProductID).Outflow += dominv.AdjustmentOutflow(a.Quantity)
	}

	totals := dto.IPVTotals{
		Cash:            decimal.Zero,
		Transfer:        decimal.Zero,
		ByPaymentMethod: map[string]decimal.Decimal{},
		Revenue:         decimal.Zero,
		Profit:          decimal.Zero,
	}
	for _, line := range d.sold {
		f := row(line.ProductID)
		f.Sold += line.Quantity
		f.Revenue = f.Revenue.Add(line.Total)
		f.RealCost = f.RealCost.Add(line.RealCost)
		totals.ByPaymentMethod[line.PaymentMethodName] = totals.ByPaymentMethod[line.PaymentMethodName].Add(line.Total)
	}
	for productID := range d.closing {
		row(productID)
	}

	report := &dto.IPVReport{
		LocationID:   d.location.ID,
		LocationName: d.location.Name,
		ShiftIDs:     make([]string, 0, len(d.shifts)),
		Rows:         make([]dto.IPVRow, 0, len(figures)),
	}
	for _, s := range d.shifts {
		report.ShiftIDs = append(report.ShiftIDs, s.ID)
	}
	for productID, f := range figures {
		closing, counted := d.closing[productID]
		if f.IsZero() && !(counted && closing != 0) {
			continue
		}
		r := dto.IPVRow{
			ProductID: productID,
			Initial:   f.Initial,
			Inbound:   f.Inbound,
			Outflow:   f.Outflow,
			Remaining: f.Remaining(),
			Sold:      f.Sold,
			Revenue:   f.Revenue,
			Profit:    f.Profit(),
		}
		if p, ok := d.products[productID]; ok {
			r.ProductName = p.Name
			r.PurchasePrice = p.PurchasePrice
			r.SalePrice = p.SalePrice
			if o, ok := d.overrides[productID]; ok {
				r.SalePrice = o
			}
		}
		if d.closing != nil {
			c := closing
			diff := c - r.Remaining
			r.ClosingCount = &c
			r.Difference = &diff
		}
		totals.Revenue = totals.Revenue.Add(r.Revenue)
		totals.Profit = totals.Profit.Add(r.Profit)
		report.Rows = append(report.Rows, r)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		if report.Rows[i].ProductName != report.Rows[j].ProductName {
			return report.Rows[i].ProductName < report.Rows[j].ProductName
		}
		return report.Rows[i].ProductID < report.Rows[j].ProductID
	})
	totals.Cash = totals.ByPaymentMethod[entity.PaymentMethodCash]
	totals.Transfer = totals.ByPaymentMethod[entity.PaymentMethodTransfer]
	report.Totals = totals
	return report
}
