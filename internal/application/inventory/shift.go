package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

// ShiftManager abre y cierra turnos y toma las fotos de stock START/END.
type ShiftManager struct {
	loc *time.Location
	now func() time.Time
}

// NewShiftManager construye el gestor; loc define el día calendario.
func NewShiftManager(loc *time.Location, now func() time.Time) *ShiftManager {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ShiftManager{loc: loc, now: now}
}

// Today medianoche del día actual en la zona configurada.
func (m *ShiftManager) Today() time.Time {
	return DayStart(m.now(), m.loc)
}

// DayStart medianoche de t en loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	y, mo, d := t.In(loc).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc)
}

// GetOrCreateTodayShift devuelve el turno de hoy para (usuario, ubicación), abierto o cerrado,
// o lo crea con StartTime = inicio del día y fotos START del stock actual de la ubicación.
// Es idempotente: dos llamadas concurrentes obtienen el mismo turno.
func (m *ShiftManager) GetOrCreateTodayShift(ctx context.Context, repos repository.Repos, userID, locationID string) (*entity.Shift, error) {
	return m.getOrCreate(ctx, repos, userID, locationID, decimal.Zero)
}

func (m *ShiftManager) getOrCreate(ctx context.Context, repos repository.Repos, userID, locationID string, startAmount decimal.Decimal) (*entity.Shift, error) {
	today := m.Today()
	existing, err := repos.Shifts.GetByUserLocationDate(ctx, userID, locationID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	shift := &entity.Shift{
		ID:              uuid.New().String(),
		UserID:          userID,
		StockLocationID: locationID,
		ShiftDate:       today,
		StartTime:       today,
		StartAmount:     startAmount,
		CreatedAt:       m.now(),
	}
	stored, created, err := repos.Shifts.CreateIfAbsent(ctx, shift)
	if err != nil {
		return nil, err
	}
	// Perdimos la carrera: el ganador ya escribió las fotos START.
	if !created {
		return stored, nil
	}
	if err := m.snapshot(ctx, repos, stored, entity.SnapshotStart); err != nil {
		return nil, err
	}
	return stored, nil
}

// CloseShift cierra el turno abierto más reciente de la ubicación y toma las fotos END.
func (m *ShiftManager) CloseShift(ctx context.Context, repos repository.Repos, locationID string) (*entity.Shift, error) {
	shift, err := repos.Shifts.GetOpenForUpdate(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNoOpenShift, locationID)
	}
	end := m.now()
	if err := repos.Shifts.Close(ctx, shift.ID, end); err != nil {
		return nil, err
	}
	shift.EndTime = &end
	if err := m.snapshot(ctx, repos, shift, entity.SnapshotEnd); err != nil {
		return nil, err
	}
	return shift, nil
}

// snapshot guarda la cantidad actual de cada producto con fila de saldo en la ubicación del turno.
func (m *ShiftManager) snapshot(ctx context.Context, repos repository.Repos, shift *entity.Shift, kind entity.SnapshotType) error {
	rows, err := repos.Stock.ListByLocation(ctx, shift.StockLocationID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	now := m.now()
	snaps := make([]*entity.ShiftStockSnapshot, 0, len(rows))
	for _, ws := range rows {
		snaps = append(snaps, &entity.ShiftStockSnapshot{
			ID:         uuid.New().String(),
			ShiftID:    shift.ID,
			ProductID:  ws.ProductID,
			LocationID: ws.LocationID,
			Quantity:   ws.Quantity,
			Type:       kind,
			CreatedAt:  now,
		})
	}
	return repos.Shifts.CreateSnapshots(ctx, snaps)
}

// ShiftUseCase operaciones públicas sobre turnos.
type ShiftUseCase struct {
	*engine
	group singleflight.Group
}

// NewShiftUseCase construye el caso de uso.
func NewShiftUseCase(tx TxRunner, opts Options) *ShiftUseCase {
	return &ShiftUseCase{engine: newEngine(tx, opts)}
}

// OpenShift abre (o devuelve) el turno de hoy del usuario. LocationID vacío usa su ubicación asignada.
// StartAmount sólo se aplica si el turno se crea en esta llamada.
func (uc *ShiftUseCase) OpenShift(ctx context.Context, userID string, in dto.OpenShiftRequest) (*entity.Shift, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%s|%s", userID, in.LocationID, uc.shifts.Today().Format(time.DateOnly))
	v, err, _ := uc.group.Do(key, func() (interface{}, error) {
		var shift *entity.Shift
		err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
			user, err := activeUser(ctx, repos, userID)
			if err != nil {
				return err
			}
			locationID := in.LocationID
			if locationID == "" {
				locationID = user.StockLocationID
			}
			if locationID == "" {
				return fmt.Errorf("%w: el usuario no tiene ubicación asignada", domain.ErrInvalidInput)
			}
			if _, err := activeLocation(ctx, repos, locationID); err != nil {
				return err
			}
			shift, err = uc.shifts.getOrCreate(ctx, repos, user.ID, locationID, in.StartAmount)
			return err
		})
		return shift, err
	})
	if err != nil {
		return nil, err
	}
	shift := v.(*entity.Shift)
	uc.committed(ctx, "open_shift")
	uc.log.Info().Str("shift_id", shift.ID).Str("user_id", userID).Str("location_id", shift.StockLocationID).Msg("turno abierto")
	return shift, nil
}

// CloseShift cierra el turno abierto de la ubicación; domain.ErrNoOpenShift si no hay ninguno.
func (uc *ShiftUseCase) CloseShift(ctx context.Context, locationID string) (*entity.Shift, error) {
	if locationID == "" {
		return nil, fmt.Errorf("%w: ubicación obligatoria", domain.ErrInvalidInput)
	}
	var shift *entity.Shift
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := activeLocation(ctx, repos, locationID); err != nil {
			return err
		}
		var err error
		shift, err = uc.shifts.CloseShift(ctx, repos, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.committed(ctx, "close_shift")
	uc.log.Info().Str("shift_id", shift.ID).Str("location_id", locationID).Msg("turno cerrado")
	return shift, nil
}

// GetShift devuelve un turno por id.
func (uc *ShiftUseCase) GetShift(ctx context.Context, shiftID string) (*entity.Shift, error) {
	var shift *entity.Shift
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		shift, err = repos.Shifts.GetByID(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	return shift, err
}

// ListShiftSnapshots fotos START seguidas de END del turno.
func (uc *ShiftUseCase) ListShiftSnapshots(ctx context.Context, shiftID string) ([]*entity.ShiftStockSnapshot, error) {
	var out []*entity.ShiftStockSnapshot
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		shift, err := repos.Shifts.GetByID(ctx, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		out = nil
		for _, kind := range []entity.SnapshotType{entity.SnapshotStart, entity.SnapshotEnd} {
			snaps, err := repos.Shifts.ListSnapshots(ctx, shiftID, kind)
			if err != nil {
				return err
			}
			out = append(out, snaps...)
		}
		return nil
	})
	return out, err
}
