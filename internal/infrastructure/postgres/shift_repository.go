package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

// ShiftRepo turnos y fotos de stock sobre PostgreSQL.
// seq (identity) desempata turnos abiertos en el mismo instante.
type ShiftRepo struct {
	q Querier
}

// NewShiftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShiftRepository(q Querier) *ShiftRepo {
	return &ShiftRepo{q: q}
}

const shiftColumns = `id, user_id, stock_location_id, shift_date, start_time, end_time, start_amount, created_at`

func scanShift(row pgx.Row) (*entity.Shift, error) {
	var s entity.Shift
	err := row.Scan(&s.ID, &s.UserID, &s.StockLocationID, &s.ShiftDate, &s.StartTime, &s.EndTime, &s.StartAmount, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.ShiftDate = asDate(s.ShiftDate)
	return &s, nil
}

func (r *ShiftRepo) one(ctx context.Context, query string, args ...any) (*entity.Shift, error) {
	s, err := scanShift(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	return s, nil
}

// CreateIfAbsent inserta con ON CONFLICT DO NOTHING sobre (user_id, stock_location_id, shift_date);
// si otro llamador ganó la carrera devuelve su turno con created=false.
func (r *ShiftRepo) CreateIfAbsent(ctx context.Context, sh *entity.Shift) (*entity.Shift, bool, error) {
	stored, err := r.one(ctx, `
		INSERT INTO shifts (id, user_id, stock_location_id, shift_date, start_time, end_time, start_amount, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
		ON CONFLICT (user_id, stock_location_id, shift_date) DO NOTHING
		RETURNING `+shiftColumns,
		sh.ID, sh.UserID, sh.StockLocationID, dateOnly(sh.ShiftDate), sh.StartTime, sh.EndTime, sh.StartAmount, sh.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("insert shift: %w", err)
	}
	if stored != nil {
		return stored, true, nil
	}
	existing, err := r.GetByUserLocationDate(ctx, sh.UserID, sh.StockLocationID, sh.ShiftDate)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("%w: turno concurrente no visible", domain.ErrConcurrencyConflict)
	}
	return existing, false, nil
}

func (r *ShiftRepo) GetByID(ctx context.Context, id string) (*entity.Shift, error) {
	return r.one(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id)
}

func (r *ShiftRepo) GetByUserLocationDate(ctx context.Context, userID, locationID string, date time.Time) (*entity.Shift, error) {
	return r.one(ctx, `
		SELECT `+shiftColumns+` FROM shifts
		WHERE user_id = $1 AND stock_location_id = $2 AND shift_date = $3::date`,
		userID, locationID, dateOnly(date))
}

// GetOpenForUpdate bloquea el turno abierto más reciente de la ubicación.
func (r *ShiftRepo) GetOpenForUpdate(ctx context.Context, locationID string) (*entity.Shift, error) {
	return r.one(ctx, `
		SELECT `+shiftColumns+` FROM shifts
		WHERE stock_location_id = $1 AND end_time IS NULL
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
		FOR UPDATE`, locationID)
}

// Close fija end_time una sola vez.
func (r *ShiftRepo) Close(ctx context.Context, shiftID string, endTime time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shifts SET end_time = $2 WHERE id = $1 AND end_time IS NULL`, shiftID, endTime)
	if err != nil {
		return fmt.Errorf("close shift: %w", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	existing, err := r.GetByID(ctx, shiftID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return domain.ErrNoOpenShift
}

func (r *ShiftRepo) ListByLocationDate(ctx context.Context, locationID string, date time.Time) ([]*entity.Shift, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+shiftColumns+` FROM shifts
		WHERE stock_location_id = $1 AND shift_date = $2::date
		ORDER BY created_at, seq`, locationID, dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Shift, error) {
		return scanShift(row)
	})
}

func (r *ShiftRepo) CreateSnapshots(ctx context.Context, snapshots []*entity.ShiftStockSnapshot) error {
	for _, sn := range snapshots {
		_, err := r.q.Exec(ctx, `
			INSERT INTO shift_stock_snapshots (id, shift_id, product_id, location_id, quantity, type, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sn.ID, sn.ShiftID, sn.ProductID, sn.LocationID, sn.Quantity, string(sn.Type), sn.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}
	return nil
}

func (r *ShiftRepo) ListSnapshots(ctx context.Context, shiftID string, snapshotType entity.SnapshotType) ([]*entity.ShiftStockSnapshot, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, shift_id, product_id, location_id, quantity, type, created_at
		FROM shift_stock_snapshots
		WHERE shift_id = $1 AND type = $2
		ORDER BY product_id`, shiftID, string(snapshotType))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.ShiftStockSnapshot, error) {
		var sn entity.ShiftStockSnapshot
		var typ string
		err := row.Scan(&sn.ID, &sn.ShiftID, &sn.ProductID, &sn.LocationID, &sn.Quantity, &typ, &sn.CreatedAt)
		sn.Type = entity.SnapshotType(typ)
		return &sn, err
	})
}
