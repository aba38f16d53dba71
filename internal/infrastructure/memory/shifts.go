package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// shiftRepo guarda los turnos en orden de inserción, que desempata turnos abiertos en el mismo instante.
type shiftRepo struct{ s *state }

func (r shiftRepo) find(match func(entity.Shift) bool) *entity.Shift {
	for _, sh := range r.s.shifts {
		if match(sh) {
			return ptr(sh)
		}
	}
	return nil
}

func (r shiftRepo) CreateIfAbsent(ctx context.Context, sh *entity.Shift) (*entity.Shift, bool, error) {
	existing, _ := r.GetByUserLocationDate(ctx, sh.UserID, sh.StockLocationID, sh.ShiftDate)
	if existing != nil {
		return existing, false, nil
	}
	r.s.shifts = append(r.s.shifts, *sh)
	return ptr(*sh), true, nil
}

func (r shiftRepo) GetByID(_ context.Context, id string) (*entity.Shift, error) {
	return r.find(func(sh entity.Shift) bool { return sh.ID == id }), nil
}

func (r shiftRepo) GetByUserLocationDate(_ context.Context, userID, locationID string, date time.Time) (*entity.Shift, error) {
	return r.find(func(sh entity.Shift) bool {
		return sh.UserID == userID && sh.StockLocationID == locationID && sh.ShiftDate.Equal(date)
	}), nil
}

func (r shiftRepo) GetOpenForUpdate(_ context.Context, locationID string) (*entity.Shift, error) {
	var open *entity.Shift
	for _, sh := range r.s.shifts {
		if sh.StockLocationID != locationID || !sh.IsOpen() {
			continue
		}
		// el más reciente; a igualdad gana el insertado después
		if open == nil || !sh.CreatedAt.Before(open.CreatedAt) {
			open = ptr(sh)
		}
	}
	return open, nil
}

func (r shiftRepo) Close(_ context.Context, shiftID string, endTime time.Time) error {
	for i := range r.s.shifts {
		if r.s.shifts[i].ID != shiftID {
			continue
		}
		if !r.s.shifts[i].IsOpen() {
			return domain.ErrNoOpenShift
		}
		r.s.shifts[i].EndTime = ptr(endTime)
		return nil
	}
	return domain.ErrNotFound
}

func (r shiftRepo) ListByLocationDate(_ context.Context, locationID string, date time.Time) ([]*entity.Shift, error) {
	var out []*entity.Shift
	for _, sh := range r.s.shifts {
		if sh.StockLocationID == locationID && sh.ShiftDate.Equal(date) {
			out = append(out, ptr(sh))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r shiftRepo) CreateSnapshots(_ context.Context, snapshots []*entity.ShiftStockSnapshot) error {
	for _, sn := range snapshots {
		r.s.snapshots = append(r.s.snapshots, *sn)
	}
	return nil
}

func (r shiftRepo) ListSnapshots(_ context.Context, shiftID string, snapshotType entity.SnapshotType) ([]*entity.ShiftStockSnapshot, error) {
	var out []*entity.ShiftStockSnapshot
	for _, sn := range r.s.snapshots {
		if sn.ShiftID == shiftID && sn.Type == snapshotType {
			out = append(out, ptr(sn))
		}
	}
	return out, nil
}
