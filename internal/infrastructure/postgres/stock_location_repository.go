package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.StockLocationRepository = (*StockLocationRepo)(nil)

// StockLocationRepo implementación del puerto StockLocationRepository sobre PostgreSQL.
type StockLocationRepo struct {
	q Querier
}

// NewStockLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewStockLocationRepository(q Querier) *StockLocationRepo {
	return &StockLocationRepo{q: q}
}

// Create persiste una nueva ubicación; el índice único sobre lower(name) rechaza duplicados.
func (r *StockLocationRepo) Create(ctx context.Context, loc *entity.StockLocation) error {
	query := `
		INSERT INTO stock_locations (id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, loc.ID, loc.Name, loc.IsActive, loc.CreatedAt, loc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ubicación %q", domain.ErrDuplicate, loc.Name)
		}
		return fmt.Errorf("insert stock location: %w", err)
	}
	return nil
}

func (r *StockLocationRepo) get(ctx context.Context, where string, arg string) (*entity.StockLocation, error) {
	var l entity.StockLocation
	err := r.q.QueryRow(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM stock_locations `+where, arg,
	).Scan(&l.ID, &l.Name, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock location: %w", err)
	}
	return &l, nil
}

// GetByID obtiene una ubicación por ID.
func (r *StockLocationRepo) GetByID(ctx context.Context, id string) (*entity.StockLocation, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByName busca sin distinguir mayúsculas.
func (r *StockLocationRepo) GetByName(ctx context.Context, name string) (*entity.StockLocation, error) {
	return r.get(ctx, `WHERE lower(name) = lower($1)`, name)
}

// List lista las ubicaciones por nombre.
func (r *StockLocationRepo) List(ctx context.Context) ([]*entity.StockLocation, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, is_active, created_at, updated_at FROM stock_locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list stock locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLocation
	for rows.Next() {
		var l entity.StockLocation
		if err := rows.Scan(&l.ID, &l.Name, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
