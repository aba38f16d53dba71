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

var (
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.PaymentMethodRepository = (*PaymentMethodRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Una ubicación vacía se guarda como NULL.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, role, stock_location_id, is_active)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, user.ID, user.Name, user.Role, nullable(user.StockLocationID), user.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: usuario %s", domain.ErrDuplicate, user.ID)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	var locationID *string
	err := r.q.QueryRow(ctx,
		`SELECT id, name, role, stock_location_id, is_active FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Role, &locationID, &u.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.StockLocationID = fromNullable(locationID)
	return &u, nil
}

// PaymentMethodRepo lectura de métodos de pago (sembrados por migración).
type PaymentMethodRepo struct {
	q Querier
}

// NewPaymentMethodRepository construye el adaptador.
func NewPaymentMethodRepository(q Querier) *PaymentMethodRepo {
	return &PaymentMethodRepo{q: q}
}

func (r *PaymentMethodRepo) get(ctx context.Context, where, arg string) (*entity.PaymentMethod, error) {
	var pm entity.PaymentMethod
	err := r.q.QueryRow(ctx,
		`SELECT id, name, requires_reference FROM payment_methods `+where, arg,
	).Scan(&pm.ID, &pm.Name, &pm.RequiresReference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return &pm, nil
}

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *PaymentMethodRepo) GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error) {
	return r.get(ctx, `WHERE lower(name) = lower($1)`, name)
}

func (r *PaymentMethodRepo) List(ctx context.Context) ([]*entity.PaymentMethod, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, requires_reference FROM payment_methods ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentMethod
	for rows.Next() {
		var pm entity.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.Name, &pm.RequiresReference); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		list = append(list, &pm)
	}
	return list, rows.Err()
}
