package repository

import (
	"context"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// UserRepository puerto de lectura de usuarios; el alta la gestiona el sistema de autenticación.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// PaymentMethodRepository puerto de lectura de métodos de pago.
type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PaymentMethod, error)
	GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error)
	List(ctx context.Context) ([]*entity.PaymentMethod, error)
}
