package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
	"github.com/jhoicas/pos-ipv/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UserUseCase alta de usuarios y emisión de tokens. No maneja contraseñas: quien llama ya autenticó.
type UserUseCase struct {
	tx     inventory.TxRunner
	jwtCfg JWTConfig
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(tx inventory.TxRunner, jwtCfg JWTConfig) *UserUseCase {
	return &UserUseCase{tx: tx, jwtCfg: jwtCfg}
}

// Create registra un usuario activo. La ubicación es obligatoria para vendedores.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Role == entity.RoleVendedor && in.StockLocationID == "" {
		return nil, fmt.Errorf("%w: un vendedor necesita ubicación asignada", domain.ErrInvalidInput)
	}
	user := &entity.User{
		ID:              in.ID,
		Name:            cleanName(in.Name),
		Role:            in.Role,
		StockLocationID: in.StockLocationID,
		IsActive:        true,
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		if user.StockLocationID != "" {
			if _, err := findLocation(ctx, repos, user.StockLocationID); err != nil {
				return err
			}
		}
		existing, err := repos.Users.GetByID(ctx, user.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: usuario %s", domain.ErrDuplicate, user.ID)
		}
		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(user)
	return &out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		user, err := repos.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
		}
		out = dto.ToUserResponse(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueToken firma un JWT con el rol guardado del usuario; usuarios inactivos no reciben token.
func (uc *UserUseCase) IssueToken(ctx context.Context, userID string) (*dto.TokenResponse, error) {
	user, err := uc.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: usuario %s inactivo", domain.ErrForbidden, userID)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   uc.jwtCfg.ExpMinutes * 60,
		User:        *user,
	}, nil
}

// Bootstrap deja lista una ubicación con un usuario por rol y devuelve sus tokens.
// Es idempotente: los IDs de usuario se derivan de la ubicación y el rol.
func (uc *UserUseCase) Bootstrap(ctx context.Context, locationName string) ([]dto.TokenResponse, error) {
	name := cleanName(locationName)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de ubicación vacío", domain.ErrInvalidInput)
	}
	var loc *entity.StockLocation
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		var err error
		loc, err = repos.Locations.GetByName(ctx, name)
		if err != nil || loc != nil {
			return err
		}
		now := time.Now()
		loc = &entity.StockLocation{ID: uuid.New().String(), Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now}
		return repos.Locations.Create(ctx, loc)
	})
	if err != nil {
		return nil, err
	}

	roles := []string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor}
	tokens := make([]dto.TokenResponse, 0, len(roles))
	for _, role := range roles {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(loc.ID+"/"+role)).String()
		_, err := uc.Create(ctx, dto.CreateUserRequest{ID: id, Name: role + " " + name, Role: role, StockLocationID: loc.ID})
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		tok, err := uc.IssueToken(ctx, id)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *tok)
	}
	return tokens, nil
}
