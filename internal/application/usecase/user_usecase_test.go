package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/usecase"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ipv/pkg/jwt"
)

var testJWT = usecase.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 30, Issuer: "pos-ipv-test"}

func TestUserUseCase_CreateYToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := usecase.NewUserUseCase(store, testJWT)
	loc, err := usecase.NewLocationUseCase(store).Create(ctx, dto.CreateLocationRequest{Name: "Tienda"})
	require.NoError(t, err)

	_, err = users.Create(ctx, dto.CreateUserRequest{Name: "Ana", Role: entity.RoleVendedor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "vendedor sin ubicación")

	_, err = users.Create(ctx, dto.CreateUserRequest{Name: "Ana", Role: "cajero", StockLocationID: loc.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = users.Create(ctx, dto.CreateUserRequest{Name: "Ana", Role: entity.RoleVendedor, StockLocationID: "otra"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err := users.Create(ctx, dto.CreateUserRequest{Name: " Ana  María ", Role: entity.RoleVendedor, StockLocationID: loc.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", u.Name)

	_, err = users.Create(ctx, dto.CreateUserRequest{ID: u.ID, Name: "Otra", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	tok, err := users.IssueToken(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, 1800, tok.ExpiresIn)
	userID, role, err := jwt.Parse(testJWT.Secret, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleVendedor, role)

	_, err = users.IssueToken(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserUseCase_BootstrapIdempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	users := usecase.NewUserUseCase(store, testJWT)

	first, err := users.Bootstrap(ctx, "Principal")
	require.NoError(t, err)
	require.Len(t, first, 3)
	second, err := users.Bootstrap(ctx, "  principal ")
	require.NoError(t, err)
	require.Len(t, second, 3)

	roles := make([]string, 0, 3)
	for i := range first {
		assert.Equal(t, first[i].User.ID, second[i].User.ID)
		assert.Equal(t, first[i].User.StockLocationID, second[i].User.StockLocationID)
		roles = append(roles, first[i].User.Role)
	}
	assert.Equal(t, []string{entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor}, roles)

	all, err := usecase.NewLocationUseCase(store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = users.Bootstrap(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
