package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/usecase"
	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/infrastructure/memory"
)

func newCatalog() (*usecase.ProductUseCase, *usecase.LocationUseCase) {
	store := memory.NewStore()
	return usecase.NewProductUseCase(store, nil, nil), usecase.NewLocationUseCase(store)
}

func TestProductUseCase_Create_NombreUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	products, _ := newCatalog()

	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "  Café   molido ", SalePrice: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "Café molido", p.Name)
	assert.True(t, p.IsActive)

	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "CAFÉ MOLIDO", SalePrice: decimal.NewFromInt(6)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "Azúcar", SalePrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_Update(t *testing.T) {
	ctx := context.Background()
	products, _ := newCatalog()

	a, err := products.Create(ctx, dto.CreateProductRequest{Name: "Arroz", SalePrice: decimal.NewFromInt(3)})
	require.NoError(t, err)
	_, err = products.Create(ctx, dto.CreateProductRequest{Name: "Frijol", SalePrice: decimal.NewFromInt(4)})
	require.NoError(t, err)

	taken := "frijol"
	_, err = products.Update(ctx, a.ID, dto.UpdateProductRequest{Name: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	same := "ARROZ"
	price := decimal.NewFromInt(7)
	inactive := false
	got, err := products.Update(ctx, a.ID, dto.UpdateProductRequest{Name: &same, SalePrice: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "ARROZ", got.Name)
	assert.True(t, got.SalePrice.Equal(price))
	assert.False(t, got.IsActive)

	_, err = products.Update(ctx, "no-existe", dto.UpdateProductRequest{SalePrice: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_ListPaginado(t *testing.T) {
	ctx := context.Background()
	products, _ := newCatalog()
	for _, name := range []string{"c", "a", "b"} {
		_, err := products.Create(ctx, dto.CreateProductRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := products.List(ctx, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a", page.Items[0].Name)
	assert.Equal(t, "b", page.Items[1].Name)

	page, err = products.List(ctx, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].Name)

	_, err = products.List(ctx, dto.PageRequest{Limit: 500})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_PreciosPorUbicacion(t *testing.T) {
	ctx := context.Background()
	products, locations := newCatalog()

	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Pan", SalePrice: decimal.NewFromInt(8)})
	require.NoError(t, err)
	loc, err := locations.Create(ctx, dto.CreateLocationRequest{Name: "Tienda"})
	require.NoError(t, err)

	eff, err := products.EffectivePrice(ctx, p.ID, loc.ID)
	require.NoError(t, err)
	assert.True(t, eff.SalePrice.Equal(decimal.NewFromInt(8)))

	_, err = products.SetLocationPrice(ctx, p.ID, dto.SetLocationPriceRequest{LocationID: loc.ID, SalePrice: decimal.NewFromInt(10)})
	require.NoError(t, err)
	eff, err = products.EffectivePrice(ctx, p.ID, loc.ID)
	require.NoError(t, err)
	assert.True(t, eff.SalePrice.Equal(decimal.NewFromInt(10)))

	list, err := products.ListLocationPrices(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, loc.ID, list[0].LocationID)

	require.NoError(t, products.DeleteLocationPrice(ctx, p.ID, loc.ID))
	eff, err = products.EffectivePrice(ctx, p.ID, loc.ID)
	require.NoError(t, err)
	assert.True(t, eff.SalePrice.Equal(decimal.NewFromInt(8)))

	assert.ErrorIs(t, products.DeleteLocationPrice(ctx, p.ID, loc.ID), domain.ErrNotFound)

	_, err = products.SetLocationPrice(ctx, p.ID, dto.SetLocationPriceRequest{LocationID: "otra", SalePrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocationUseCase(t *testing.T) {
	ctx := context.Background()
	_, locations := newCatalog()

	loc, err := locations.Create(ctx, dto.CreateLocationRequest{Name: "Almacén"})
	require.NoError(t, err)
	_, err = locations.Create(ctx, dto.CreateLocationRequest{Name: "almacén"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := locations.GetByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Almacén", got.Name)

	all, err := locations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	stock, err := locations.ListStock(ctx, loc.ID)
	require.NoError(t, err)
	assert.Empty(t, stock)

	_, err = locations.ListStock(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	methods, err := locations.ListPaymentMethods(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"efectivo", "transferencia"}, names)
}

type bumpCounter struct{ n int }

func (b *bumpCounter) Bump(context.Context) error {
	b.n++
	return nil
}

func TestProductUseCase_CambiosDePrecioInvalidanReportes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	bumps := &bumpCounter{}
	products := usecase.NewProductUseCase(store, bumps, nil)
	locations := usecase.NewLocationUseCase(store)

	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "Leche", SalePrice: decimal.NewFromInt(3)})
	require.NoError(t, err)
	loc, err := locations.Create(ctx, dto.CreateLocationRequest{Name: "Kiosco"})
	require.NoError(t, err)
	assert.Equal(t, 0, bumps.n, "crear no altera reportes existentes")

	price := decimal.NewFromInt(4)
	_, err = products.Update(ctx, p.ID, dto.UpdateProductRequest{SalePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, 1, bumps.n)

	_, err = products.SetLocationPrice(ctx, p.ID, dto.SetLocationPriceRequest{LocationID: loc.ID, SalePrice: decimal.NewFromInt(5)})
	require.NoError(t, err)
	require.NoError(t, products.DeleteLocationPrice(ctx, p.ID, loc.ID))
	assert.Equal(t, 3, bumps.n)

	assert.ErrorIs(t, products.DeleteLocationPrice(ctx, p.ID, loc.ID), domain.ErrNotFound)
	_, err = products.Update(ctx, "no-existe", dto.UpdateProductRequest{SalePrice: &price})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 3, bumps.n, "las escrituras fallidas no invalidan")
}
