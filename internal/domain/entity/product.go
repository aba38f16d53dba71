package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Product representa un producto del catálogo. Name es único sin distinguir mayúsculas.
// SalePrice es el precio por defecto; cada ubicación puede sobreescribirlo (ProductLocationPrice).
type Product struct {
	ID            string
	Name          string
	PurchasePrice decimal.Decimal // último costo unitario de compra
	SalePrice     decimal.Decimal
	IsActive      bool
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductLocationPrice precio de venta de un producto en una ubicación concreta.
type ProductLocationPrice struct {
	ProductID  string
	LocationID string
	SalePrice  decimal.Decimal
}

// PriceAt devuelve el precio de venta efectivo: el override de la ubicación si existe, si no el del producto.
func (p *Product) PriceAt(override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return p.SalePrice
}

// ProductNameKey clave de unicidad del nombre: sin espacios sobrantes y con plegado de mayúsculas Unicode
// ("Café", "CAFÉ" y "café " son el mismo producto).
func ProductNameKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}
