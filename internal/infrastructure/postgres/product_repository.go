package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
	"github.com/jhoicas/pos-ipv/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, purchase_price, sale_price, is_active, notes, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.PurchasePrice, &p.SalePrice, &p.IsActive, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto; name_key garantiza la unicidad del nombre.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, name_key, purchase_price, sale_price, is_active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, entity.ProductNameKey(product.Name), product.PurchasePrice, product.SalePrice,
		product.IsActive, product.Notes, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, product.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByName busca por la clave plegada del nombre.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE name_key = $1`, entity.ProductNameKey(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. PurchasePrice sólo cambia vía UpdatePurchasePrice.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, name_key = $3, sale_price = $4, is_active = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, entity.ProductNameKey(product.Name), product.SalePrice,
		product.IsActive, product.Notes, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, product.Name)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePurchasePrice registra el último costo unitario de compra.
func (r *ProductRepo) UpdatePurchasePrice(ctx context.Context, productID string, price decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET purchase_price = $2, updated_at = now() WHERE id = $1`,
		productID, price,
	)
	if err != nil {
		return fmt.Errorf("update purchase price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name_key, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SetLocationPrice crea o reemplaza el override de precio.
func (r *ProductRepo) SetLocationPrice(ctx context.Context, price *entity.ProductLocationPrice) error {
	query := `
		INSERT INTO product_location_prices (product_id, location_id, sale_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, location_id) DO UPDATE SET sale_price = EXCLUDED.sale_price`
	if _, err := r.q.Exec(ctx, query, price.ProductID, price.LocationID, price.SalePrice); err != nil {
		return fmt.Errorf("set location price: %w", err)
	}
	return nil
}

func (r *ProductRepo) DeleteLocationPrice(ctx context.Context, productID, locationID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM product_location_prices WHERE product_id = $1 AND location_id = $2`, productID, locationID)
	if err != nil {
		return fmt.Errorf("delete location price: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetLocationPrice(ctx context.Context, productID, locationID string) (*entity.ProductLocationPrice, error) {
	lp := entity.ProductLocationPrice{ProductID: productID, LocationID: locationID}
	err := r.q.QueryRow(ctx,
		`SELECT sale_price FROM product_location_prices WHERE product_id = $1 AND location_id = $2`,
		productID, locationID,
	).Scan(&lp.SalePrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location price: %w", err)
	}
	return &lp, nil
}

func (r *ProductRepo) ListLocationPrices(ctx context.Context, productID string) ([]*entity.ProductLocationPrice, error) {
	return r.listPrices(ctx, `WHERE product_id = $1 ORDER BY location_id`, productID)
}

func (r *ProductRepo) ListPricesAtLocation(ctx context.Context, locationID string) ([]*entity.ProductLocationPrice, error) {
	return r.listPrices(ctx, `WHERE location_id = $1 ORDER BY product_id`, locationID)
}

func (r *ProductRepo) listPrices(ctx context.Context, where string, arg string) ([]*entity.ProductLocationPrice, error) {
	rows, err := r.q.Query(ctx, `SELECT product_id, location_id, sale_price FROM product_location_prices `+where, arg)
	if err != nil {
		return nil, fmt.Errorf("list location prices: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductLocationPrice
	for rows.Next() {
		var lp entity.ProductLocationPrice
		if err := rows.Scan(&lp.ProductID, &lp.LocationID, &lp.SalePrice); err != nil {
			return nil, fmt.Errorf("scan location price: %w", err)
		}
		list = append(list, &lp)
	}
	return list, rows.Err()
}
