package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/domain"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

type productRepo struct{ s *state }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; ok {
		return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.ID)
	}
	key := entity.ProductNameKey(p.Name)
	for _, other := range r.s.products {
		if entity.ProductNameKey(other.Name) == key {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, p.Name)
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	key := entity.ProductNameKey(name)
	for _, p := range r.s.products {
		if entity.ProductNameKey(p.Name) == key {
			return ptr(p), nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	key := entity.ProductNameKey(p.Name)
	for id, other := range r.s.products {
		if id != p.ID && entity.ProductNameKey(other.Name) == key {
			return fmt.Errorf("%w: producto %q", domain.ErrDuplicate, p.Name)
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) UpdatePurchasePrice(_ context.Context, productID string, price decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.PurchasePrice = price
	r.s.products[productID] = p
	return nil
}

func (r productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, ptr(p))
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return page(out, limit, offset), nil
}

func (r productRepo) SetLocationPrice(_ context.Context, price *entity.ProductLocationPrice) error {
	r.s.locationPrices[pairKey(price.ProductID, price.LocationID)] = *price
	return nil
}

func (r productRepo) DeleteLocationPrice(_ context.Context, productID, locationID string) error {
	delete(r.s.locationPrices, pairKey(productID, locationID))
	return nil
}

func (r productRepo) GetLocationPrice(_ context.Context, productID, locationID string) (*entity.ProductLocationPrice, error) {
	lp, ok := r.s.locationPrices[pairKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	return &lp, nil
}

func (r productRepo) ListLocationPrices(_ context.Context, productID string) ([]*entity.ProductLocationPrice, error) {
	var out []*entity.ProductLocationPrice
	for _, lp := range r.s.locationPrices {
		if lp.ProductID == productID {
			out = append(out, ptr(lp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r productRepo) ListPricesAtLocation(_ context.Context, locationID string) ([]*entity.ProductLocationPrice, error) {
	var out []*entity.ProductLocationPrice
	for _, lp := range r.s.locationPrices {
		if lp.LocationID == locationID {
			out = append(out, ptr(lp))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type locationRepo struct{ s *state }

func (r locationRepo) Create(_ context.Context, l *entity.StockLocation) error {
	for _, other := range r.s.locations {
		if other.ID == l.ID || strings.EqualFold(other.Name, l.Name) {
			return fmt.Errorf("%w: ubicación %q", domain.ErrDuplicate, l.Name)
		}
	}
	r.s.locations[l.ID] = *l
	return nil
}

func (r locationRepo) GetByID(_ context.Context, id string) (*entity.StockLocation, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r locationRepo) GetByName(_ context.Context, name string) (*entity.StockLocation, error) {
	for _, l := range r.s.locations {
		if strings.EqualFold(l.Name, name) {
			return ptr(l), nil
		}
	}
	return nil, nil
}

func (r locationRepo) List(_ context.Context) ([]*entity.StockLocation, error) {
	out := make([]*entity.StockLocation, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		out = append(out, ptr(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type userRepo struct{ s *state }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.s.users[u.ID]; ok {
		return fmt.Errorf("%w: usuario %s", domain.ErrDuplicate, u.ID)
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type paymentMethodRepo struct{ s *state }

func (r paymentMethodRepo) GetByID(_ context.Context, id string) (*entity.PaymentMethod, error) {
	pm, ok := r.s.paymentMethods[id]
	if !ok {
		return nil, nil
	}
	return &pm, nil
}

func (r paymentMethodRepo) GetByName(_ context.Context, name string) (*entity.PaymentMethod, error) {
	for _, pm := range r.s.paymentMethods {
		if strings.EqualFold(pm.Name, name) {
			return ptr(pm), nil
		}
	}
	return nil, nil
}

func (r paymentMethodRepo) List(_ context.Context) ([]*entity.PaymentMethod, error) {
	out := make([]*entity.PaymentMethod, 0, len(r.s.paymentMethods))
	for _, pm := range r.s.paymentMethods {
		out = append(out, ptr(pm))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
