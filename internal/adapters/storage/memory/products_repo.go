package memory

import (
	"context"
	"time"

	"vetadmin/internal/domain/products"
	"vetadmin/internal/platform/apperr"
)

type productRepo struct {
	t *table[products.Product]
}

func NewProductRepo() products.Repository {
	return &productRepo{t: newTable("product", func(p products.Product) string { return p.ID }, nil)}
}

func (r *productRepo) Create(_ context.Context, p products.Product) error { return r.t.insert(p) }
func (r *productRepo) Delete(_ context.Context, id string) error          { return r.t.remove(id) }

// Update no toca el stock: solo AdjustStock lo modifica.
func (r *productRepo) Update(_ context.Context, p products.Product) error {
	_, err := r.t.mutate(p.ID, func(cur *products.Product) error {
		stock := cur.Stock
		*cur = p
		cur.Stock = stock
		return nil
	})
	return err
}

func (r *productRepo) GetByID(_ context.Context, id string) (products.Product, error) {
	return r.t.get(id)
}

func (r *productRepo) List(_ context.Context) ([]products.Product, error) {
	return r.t.filter(nil), nil
}

func (r *productRepo) AdjustStock(_ context.Context, id string, delta int, at time.Time) (products.Product, error) {
	return r.t.mutate(id, func(p *products.Product) error {
		if p.Stock+delta < 0 {
			return &apperr.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   -delta,
				Available:   p.Stock,
			}
		}
		p.Stock += delta
		p.UpdatedAt = at
		return nil
	})
}
