package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vetadmin/internal/domain/products"
	"vetadmin/internal/platform/apperr"
)

type ProductsRepo struct {
	db *sql.DB
}

func NewProductsRepo(db *sql.DB) *ProductsRepo {
	return &ProductsRepo{db: db}
}

const productColumns = `id, name, stock, unit_price, category, category_id, created_at, updated_at`

func (r *ProductsRepo) Create(ctx context.Context, p products.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, p.ID, p.Name, p.Stock, p.UnitPrice, p.Category, p.CategoryID, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update no toca stock.
func (r *ProductsRepo) Update(ctx context.Context, p products.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, unit_price = $3, category = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`, p.ID, p.Name, p.UnitPrice, p.Category, p.CategoryID, p.UpdatedAt)
	return expectOne(res, err, "product", p.ID)
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return expectOne(res, err, "product", id)
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (products.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return products.Product{}, notFound(err, "product", id)
	}
	return p, nil
}

func (r *ProductsRepo) List(ctx context.Context) ([]products.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]products.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdjustStock es un único UPDATE condicionado: si el stock no alcanza no
// cambia ninguna fila y se relee el producto para armar el error.
func (r *ProductsRepo) AdjustStock(ctx context.Context, id string, delta int, at time.Time) (products.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING `+productColumns,
		id, delta, at,
	)
	p, err := scanProduct(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return products.Product{}, err
	}

	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return products.Product{}, err
	}
	return products.Product{}, &apperr.InsufficientStockError{
		ProductID:   cur.ID,
		ProductName: cur.Name,
		Requested:   -delta,
		Available:   cur.Stock,
	}
}

func scanProduct(s rowScanner) (products.Product, error) {
	var p products.Product
	err := s.Scan(&p.ID, &p.Name, &p.Stock, &p.UnitPrice, &p.Category, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
