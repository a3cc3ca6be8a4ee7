package expenses

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Expense) error
	Update(ctx context.Context, e Expense) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context, filter ListFilter) ([]Expense, error)
}

// ListFilter sobre fechas civiles, ambos extremos inclusivos.
type ListFilter struct {
	From     *time.Time
	To       *time.Time
	Category Category
}
