package catalog

import "context"

type Repository interface {
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	Delete(ctx context.Context, kind Kind, id string) error
	GetByID(ctx context.Context, kind Kind, id string) (Item, error)
	List(ctx context.Context, kind Kind) ([]Item, error)
}
