package products

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)

	// AdjustStock suma delta (negativo para descontar) en una sola escritura.
	// Si el resultado quedaría negativo no modifica nada y devuelve
	// *apperr.InsufficientStockError.
	AdjustStock(ctx context.Context, id string, delta int, at time.Time) (Product, error)
}
