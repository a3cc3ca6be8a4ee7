package sales

import (
	"context"
	"time"
)

type ListFilter struct {
	From     *time.Time // inclusive
	To       *time.Time // exclusive
	ClientID string
	Status   Status
}

type Repository interface {
	// Create persiste la venta con sus líneas.
	Create(ctx context.Context, s Sale) error
	GetByID(ctx context.Context, id string) (Sale, error)
	List(ctx context.Context, filter ListFilter) ([]Sale, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	Delete(ctx context.Context, id string) error

	// ClearClient / ClearPet ponen la referencia en NULL y devuelven cuántas ventas tocaron.
	ClearClient(ctx context.Context, clientID string, at time.Time) (int, error)
	ClearPet(ctx context.Context, petID string, at time.Time) (int, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p Payment) error
	ListBySale(ctx context.Context, saleID string) ([]Payment, error)
	// ListBetween devuelve pagos con from <= PaidAt < to.
	ListBetween(ctx context.Context, from, to time.Time) ([]Payment, error)
}
