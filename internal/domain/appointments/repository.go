package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
	DeleteByPet(ctx context.Context, petID string) (int, error)
	DeleteByClient(ctx context.Context, clientID string) (int, error)
}

// ListFilter: campos vacíos no filtran. From inclusivo, To exclusivo.
type ListFilter struct {
	ClientID string
	PetID    string
	Status   Status
	From     *time.Time
	To       *time.Time
}
