package events

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Event, error)
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Event, error)
	DeleteByPet(ctx context.Context, petID string) (int, error)
}

// RecordRepository guarda los registros de enfermedad y cirugía por mascota.
type RecordRepository interface {
	CreateDisease(ctx context.Context, d PetDisease) error
	ListDiseasesByPet(ctx context.Context, petID string) ([]PetDisease, error)
	DeleteDiseasesByPet(ctx context.Context, petID string) (int, error)

	CreateSurgery(ctx context.Context, s PetSurgery) error
	ListSurgeriesByPet(ctx context.Context, petID string) ([]PetSurgery, error)
	DeleteSurgeriesByPet(ctx context.Context, petID string) (int, error)
}

// ListFilter: Limit <= 0 devuelve todo. El orden es siempre OccurredAt desc.
type ListFilter struct {
	Types []EventType
	From  *time.Time
	To    *time.Time
	Query string
	Limit int
}
