package memory

import (
	"context"

	"vetadmin/internal/domain/pets"
)

type petRepo struct {
	t *table[pets.Pet]
}

func NewPetRepo() pets.Repository {
	return &petRepo{t: newTable("pet", func(p pets.Pet) string { return p.ID }, clonePet)}
}

func clonePet(p pets.Pet) pets.Pet {
	if p.BirthDate != nil {
		bd := *p.BirthDate
		p.BirthDate = &bd
	}
	return p
}

func (r *petRepo) Create(_ context.Context, p pets.Pet) error { return r.t.insert(p) }
func (r *petRepo) Update(_ context.Context, p pets.Pet) error { return r.t.update(p) }
func (r *petRepo) Delete(_ context.Context, id string) error  { return r.t.remove(id) }

func (r *petRepo) GetByID(_ context.Context, id string) (pets.Pet, error) {
	return r.t.get(id)
}

func (r *petRepo) List(_ context.Context) ([]pets.Pet, error) {
	return r.t.filter(nil), nil
}

func (r *petRepo) ListByClient(_ context.Context, clientID string) ([]pets.Pet, error) {
	return r.t.filter(func(p pets.Pet) bool { return p.ClientID == clientID }), nil
}

