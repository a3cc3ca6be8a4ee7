package memory

import (
	"context"

	"vetadmin/internal/domain/clients"
)

type clientRepo struct {
	t *table[clients.Client]
}

func NewClientRepo() clients.Repository {
	return &clientRepo{t: newTable("client", func(c clients.Client) string { return c.ID }, nil)}
}

func (r *clientRepo) Create(_ context.Context, c clients.Client) error { return r.t.insert(c) }
func (r *clientRepo) Update(_ context.Context, c clients.Client) error { return r.t.update(c) }
func (r *clientRepo) Delete(_ context.Context, id string) error        { return r.t.remove(id) }

func (r *clientRepo) GetByID(_ context.Context, id string) (clients.Client, error) {
	return r.t.get(id)
}

func (r *clientRepo) List(_ context.Context) ([]clients.Client, error) {
	return r.t.filter(nil), nil
}
