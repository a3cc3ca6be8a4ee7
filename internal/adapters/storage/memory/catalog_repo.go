package memory

import (
	"context"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"
)

// catalogRepo guarda una tabla por tipo de catálogo.
type catalogRepo struct {
	byKind map[catalog.Kind]*table[catalog.Item]
}

func NewCatalogRepo() catalog.Repository {
	r := &catalogRepo{byKind: make(map[catalog.Kind]*table[catalog.Item], len(catalog.Kinds))}
	for _, k := range catalog.Kinds {
		r.byKind[k] = newTable(string(k), func(it catalog.Item) string { return it.ID }, cloneItem)
	}
	return r
}

func cloneItem(it catalog.Item) catalog.Item {
	if it.EstimatedCost != nil {
		c := *it.EstimatedCost
		it.EstimatedCost = &c
	}
	return it
}

func (r *catalogRepo) table(kind catalog.Kind) (*table[catalog.Item], error) {
	t, ok := r.byKind[kind]
	if !ok {
		return nil, apperr.Invalid("unknown catalog " + string(kind))
	}
	return t, nil
}

func (r *catalogRepo) Create(_ context.Context, it catalog.Item) error {
	t, err := r.table(it.Kind)
	if err != nil {
		return err
	}
	return t.insert(it)
}

func (r *catalogRepo) Update(_ context.Context, it catalog.Item) error {
	t, err := r.table(it.Kind)
	if err != nil {
		return err
	}
	return t.update(it)
}

func (r *catalogRepo) Delete(_ context.Context, kind catalog.Kind, id string) error {
	t, err := r.table(kind)
	if err != nil {
		return err
	}
	return t.remove(id)
}

func (r *catalogRepo) GetByID(_ context.Context, kind catalog.Kind, id string) (catalog.Item, error) {
	t, err := r.table(kind)
	if err != nil {
		return catalog.Item{}, err
	}
	return t.get(id)
}

func (r *catalogRepo) List(_ context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	t, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	return t.filter(nil), nil
}
