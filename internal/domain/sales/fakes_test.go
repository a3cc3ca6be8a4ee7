package sales

import (
	"context"
	"errors"
	"sort"
	"time"

	"vetadmin/internal/domain/products"
	"vetadmin/internal/platform/apperr"
)

type fakeSales struct {
	byID map[string]Sale
}

func newFakeSales() *fakeSales { return &fakeSales{byID: map[string]Sale{}} }

func (f *fakeSales) Create(_ context.Context, s Sale) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSales) GetByID(_ context.Context, id string) (Sale, error) {
	s, ok := f.byID[id]
	if !ok {
		return Sale{}, apperr.NotFound("sale", id)
	}
	return s, nil
}

func (f *fakeSales) List(_ context.Context, filter ListFilter) ([]Sale, error) {
	out := []Sale{}
	for _, s := range f.byID {
		if filter.From != nil && s.SoldAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !s.SoldAt.Before(*filter.To) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.After(out[j].SoldAt) })
	return out, nil
}

func (f *fakeSales) UpdateStatus(_ context.Context, id string, st Status, at time.Time) error {
	s, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("sale", id)
	}
	s.Status = st
	s.UpdatedAt = at
	f.byID[id] = s
	return nil
}

func (f *fakeSales) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeSales) ClearClient(_ context.Context, clientID string, at time.Time) (int, error) {
	n := 0
	for id, s := range f.byID {
		if s.ClientID != nil && *s.ClientID == clientID {
			s.ClientID = nil
			s.UpdatedAt = at
			f.byID[id] = s
			n++
		}
	}
	return n, nil
}

func (f *fakeSales) ClearPet(_ context.Context, petID string, at time.Time) (int, error) {
	n := 0
	for id, s := range f.byID {
		if s.PetID != nil && *s.PetID == petID {
			s.PetID = nil
			s.UpdatedAt = at
			f.byID[id] = s
			n++
		}
	}
	return n, nil
}

type fakePayments struct {
	items   []Payment
	listErr error
}

func (f *fakePayments) Create(_ context.Context, p Payment) error {
	f.items = append(f.items, p)
	return nil
}

func (f *fakePayments) ListBySale(_ context.Context, saleID string) ([]Payment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []Payment{}
	for _, p := range f.items {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) ListBetween(_ context.Context, from, to time.Time) ([]Payment, error) {
	out := []Payment{}
	for _, p := range f.items {
		if !p.PaidAt.Before(from) && p.PaidAt.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeRefs map[string]bool

func (f fakeRefs) Exists(_ context.Context, id string) error {
	if !f[id] {
		return apperr.NotFound("ref", id)
	}
	return nil
}

// fakeInventory imita products.Service sobre un map; failOn fuerza error al descontar.
type fakeInventory struct {
	byID   map[string]products.Product
	failOn string
}

func (f *fakeInventory) GetByID(_ context.Context, id string) (products.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return products.Product{}, apperr.NotFound("product", id)
	}
	return p, nil
}

func (f *fakeInventory) Decrement(_ context.Context, id string, qty int) error {
	if id == f.failOn {
		return errors.New("stock store unavailable")
	}
	p := f.byID[id]
	if p.Stock < qty {
		return &apperr.InsufficientStockError{ProductID: id, Requested: qty, Available: p.Stock}
	}
	p.Stock -= qty
	f.byID[id] = p
	return nil
}
