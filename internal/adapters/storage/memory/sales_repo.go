package memory

import (
	"context"
	"sort"
	"time"

	"vetadmin/internal/domain/sales"
)

type saleRepo struct {
	t *table[sales.Sale]
}

func NewSaleRepo() sales.Repository {
	return &saleRepo{t: newTable("sale", func(s sales.Sale) string { return s.ID }, cloneSale)}
}

func cloneSale(s sales.Sale) sales.Sale {
	s.Lines = append([]sales.Line(nil), s.Lines...)
	if s.ClientID != nil {
		v := *s.ClientID
		s.ClientID = &v
	}
	if s.PetID != nil {
		v := *s.PetID
		s.PetID = &v
	}
	return s
}

func (r *saleRepo) Create(_ context.Context, s sales.Sale) error { return r.t.insert(s) }
func (r *saleRepo) Delete(_ context.Context, id string) error    { return r.t.remove(id) }

func (r *saleRepo) GetByID(_ context.Context, id string) (sales.Sale, error) {
	return r.t.get(id)
}

// List ordena de la venta más reciente a la más antigua.
func (r *saleRepo) List(_ context.Context, f sales.ListFilter) ([]sales.Sale, error) {
	out := r.t.filter(func(s sales.Sale) bool {
		if f.From != nil && s.SoldAt.Before(*f.From) {
			return false
		}
		if f.To != nil && !s.SoldAt.Before(*f.To) {
			return false
		}
		if f.ClientID != "" && (s.ClientID == nil || *s.ClientID != f.ClientID) {
			return false
		}
		if f.Status != "" && s.Status != f.Status {
			return false
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.After(out[j].SoldAt) })
	return out, nil
}

func (r *saleRepo) UpdateStatus(_ context.Context, id string, status sales.Status, at time.Time) error {
	_, err := r.t.mutate(id, func(s *sales.Sale) error {
		s.Status = status
		s.UpdatedAt = at
		return nil
	})
	return err
}

func (r *saleRepo) ClearClient(_ context.Context, clientID string, at time.Time) (int, error) {
	return r.t.mutateWhere(
		func(s sales.Sale) bool { return s.ClientID != nil && *s.ClientID == clientID },
		func(s *sales.Sale) { s.ClientID = nil; s.UpdatedAt = at },
	), nil
}

func (r *saleRepo) ClearPet(_ context.Context, petID string, at time.Time) (int, error) {
	return r.t.mutateWhere(
		func(s sales.Sale) bool { return s.PetID != nil && *s.PetID == petID },
		func(s *sales.Sale) { s.PetID = nil; s.UpdatedAt = at },
	), nil
}

type paymentRepo struct {
	t *table[sales.Payment]
}

func NewPaymentRepo() sales.PaymentRepository {
	return &paymentRepo{t: newTable("payment", func(p sales.Payment) string { return p.ID }, nil)}
}

func (r *paymentRepo) Create(_ context.Context, p sales.Payment) error { return r.t.insert(p) }

func (r *paymentRepo) ListBySale(_ context.Context, saleID string) ([]sales.Payment, error) {
	return byPaidAt(r.t.filter(func(p sales.Payment) bool { return p.SaleID == saleID })), nil
}

func (r *paymentRepo) ListBetween(_ context.Context, from, to time.Time) ([]sales.Payment, error) {
	return byPaidAt(r.t.filter(func(p sales.Payment) bool {
		return !p.PaidAt.Before(from) && p.PaidAt.Before(to)
	})), nil
}

func byPaidAt(ps []sales.Payment) []sales.Payment {
	sort.Slice(ps, func(i, j int) bool { return ps[i].PaidAt.Before(ps[j].PaidAt) })
	return ps
}
