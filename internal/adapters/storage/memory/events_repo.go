package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"vetadmin/internal/domain/events"
)

type eventRepo struct {
	t *table[events.Event]
}

func NewEventRepo() events.Repository {
	return &eventRepo{t: newTable("history event", func(e events.Event) string { return e.ID }, cloneEvent)}
}

func cloneEvent(e events.Event) events.Event {
	e.Attachments = append([]events.Attachment(nil), e.Attachments...)
	if e.ReferenceID != nil {
		v := *e.ReferenceID
		e.ReferenceID = &v
	}
	return e
}

func (r *eventRepo) Create(_ context.Context, e events.Event) error { return r.t.insert(e) }
func (r *eventRepo) Update(_ context.Context, e events.Event) error { return r.t.update(e) }
func (r *eventRepo) Delete(_ context.Context, id string) error      { return r.t.remove(id) }

func (r *eventRepo) GetByID(_ context.Context, id string) (events.Event, error) {
	return r.t.get(id)
}

func (r *eventRepo) ListByPet(_ context.Context, petID string, f events.ListFilter) ([]events.Event, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := r.t.filter(func(e events.Event) bool {
		if e.PetID != petID {
			return false
		}
		if len(f.Types) > 0 && !slices.Contains(f.Types, e.Type) {
			return false
		}
		if f.From != nil && e.OccurredAt.Before(*f.From) {
			return false
		}
		if f.To != nil && e.OccurredAt.After(*f.To) {
			return false
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Description), q) {
			return false
		}
		return true
	})

	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *eventRepo) DeleteByPet(_ context.Context, petID string) (int, error) {
	return r.t.removeWhere(func(e events.Event) bool { return e.PetID == petID }), nil
}

type recordRepo struct {
	diseases  *table[events.PetDisease]
	surgeries *table[events.PetSurgery]
}

func NewRecordRepo() events.RecordRepository {
	return &recordRepo{
		diseases: newTable("pet disease", func(d events.PetDisease) string { return d.ID }, nil),
		surgeries: newTable("pet surgery", func(s events.PetSurgery) string { return s.ID }, func(s events.PetSurgery) events.PetSurgery {
			if s.Cost != nil {
				c := *s.Cost
				s.Cost = &c
			}
			return s
		}),
	}
}

func (r *recordRepo) CreateDisease(_ context.Context, d events.PetDisease) error {
	return r.diseases.insert(d)
}

func (r *recordRepo) ListDiseasesByPet(_ context.Context, petID string) ([]events.PetDisease, error) {
	out := r.diseases.filter(func(d events.PetDisease) bool { return d.PetID == petID })
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *recordRepo) DeleteDiseasesByPet(_ context.Context, petID string) (int, error) {
	return r.diseases.removeWhere(func(d events.PetDisease) bool { return d.PetID == petID }), nil
}

func (r *recordRepo) CreateSurgery(_ context.Context, s events.PetSurgery) error {
	return r.surgeries.insert(s)
}

func (r *recordRepo) ListSurgeriesByPet(_ context.Context, petID string) ([]events.PetSurgery, error) {
	out := r.surgeries.filter(func(s events.PetSurgery) bool { return s.PetID == petID })
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *recordRepo) DeleteSurgeriesByPet(_ context.Context, petID string) (int, error) {
	return r.surgeries.removeWhere(func(s events.PetSurgery) bool { return s.PetID == petID }), nil
}
