package events

import (
	"context"
	"errors"
	"sort"
	"strings"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"
)

type fakeEvents struct {
	byID      map[string]Event
	createErr error
}

func newFakeEvents() *fakeEvents { return &fakeEvents{byID: map[string]Event{}} }

func (f *fakeEvents) Create(_ context.Context, e Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEvents) Update(_ context.Context, e Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return apperr.NotFound("history event", e.ID)
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("history event", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id string) (Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return Event{}, apperr.NotFound("history event", id)
	}
	return e, nil
}

func (f *fakeEvents) ListByPet(_ context.Context, petID string, filter ListFilter) ([]Event, error) {
	out := []Event{}
	for _, e := range f.byID {
		if e.PetID != petID {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeEvents) DeleteByPet(_ context.Context, petID string) (int, error) {
	n := 0
	for id, e := range f.byID {
		if e.PetID == petID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeRecords struct {
	diseases  []PetDisease
	surgeries []PetSurgery
}

func (f *fakeRecords) CreateDisease(_ context.Context, d PetDisease) error {
	f.diseases = append(f.diseases, d)
	return nil
}

func (f *fakeRecords) ListDiseasesByPet(_ context.Context, petID string) ([]PetDisease, error) {
	out := []PetDisease{}
	for _, d := range f.diseases {
		if d.PetID == petID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRecords) DeleteDiseasesByPet(_ context.Context, petID string) (int, error) {
	kept := f.diseases[:0]
	for _, d := range f.diseases {
		if d.PetID != petID {
			kept = append(kept, d)
		}
	}
	n := len(f.diseases) - len(kept)
	f.diseases = kept
	return n, nil
}

func (f *fakeRecords) CreateSurgery(_ context.Context, s PetSurgery) error {
	f.surgeries = append(f.surgeries, s)
	return nil
}

func (f *fakeRecords) ListSurgeriesByPet(_ context.Context, petID string) ([]PetSurgery, error) {
	out := []PetSurgery{}
	for _, s := range f.surgeries {
		if s.PetID == petID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRecords) DeleteSurgeriesByPet(_ context.Context, petID string) (int, error) {
	kept := f.surgeries[:0]
	for _, s := range f.surgeries {
		if s.PetID != petID {
			kept = append(kept, s)
		}
	}
	n := len(f.surgeries) - len(kept)
	f.surgeries = kept
	return n, nil
}

type fakePets map[string]bool

func (f fakePets) Exists(_ context.Context, id string) error {
	if !f[id] {
		return apperr.NotFound("pet", id)
	}
	return nil
}

type fakeNames map[string]string

func (f fakeNames) Name(_ context.Context, kind catalog.Kind, id string) (string, error) {
	n, ok := f[string(kind)+"/"+id]
	if !ok {
		return "", apperr.NotFound(string(kind), id)
	}
	return n, nil
}

var errBoom = errors.New("boom")
