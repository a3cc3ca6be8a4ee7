package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetadmin/internal/domain/events"
	"vetadmin/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]Appointment
}

func (f *fakeRepo) Create(_ context.Context, a Appointment) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeRepo) Update(_ context.Context, a Appointment) error {
	if _, ok := f.byID[a.ID]; !ok {
		return apperr.NotFound("appointment", a.ID)
	}
	f.byID[a.ID] = a
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("appointment", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return Appointment{}, apperr.NotFound("appointment", id)
	}
	return a, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]Appointment, error) {
	out := []Appointment{}
	for _, a := range f.byID {
		if filter.PetID != "" && a.PetID != filter.PetID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.From != nil && a.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !a.ScheduledAt.Before(*filter.To) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) DeleteByPet(_ context.Context, petID string) (int, error) {
	n := 0
	for id, a := range f.byID {
		if a.PetID == petID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) DeleteByClient(_ context.Context, clientID string) (int, error) {
	n := 0
	for id, a := range f.byID {
		if a.ClientID == clientID {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeClients map[string]bool

func (f fakeClients) Exists(_ context.Context, id string) error {
	if !f[id] {
		return apperr.NotFound("client", id)
	}
	return nil
}

type fakeOwners map[string]string

func (f fakeOwners) OwnerOf(_ context.Context, petID string) (string, error) {
	c, ok := f[petID]
	if !ok {
		return "", apperr.NotFound("pet", petID)
	}
	return c, nil
}

type fakeHistory struct {
	added []events.AddInput
	err   error
}

func (f *fakeHistory) AddEvent(_ context.Context, in events.AddInput) (events.Event, error) {
	if f.err != nil {
		return events.Event{}, f.err
	}
	f.added = append(f.added, in)
	return events.Event{ID: "ev-1", PetID: in.PetID, Type: in.Type, Description: in.Description}, nil
}

func newTestService() (*Service, *fakeRepo, *fakeHistory) {
	repo := &fakeRepo{byID: map[string]Appointment{}}
	hist := &fakeHistory{}
	svc := NewService(repo, fakeClients{"c1": true, "c2": true}, fakeOwners{"p1": "c1", "p2": "c2"}, hist)
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }
	return svc, repo, hist
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestCreate_PendingAndCombinesDateTime(t *testing.T) {
	svc, _, _ := newTestService()

	a, err := svc.Create(context.Background(), CreateInput{
		ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: "10:30", Reason: "Vacuna",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC), a.ScheduledAt)
}

func TestCreate_Validation(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p2", Date: day(2024, 1, 20), Time: "10:30", Reason: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation, "pet of another client")

	_, err = svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: "25:00", Reason: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{ClientID: "zz", PetID: "p1", Date: day(2024, 1, 20), Time: "10:00", Reason: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Empty(t, repo.byID)
}

func TestUpdate_OnlyWhilePending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: "10:30", Reason: "Control"})
	require.NoError(t, err)

	clock := "16:00"
	a, err = svc.Update(ctx, a.ID, UpdateInput{Time: &clock})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 20, 16, 0, 0, 0, time.UTC), a.ScheduledAt)

	_, err = svc.Cancel(ctx, a.ID)
	require.NoError(t, err)

	reason := "otro"
	_, err = svc.Update(ctx, a.ID, UpdateInput{Reason: &reason})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTransitions_OnlyFromPending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: "10:30", Reason: "Control"})
	require.NoError(t, err)

	a, err = svc.Attend(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAttended, a.Status)

	_, err = svc.Cancel(ctx, a.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, _, err = svc.MarkAbsent(ctx, a.ID)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMarkAbsent_AddsConsultationEvent(t *testing.T) {
	svc, repo, hist := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: "10:30", Reason: "Control anual"})
	require.NoError(t, err)

	got, ev, err := svc.MarkAbsent(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, got.Status)
	assert.Equal(t, StatusAbsent, repo.byID[a.ID].Status)
	assert.Equal(t, "ev-1", ev.ID)

	require.Len(t, hist.added, 1)
	in := hist.added[0]
	assert.Equal(t, events.EventTypeConsultation, in.Type)
	assert.Equal(t, "Paciente Ausente para el turno. Motivo original: Control anual", in.Description)
	assert.Equal(t, a.ID, in.ReferenceID)
	require.NotNil(t, in.At)
	assert.Equal(t, a.ScheduledAt, *in.At)
}

func TestMarkAbsent_HistoryFailureIsPartial(t *testing.T) {
	svc, repo, hist := newTestService()
	ctx := context.Background()
	hist.err = errors.New("db down")

	a, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: "10:30", Reason: "Control"})
	require.NoError(t, err)

	_, _, err = svc.MarkAbsent(ctx, a.ID)
	require.ErrorIs(t, err, apperr.ErrPartialFailure)
	assert.Equal(t, StatusAbsent, repo.byID[a.ID].Status)
}

func TestList_SortedByTimeThenStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	mk := func(clock string) Appointment {
		a, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: clock, Reason: "x"})
		require.NoError(t, err)
		return a
	}
	late := mk("11:00")
	cancelled := mk("09:00")
	pending := mk("09:00")
	_, err := svc.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	items, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, pending.ID, items[0].ID)
	assert.Equal(t, cancelled.ID, items[1].ID)
	assert.Equal(t, late.ID, items[2].ID)
}

func TestUpcoming_PendingFromToday(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 14), Time: "10:00", Reason: "ayer"})
	require.NoError(t, err)
	today, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 15), Time: "08:00", Reason: "hoy"})
	require.NoError(t, err)
	done, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 16), Time: "08:00", Reason: "mañana"})
	require.NoError(t, err)
	_, err = svc.Attend(ctx, done.ID)
	require.NoError(t, err)

	items, err := svc.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, today.ID, items[0].ID)
}

func TestCheckAttendable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{ClientID: "c1", PetID: "p1", Date: day(2024, 1, 20), Time: "10:30", Reason: "x"})
	require.NoError(t, err)

	assert.NoError(t, svc.CheckAttendable(ctx, a.ID, "p1"))
	assert.ErrorIs(t, svc.CheckAttendable(ctx, a.ID, "p2"), apperr.ErrValidation)
	assert.ErrorIs(t, svc.CheckAttendable(ctx, "missing", "p1"), apperr.ErrNotFound)
}
