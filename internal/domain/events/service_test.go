package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/multistep"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	events  *fakeEvents
	records *fakeRecords
}

func newFixture() *fixture {
	f := &fixture{events: newFakeEvents(), records: &fakeRecords{}}
	f.svc = NewService(f.events, f.records, fakePets{"p1": true, "p2": true}, fakeNames{
		"diseases/d1":  "Parvovirus",
		"surgeries/s1": "Castración",
	})
	f.svc.now = func() time.Time { return time.Date(2024, 3, 10, 14, 45, 0, 0, time.UTC) }
	return f
}

func TestAddEvent_DefaultsToNow(t *testing.T) {
	f := newFixture()

	e, err := f.svc.AddEvent(context.Background(), AddInput{
		PetID:       "p1",
		Type:        EventTypeTreatment,
		Description: "  Antiparasitario  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Antiparasitario", e.Description)
	assert.Equal(t, f.svc.now(), e.OccurredAt)
	assert.Nil(t, e.ReferenceID)
	assert.Len(t, f.events.byID, 1)
}

func TestAddEvent_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AddEvent(ctx, AddInput{PetID: "p1", Type: "GROOMING", Description: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.AddEvent(ctx, AddInput{PetID: "p1", Type: EventTypeConsultation, Description: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.AddEvent(ctx, AddInput{PetID: "ghost", Type: EventTypeConsultation, Description: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Empty(t, f.events.byID)
}

func TestAddEvent_AttachmentSizeLimit(t *testing.T) {
	f := newFixture()
	f.svc.SetMaxAttachmentBytes(4)
	ctx := context.Background()

	_, err := f.svc.AddEvent(ctx, AddInput{
		PetID: "p1", Type: EventTypeConsultation, Description: "Rx",
		Attachments: []AttachmentInput{{Name: "rx.png", Data: "abcdef"}},
	})
	require.ErrorIs(t, err, apperr.ErrValidation)

	e, err := f.svc.AddEvent(ctx, AddInput{
		PetID: "p1", Type: EventTypeConsultation, Description: "Rx",
		Attachments: []AttachmentInput{{Name: "rx.png", MimeType: "image/png", Data: "abcd"}},
	})
	require.NoError(t, err)
	require.Len(t, e.Attachments, 1)
	assert.EqualValues(t, 4, e.Attachments[0].Size)
	assert.NotEmpty(t, e.Attachments[0].ID)
}

func TestAddEvent_AttachmentSizeIsMeasuredNotDeclared(t *testing.T) {
	f := newFixture()
	f.svc.SetMaxAttachmentBytes(10)
	ctx := context.Background()

	big := strings.Repeat("A", 1000)
	_, err := f.svc.AddEvent(ctx, AddInput{
		PetID: "p1", Type: EventTypeConsultation, Description: "Rx",
		Attachments: []AttachmentInput{{Name: "a.pdf", Data: big, Size: 1}},
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, f.events.byID)

	e, err := f.svc.AddEvent(ctx, AddInput{
		PetID: "p1", Type: EventTypeConsultation, Description: "Rx",
		Attachments: []AttachmentInput{{Name: "a.pdf", Data: "abcdef", Size: 9999}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 6, e.Attachments[0].Size)
}

func TestUpdateAndDeleteEvent_ScopedToPet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	e, err := f.svc.AddEvent(ctx, AddInput{PetID: "p1", Type: EventTypeConsultation, Description: "Control"})
	require.NoError(t, err)

	desc := "Control anual"
	_, err = f.svc.UpdateEvent(ctx, "p2", e.ID, UpdateInput{Description: &desc})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	updated, err := f.svc.UpdateEvent(ctx, "p1", e.ID, UpdateInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Control anual", updated.Description)

	assert.ErrorIs(t, f.svc.DeleteEvent(ctx, "p2", e.ID), apperr.ErrNotFound)
	require.NoError(t, f.svc.DeleteEvent(ctx, "p1", e.ID))
	assert.Empty(t, f.events.byID)
}

func TestRecordDisease_CreatesRecordAndReferencingEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	d, e, err := f.svc.RecordDisease(ctx, DiseaseInput{
		PetID:     "p1",
		DiseaseID: "d1",
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Notes:     "Vómitos",
	})
	require.NoError(t, err)

	require.Len(t, f.records.diseases, 1)
	assert.Equal(t, d.ID, f.records.diseases[0].ID)

	var referencing []Event
	for _, ev := range f.events.byID {
		if ev.ReferenceID != nil && *ev.ReferenceID == d.ID {
			referencing = append(referencing, ev)
		}
	}
	require.Len(t, referencing, 1)
	assert.Equal(t, e.ID, referencing[0].ID)
	assert.Equal(t, EventTypeDiseaseRegistered, e.Type)
	assert.Equal(t, "Diagnóstico: Parvovirus. Observaciones: Vómitos", e.Description)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 45, 0, 0, time.UTC), e.OccurredAt)
}

func TestRecordDisease_UnknownDiseaseWritesNothing(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.RecordDisease(context.Background(), DiseaseInput{
		PetID: "p1", DiseaseID: "nope", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, f.records.diseases)
	assert.Empty(t, f.events.byID)
}

func TestRecordDisease_EventFailureIsPartial(t *testing.T) {
	f := newFixture()
	f.events.createErr = errBoom

	_, _, err := f.svc.RecordDisease(context.Background(), DiseaseInput{
		PetID: "p1", DiseaseID: "d1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, apperr.ErrPartialFailure)

	var pf *multistep.PartialFailureError
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, "pet_disease.record", pf.Op)
	assert.Equal(t, []string{"insert_pet_disease"}, pf.Completed)
	assert.Equal(t, "insert_history_event", pf.Failed)
	assert.Len(t, f.records.diseases, 1)
}

func TestRecordSurgery_CostSuffix(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	cost := decimal.RequireFromString("1500")
	s, e, err := f.svc.RecordSurgery(ctx, SurgeryInput{PetID: "p1", SurgeryID: "s1", Date: date, Notes: "Sin complicaciones", Cost: &cost})
	require.NoError(t, err)
	assert.Equal(t, "Cirugía Realizada: Castración. Observaciones: Sin complicaciones. Costo: $1500.00", e.Description)
	assert.Equal(t, EventTypeSurgery, e.Type)
	require.NotNil(t, e.ReferenceID)
	assert.Equal(t, s.ID, *e.ReferenceID)

	zero := decimal.Zero
	_, e, err = f.svc.RecordSurgery(ctx, SurgeryInput{PetID: "p1", SurgeryID: "s1", Date: date, Notes: "Control", Cost: &zero})
	require.NoError(t, err)
	assert.False(t, strings.Contains(e.Description, "Costo"))

	neg := decimal.RequireFromString("-1")
	_, _, err = f.svc.RecordSurgery(ctx, SurgeryInput{PetID: "p1", SurgeryID: "s1", Date: date, Cost: &neg})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRecordSurgery_ExplicitTimestamp(t *testing.T) {
	f := newFixture()
	at := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	_, e, err := f.svc.RecordSurgery(context.Background(), SurgeryInput{
		PetID: "p1", SurgeryID: "s1", Date: at, At: &at,
	})
	require.NoError(t, err)
	assert.Equal(t, at, e.OccurredAt)
}

func TestDeleteByPet_RemovesHistoryAndRecords(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := f.svc.RecordDisease(ctx, DiseaseInput{PetID: "p1", DiseaseID: "d1", Date: date})
	require.NoError(t, err)
	_, _, err = f.svc.RecordSurgery(ctx, SurgeryInput{PetID: "p2", SurgeryID: "s1", Date: date})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteByPet(ctx, "p1"))

	assert.Empty(t, f.records.diseases)
	assert.Len(t, f.records.surgeries, 1)
	for _, e := range f.events.byID {
		assert.Equal(t, "p2", e.PetID)
	}
}

func TestListByPet_RejectsUnknownType(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ListByPet(context.Background(), "p1", ListFilter{Types: []EventType{"NOTE"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
