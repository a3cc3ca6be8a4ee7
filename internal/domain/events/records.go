package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/money"
	"vetadmin/internal/platform/multistep"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiseaseInput struct {
	PetID     string
	DiseaseID string
	Date      time.Time // fecha civil del diagnóstico
	Notes     string
	At        *time.Time // timestamp del evento; default Date + hora actual
}

// RecordDisease guarda el diagnóstico y agrega a la historia un evento
// DISEASE_REGISTERED cuyo ReferenceID es el id del registro.
func (s *Service) RecordDisease(ctx context.Context, in DiseaseInput) (PetDisease, Event, error) {
	petID := strings.TrimSpace(in.PetID)
	diseaseID := strings.TrimSpace(in.DiseaseID)
	if petID == "" || diseaseID == "" {
		return PetDisease{}, Event{}, apperr.Invalid("pet_id and disease_id are required")
	}
	if in.Date.IsZero() {
		return PetDisease{}, Event{}, apperr.Invalid("date is required")
	}
	if err := s.pets.Exists(ctx, petID); err != nil {
		return PetDisease{}, Event{}, err
	}
	name, err := s.names.Name(ctx, catalog.KindDisease, diseaseID)
	if err != nil {
		return PetDisease{}, Event{}, err
	}

	now := s.now()
	notes := strings.TrimSpace(in.Notes)
	d := PetDisease{
		ID:        uuid.NewString(),
		PetID:     petID,
		DiseaseID: diseaseID,
		Date:      civilDate(in.Date),
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	op := multistep.New("pet_disease.record")
	if err := op.Step(ctx, "insert_pet_disease", func(ctx context.Context) error {
		return s.records.CreateDisease(ctx, d)
	}); err != nil {
		return PetDisease{}, Event{}, err
	}

	var ev Event
	if err := op.Step(ctx, "insert_history_event", func(ctx context.Context) error {
		var err error
		ev, err = s.AddEvent(ctx, AddInput{
			PetID:       petID,
			Type:        EventTypeDiseaseRegistered,
			Description: fmt.Sprintf("Diagnóstico: %s. Observaciones: %s", name, notes),
			ReferenceID: d.ID,
			At:          s.eventTime(in.Date, in.At),
		})
		return err
	}); err != nil {
		return PetDisease{}, Event{}, multistep.Observe(s.log, err)
	}

	return d, ev, nil
}

type SurgeryInput struct {
	PetID     string
	SurgeryID string
	Date      time.Time
	Notes     string
	Cost      *decimal.Decimal // costo final, opcional
	At        *time.Time
}

// RecordSurgery es el análogo de RecordDisease con un evento SURGERY.
func (s *Service) RecordSurgery(ctx context.Context, in SurgeryInput) (PetSurgery, Event, error) {
	petID := strings.TrimSpace(in.PetID)
	surgeryID := strings.TrimSpace(in.SurgeryID)
	if petID == "" || surgeryID == "" {
		return PetSurgery{}, Event{}, apperr.Invalid("pet_id and surgery_id are required")
	}
	if in.Date.IsZero() {
		return PetSurgery{}, Event{}, apperr.Invalid("date is required")
	}
	if in.Cost != nil && in.Cost.IsNegative() {
		return PetSurgery{}, Event{}, apperr.Invalid("cost must be >= 0")
	}
	if err := s.pets.Exists(ctx, petID); err != nil {
		return PetSurgery{}, Event{}, err
	}
	name, err := s.names.Name(ctx, catalog.KindSurgery, surgeryID)
	if err != nil {
		return PetSurgery{}, Event{}, err
	}

	var cost *decimal.Decimal
	if in.Cost != nil {
		c := money.Round(*in.Cost)
		cost = &c
	}

	now := s.now()
	notes := strings.TrimSpace(in.Notes)
	rec := PetSurgery{
		ID:        uuid.NewString(),
		PetID:     petID,
		SurgeryID: surgeryID,
		Date:      civilDate(in.Date),
		Notes:     notes,
		Cost:      cost,
		CreatedAt: now,
		UpdatedAt: now,
	}

	desc := fmt.Sprintf("Cirugía Realizada: %s. Observaciones: %s", name, notes)
	if cost != nil && cost.IsPositive() {
		desc += ". Costo: $" + money.Format(*cost)
	}

	op := multistep.New("pet_surgery.record")
	if err := op.Step(ctx, "insert_pet_surgery", func(ctx context.Context) error {
		return s.records.CreateSurgery(ctx, rec)
	}); err != nil {
		return PetSurgery{}, Event{}, err
	}

	var ev Event
	if err := op.Step(ctx, "insert_history_event", func(ctx context.Context) error {
		var err error
		ev, err = s.AddEvent(ctx, AddInput{
			PetID:       petID,
			Type:        EventTypeSurgery,
			Description: desc,
			ReferenceID: rec.ID,
			At:          s.eventTime(in.Date, in.At),
		})
		return err
	}); err != nil {
		return PetSurgery{}, Event{}, multistep.Observe(s.log, err)
	}

	return rec, ev, nil
}

func (s *Service) ListPetDiseases(ctx context.Context, petID string) ([]PetDisease, error) {
	if err := s.pets.Exists(ctx, petID); err != nil {
		return nil, err
	}
	return s.records.ListDiseasesByPet(ctx, strings.TrimSpace(petID))
}

func (s *Service) ListPetSurgeries(ctx context.Context, petID string) ([]PetSurgery, error) {
	if err := s.pets.Exists(ctx, petID); err != nil {
		return nil, err
	}
	return s.records.ListSurgeriesByPet(ctx, strings.TrimSpace(petID))
}

// eventTime: at si viene; si no, la fecha del registro con la hora actual.
func (s *Service) eventTime(date time.Time, at *time.Time) *time.Time {
	if at != nil && !at.IsZero() {
		return at
	}
	now := s.now()
	t := time.Date(date.Year(), date.Month(), date.Day(),
		now.Hour(), now.Minute(), 0, 0, now.Location())
	return &t
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
