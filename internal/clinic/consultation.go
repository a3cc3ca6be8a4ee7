package clinic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/domain/events"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/multistep"
)

// RecordConsultation registra la consulta completa: evento principal,
// diagnósticos, cirugías y vacunas, todos con el mismo timestamp. Si hay
// turno asociado lo marca ATTENDED al final.
//
// Todo se valida antes de la primera escritura.
func (s *Store) RecordConsultation(ctx context.Context, in events.ConsultationInput) (events.ConsultationResult, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return events.ConsultationResult{}, apperr.Invalid("pet_id is required")
	}
	if in.Date.IsZero() {
		return events.ConsultationResult{}, apperr.Invalid("date is required")
	}
	if err := s.Pets.Exists(ctx, petID); err != nil {
		return events.ConsultationResult{}, err
	}

	apptID := strings.TrimSpace(in.AppointmentID)
	if apptID != "" {
		if err := s.Appointments.CheckAttendable(ctx, apptID, petID); err != nil {
			return events.ConsultationResult{}, err
		}
	}
	for _, d := range in.Diseases {
		if _, err := s.Catalog.Name(ctx, catalog.KindDisease, d.DiseaseID); err != nil {
			return events.ConsultationResult{}, err
		}
	}
	for _, sg := range in.Surgeries {
		if _, err := s.Catalog.Name(ctx, catalog.KindSurgery, sg.SurgeryID); err != nil {
			return events.ConsultationResult{}, err
		}
		if sg.Cost != nil && sg.Cost.IsNegative() {
			return events.ConsultationResult{}, apperr.Invalid("surgery cost must be >= 0")
		}
	}
	for _, v := range in.Vaccinations {
		if strings.TrimSpace(v.VaccineName) == "" {
			return events.ConsultationResult{}, apperr.Invalid("vaccine name is required")
		}
	}

	desc := strings.TrimSpace(in.Description)
	if desc == "" && len(in.Attachments) > 0 {
		desc = fmt.Sprintf("Consulta con %d archivo(s) adjunto(s).", len(in.Attachments))
	}
	if desc == "" && len(in.Diseases) == 0 && len(in.Surgeries) == 0 && len(in.Vaccinations) == 0 && apptID == "" {
		return events.ConsultationResult{}, apperr.Invalid("consultation is empty")
	}

	at := s.consultationTime(in.Date, in.At)

	var res events.ConsultationResult
	op := multistep.New("consultation.record")

	if desc != "" {
		if err := op.Step(ctx, "insert_consultation_event", func(ctx context.Context) error {
			e, err := s.History.AddEvent(ctx, events.AddInput{
				PetID:       petID,
				Type:        events.EventTypeConsultation,
				Description: desc,
				ReferenceID: apptID,
				At:          &at,
				Attachments: in.Attachments,
			})
			if err == nil {
				res.Events = append(res.Events, e)
			}
			return err
		}); err != nil {
			return events.ConsultationResult{}, multistep.Observe(s.log, err)
		}
	}

	for _, d := range in.Diseases {
		if err := op.Step(ctx, "record_disease:"+d.DiseaseID, func(ctx context.Context) error {
			rec, e, err := s.History.RecordDisease(ctx, events.DiseaseInput{
				PetID: petID, DiseaseID: d.DiseaseID, Date: in.Date, Notes: d.Notes, At: &at,
			})
			if err == nil {
				res.Diseases = append(res.Diseases, rec)
				res.Events = append(res.Events, e)
			}
			return err
		}); err != nil {
			return events.ConsultationResult{}, multistep.Observe(s.log, err)
		}
	}

	for _, sg := range in.Surgeries {
		if err := op.Step(ctx, "record_surgery:"+sg.SurgeryID, func(ctx context.Context) error {
			rec, e, err := s.History.RecordSurgery(ctx, events.SurgeryInput{
				PetID: petID, SurgeryID: sg.SurgeryID, Date: in.Date, Notes: sg.Notes, Cost: sg.Cost, At: &at,
			})
			if err == nil {
				res.Surgeries = append(res.Surgeries, rec)
				res.Events = append(res.Events, e)
			}
			return err
		}); err != nil {
			return events.ConsultationResult{}, multistep.Observe(s.log, err)
		}
	}

	for i, v := range in.Vaccinations {
		notes := strings.TrimSpace(v.Notes)
		if notes == "" {
			notes = "N/A"
		}
		if err := op.Step(ctx, fmt.Sprintf("insert_vaccination_event:%d", i), func(ctx context.Context) error {
			e, err := s.History.AddEvent(ctx, events.AddInput{
				PetID:       petID,
				Type:        events.EventTypeVaccination,
				Description: fmt.Sprintf("Vacuna: %s. Observaciones: %s", strings.TrimSpace(v.VaccineName), notes),
				At:          &at,
			})
			if err == nil {
				res.Events = append(res.Events, e)
			}
			return err
		}); err != nil {
			return events.ConsultationResult{}, multistep.Observe(s.log, err)
		}
	}

	if apptID != "" {
		if err := op.Step(ctx, "mark_appointment_attended", func(ctx context.Context) error {
			_, err := s.Appointments.Attend(ctx, apptID)
			return err
		}); err != nil {
			return events.ConsultationResult{}, multistep.Observe(s.log, err)
		}
	}

	s.log.Info("consultation recorded", map[string]any{
		"pet_id":         petID,
		"appointment_id": apptID,
		"events":         len(res.Events),
	})
	return res, nil
}

// consultationTime: at si viene; si no, la fecha de la consulta con la hora actual.
func (s *Store) consultationTime(date time.Time, at *time.Time) time.Time {
	if at != nil && !at.IsZero() {
		return *at
	}
	now := s.now()
	return time.Date(date.Year(), date.Month(), date.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
}
