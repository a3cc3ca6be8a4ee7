package appointments

import (
	"context"
	"sort"
	"strings"
	"time"

	"vetadmin/internal/domain/events"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/logger"
	"vetadmin/internal/platform/multistep"

	"github.com/google/uuid"
)

const TimeLayout = "15:04"

type ClientChecker interface {
	Exists(ctx context.Context, clientID string) error
}

// PetOwners resuelve el dueño de una mascota.
type PetOwners interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

// HistoryRecorder agrega eventos a la historia clínica.
type HistoryRecorder interface {
	AddEvent(ctx context.Context, in events.AddInput) (events.Event, error)
}

type Service struct {
	repo    Repository
	clients ClientChecker
	pets    PetOwners
	history HistoryRecorder

	loc *time.Location
	log logger.Logger
	now func() time.Time
}

func NewService(repo Repository, clients ClientChecker, pets PetOwners, history HistoryRecorder) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		pets:    pets,
		history: history,
		loc:     time.UTC,
		log:     logger.Nop(),
		now:     time.Now,
	}
}

func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

func (s *Service) SetLogger(l logger.Logger) { s.log = l.With(map[string]any{"module": "appointments"}) }

func (s *Service) Location() *time.Location { return s.loc }

type CreateInput struct {
	ClientID string
	PetID    string
	Date     time.Time // fecha civil
	Time     string    // HH:MM
	Reason   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	clientID := strings.TrimSpace(in.ClientID)
	petID := strings.TrimSpace(in.PetID)
	if clientID == "" || petID == "" {
		return Appointment{}, apperr.Invalid("client_id and pet_id are required")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return Appointment{}, apperr.Invalid("reason is required")
	}
	at, err := s.combine(in.Date, in.Time)
	if err != nil {
		return Appointment{}, err
	}
	if err := s.checkOwnership(ctx, clientID, petID); err != nil {
		return Appointment{}, err
	}

	now := s.now()
	a := Appointment{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		PetID:       petID,
		ScheduledAt: at,
		Reason:      reason,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// UpdateInput: nil = no tocar. Date y Time se combinan con el valor actual.
type UpdateInput struct {
	ClientID *string
	PetID    *string
	Date     *time.Time
	Time     *string
	Reason   *string
}

// Update solo se permite mientras el turno está pendiente.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status != StatusPending {
		return Appointment{}, apperr.Invalid("only pending appointments can be edited")
	}

	if in.ClientID != nil || in.PetID != nil {
		clientID, petID := a.ClientID, a.PetID
		if in.ClientID != nil {
			clientID = strings.TrimSpace(*in.ClientID)
		}
		if in.PetID != nil {
			petID = strings.TrimSpace(*in.PetID)
		}
		if clientID == "" || petID == "" {
			return Appointment{}, apperr.Invalid("client_id and pet_id cannot be empty")
		}
		if err := s.checkOwnership(ctx, clientID, petID); err != nil {
			return Appointment{}, err
		}
		a.ClientID, a.PetID = clientID, petID
	}

	if in.Date != nil || in.Time != nil {
		local := a.ScheduledAt.In(s.loc)
		date := local
		clock := local.Format(TimeLayout)
		if in.Date != nil {
			date = *in.Date
		}
		if in.Time != nil {
			clock = *in.Time
		}
		at, err := s.combine(date, clock)
		if err != nil {
			return Appointment{}, err
		}
		a.ScheduledAt = at
	}

	if in.Reason != nil {
		reason := strings.TrimSpace(*in.Reason)
		if reason == "" {
			return Appointment{}, apperr.Invalid("reason cannot be empty")
		}
		a.Reason = reason
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Invalid("appointment id is required")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, apperr.Invalid("appointment id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List ordena por fecha y hora; a igual horario, por estado.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Invalid("unknown status " + string(filter.Status))
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ScheduledAt.Equal(items[j].ScheduledAt) {
			return items[i].ScheduledAt.Before(items[j].ScheduledAt)
		}
		return items[i].Status.rank() < items[j].Status.rank()
	})
	return items, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Appointment, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, apperr.Invalid("pet_id is required")
	}
	return s.List(ctx, ListFilter{PetID: petID})
}

// ListByDate devuelve los turnos del día civil en la zona de la clínica.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]Appointment, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)
	return s.List(ctx, ListFilter{From: &from, To: &to})
}

// Upcoming: turnos pendientes desde el comienzo del día de hoy.
func (s *Service) Upcoming(ctx context.Context) ([]Appointment, error) {
	today := s.now().In(s.loc)
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)
	return s.List(ctx, ListFilter{Status: StatusPending, From: &from})
}

// Attend pasa el turno a ATTENDED (al completar la consulta).
func (s *Service) Attend(ctx context.Context, id string) (Appointment, error) {
	a, err := s.pendingForTransition(ctx, id, StatusAttended)
	if err != nil {
		return Appointment{}, err
	}
	return s.setStatus(ctx, a, StatusAttended)
}

func (s *Service) Cancel(ctx context.Context, id string) (Appointment, error) {
	a, err := s.pendingForTransition(ctx, id, StatusCancelled)
	if err != nil {
		return Appointment{}, err
	}
	return s.setStatus(ctx, a, StatusCancelled)
}

// MarkAbsent pasa el turno a ABSENT y deja constancia en la historia de la
// mascota con un evento de consulta que referencia el turno.
func (s *Service) MarkAbsent(ctx context.Context, id string) (Appointment, events.Event, error) {
	a, err := s.pendingForTransition(ctx, id, StatusAbsent)
	if err != nil {
		return Appointment{}, events.Event{}, err
	}

	op := multistep.New("appointment.mark_absent")
	if err := op.Step(ctx, "update_appointment_status", func(ctx context.Context) error {
		var err error
		a, err = s.setStatus(ctx, a, StatusAbsent)
		return err
	}); err != nil {
		return Appointment{}, events.Event{}, err
	}

	var ev events.Event
	if err := op.Step(ctx, "insert_history_event", func(ctx context.Context) error {
		at := a.ScheduledAt
		var err error
		ev, err = s.history.AddEvent(ctx, events.AddInput{
			PetID:       a.PetID,
			Type:        events.EventTypeConsultation,
			Description: "Paciente Ausente para el turno. Motivo original: " + a.Reason,
			ReferenceID: a.ID,
			At:          &at,
		})
		return err
	}); err != nil {
		return Appointment{}, events.Event{}, multistep.Observe(s.log, err)
	}

	s.log.Info("appointment marked absent", map[string]any{"appointment_id": a.ID, "pet_id": a.PetID})
	return a, ev, nil
}

// CheckAttendable valida, sin escribir, que el turno pueda cerrarse con una
// consulta de la mascota indicada.
func (s *Service) CheckAttendable(ctx context.Context, id, petID string) error {
	a, err := s.pendingForTransition(ctx, id, StatusAttended)
	if err != nil {
		return err
	}
	if a.PetID != strings.TrimSpace(petID) {
		return apperr.Invalid("appointment belongs to another pet")
	}
	return nil
}

func (s *Service) DeleteByPet(ctx context.Context, petID string) (int, error) {
	return s.repo.DeleteByPet(ctx, petID)
}

func (s *Service) DeleteByClient(ctx context.Context, clientID string) (int, error) {
	return s.repo.DeleteByClient(ctx, clientID)
}

func (s *Service) pendingForTransition(ctx context.Context, id string, to Status) (Appointment, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status != StatusPending {
		return Appointment{}, apperr.Invalid("cannot move appointment from " + string(a.Status) + " to " + string(to))
	}
	return a, nil
}

func (s *Service) setStatus(ctx context.Context, a Appointment, st Status) (Appointment, error) {
	a.Status = st
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) checkOwnership(ctx context.Context, clientID, petID string) error {
	if err := s.clients.Exists(ctx, clientID); err != nil {
		return err
	}
	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return err
	}
	if owner != clientID {
		return apperr.Invalid("pet does not belong to client")
	}
	return nil
}

func (s *Service) combine(date time.Time, clock string) (time.Time, error) {
	if date.IsZero() {
		return time.Time{}, apperr.Invalid("date is required")
	}
	c, err := time.Parse(TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, apperr.Invalid("time must be HH:MM")
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, s.loc), nil
}
