package memory

import (
	"context"

	"vetadmin/internal/domain/appointments"
)

type appointmentRepo struct {
	t *table[appointments.Appointment]
}

func NewAppointmentRepo() appointments.Repository {
	return &appointmentRepo{t: newTable("appointment", func(a appointments.Appointment) string { return a.ID }, nil)}
}

func (r *appointmentRepo) Create(_ context.Context, a appointments.Appointment) error {
	return r.t.insert(a)
}

func (r *appointmentRepo) Update(_ context.Context, a appointments.Appointment) error {
	return r.t.update(a)
}

func (r *appointmentRepo) Delete(_ context.Context, id string) error { return r.t.remove(id) }

func (r *appointmentRepo) GetByID(_ context.Context, id string) (appointments.Appointment, error) {
	return r.t.get(id)
}

func (r *appointmentRepo) List(_ context.Context, f appointments.ListFilter) ([]appointments.Appointment, error) {
	return r.t.filter(func(a appointments.Appointment) bool {
		switch {
		case f.ClientID != "" && a.ClientID != f.ClientID:
			return false
		case f.PetID != "" && a.PetID != f.PetID:
			return false
		case f.Status != "" && a.Status != f.Status:
			return false
		case f.From != nil && a.ScheduledAt.Before(*f.From):
			return false
		case f.To != nil && !a.ScheduledAt.Before(*f.To):
			return false
		}
		return true
	}), nil
}

func (r *appointmentRepo) DeleteByPet(_ context.Context, petID string) (int, error) {
	return r.t.removeWhere(func(a appointments.Appointment) bool { return a.PetID == petID }), nil
}

func (r *appointmentRepo) DeleteByClient(_ context.Context, clientID string) (int, error) {
	return r.t.removeWhere(func(a appointments.Appointment) bool { return a.ClientID == clientID }), nil
}
