package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vetadmin/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `id, client_id, pet_id, scheduled_at, reason, status, created_at, updated_at`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, a.ID, a.ClientID, a.PetID, a.ScheduledAt, a.Reason, string(a.Status), a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET client_id = $2, pet_id = $3, scheduled_at = $4, reason = $5, status = $6, updated_at = $7
		WHERE id = $1
	`, a.ID, a.ClientID, a.PetID, a.ScheduledAt, a.Reason, string(a.Status), a.UpdatedAt)
	return expectOne(res, err, "appointment", a.ID)
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return expectOne(res, err, "appointment", id)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		return appointments.Appointment{}, notFound(err, "appointment", id)
	}
	return a, nil
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + appointmentColumns + ` FROM appointments WHERE TRUE`)

	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		sb.WriteString(fmt.Sprintf(" AND "+cond, len(args)))
	}
	if f.ClientID != "" {
		add("client_id = $%d", f.ClientID)
	}
	if f.PetID != "" {
		add("pet_id = $%d", f.PetID)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.From != nil {
		add("scheduled_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("scheduled_at < $%d", *f.To)
	}
	sb.WriteString(" ORDER BY scheduled_at")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentsRepo) DeleteByPet(ctx context.Context, petID string) (int, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM appointments WHERE pet_id = $1`, petID))
}

func (r *AppointmentsRepo) DeleteByClient(ctx context.Context, clientID string) (int, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM appointments WHERE client_id = $1`, clientID))
}

func scanAppointment(s rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var status string
	if err := s.Scan(&a.ID, &a.ClientID, &a.PetID, &a.ScheduledAt, &a.Reason, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return appointments.Appointment{}, err
	}
	a.Status = appointments.Status(status)
	return a, nil
}
