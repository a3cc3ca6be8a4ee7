package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"vetadmin/internal/domain/events"

	"github.com/shopspring/decimal"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `id, pet_id, type, occurred_at, description, reference_id, attachments, created_at, updated_at`

// attachmentRow es la forma JSON de un adjunto dentro de la columna JSONB.
type attachmentRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
	Size     int64  `json:"size"`
}

func encodeAttachments(in []events.Attachment) ([]byte, error) {
	rows := make([]attachmentRow, 0, len(in))
	for _, a := range in {
		rows = append(rows, attachmentRow(a))
	}
	return json.Marshal(rows)
}

func decodeAttachments(raw []byte) ([]events.Attachment, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []attachmentRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("postgres: attachments: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]events.Attachment, 0, len(rows))
	for _, r := range rows {
		out = append(out, events.Attachment(r))
	}
	return out, nil
}

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	att, err := encodeAttachments(e.Attachments)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO history_events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID,
		e.PetID,
		string(e.Type),
		e.OccurredAt,
		e.Description,
		toNullString(e.ReferenceID),
		string(att),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EventsRepo) Update(ctx context.Context, e events.Event) error {
	att, err := encodeAttachments(e.Attachments)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE history_events
		SET type = $2, occurred_at = $3, description = $4, reference_id = $5, attachments = $6, updated_at = $7
		WHERE id = $1
	`,
		e.ID,
		string(e.Type),
		e.OccurredAt,
		e.Description,
		toNullString(e.ReferenceID),
		string(att),
		e.UpdatedAt,
	)
	return expectOne(res, err, "history event", e.ID)
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_events WHERE id = $1`, id)
	return expectOne(res, err, "history event", id)
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM history_events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		return events.Event{}, notFound(err, "history event", id)
	}
	return e, nil
}

func (r *EventsRepo) ListByPet(ctx context.Context, petID string, f events.ListFilter) ([]events.Event, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + eventColumns + ` FROM history_events WHERE pet_id = $1`)

	args := []any{petID}
	argN := 2

	if len(f.Types) > 0 {
		ph := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			ph = append(ph, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(ph, ",") + ")")
	}
	if f.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *f.From)
		argN++
	}
	if f.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *f.To)
		argN++
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		sb.WriteString(fmt.Sprintf(" AND description ILIKE $%d", argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	sb.WriteString(" ORDER BY occurred_at DESC, created_at DESC")
	if f.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EventsRepo) DeleteByPet(ctx context.Context, petID string) (int, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM history_events WHERE pet_id = $1`, petID))
}

func scanEvent(s rowScanner) (events.Event, error) {
	var e events.Event
	var typ string
	var ref sql.NullString
	var raw []byte
	if err := s.Scan(
		&e.ID,
		&e.PetID,
		&typ,
		&e.OccurredAt,
		&e.Description,
		&ref,
		&raw,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return events.Event{}, err
	}

	att, err := decodeAttachments(raw)
	if err != nil {
		return events.Event{}, err
	}
	e.Type = events.EventType(typ)
	e.ReferenceID = fromNullString(ref)
	e.Attachments = att
	return e, nil
}

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) CreateDisease(ctx context.Context, d events.PetDisease) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_diseases (id, pet_id, disease_id, date, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, d.ID, d.PetID, d.DiseaseID, d.Date, d.Notes, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *RecordsRepo) ListDiseasesByPet(ctx context.Context, petID string) ([]events.PetDisease, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, disease_id, date, notes, created_at, updated_at
		FROM pet_diseases
		WHERE pet_id = $1
		ORDER BY date DESC, created_at DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.PetDisease, 0)
	for rows.Next() {
		var d events.PetDisease
		if err := rows.Scan(&d.ID, &d.PetID, &d.DiseaseID, &d.Date, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.Date = civil(d.Date)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) DeleteDiseasesByPet(ctx context.Context, petID string) (int, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM pet_diseases WHERE pet_id = $1`, petID))
}

func (r *RecordsRepo) CreateSurgery(ctx context.Context, s events.PetSurgery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pet_surgeries (id, pet_id, surgery_id, date, notes, cost, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, s.ID, s.PetID, s.SurgeryID, s.Date, s.Notes, nullDecimal(s.Cost), s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *RecordsRepo) ListSurgeriesByPet(ctx context.Context, petID string) ([]events.PetSurgery, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, surgery_id, date, notes, cost, created_at, updated_at
		FROM pet_surgeries
		WHERE pet_id = $1
		ORDER BY date DESC, created_at DESC
	`, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.PetSurgery, 0)
	for rows.Next() {
		var s events.PetSurgery
		var cost decimal.NullDecimal
		if err := rows.Scan(&s.ID, &s.PetID, &s.SurgeryID, &s.Date, &s.Notes, &cost, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Date = civil(s.Date)
		s.Cost = fromNullDecimal(cost)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) DeleteSurgeriesByPet(ctx context.Context, petID string) (int, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM pet_surgeries WHERE pet_id = $1`, petID))
}
