package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vetadmin/internal/domain/sales"
)

type SalesRepo struct {
	db *sql.DB
}

func NewSalesRepo(db *sql.DB) *SalesRepo {
	return &SalesRepo{db: db}
}

const saleColumns = `id, client_id, pet_id, sold_at, total, status, created_at, updated_at`

// Create guarda cabecera y líneas en una transacción: para el servicio es una
// sola escritura.
func (r *SalesRepo) Create(ctx context.Context, s sales.Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		s.ID,
		toNullString(s.ClientID),
		toNullString(s.PetID),
		s.SoldAt,
		s.Total,
		string(s.Status),
		s.CreatedAt,
		s.UpdatedAt,
	); err != nil {
		return err
	}

	for i, l := range s.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sale_lines (sale_id, position, product_id, product_name, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, s.ID, i, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SalesRepo) GetByID(ctx context.Context, id string) (sales.Sale, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	s, err := scanSale(row)
	if err != nil {
		return sales.Sale{}, notFound(err, "sale", id)
	}
	lines, err := r.lines(ctx, []string{s.ID})
	if err != nil {
		return sales.Sale{}, err
	}
	s.Lines = lines[s.ID]
	return s, nil
}

// List ordena de la venta más reciente a la más antigua.
func (r *SalesRepo) List(ctx context.Context, f sales.ListFilter) ([]sales.Sale, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + saleColumns + ` FROM sales WHERE TRUE`)

	args := []any{}
	argN := 1
	if f.From != nil {
		sb.WriteString(fmt.Sprintf(" AND sold_at >= $%d", argN))
		args = append(args, *f.From)
		argN++
	}
	if f.To != nil {
		sb.WriteString(fmt.Sprintf(" AND sold_at < $%d", argN))
		args = append(args, *f.To)
		argN++
	}
	if f.ClientID != "" {
		sb.WriteString(fmt.Sprintf(" AND client_id = $%d", argN))
		args = append(args, f.ClientID)
		argN++
	}
	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(f.Status))
	}
	sb.WriteString(" ORDER BY sold_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sales.Sale, 0)
	ids := make([]string, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

func (r *SalesRepo) lines(ctx context.Context, saleIDs []string) (map[string][]sales.Line, error) {
	out := make(map[string][]sales.Line, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, 0, len(saleIDs))
	args := make([]any, 0, len(saleIDs))
	for i, id := range saleIDs {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT sale_id, product_id, product_name, quantity, unit_price
		FROM sale_lines
		WHERE sale_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY sale_id, position
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var saleID string
		var l sales.Line
		if err := rows.Scan(&saleID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		out[saleID] = append(out[saleID], l)
	}
	return out, rows.Err()
}

func (r *SalesRepo) UpdateStatus(ctx context.Context, id string, status sales.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sales SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(status), at)
	return expectOne(res, err, "sale", id)
}

func (r *SalesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	return expectOne(res, err, "sale", id)
}

func (r *SalesRepo) ClearClient(ctx context.Context, clientID string, at time.Time) (int, error) {
	return affected(r.db.ExecContext(ctx, `
		UPDATE sales SET client_id = NULL, updated_at = $2 WHERE client_id = $1
	`, clientID, at))
}

func (r *SalesRepo) ClearPet(ctx context.Context, petID string, at time.Time) (int, error) {
	return affected(r.db.ExecContext(ctx, `
		UPDATE sales SET pet_id = NULL, updated_at = $2 WHERE pet_id = $1
	`, petID, at))
}

func scanSale(s rowScanner) (sales.Sale, error) {
	var out sales.Sale
	var clientID, petID sql.NullString
	var status string
	if err := s.Scan(
		&out.ID,
		&clientID,
		&petID,
		&out.SoldAt,
		&out.Total,
		&status,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return sales.Sale{}, err
	}
	out.ClientID = fromNullString(clientID)
	out.PetID = fromNullString(petID)
	out.Status = sales.Status(status)
	return out, nil
}

type PaymentsRepo struct {
	db *sql.DB
}

func NewPaymentsRepo(db *sql.DB) *PaymentsRepo {
	return &PaymentsRepo{db: db}
}

const paymentColumns = `id, sale_id, amount, method, paid_at, created_at`

func (r *PaymentsRepo) Create(ctx context.Context, p sales.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, p.ID, p.SaleID, p.Amount, string(p.Method), p.PaidAt, p.CreatedAt)
	return err
}

func (r *PaymentsRepo) ListBySale(ctx context.Context, saleID string) ([]sales.Payment, error) {
	return r.query(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE sale_id = $1 ORDER BY paid_at
	`, saleID)
}

func (r *PaymentsRepo) ListBetween(ctx context.Context, from, to time.Time) ([]sales.Payment, error) {
	return r.query(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE paid_at >= $1 AND paid_at < $2
		ORDER BY paid_at
	`, from, to)
}

func (r *PaymentsRepo) query(ctx context.Context, q string, args ...any) ([]sales.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sales.Payment, 0)
	for rows.Next() {
		var p sales.Payment
		var method string
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Amount, &method, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Method = sales.PaymentMethod(method)
		p.UpdatedAt = p.CreatedAt
		out = append(out, p)
	}
	return out, rows.Err()
}
