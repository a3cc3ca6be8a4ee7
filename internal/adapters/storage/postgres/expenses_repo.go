package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vetadmin/internal/domain/expenses"
)

type ExpensesRepo struct {
	db *sql.DB
}

func NewExpensesRepo(db *sql.DB) *ExpensesRepo {
	return &ExpensesRepo{db: db}
}

const expenseColumns = `id, date, description, amount, category, created_at, updated_at`

func (r *ExpensesRepo) Create(ctx context.Context, e expenses.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, e.ID, e.Date, e.Description, e.Amount, string(e.Category), e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *ExpensesRepo) Update(ctx context.Context, e expenses.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET date = $2, description = $3, amount = $4, category = $5, updated_at = $6
		WHERE id = $1
	`, e.ID, e.Date, e.Description, e.Amount, string(e.Category), e.UpdatedAt)
	return expectOne(res, err, "expense", e.ID)
}

func (r *ExpensesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return expectOne(res, err, "expense", id)
}

func (r *ExpensesRepo) GetByID(ctx context.Context, id string) (expenses.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	e, err := scanExpense(row)
	if err != nil {
		return expenses.Expense{}, notFound(err, "expense", id)
	}
	return e, nil
}

// List filtra por fecha civil con ambos extremos inclusivos.
func (r *ExpensesRepo) List(ctx context.Context, f expenses.ListFilter) ([]expenses.Expense, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + expenseColumns + ` FROM expenses WHERE TRUE`)

	args := []any{}
	if f.From != nil {
		args = append(args, *f.From)
		sb.WriteString(fmt.Sprintf(" AND date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		sb.WriteString(fmt.Sprintf(" AND date <= $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		sb.WriteString(fmt.Sprintf(" AND category = $%d", len(args)))
	}
	sb.WriteString(" ORDER BY date DESC, created_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]expenses.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExpense(s rowScanner) (expenses.Expense, error) {
	var e expenses.Expense
	var category string
	if err := s.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &category, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return expenses.Expense{}, err
	}
	e.Date = civil(e.Date)
	e.Category = expenses.Category(category)
	return e, nil
}
