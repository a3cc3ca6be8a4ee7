package memory

import (
	"context"

	"vetadmin/internal/domain/expenses"
)

type expenseRepo struct {
	t *table[expenses.Expense]
}

func NewExpenseRepo() expenses.Repository {
	return &expenseRepo{t: newTable("expense", func(e expenses.Expense) string { return e.ID }, nil)}
}

func (r *expenseRepo) Create(_ context.Context, e expenses.Expense) error { return r.t.insert(e) }
func (r *expenseRepo) Update(_ context.Context, e expenses.Expense) error { return r.t.update(e) }
func (r *expenseRepo) Delete(_ context.Context, id string) error          { return r.t.remove(id) }

func (r *expenseRepo) GetByID(_ context.Context, id string) (expenses.Expense, error) {
	return r.t.get(id)
}

func (r *expenseRepo) List(_ context.Context, f expenses.ListFilter) ([]expenses.Expense, error) {
	return r.t.filter(func(e expenses.Expense) bool {
		switch {
		case f.From != nil && e.Date.Before(*f.From):
			return false
		case f.To != nil && e.Date.After(*f.To):
			return false
		case f.Category != "" && e.Category != f.Category:
			return false
		}
		return true
	}), nil
}
