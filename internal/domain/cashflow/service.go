// Package cashflow arma el reporte de caja diario: ingresos por medio de pago,
// gastos por categoría y balance neto. Es de solo lectura.
package cashflow

import (
	"context"
	"time"

	"vetadmin/internal/domain/expenses"
	"vetadmin/internal/domain/sales"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/money"

	"github.com/shopspring/decimal"
)

// MaxRangeDays limita RangeSummary.
const MaxRangeDays = 366

type PaymentSource interface {
	PaymentsBetween(ctx context.Context, from, to time.Time) ([]sales.Payment, error)
}

type ExpenseSource interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]expenses.Expense, error)
}

type Service struct {
	payments PaymentSource
	expenses ExpenseSource
	loc      *time.Location
	now      func() time.Time
}

func NewService(payments PaymentSource, expenses ExpenseSource) *Service {
	return &Service{payments: payments, expenses: expenses, loc: time.UTC, now: time.Now}
}

// SetLocation fija la zona en la que un pago "cae" en un día.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Today devuelve la fecha civil actual en la zona de la clínica.
func (s *Service) Today() time.Time {
	return civil(s.now().In(s.loc))
}

func (s *Service) DailyCashFlow(ctx context.Context, date time.Time) (Report, error) {
	if date.IsZero() {
		return Report{}, apperr.Invalid("date is required")
	}
	r, err := s.RangeSummary(ctx, date, date)
	if err != nil {
		return Report{}, err
	}
	return r.Days[0], nil
}

// RangeSummary consulta pagos y gastos del rango una sola vez y los reparte por día.
func (s *Service) RangeSummary(ctx context.Context, from, to time.Time) (RangeReport, error) {
	from, to = civil(from), civil(to)
	if to.Before(from) {
		return RangeReport{}, apperr.Invalid("to must not be before from")
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > MaxRangeDays {
		return RangeReport{}, apperr.Invalid("range exceeds 366 days")
	}

	start := s.startOfDay(from)
	end := s.startOfDay(to.AddDate(0, 0, 1))
	payments, err := s.payments.PaymentsBetween(ctx, start, end)
	if err != nil {
		return RangeReport{}, err
	}
	exps, err := s.expenses.ListBetween(ctx, from, to)
	if err != nil {
		return RangeReport{}, err
	}

	byDay := make(map[time.Time]*bucket, days)
	for _, p := range payments {
		b := getBucket(byDay, civil(p.PaidAt.In(s.loc)))
		b.income[p.Method] = append(b.income[p.Method], p.Amount)
	}
	for _, e := range exps {
		b := getBucket(byDay, civil(e.Date))
		b.expenses[e.Category] = append(b.expenses[e.Category], e.Amount)
	}

	out := RangeReport{
		From:               from,
		To:                 to,
		Days:               make([]Report, 0, days),
		IncomeByMethod:     map[sales.PaymentMethod]decimal.Decimal{},
		ExpensesByCategory: map[expenses.Category]decimal.Decimal{},
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		b := byDay[d]
		if b == nil {
			b = newBucket()
		}
		r := b.report(d)
		out.Days = append(out.Days, r)

		for m, v := range r.IncomeByMethod {
			out.IncomeByMethod[m] = out.IncomeByMethod[m].Add(v)
		}
		for c, v := range r.ExpensesByCategory {
			out.ExpensesByCategory[c] = out.ExpensesByCategory[c].Add(v)
		}
		out.TotalIncome = out.TotalIncome.Add(r.TotalIncome)
		out.TotalExpenses = out.TotalExpenses.Add(r.TotalExpenses)
	}
	out.NetBalance = out.TotalIncome.Sub(out.TotalExpenses)
	return out, nil
}

func (s *Service) startOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
}

type bucket struct {
	income   map[sales.PaymentMethod][]decimal.Decimal
	expenses map[expenses.Category][]decimal.Decimal
}

func newBucket() *bucket {
	return &bucket{
		income:   map[sales.PaymentMethod][]decimal.Decimal{},
		expenses: map[expenses.Category][]decimal.Decimal{},
	}
}

func getBucket(m map[time.Time]*bucket, day time.Time) *bucket {
	b, ok := m[day]
	if !ok {
		b = newBucket()
		m[day] = b
	}
	return b
}

func (b *bucket) report(day time.Time) Report {
	r := Report{
		Date:               day,
		IncomeByMethod:     make(map[sales.PaymentMethod]decimal.Decimal, len(b.income)),
		ExpensesByCategory: make(map[expenses.Category]decimal.Decimal, len(b.expenses)),
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
	}
	var all []decimal.Decimal
	for m, vs := range b.income {
		r.IncomeByMethod[m] = money.Sum(vs...)
		all = append(all, vs...)
	}
	r.TotalIncome = money.Sum(all...)

	all = all[:0]
	for c, vs := range b.expenses {
		r.ExpensesByCategory[c] = money.Sum(vs...)
		all = append(all, vs...)
	}
	r.TotalExpenses = money.Sum(all...)

	r.NetBalance = r.TotalIncome.Sub(r.TotalExpenses)
	return r
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
