package expenses

import (
	"context"
	"sort"
	"strings"
	"time"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type Input struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    Category
}

func (s *Service) Create(ctx context.Context, in Input) (Expense, error) {
	if err := validate(in); err != nil {
		return Expense{}, err
	}
	now := s.now()
	e := Expense{
		ID:          uuid.NewString(),
		Date:        Civil(in.Date),
		Description: strings.TrimSpace(in.Description),
		Amount:      money.Round(in.Amount),
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// Update reemplaza todos los campos editables.
func (s *Service) Update(ctx context.Context, id string, in Input) (Expense, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if err := validate(in); err != nil {
		return Expense{}, err
	}
	e.Date = Civil(in.Date)
	e.Description = strings.TrimSpace(in.Description)
	e.Amount = money.Round(in.Amount)
	e.Category = in.Category
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Invalid("expense id is required")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Expense, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Expense{}, apperr.Invalid("expense id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// List devuelve los gastos del más reciente al más antiguo.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Expense, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperr.Invalid("unknown category " + string(filter.Category))
	}
	if filter.From != nil {
		f := Civil(*filter.From)
		filter.From = &f
	}
	if filter.To != nil {
		t := Civil(*filter.To)
		filter.To = &t
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]Expense, error) {
	return s.ListBetween(ctx, date, date)
}

// ListBetween: from y to son fechas civiles inclusivas.
func (s *Service) ListBetween(ctx context.Context, from, to time.Time) ([]Expense, error) {
	if to.Before(from) {
		return nil, apperr.Invalid("to must not be before from")
	}
	return s.List(ctx, ListFilter{From: &from, To: &to})
}

func validate(in Input) error {
	if in.Date.IsZero() {
		return apperr.Invalid("date is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperr.Invalid("description is required")
	}
	// se valida el monto ya redondeado: 0.004 se guardaría como 0.00
	if !money.Round(in.Amount).IsPositive() {
		return apperr.Invalid("amount must be > 0")
	}
	if !in.Category.Valid() {
		return apperr.Invalid("unknown category " + string(in.Category))
	}
	return nil
}

// Civil descarta hora y zona, quedándose con el día tal como fue escrito.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
