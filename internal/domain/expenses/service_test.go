package expenses

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetadmin/internal/platform/apperr"

	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	byID map[string]Expense
}

func (f *fakeRepo) Create(_ context.Context, e Expense) error {
	f.byID[e.ID] = e
	return nil
}

func (f *fakeRepo) Update(_ context.Context, e Expense) error {
	f.byID[e.ID] = e
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("expense", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Expense, error) {
	e, ok := f.byID[id]
	if !ok {
		return Expense{}, apperr.NotFound("expense", id)
	}
	return e, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]Expense, error) {
	out := []Expense{}
	for _, e := range f.byID {
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func newTestService() *Service {
	svc := NewService(&fakeRepo{byID: map[string]Expense{}})
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreate_RoundsAndStoresCivilDate(t *testing.T) {
	svc := newTestService()

	loc := time.FixedZone("UTC-3", -3*3600)
	e, err := svc.Create(context.Background(), Input{
		Date:        time.Date(2024, 1, 15, 23, 30, 0, 0, loc),
		Description: "Gasas",
		Amount:      decimal.RequireFromString("15.005"),
		Category:    CategoryMedicalSupplies,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC); !e.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", e.Date, want)
	}
	if got := e.Amount.StringFixed(2); got != "15.01" {
		t.Fatalf("amount = %s, want 15.01", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	cases := []Input{
		{Date: date, Description: "x", Amount: decimal.Zero, Category: CategoryRent},
		{Date: date, Description: "x", Amount: decimal.NewFromInt(-5), Category: CategoryRent},
		{Date: date, Description: "x", Amount: decimal.RequireFromString("0.004"), Category: CategoryRent},
		{Date: date, Description: " ", Amount: decimal.NewFromInt(5), Category: CategoryRent},
		{Date: date, Description: "x", Amount: decimal.NewFromInt(5), Category: "FOOD"},
		{Description: "x", Amount: decimal.NewFromInt(5), Category: CategoryRent},
	}
	for i, in := range cases {
		if _, err := svc.Create(ctx, in); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestList_DateDescendingAndByDate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, d := range []int{10, 15, 12, 15} {
		_, err := svc.Create(ctx, Input{
			Date:        time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC),
			Description: "gasto",
			Amount:      decimal.NewFromInt(int64(d)),
			Category:    CategoryMisc,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].Date.Day() != 15 || all[3].Date.Day() != 10 {
		t.Fatalf("unexpected order: %+v", all)
	}

	day, err := svc.ListByDate(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(day) != 2 {
		t.Fatalf("expected 2 expenses on 2024-01-15, got %d", len(day))
	}
}

func TestListBetween_RejectsInvertedRange(t *testing.T) {
	svc := newTestService()
	_, err := svc.ListBetween(context.Background(),
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
