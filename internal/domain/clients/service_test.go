package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetadmin/internal/platform/apperr"
)

type fakeRepo struct {
	byID map[string]Client
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byID: map[string]Client{}} }

func (f *fakeRepo) Create(_ context.Context, c Client) error { f.byID[c.ID] = c; return nil }
func (f *fakeRepo) Update(_ context.Context, c Client) error { f.byID[c.ID] = c; return nil }

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("client", id)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return Client{}, apperr.NotFound("client", id)
	}
	return c, nil
}

func (f *fakeRepo) List(_ context.Context) ([]Client, error) {
	out := make([]Client, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func TestCreate_ValidatesAndNormalizes(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Name: "  "}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Ana", Email: "not-an-email"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for email, got %v", err)
	}

	c, err := svc.Create(ctx, CreateInput{Name: " Ana Pérez ", Email: "Ana@Mail.COM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Ana Pérez" || c.Email != "ana@mail.com" {
		t.Fatalf("unexpected client: %+v", c)
	}
	if err := svc.Exists(ctx, c.ID); err != nil {
		t.Fatalf("expected client to exist: %v", err)
	}
	if err := svc.Exists(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate_PartialAndTouchesUpdatedAt(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	c, _ := svc.Create(ctx, CreateInput{Name: "Ana", Phone: "111"})

	svc.now = func() time.Time { return base.Add(time.Hour) }
	phone := "222"
	updated, err := svc.Update(ctx, c.ID, UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Ana" || updated.Phone != "222" {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(base.Add(time.Hour)) || !updated.CreatedAt.Equal(base) {
		t.Fatalf("timestamps not handled: %+v", updated)
	}
}

func TestList_SortedByName(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for _, n := range []string{"Zoe", "álvaro", "Bruno"} {
		if _, err := svc.Create(ctx, CreateInput{Name: n}); err != nil {
			t.Fatal(err)
		}
	}

	items, _ := svc.List(ctx)
	if items[0].Name != "álvaro" || items[1].Name != "Bruno" || items[2].Name != "Zoe" {
		t.Fatalf("unexpected order: %v, %v, %v", items[0].Name, items[1].Name, items[2].Name)
	}
}
