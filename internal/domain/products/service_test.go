package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetadmin/internal/domain/catalog"
	"vetadmin/internal/platform/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]Product
}

func (f *fakeRepo) Create(_ context.Context, p Product) error { f.byID[p.ID] = p; return nil }
func (f *fakeRepo) Update(_ context.Context, p Product) error { f.byID[p.ID] = p; return nil }
func (f *fakeRepo) Delete(_ context.Context, id string) error { delete(f.byID, id); return nil }

func (f *fakeRepo) GetByID(_ context.Context, id string) (Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return Product{}, apperr.NotFound("product", id)
	}
	return p, nil
}

func (f *fakeRepo) List(_ context.Context) ([]Product, error) {
	out := []Product{}
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) AdjustStock(_ context.Context, id string, delta int, at time.Time) (Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return Product{}, apperr.NotFound("product", id)
	}
	if p.Stock+delta < 0 {
		return Product{}, &apperr.InsufficientStockError{ProductID: id, ProductName: p.Name, Requested: -delta, Available: p.Stock}
	}
	p.Stock += delta
	p.UpdatedAt = at
	f.byID[id] = p
	return p, nil
}

type fakeCategories map[string]catalog.Item

func (f fakeCategories) GetByID(_ context.Context, kind catalog.Kind, id string) (catalog.Item, error) {
	it, ok := f[id]
	if !ok {
		return catalog.Item{}, apperr.NotFound(string(kind), id)
	}
	return it, nil
}

func newTestService() *Service {
	return NewService(&fakeRepo{byID: map[string]Product{}}, fakeCategories{
		"cat-food": {ID: "cat-food", Kind: catalog.KindProductCategory, Name: "Alimentos"},
	})
}

func TestCreate_RoundsPriceAndResolvesCategory(t *testing.T) {
	svc := newTestService()

	p, err := svc.Create(context.Background(), CreateInput{
		Name:       "Food",
		Stock:      10,
		UnitPrice:  decimal.RequireFromString("15.005"),
		Category:   "ignored",
		CategoryID: "cat-food",
	})
	require.NoError(t, err)
	assert.Equal(t, "15.01", p.UnitPrice.StringFixed(2))
	assert.Equal(t, "Alimentos", p.Category)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Food", Stock: -1, UnitPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Name: "Food", UnitPrice: decimal.Zero})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Name: "Food", UnitPrice: decimal.NewFromInt(1), CategoryID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStockMovements(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "Food", Stock: 10, UnitPrice: decimal.NewFromInt(15)})
	require.NoError(t, err)

	require.NoError(t, svc.Decrement(ctx, p.ID, 3))

	err = svc.Decrement(ctx, p.ID, 8)
	var ise *apperr.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 7, ise.Available)

	restocked, err := svc.Restock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, restocked.Stock)

	_, err = svc.Restock(ctx, p.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdate_NeverTouchesStock(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, CreateInput{Name: "Food", Stock: 10, UnitPrice: decimal.NewFromInt(15)})
	price := decimal.RequireFromString("18.5")
	updated, err := svc.Update(ctx, p.ID, UpdateInput{UnitPrice: &price})
	require.NoError(t, err)

	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, "18.50", updated.UnitPrice.StringFixed(2))
}

func TestPrice_SubCentRoundsToZeroIsRejected(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tiny := decimal.RequireFromString("0.004")

	_, err := svc.Create(ctx, CreateInput{Name: "Food", Stock: 1, UnitPrice: tiny})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	p, err := svc.Create(ctx, CreateInput{Name: "Food", Stock: 1, UnitPrice: decimal.NewFromInt(3)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, UpdateInput{UnitPrice: &tiny})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.00", got.UnitPrice.StringFixed(2))
}
