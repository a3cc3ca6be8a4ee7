package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetadmin/internal/domain/products"
	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/multistep"
	"vetadmin/internal/ports/notify"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       *Service
	sales     *fakeSales
	payments  *fakePayments
	inventory *fakeInventory
	events    *notify.Recorder
}

func newFixture() *fixture {
	f := &fixture{
		sales:    newFakeSales(),
		payments: &fakePayments{},
		inventory: &fakeInventory{byID: map[string]products.Product{
			"food": {ID: "food", Name: "Food", Stock: 10, UnitPrice: decimal.RequireFromString("15.00")},
			"pipette": {ID: "pipette", Name: "Pipeta", Stock: 5, UnitPrice: decimal.RequireFromString("3.33")},
		}},
		events: &notify.Recorder{},
	}
	f.svc = NewService(f.sales, f.payments, fakeRefs{"c1": true}, fakeRefs{"p1": true}, f.inventory)
	f.svc.SetPublisher(f.events)
	f.svc.now = func() time.Time { return time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC) }
	return f
}

func TestCreateSale_DecrementsStockAndSnapshotsPrice(t *testing.T) {
	f := newFixture()

	sale, err := f.svc.CreateSale(context.Background(), CreateInput{
		ClientID: "c1",
		Lines:    []LineInput{{ProductID: "food", Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, "45.00", sale.Total.StringFixed(2))
	assert.Equal(t, StatusPending, sale.Status)
	assert.Nil(t, sale.PetID)
	assert.Equal(t, 7, f.inventory.byID["food"].Stock)

	// cambiar el precio después no toca la venta
	p := f.inventory.byID["food"]
	p.UnitPrice = decimal.NewFromInt(99)
	f.inventory.byID["food"] = p

	stored, err := f.svc.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "45.00", stored.Total.StringFixed(2))
	assert.Equal(t, "15.00", stored.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, []notify.EventType{notify.SaleCreated}, f.events.Types())
}

func TestCreateSale_InsufficientStock_NoMutation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateSale(context.Background(), CreateInput{
		ClientID: "c1",
		Lines:    []LineInput{{ProductID: "food", Quantity: 15}},
	})

	var ise *apperr.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "food", ise.ProductID)
	assert.Equal(t, 15, ise.Requested)
	assert.Equal(t, 10, ise.Available)
	assert.Equal(t, 10, f.inventory.byID["food"].Stock)
	assert.Empty(t, f.sales.byID)
}

func TestCreateSale_RepeatedProductIsCheckedAsSum(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateSale(context.Background(), CreateInput{
		ClientID: "c1",
		Lines: []LineInput{
			{ProductID: "pipette", Quantity: 3},
			{ProductID: "food", Quantity: 1},
			{ProductID: "pipette", Quantity: 3},
		},
	})

	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 5, f.inventory.byID["pipette"].Stock)
	assert.Equal(t, 10, f.inventory.byID["food"].Stock)
}

func TestCreateSale_TotalRounding(t *testing.T) {
	f := newFixture()

	sale, err := f.svc.CreateSale(context.Background(), CreateInput{
		ClientID: "c1",
		PetID:    "p1",
		Lines: []LineInput{
			{ProductID: "pipette", Quantity: 3},
			{ProductID: "food", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "24.99", sale.Total.StringFixed(2))
	require.NotNil(t, sale.PetID)
	assert.Equal(t, "p1", *sale.PetID)
	assert.Len(t, sale.Lines, 2)
}

func TestCreateSale_ValidationBeforeMutation(t *testing.T) {
	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"no lines", CreateInput{ClientID: "c1"}, apperr.ErrValidation},
		{"no client", CreateInput{Lines: []LineInput{{ProductID: "food", Quantity: 1}}}, apperr.ErrValidation},
		{"unknown client", CreateInput{ClientID: "zz", Lines: []LineInput{{ProductID: "food", Quantity: 1}}}, apperr.ErrNotFound},
		{"unknown pet", CreateInput{ClientID: "c1", PetID: "zz", Lines: []LineInput{{ProductID: "food", Quantity: 1}}}, apperr.ErrNotFound},
		{"unknown product", CreateInput{ClientID: "c1", Lines: []LineInput{{ProductID: "food", Quantity: 1}, {ProductID: "zz", Quantity: 1}}}, apperr.ErrNotFound},
		{"zero quantity", CreateInput{ClientID: "c1", Lines: []LineInput{{ProductID: "food", Quantity: 0}}}, apperr.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.CreateSale(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, f.sales.byID)
			assert.Equal(t, 10, f.inventory.byID["food"].Stock)
		})
	}
}

func TestCreateSale_PartialFailureNamesSteps(t *testing.T) {
	f := newFixture()
	f.inventory.failOn = "pipette"

	_, err := f.svc.CreateSale(context.Background(), CreateInput{
		ClientID: "c1",
		Lines: []LineInput{
			{ProductID: "food", Quantity: 2},
			{ProductID: "pipette", Quantity: 1},
		},
	})

	var pf *multistep.PartialFailureError
	require.True(t, errors.As(err, &pf))
	assert.True(t, errors.Is(err, apperr.ErrPartialFailure))
	assert.Equal(t, "sale.create", pf.Op)
	assert.Equal(t, []string{"insert_sale", "decrement_stock:food"}, pf.Completed)
	assert.Equal(t, "decrement_stock:pipette", pf.Failed)

	// lo aplicado queda aplicado
	assert.Len(t, f.sales.byID, 1)
	assert.Equal(t, 8, f.inventory.byID["food"].Stock)
}

func TestCancelSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	sale, err := f.svc.CreateSale(ctx, CreateInput{ClientID: "c1", Lines: []LineInput{{ProductID: "food", Quantity: 2}}})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 8, f.inventory.byID["food"].Stock, "cancelling does not restore stock")

	_, err = f.svc.RecordPayment(ctx, PaymentInput{SaleID: sale.ID, Amount: decimal.NewFromInt(30), Method: MethodCash})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeleteSale_OnlyWithoutPayments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, _ := f.svc.CreateSale(ctx, CreateInput{ClientID: "c1", Lines: []LineInput{{ProductID: "food", Quantity: 1}}})
	b, _ := f.svc.CreateSale(ctx, CreateInput{ClientID: "c1", Lines: []LineInput{{ProductID: "food", Quantity: 1}}})
	_, err := f.svc.RecordPayment(ctx, PaymentInput{SaleID: b.ID, Amount: decimal.NewFromInt(1), Method: MethodCard})
	require.NoError(t, err)

	assert.NoError(t, f.svc.DeleteSale(ctx, a.ID))
	assert.ErrorIs(t, f.svc.DeleteSale(ctx, b.ID), apperr.ErrValidation)
}

func TestListByDate_UsesClinicLocation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	loc := time.FixedZone("ART", -3*60*60)
	f.svc.SetLocation(loc)

	// 01:30 UTC del 16 es todavía 15 en la clínica
	f.svc.now = func() time.Time { return time.Date(2024, 1, 16, 1, 30, 0, 0, time.UTC) }
	sale, err := f.svc.CreateSale(ctx, CreateInput{ClientID: "c1", Lines: []LineInput{{ProductID: "food", Quantity: 1}}})
	require.NoError(t, err)

	items, err := f.svc.ListByDate(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, sale.ID, items[0].ID)

	items, err = f.svc.ListByDate(ctx, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, items)
}
