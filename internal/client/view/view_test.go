package view

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/invoice-desk/internal/client"
	"github.com/sangkips/invoice-desk/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory API that records every call
type fakeAPI struct {
	invoices []entity.Invoice
	calls    []string
	failNext error
	listErr  error
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeAPI) find(id int64) *entity.Invoice {
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			return &f.invoices[i]
		}
	}
	return nil
}

func (f *fakeAPI) List(ctx context.Context) ([]entity.Invoice, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]entity.Invoice, len(f.invoices))
	copy(out, f.invoices)
	return out, nil
}

func (f *fakeAPI) Create(ctx context.Context, req client.CreateInvoiceRequest) (*entity.Invoice, error) {
	if err := f.record("create"); err != nil {
		return nil, err
	}
	inv := entity.Invoice{
		ID:        int64(len(f.invoices) + 1),
		CompCode:  req.CompCode,
		Amount:    req.Amount,
		Recurring: req.Recurring,
		CardLast4: entity.DefaultCardLast4,
	}
	f.invoices = append(f.invoices, inv)
	return &inv, nil
}

func (f *fakeAPI) mutate(call string, id int64, fn func(*entity.Invoice)) (*entity.Invoice, error) {
	if err := f.record(call); err != nil {
		return nil, err
	}
	inv := f.find(id)
	if inv == nil {
		return nil, &client.APIError{StatusCode: 404, Message: "Invoice not found"}
	}
	fn(inv)
	out := *inv
	return &out, nil
}

func (f *fakeAPI) Pay(ctx context.Context, id int64) (*entity.Invoice, error) {
	return f.mutate("pay", id, func(inv *entity.Invoice) { inv.MarkPaid(time.Now()) })
}

func (f *fakeAPI) UpdateCard(ctx context.Context, id int64, last4 string) (*entity.Invoice, error) {
	return f.mutate("card:"+last4, id, func(inv *entity.Invoice) { inv.SetCard(last4) })
}

func (f *fakeAPI) EnableAutoBill(ctx context.Context, id int64) (*entity.Invoice, error) {
	return f.mutate("auto-bill", id, func(inv *entity.Invoice) { inv.EnableAutoBill() })
}

func (f *fakeAPI) ToggleRecurring(ctx context.Context, id int64) (*entity.Invoice, error) {
	return f.mutate("toggle", id, func(inv *entity.Invoice) { inv.ToggleRecurring() })
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) (*entity.Invoice, error) {
	if err := f.record("delete"); err != nil {
		return nil, err
	}
	for i, inv := range f.invoices {
		if inv.ID == id {
			f.invoices = append(f.invoices[:i], f.invoices[i+1:]...)
			return &inv, nil
		}
	}
	return nil, &client.APIError{StatusCode: 404, Message: "Invoice not found"}
}

func seeded() *fakeAPI {
	return &fakeAPI{invoices: []entity.Invoice{{ID: 1, CompCode: "ACME", Amount: 100, CardLast4: "4242"}}}
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestView(api API, confirm bool) (*View, *testClock) {
	clock := &testClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	v := New(api,
		WithClock(clock.now),
		WithConfirmer(func(string) bool { return confirm }),
	)
	return v, clock
}

func TestMountLoadsInvoices(t *testing.T) {
	api := seeded()
	v, _ := newTestView(api, false)
	assert.True(t, v.Loading())

	require.NoError(t, v.Mount(context.Background()))
	assert.False(t, v.Loading())
	assert.Nil(t, v.Err())
	require.Len(t, v.Invoices(), 1)
}

func TestMountError(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("connection refused")}
	v, _ := newTestView(api, false)

	require.Error(t, v.Mount(context.Background()))
	assert.False(t, v.Loading())
	assert.EqualError(t, v.Err(), "connection refused")

	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	assert.Contains(t, buf.String(), "Error: connection refused")
}

func TestMutationRefetchesAndFlashes(t *testing.T) {
	api := seeded()
	v, clock := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	require.NoError(t, v.Pay(ctx, 1))
	assert.Equal(t, []string{"list", "pay", "list"}, api.calls)

	inv, ok := v.Invoice(1)
	require.True(t, ok)
	assert.True(t, inv.Paid)

	msg := v.Message()
	require.NotNil(t, msg)
	assert.Equal(t, "Invoice marked as paid!", msg.Text)
	assert.Equal(t, FlashSuccess, msg.Kind)

	clock.t = clock.t.Add(DefaultFlashDuration - time.Millisecond)
	assert.NotNil(t, v.Message())

	clock.t = clock.t.Add(time.Millisecond)
	assert.Nil(t, v.Message())
}

func TestTickClearsExpiredFlash(t *testing.T) {
	api := seeded()
	v, clock := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))
	require.NoError(t, v.ToggleRecurring(ctx, 1))

	v.Tick(clock.t.Add(time.Second))
	require.NotNil(t, v.flash)
	v.Tick(clock.t.Add(DefaultFlashDuration))
	assert.Nil(t, v.flash)
}

func TestPayRefusedWhenAlreadyPaid(t *testing.T) {
	api := seeded()
	api.invoices[0].MarkPaid(time.Now())
	v, _ := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	assert.ErrorIs(t, v.Pay(ctx, 1), ErrAlreadyPaid)
	assert.Equal(t, []string{"list"}, api.calls)
}

func TestAutoBillRefusedWhenEnabled(t *testing.T) {
	api := seeded()
	api.invoices[0].AutoBill = true
	v, _ := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	assert.ErrorIs(t, v.EnableAutoBill(ctx, 1), ErrAutoBillEnabled)
	assert.Equal(t, []string{"list"}, api.calls)
}

func TestFailedMutationFlashesErrorAndRefetches(t *testing.T) {
	api := seeded()
	v, _ := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	api.failNext = errors.New("boom")
	require.Error(t, v.ToggleRecurring(ctx, 1))

	msg := v.Message()
	require.NotNil(t, msg)
	assert.Equal(t, "Error toggling recurring.", msg.Text)
	assert.Equal(t, FlashFailure, msg.Kind)
	assert.Equal(t, []string{"list", "toggle", "list"}, api.calls)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := seeded()
	v, _ := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	assert.ErrorIs(t, v.Delete(ctx, 1), ErrCancelled)
	assert.Equal(t, []string{"list"}, api.calls)
	assert.Nil(t, v.Message())

	confirmed, _ := newTestView(api, true)
	require.NoError(t, confirmed.Mount(ctx))
	require.NoError(t, confirmed.Delete(ctx, 1))
	assert.Empty(t, confirmed.Invoices())
	assert.Equal(t, "Invoice deleted!", confirmed.Message().Text)
}

func TestCardInput(t *testing.T) {
	api := seeded()
	v, _ := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	v.SetCardInput(1, "123456")
	assert.Equal(t, "1234", v.CardInput(1))

	require.NoError(t, v.UpdateCard(ctx, 1))
	assert.Contains(t, api.calls, "card:1234")
	assert.Empty(t, v.CardInput(1))

	require.NoError(t, v.UpdateCard(ctx, 1))
	assert.Contains(t, api.calls, "card:0000")
	inv, _ := v.Invoice(1)
	assert.Equal(t, "0000", inv.CardLast4)
	assert.Equal(t, "Card updated!", v.Message().Text)
}

func TestSubmitCreate(t *testing.T) {
	api := seeded()
	v, _ := newTestView(api, false)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx))

	v.SetCompCode("ACME")
	assert.ErrorIs(t, v.SubmitCreate(ctx), ErrFormIncomplete)
	assert.NotContains(t, api.calls, "create")

	v.SetAmount("12.50")
	v.SetRecurring(true)
	require.NoError(t, v.SubmitCreate(ctx))
	assert.Equal(t, CreateForm{}, v.Form())
	assert.Equal(t, "Invoice created!", v.Message().Text)

	list := v.Invoices()
	require.Len(t, list, 2)
	assert.Equal(t, 12.5, list[1].Amount)
	assert.True(t, list[1].Recurring)
}

func TestRender(t *testing.T) {
	api := seeded()
	api.invoices[0].MarkPaid(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	v, _ := newTestView(api, false)

	var loading bytes.Buffer
	require.NoError(t, v.Render(&loading))
	assert.Contains(t, loading.String(), "Loading invoices...")

	require.NoError(t, v.Mount(context.Background()))
	var buf bytes.Buffer
	require.NoError(t, v.Render(&buf))
	out := buf.String()
	for _, want := range []string{"Invoices", "ID: 1", "Company: ACME", "Amount: $100", "Paid: Yes", "Paid at:", "Card: **** 4242", "Auto-bill: No"} {
		assert.Contains(t, out, want)
	}

	empty, _ := newTestView(&fakeAPI{}, false)
	require.NoError(t, empty.Mount(context.Background()))
	buf.Reset()
	require.NoError(t, empty.Render(&buf))
	assert.Contains(t, buf.String(), "No invoices found.")
}

func TestSessionRun(t *testing.T) {
	api := seeded()
	in := strings.NewReader(strings.Join([]string{
		"new BETA 20 recurring",
		"pay 2",
		"delete 1",
		"n",
		"card 2 9999",
		"bogus 1",
		"quit",
	}, "\n") + "\n")
	var out bytes.Buffer

	s := NewSession(api, in, &out)
	require.NoError(t, s.Run(context.Background()))

	require.Len(t, api.invoices, 2)
	beta := api.invoices[1]
	assert.Equal(t, "BETA", beta.CompCode)
	assert.True(t, beta.Recurring)
	assert.True(t, beta.Paid)
	assert.Equal(t, "9999", beta.CardLast4)
	assert.NotContains(t, api.calls, "delete")
	assert.Contains(t, out.String(), DeletePrompt)
	assert.Contains(t, out.String(), `unknown command "bogus"`)
}
