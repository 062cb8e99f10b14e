// Package view holds the client-side state of the invoice screen: the fetched
// list, form inputs and the transient status message. It never caches server
// state beyond the last snapshot; every command ends with a full refetch.
package view

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/invoice-desk/internal/client"
	"github.com/sangkips/invoice-desk/internal/domain/entity"
)

// API is the subset of the invoice client the view dispatches to
type API interface {
	List(ctx context.Context) ([]entity.Invoice, error)
	Create(ctx context.Context, req client.CreateInvoiceRequest) (*entity.Invoice, error)
	Pay(ctx context.Context, id int64) (*entity.Invoice, error)
	UpdateCard(ctx context.Context, id int64, last4 string) (*entity.Invoice, error)
	EnableAutoBill(ctx context.Context, id int64) (*entity.Invoice, error)
	ToggleRecurring(ctx context.Context, id int64) (*entity.Invoice, error)
	Delete(ctx context.Context, id int64) (*entity.Invoice, error)
}

// Confirmer asks the user a yes/no question
type Confirmer func(prompt string) bool

// DeletePrompt is the question asked before deleting an invoice
const DeletePrompt = "Delete this invoice?"

var (
	// ErrFormIncomplete is returned when the create form is missing a field
	ErrFormIncomplete = errors.New("company code and a numeric amount are required")
	// ErrCancelled is returned when the user declines a confirmation
	ErrCancelled = errors.New("cancelled by user")
	// ErrAlreadyPaid is returned when paying an invoice shown as paid
	ErrAlreadyPaid = errors.New("invoice is already paid")
	// ErrAutoBillEnabled is returned when auto-bill is already on
	ErrAutoBillEnabled = errors.New("auto-bill is already enabled")
)

// CreateForm holds the uncommitted create-invoice inputs
type CreateForm struct {
	CompCode  string
	Amount    string
	Recurring bool
}

// View is the invoice screen state
type View struct {
	api      API
	now      func() time.Time
	flashFor time.Duration
	confirm  Confirmer

	loading  bool
	err      error
	invoices []entity.Invoice
	form     CreateForm
	cards    map[int64]string
	flash    *Flash
}

// Option configures a View
type Option func(*View)

// WithClock overrides the time source used for message expiry
func WithClock(now func() time.Time) Option {
	return func(v *View) { v.now = now }
}

// WithFlashDuration sets how long messages stay visible
func WithFlashDuration(d time.Duration) Option {
	return func(v *View) { v.flashFor = d }
}

// WithConfirmer sets the confirmation prompt used before deletes
func WithConfirmer(c Confirmer) Option {
	return func(v *View) { v.confirm = c }
}

// New creates a view in the loading state. Call Mount to fetch.
func New(api API, opts ...Option) *View {
	v := &View{
		api:      api,
		now:      time.Now,
		flashFor: DefaultFlashDuration,
		confirm:  func(string) bool { return false },
		loading:  true,
		cards:    make(map[int64]string),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount performs the initial fetch
func (v *View) Mount(ctx context.Context) error {
	return v.refresh(ctx)
}

// Refresh refetches the full list
func (v *View) Refresh(ctx context.Context) error {
	return v.refresh(ctx)
}

func (v *View) refresh(ctx context.Context) error {
	v.loading = true
	invoices, err := v.api.List(ctx)
	v.loading = false
	if err != nil {
		v.err = err
		return err
	}
	v.err = nil
	v.invoices = invoices
	return nil
}

// Loading reports whether a fetch is outstanding
func (v *View) Loading() bool { return v.loading }

// Err returns the last fetch error, if any
func (v *View) Err() error { return v.err }

// Invoices returns the last fetched snapshot
func (v *View) Invoices() []entity.Invoice {
	out := make([]entity.Invoice, len(v.invoices))
	copy(out, v.invoices)
	return out
}

// Invoice looks up an invoice in the snapshot
func (v *View) Invoice(id int64) (entity.Invoice, bool) {
	for _, inv := range v.invoices {
		if inv.ID == id {
			return inv, true
		}
	}
	return entity.Invoice{}, false
}

// Form returns the current create form
func (v *View) Form() CreateForm { return v.form }

// SetCompCode updates the company code input
func (v *View) SetCompCode(s string) { v.form.CompCode = s }

// SetAmount updates the amount input
func (v *View) SetAmount(s string) { v.form.Amount = s }

// SetRecurring updates the recurring checkbox
func (v *View) SetRecurring(b bool) { v.form.Recurring = b }

// SetCardInput updates the uncommitted card digits for one invoice. Input is
// cut to four characters.
func (v *View) SetCardInput(id int64, s string) {
	if r := []rune(s); len(r) > entity.MaxCardLast4Length {
		s = string(r[:entity.MaxCardLast4Length])
	}
	v.cards[id] = s
}

// CardInput returns the uncommitted card digits for one invoice
func (v *View) CardInput(id int64) string { return v.cards[id] }

// Message returns the visible flash, or nil once it has expired
func (v *View) Message() *Flash {
	v.Tick(v.now())
	if v.flash == nil {
		return nil
	}
	f := *v.flash
	return &f
}

// Tick clears the flash once its time is up
func (v *View) Tick(now time.Time) {
	if v.flash != nil && v.flash.Expired(now) {
		v.flash = nil
	}
}

func (v *View) setFlash(kind FlashKind, text string) {
	v.flash = &Flash{Text: text, Kind: kind, Until: v.now().Add(v.flashFor)}
}

// SubmitCreate sends the create form. The form is reset on success.
func (v *View) SubmitCreate(ctx context.Context) error {
	code := strings.TrimSpace(v.form.CompCode)
	amount, err := strconv.ParseFloat(strings.TrimSpace(v.form.Amount), 64)
	if code == "" || err != nil {
		v.setFlash(FlashFailure, "Error creating invoice.")
		return ErrFormIncomplete
	}

	_, err = v.api.Create(ctx, client.CreateInvoiceRequest{
		CompCode:  code,
		Amount:    amount,
		Recurring: v.form.Recurring,
	})
	if err != nil {
		v.setFlash(FlashFailure, "Error creating invoice.")
	} else {
		v.setFlash(FlashSuccess, "Invoice created!")
		v.form = CreateForm{}
	}
	return v.afterCommand(ctx, err)
}

// Pay marks an invoice paid
func (v *View) Pay(ctx context.Context, id int64) error {
	if inv, ok := v.Invoice(id); ok && inv.Paid {
		return ErrAlreadyPaid
	}
	_, err := v.api.Pay(ctx, id)
	v.report(err, "Invoice marked as paid!", "Error marking as paid.")
	return v.afterCommand(ctx, err)
}

// EnableAutoBill turns auto-billing on
func (v *View) EnableAutoBill(ctx context.Context, id int64) error {
	if inv, ok := v.Invoice(id); ok && inv.AutoBill {
		return ErrAutoBillEnabled
	}
	_, err := v.api.EnableAutoBill(ctx, id)
	v.report(err, "Auto-bill enabled!", "Error enabling auto-bill.")
	return v.afterCommand(ctx, err)
}

// UpdateCard submits the card input for an invoice; blank submits "0000"
func (v *View) UpdateCard(ctx context.Context, id int64) error {
	last4 := v.cards[id]
	if last4 == "" {
		last4 = entity.DefaultUpdatedLast4
	}
	_, err := v.api.UpdateCard(ctx, id, last4)
	v.report(err, "Card updated!", "Error updating card.")
	delete(v.cards, id)
	return v.afterCommand(ctx, err)
}

// ToggleRecurring flips the recurring flag
func (v *View) ToggleRecurring(ctx context.Context, id int64) error {
	_, err := v.api.ToggleRecurring(ctx, id)
	v.report(err, "Recurring status toggled!", "Error toggling recurring.")
	return v.afterCommand(ctx, err)
}

// Delete removes an invoice after the user confirms
func (v *View) Delete(ctx context.Context, id int64) error {
	if !v.confirm(DeletePrompt) {
		return ErrCancelled
	}
	_, err := v.api.Delete(ctx, id)
	v.report(err, "Invoice deleted!", "Error deleting invoice.")
	if err == nil {
		delete(v.cards, id)
	}
	return v.afterCommand(ctx, err)
}

func (v *View) report(err error, ok, failed string) {
	if err != nil {
		v.setFlash(FlashFailure, failed)
		return
	}
	v.setFlash(FlashSuccess, ok)
}

// afterCommand refetches the list and returns the command error, or the
// refetch error when the command itself succeeded
func (v *View) afterCommand(ctx context.Context, cmdErr error) error {
	refreshErr := v.refresh(ctx)
	if cmdErr != nil {
		return cmdErr
	}
	return refreshErr
}
