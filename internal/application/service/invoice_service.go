package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sangkips/invoice-desk/internal/domain/entity"
	"github.com/sangkips/invoice-desk/internal/domain/repository"
	"github.com/sangkips/invoice-desk/pkg/apperror"
)

// InvoiceService handles the invoice lifecycle: create, pay, toggle recurring,
// update card, enable auto-bill and delete
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

// Option configures an InvoiceService
type Option func(*InvoiceService)

// WithClock overrides the time source used for paid_at
func WithClock(now func() time.Time) Option {
	return func(s *InvoiceService) {
		s.now = now
	}
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, opts ...Option) *InvoiceService {
	s := &InvoiceService{invoiceRepo: invoiceRepo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoiceInput represents the create invoice input. Nil fields take
// their defaults.
type CreateInvoiceInput struct {
	CompCode  *string
	Amount    *float64
	Recurring *bool
}

// ListInvoices returns every invoice in insertion order
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]entity.Invoice, error) {
	return s.invoiceRepo.List(ctx)
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// CreateInvoice creates a new unpaid invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	invoice := &entity.Invoice{
		CompCode:  entity.DefaultCompCode,
		CardLast4: entity.DefaultCardLast4,
		CreatedAt: s.now().UTC(),
	}

	if input != nil {
		if input.CompCode != nil && strings.TrimSpace(*input.CompCode) != "" {
			invoice.CompCode = strings.TrimSpace(*input.CompCode)
		}
		if input.Amount != nil {
			invoice.Amount = *input.Amount
		}
		if input.Recurring != nil {
			invoice.Recurring = *input.Recurring
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

// PayInvoice marks an invoice as paid. Paying an already paid invoice is not
// an error; paid_at moves to the current time.
func (s *InvoiceService) PayInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	now := s.now()
	return s.update(ctx, id, func(inv *entity.Invoice) {
		inv.MarkPaid(now)
	})
}

// UpdateCard replaces the stored card digits; blank input stores "0000"
func (s *InvoiceService) UpdateCard(ctx context.Context, id int64, last4 string) (*entity.Invoice, error) {
	last4 = strings.TrimSpace(last4)
	return s.update(ctx, id, func(inv *entity.Invoice) {
		inv.SetCard(last4)
	})
}

// EnableAutoBill turns auto-billing on
func (s *InvoiceService) EnableAutoBill(ctx context.Context, id int64) (*entity.Invoice, error) {
	return s.update(ctx, id, func(inv *entity.Invoice) {
		inv.EnableAutoBill()
	})
}

// ToggleRecurring flips the recurring flag
func (s *InvoiceService) ToggleRecurring(ctx context.Context, id int64) (*entity.Invoice, error) {
	return s.update(ctx, id, func(inv *entity.Invoice) {
		inv.ToggleRecurring()
	})
}

// DeleteInvoice removes an invoice and returns the removed record
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	deleted, err := s.invoiceRepo.Delete(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return deleted, nil
}

// CountInvoices returns the number of stored invoices
func (s *InvoiceService) CountInvoices(ctx context.Context) (int64, error) {
	return s.invoiceRepo.Count(ctx)
}

func (s *InvoiceService) update(ctx context.Context, id int64, mutate func(*entity.Invoice)) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.Update(ctx, id, mutate)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return invoice, nil
}

func mapStoreError(err error) error {
	if errors.Is(err, repository.ErrInvoiceNotFound) {
		return apperror.NewNotFoundError("Invoice")
	}
	return err
}
