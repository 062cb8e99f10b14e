package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/invoice-desk/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-desk/internal/domain/repository"
)

// invoiceRepository keeps invoices in a slice in insertion order. Go serves
// requests on many goroutines, so every access goes through mu.
type invoiceRepository struct {
	mu       sync.RWMutex
	invoices []entity.Invoice
	// highWater is the largest id ever handed out, so deleted ids are not reused
	highWater int64
	now       func() time.Time
}

// NewInvoiceRepository creates an empty in-memory invoice repository
func NewInvoiceRepository() domainRepo.InvoiceRepository {
	return &invoiceRepository{now: time.Now}
}

func (r *invoiceRepository) List(ctx context.Context) ([]entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Invoice, len(r.invoices))
	for i, inv := range r.invoices {
		out[i] = inv.Clone()
	}
	return out, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	invoice.ID = r.nextID()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = r.now().UTC()
	}
	r.highWater = invoice.ID
	r.invoices = append(r.invoices, invoice.Clone())
	return nil
}

// nextID is max existing id + 1, or 1 on an empty store. Must hold mu.
func (r *invoiceRepository) nextID() int64 {
	maxID := r.highWater
	for _, inv := range r.invoices {
		if inv.ID > maxID {
			maxID = inv.ID
		}
	}
	return maxID + 1
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	inv := r.invoices[idx].Clone()
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, id int64, mutate func(*entity.Invoice)) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domainRepo.ErrInvoiceNotFound
	}

	updated := r.invoices[idx].Clone()
	mutate(&updated)
	// id and creation time are owned by the store
	updated.ID = r.invoices[idx].ID
	updated.CreatedAt = r.invoices[idx].CreatedAt
	r.invoices[idx] = updated

	out := updated.Clone()
	return &out, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id int64) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domainRepo.ErrInvoiceNotFound
	}

	deleted := r.invoices[idx]
	r.invoices = append(r.invoices[:idx], r.invoices[idx+1:]...)
	return &deleted, nil
}

func (r *invoiceRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.invoices)), nil
}

func (r *invoiceRepository) indexOf(id int64) int {
	for i := range r.invoices {
		if r.invoices[i].ID == id {
			return i
		}
	}
	return -1
}
