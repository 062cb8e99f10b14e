package repository

import (
	"context"
	"errors"

	"github.com/sangkips/invoice-desk/internal/domain/entity"
)

// ErrInvoiceNotFound is returned by mutating store operations when no invoice
// has the requested id
var ErrInvoiceNotFound = errors.New("invoice not found")

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// List returns all invoices in insertion order
	List(ctx context.Context) ([]entity.Invoice, error)
	// Create assigns the next id (max existing + 1, or 1) and stores the invoice
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID returns nil, nil when the invoice does not exist
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	// Update applies mutate to the stored invoice and returns the result
	Update(ctx context.Context, id int64, mutate func(*entity.Invoice)) (*entity.Invoice, error)
	// Delete removes the invoice and returns it
	Delete(ctx context.Context, id int64) (*entity.Invoice, error)
	Count(ctx context.Context) (int64, error)
}
