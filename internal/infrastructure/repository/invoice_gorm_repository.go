package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/invoice-desk/internal/domain/entity"
	domainRepo "github.com/sangkips/invoice-desk/internal/domain/repository"
	"gorm.io/gorm"
)

const invoiceSequenceName = "invoices"

type gormInvoiceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormInvoiceRepository creates an invoice repository backed by GORM. The
// caller is expected to have migrated entity.Invoice and entity.InvoiceSequence
// and to limit the pool to one connection so Create transactions serialize.
func NewGormInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &gormInvoiceRepository{db: db, now: time.Now}
}

func (r *gormInvoiceRepository) List(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).Scopes(insertionOrder).Find(&invoices).Error
	if invoices == nil {
		invoices = []entity.Invoice{}
	}
	return invoices, err
}

func (r *gormInvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&entity.Invoice{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}

		seq := entity.InvoiceSequence{Name: invoiceSequenceName}
		if err := tx.FirstOrCreate(&seq, entity.InvoiceSequence{Name: invoiceSequenceName}).Error; err != nil {
			return err
		}
		if seq.LastValue > maxID {
			maxID = seq.LastValue
		}

		invoice.ID = maxID + 1
		if invoice.CreatedAt.IsZero() {
			invoice.CreatedAt = r.now().UTC()
		}
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}

		return tx.Model(&seq).Update("last_value", invoice.ID).Error
	})
}

func (r *gormInvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Scopes(invoiceByID(id)).First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormInvoiceRepository) Update(ctx context.Context, id int64, mutate func(*entity.Invoice)) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(invoiceByID(id)).First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainRepo.ErrInvoiceNotFound
			}
			return err
		}

		createdAt := invoice.CreatedAt
		mutate(&invoice)
		invoice.ID = id
		invoice.CreatedAt = createdAt

		return tx.Save(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormInvoiceRepository) Delete(ctx context.Context, id int64) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(invoiceByID(id)).First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainRepo.ErrInvoiceNotFound
			}
			return err
		}
		return tx.Scopes(invoiceByID(id)).Delete(&entity.Invoice{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *gormInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Invoice{}).Count(&total).Error
	return total, err
}
