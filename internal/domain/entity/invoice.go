package entity

import "time"

// Defaults applied when a field is missing from a request
const (
	DefaultCompCode     = "NEWCO"
	DefaultCardLast4    = "4242"
	DefaultUpdatedLast4 = "0000"
	MaxCardLast4Length  = 4
	MaxCompCodeLength   = 32
)

// Invoice represents a billing record with payment, recurring and auto-bill status
type Invoice struct {
	ID        int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CompCode  string     `gorm:"size:32;not null" json:"comp_code"`
	Amount    float64    `gorm:"not null;default:0" json:"amount"`
	Paid      bool       `gorm:"not null;default:false" json:"paid"`
	PaidAt    *time.Time `json:"paid_at"`
	Recurring bool       `gorm:"not null;default:false" json:"recurring"`
	CardLast4 string     `gorm:"size:4;not null" json:"card_last4"`
	AutoBill  bool       `gorm:"not null;default:false" json:"auto_bill"`
	CreatedAt time.Time  `gorm:"autoCreateTime:false;not null" json:"created_at"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// MarkPaid moves the invoice to the paid state. Paying again resets PaidAt.
func (i *Invoice) MarkPaid(now time.Time) {
	i.Paid = true
	paidAt := now.UTC()
	i.PaidAt = &paidAt
}

// ToggleRecurring flips the recurring flag
func (i *Invoice) ToggleRecurring() {
	i.Recurring = !i.Recurring
}

// EnableAutoBill switches auto-billing on. There is no way back.
func (i *Invoice) EnableAutoBill() {
	i.AutoBill = true
}

// SetCard stores the last four card digits, falling back to DefaultUpdatedLast4
// when blank.
func (i *Invoice) SetCard(last4 string) {
	if last4 == "" {
		last4 = DefaultUpdatedLast4
	}
	i.CardLast4 = last4
}

// Clone returns a copy that shares no pointers with the receiver
func (i Invoice) Clone() Invoice {
	if i.PaidAt != nil {
		paidAt := *i.PaidAt
		i.PaidAt = &paidAt
	}
	return i
}

// InvoiceSequence tracks the last invoice id handed out so ids survive deletes
// without being reused
type InvoiceSequence struct {
	Name      string `gorm:"primaryKey;size:32"`
	LastValue int64  `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
