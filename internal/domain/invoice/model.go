package invoice

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft = "draft"
	StatusSent  = "sent"
	StatusPaid  = "paid"
)

// Invoice maps to the invoices table: a billing-fee document over a clinic's
// insurance collections for one period. BalanceDue is derived from
// InsurancePayments and FeePercentage and is rewritten in the same update as
// any change to either input, never edited independently.
type Invoice struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	ClinicID          uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	PatientID         *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	PeriodMonth       string     `db:"period_month" json:"period_month"`
	InsurancePayments float64    `db:"insurance_payments" json:"insurance_payments"`
	FeePercentage     float64    `db:"fee_percentage" json:"fee_percentage"`
	BalanceDue        float64    `db:"balance_due" json:"balance_due"`
	PaidAmount        *float64   `db:"paid_amount" json:"paid_amount,omitempty"`
	Status            string     `db:"status" json:"status"`
	DueDate           *time.Time `db:"due_date" json:"due_date,omitempty"`
	Notes             *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Recompute overwrites BalanceDue from its driving inputs.
func (inv *Invoice) Recompute() {
	inv.BalanceDue = inv.InsurancePayments * inv.FeePercentage / 100
}

// Item maps to the invoice_items table.
type Item struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InvoiceID   uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Description string    `db:"description" json:"description"`
	Amount      float64   `db:"amount" json:"amount"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
