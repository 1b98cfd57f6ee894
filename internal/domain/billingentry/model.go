package billingentry

import (
	"time"

	"github.com/google/uuid"
)

// Canonical claim statuses. Legacy rows carry free-text labels, so the
// column stays open-ended and comparisons are case-insensitive.
const (
	ClaimPending  = "Pending"
	ClaimApproved = "Approved"
	ClaimPaid     = "Paid"
	ClaimRejected = "Rejected"
)

// Entry maps to the billing_entries table: one billed service line, scoped
// to one clinic and optionally one provider. ProcedureCodes stores a
// comma-and-space-joined multi-value list.
type Entry struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	ClinicID             uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	ProviderID           *uuid.UUID `db:"provider_id" json:"provider_id,omitempty"`
	ServiceDate          *time.Time `db:"service_date" json:"service_date,omitempty"`
	PatientName          string     `db:"patient_name" json:"patient_name"`
	Insurance            *string    `db:"insurance" json:"insurance,omitempty"`
	ProcedureCodes       *string    `db:"procedure_codes" json:"procedure_codes,omitempty"`
	ClaimStatus          *string    `db:"claim_status" json:"claim_status,omitempty"`
	AppointmentStatus    *string    `db:"appointment_status" json:"appointment_status,omitempty"`
	InsurancePayment     *float64   `db:"insurance_payment" json:"insurance_payment,omitempty"`
	InsuranceNotes       *string    `db:"insurance_notes" json:"insurance_notes,omitempty"`
	PaymentAmount        *float64   `db:"payment_amount" json:"payment_amount,omitempty"`
	PatientPaymentStatus *string    `db:"patient_payment_status" json:"patient_payment_status,omitempty"`
	Copay                *float64   `db:"copay" json:"copay,omitempty"`
	Coinsurance          *float64   `db:"coinsurance" json:"coinsurance,omitempty"`
	Amount               *float64   `db:"amount" json:"amount,omitempty"`
	Notes                *string    `db:"notes" json:"notes,omitempty"`
	DerivedMonth         *string    `db:"derived_month" json:"derived_month,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// MonthTag is the display month derived from the service date.
func (e *Entry) MonthTag() string {
	if e.ServiceDate == nil {
		return ""
	}
	return e.ServiceDate.Month().String()
}
