package receivable

import (
	"time"

	"github.com/google/uuid"
)

// Entry maps to the accounts_receivable table: a payment record tied to a
// prior month's service, tracked separately from current billing.
type Entry struct {
	ID                    uuid.UUID  `db:"id" json:"id"`
	ClinicID              uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	PatientName           string     `db:"patient_name" json:"patient_name"`
	InsuranceCode         *string    `db:"insurance_code" json:"insurance_code,omitempty"`
	Copay                 *float64   `db:"copay" json:"copay,omitempty"`
	Coinsurance           *float64   `db:"coinsurance" json:"coinsurance,omitempty"`
	DateOfService         *time.Time `db:"date_of_service" json:"date_of_service,omitempty"`
	CPTCode               *string    `db:"cpt_code" json:"cpt_code,omitempty"`
	AppointmentStatus     *string    `db:"appointment_status" json:"appointment_status,omitempty"`
	ClaimStatus           *string    `db:"claim_status" json:"claim_status,omitempty"`
	SubmitDate            *time.Time `db:"submit_date" json:"submit_date,omitempty"`
	InsurancePayment      *float64   `db:"insurance_payment" json:"insurance_payment,omitempty"`
	InsurancePayDate      *time.Time `db:"insurance_pay_date" json:"insurance_pay_date,omitempty"`
	PatientResponsibility *float64   `db:"patient_responsibility" json:"patient_responsibility,omitempty"`
	CollectedFromPatient  *float64   `db:"collected_from_patient" json:"collected_from_patient,omitempty"`
	PatientPaymentStatus  *string    `db:"patient_payment_status" json:"patient_payment_status,omitempty"`
	TotalPay              *float64   `db:"total_pay" json:"total_pay,omitempty"`
	ARAmount              *float64   `db:"ar_amount" json:"ar_amount,omitempty"`
	Notes                 *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// TotalPayment is the entry's contribution to a total-pay aggregate: the
// stored value when present, else insurance payment plus the amount
// collected from the patient, missing components counting as zero.
func (e *Entry) TotalPayment() float64 {
	if e.TotalPay != nil {
		return *e.TotalPay
	}
	total := 0.0
	if e.InsurancePayment != nil {
		total += *e.InsurancePayment
	}
	if e.CollectedFromPatient != nil {
		total += *e.CollectedFromPatient
	}
	return total
}
