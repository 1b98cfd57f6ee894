package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. PatientNumber is the numeric
// identifier typed into a billing grid's name cell to pull defaults.
type Patient struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ClinicID      uuid.UUID `db:"clinic_id" json:"clinic_id"`
	PatientNumber string    `db:"patient_number" json:"patient_number"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Insurance     *string   `db:"insurance" json:"insurance,omitempty"`
	Copay         *float64  `db:"copay" json:"copay,omitempty"`
	Coinsurance   *float64  `db:"coinsurance" json:"coinsurance,omitempty"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last, tolerating either being empty.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
