package timecard

import (
	"time"

	"github.com/google/uuid"
)

// Entry maps to the timecard_entries table: a clock-in/out pair with derived
// totals. TotalHours and TotalPay are recomputed on every edit to either
// endpoint or the rate, in the same write.
type Entry struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	ClinicID   *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	ClockIn    time.Time  `db:"clock_in" json:"clock_in"`
	ClockOut   *time.Time `db:"clock_out" json:"clock_out,omitempty"`
	HourlyRate float64    `db:"hourly_rate" json:"hourly_rate"`
	TotalHours *float64   `db:"total_hours" json:"total_hours,omitempty"`
	TotalPay   *float64   `db:"total_pay" json:"total_pay,omitempty"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Open reports whether the entry is still clocked in.
func (e *Entry) Open() bool { return e.ClockOut == nil }

// Recompute derives total hours and pay. An open entry has no totals.
func (e *Entry) Recompute() {
	if e.ClockOut == nil {
		e.TotalHours = nil
		e.TotalPay = nil
		return
	}
	hours := e.ClockOut.Sub(e.ClockIn).Hours()
	pay := hours * e.HourlyRate
	e.TotalHours = &hours
	e.TotalPay = &pay
}
