package billingcode

import (
	"time"

	"github.com/google/uuid"
)

// Code is a CPT or custom procedure code used to populate the multiselect
// procedure columns on billing rows.
type Code struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	DefaultRate *float64  `json:"default_rate,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
