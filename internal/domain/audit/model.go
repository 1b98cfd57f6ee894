package audit

import (
	"time"

	"github.com/google/uuid"
)

// Log is one persisted audit row. Rows are append-only; there is no update
// or delete path.
type Log struct {
	ID         uuid.UUID `json:"id"`
	UserID     *string   `json:"user_id,omitempty"`
	Role       string    `json:"role"`
	Resource   string    `json:"resource"`
	ClinicID   *string   `json:"clinic_id,omitempty"`
	Action     string    `json:"action"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	RequestID  string    `json:"request_id"`
	StatusCode int       `json:"status_code"`
	CreatedAt  time.Time `json:"created_at"`
}
