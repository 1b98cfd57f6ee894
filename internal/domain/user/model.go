package user

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the application-level record for an authenticated user. The
// identity itself lives with the auth provider; this row carries the role
// and display fields the app needs.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
