package todo

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Item maps to the todo_items table: a claim-issue tracker row.
type Item struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClinicID    uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	ClaimRef    *uuid.UUID `db:"claim_ref" json:"claim_ref,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedBy   *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Note maps to the todo_notes table. The thread is append-only; notes are
// never edited or removed.
type Note struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TodoID    uuid.UUID `db:"todo_id" json:"todo_id"`
	Body      string    `db:"body" json:"body"`
	CreatedBy *string   `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
