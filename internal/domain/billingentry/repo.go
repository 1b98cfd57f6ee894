package billingentry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a clinic's entries. Zero values mean no constraint.
type ListFilter struct {
	ProviderID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID, f ListFilter, limit, offset int) ([]*Entry, int, error)
}
