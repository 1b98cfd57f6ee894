package todo

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID, status string) ([]*Item, error)
	AddNote(ctx context.Context, note *Note) error
	GetNotes(ctx context.Context, todoID uuid.UUID) ([]*Note, error)
}
