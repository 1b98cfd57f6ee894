package invoice

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	CreateWithItems(ctx context.Context, inv *Invoice, items []*Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Invoice, int, error)
	AddItem(ctx context.Context, item *Item) error
	GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*Item, error)
}
