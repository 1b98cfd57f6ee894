package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/period"
)

type Service struct {
	invoices Repository
}

func NewService(invoices Repository) *Service {
	return &Service{invoices: invoices}
}

func (s *Service) validate(inv *Invoice) error {
	if inv.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if _, err := period.ParseKey(inv.PeriodMonth); err != nil {
		return fmt.Errorf("period_month must be YYYY-MM")
	}
	if inv.FeePercentage < 0 || inv.FeePercentage > 100 {
		return fmt.Errorf("fee_percentage must be between 0 and 100")
	}
	return nil
}

// Create stores an invoice with its derived balance. BalanceDue in the
// request body is ignored; it is always recomputed from the inputs.
func (s *Service) Create(ctx context.Context, inv *Invoice, items []*Item) error {
	if err := s.validate(inv); err != nil {
		return err
	}
	if inv.Status == "" {
		inv.Status = StatusDraft
	}
	inv.Recompute()
	if len(items) > 0 {
		return s.invoices.CreateWithItems(ctx, inv, items)
	}
	return s.invoices.Create(ctx, inv)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

// Update rewrites the invoice, recomputing BalanceDue in the same write as
// any change to its driving inputs.
func (s *Service) Update(ctx context.Context, inv *Invoice) error {
	if err := s.validate(inv); err != nil {
		return err
	}
	inv.Recompute()
	return s.invoices.Update(ctx, inv)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.invoices.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListByClinic(ctx, clinicID, limit, offset)
}

func (s *Service) AddItem(ctx context.Context, item *Item) error {
	if item.InvoiceID == uuid.Nil {
		return fmt.Errorf("invoice_id is required")
	}
	return s.invoices.AddItem(ctx, item)
}

func (s *Service) Items(ctx context.Context, invoiceID uuid.UUID) ([]*Item, error) {
	return s.invoices.GetItems(ctx, invoiceID)
}
