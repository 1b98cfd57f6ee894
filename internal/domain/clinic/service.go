package clinic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/period"
)

type Service struct {
	clinics   Repository
	providers ProviderRepository
	payments  PaymentRepository
	settings  *Settings
}

func NewService(clinics Repository, providers ProviderRepository, payments PaymentRepository, settings *Settings) *Service {
	return &Service{clinics: clinics, providers: providers, payments: payments, settings: settings}
}

// Settings exposes the per-clinic settings store.
func (s *Service) Settings() *Settings { return s.settings }

func (s *Service) CreateClinic(ctx context.Context, c *Clinic) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.clinics.Create(ctx, c)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, c *Clinic) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.clinics.Update(ctx, c)
}

func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	return s.clinics.Delete(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context) ([]*Clinic, error) {
	return s.clinics.List(ctx)
}

func (s *Service) CreateProvider(ctx context.Context, p *Provider) error {
	if p.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.providers.Create(ctx, p)
}

func (s *Service) GetProvider(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.providers.GetByID(ctx, id)
}

func (s *Service) UpdateProvider(ctx context.Context, p *Provider) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.providers.Update(ctx, p)
}

func (s *Service) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	return s.providers.Delete(ctx, id)
}

func (s *Service) ListProviders(ctx context.Context, clinicID uuid.UUID) ([]*Provider, error) {
	return s.providers.ListByClinic(ctx, clinicID)
}

// CreatePayment records a payout ledger line. Month, when present, is a
// YYYY-MM key naming the aggregation period the amount was computed from.
func (s *Service) CreatePayment(ctx context.Context, p *Payment) error {
	if p.ProviderID == uuid.Nil {
		return fmt.Errorf("provider_id is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if p.Month != nil {
		if _, err := period.ParseKey(*p.Month); err != nil {
			return fmt.Errorf("month must be YYYY-MM")
		}
	}
	return s.payments.Create(ctx, p)
}

func (s *Service) UpdatePayment(ctx context.Context, p *Payment) error {
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("description is required")
	}
	return s.payments.Update(ctx, p)
}

func (s *Service) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return s.payments.Delete(ctx, id)
}

func (s *Service) ListPayments(ctx context.Context, providerID uuid.UUID) ([]*Payment, error) {
	return s.payments.ListByProvider(ctx, providerID)
}
