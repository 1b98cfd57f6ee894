package clinic

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/gateway"
)

type mockClinicRepo struct {
	clinics map[uuid.UUID]*Clinic
}

func newMockClinicRepo() *mockClinicRepo {
	return &mockClinicRepo{clinics: make(map[uuid.UUID]*Clinic)}
}

func (m *mockClinicRepo) Create(ctx context.Context, c *Clinic) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.clinics[c.ID] = c
	return nil
}

func (m *mockClinicRepo) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	c, ok := m.clinics[id]
	if !ok {
		return nil, fmt.Errorf("clinic not found")
	}
	return c, nil
}

func (m *mockClinicRepo) Update(ctx context.Context, c *Clinic) error {
	if _, ok := m.clinics[c.ID]; !ok {
		return fmt.Errorf("clinic not found")
	}
	m.clinics[c.ID] = c
	return nil
}

func (m *mockClinicRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.clinics, id)
	return nil
}

func (m *mockClinicRepo) List(ctx context.Context) ([]*Clinic, error) {
	out := make([]*Clinic, 0, len(m.clinics))
	for _, c := range m.clinics {
		out = append(out, c)
	}
	return out, nil
}

type mockProviderRepo struct {
	providers map[uuid.UUID]*Provider
}

func newMockProviderRepo() *mockProviderRepo {
	return &mockProviderRepo{providers: make(map[uuid.UUID]*Provider)}
}

func (m *mockProviderRepo) Create(ctx context.Context, p *Provider) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.providers[p.ID] = p
	return nil
}

func (m *mockProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider not found")
	}
	return p, nil
}

func (m *mockProviderRepo) Update(ctx context.Context, p *Provider) error {
	m.providers[p.ID] = p
	return nil
}

func (m *mockProviderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.providers, id)
	return nil
}

func (m *mockProviderRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Provider, error) {
	var out []*Provider
	for _, p := range m.providers {
		if p.ClinicID == clinicID {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockPaymentRepo struct {
	payments map[uuid.UUID]*Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, p *Payment) error {
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.payments, id)
	return nil
}

func (m *mockPaymentRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*Payment, error) {
	var out []*Payment
	for _, p := range m.payments {
		if p.ProviderID == providerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(newMockClinicRepo(), newMockProviderRepo(), newMockPaymentRepo(), NewSettings(gateway.NewMemory()))
}

func strPtr(s string) *string { return &s }

func TestCreateClinicRequiresName(t *testing.T) {
	svc := newTestService()
	err := svc.CreateClinic(context.Background(), &Clinic{Name: "  "})
	if err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestCreateProviderRequiresClinic(t *testing.T) {
	svc := newTestService()
	err := svc.CreateProvider(context.Background(), &Provider{Name: "Dr. Chen"})
	if err == nil {
		t.Fatal("expected error for missing clinic_id")
	}
}

func TestCreatePaymentValidatesMonth(t *testing.T) {
	svc := newTestService()
	p := &Payment{
		ProviderID:  uuid.New(),
		Description: "September payout",
		Amount:      1200,
		Month:       strPtr("2024-13"),
	}
	if err := svc.CreatePayment(context.Background(), p); err == nil {
		t.Fatal("expected error for month 13")
	}
	p.Month = strPtr("2024-09")
	if err := svc.CreatePayment(context.Background(), p); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
}

func TestCreatePaymentRequiresDescription(t *testing.T) {
	svc := newTestService()
	p := &Payment{ProviderID: uuid.New(), Amount: 500}
	if err := svc.CreatePayment(context.Background(), p); err == nil {
		t.Fatal("expected error for blank description")
	}
}

func TestListProvidersFiltersByClinic(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	clinicA, clinicB := uuid.New(), uuid.New()
	for _, p := range []*Provider{
		{ClinicID: clinicA, Name: "Dr. Chen"},
		{ClinicID: clinicA, Name: "Dr. Okafor"},
		{ClinicID: clinicB, Name: "Dr. Reyes"},
	} {
		if err := svc.CreateProvider(ctx, p); err != nil {
			t.Fatalf("CreateProvider: %v", err)
		}
	}
	got, err := svc.ListProviders(ctx, clinicA)
	if err != nil {
		t.Fatalf("ListProviders: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 providers for clinic A, got %d", len(got))
	}
}
