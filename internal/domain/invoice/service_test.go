package invoice

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	items    map[uuid.UUID]*Invoice
	lineItem map[uuid.UUID][]*Item
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Invoice), lineItem: make(map[uuid.UUID][]*Item)}
}

func (m *mockRepo) Create(_ context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	m.items[inv.ID] = inv
	return nil
}

func (m *mockRepo) CreateWithItems(ctx context.Context, inv *Invoice, items []*Item) error {
	if err := m.Create(ctx, inv); err != nil {
		return err
	}
	for _, item := range items {
		item.InvoiceID = inv.ID
		m.lineItem[inv.ID] = append(m.lineItem[inv.ID], item)
	}
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return inv, nil
}

func (m *mockRepo) Update(_ context.Context, inv *Invoice) error {
	m.items[inv.ID] = inv
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByClinic(_ context.Context, clinicID uuid.UUID, _, _ int) ([]*Invoice, int, error) {
	var out []*Invoice
	for _, inv := range m.items {
		if inv.ClinicID == clinicID {
			out = append(out, inv)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) AddItem(_ context.Context, item *Item) error {
	item.ID = uuid.New()
	m.lineItem[item.InvoiceID] = append(m.lineItem[item.InvoiceID], item)
	return nil
}

func (m *mockRepo) GetItems(_ context.Context, invoiceID uuid.UUID) ([]*Item, error) {
	return m.lineItem[invoiceID], nil
}

func TestCreateComputesBalanceDue(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := &Invoice{
		ClinicID:          uuid.New(),
		PeriodMonth:       "2024-09",
		InsurancePayments: 10000,
		FeePercentage:     6,
		BalanceDue:        999999, // ignored
	}
	if err := svc.Create(context.Background(), inv, nil); err != nil {
		t.Fatal(err)
	}
	if inv.BalanceDue != 600 {
		t.Errorf("BalanceDue = %v, want 600", inv.BalanceDue)
	}
	if inv.Status != StatusDraft {
		t.Errorf("Status = %q", inv.Status)
	}
}

func TestUpdateRecomputesBalanceInSameWrite(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := &Invoice{ClinicID: uuid.New(), PeriodMonth: "2024-09", InsurancePayments: 10000, FeePercentage: 6}
	if err := svc.Create(context.Background(), inv, nil); err != nil {
		t.Fatal(err)
	}

	inv.InsurancePayments = 20000
	if err := svc.Update(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	stored := repo.items[inv.ID]
	if stored.BalanceDue != 1200 {
		t.Errorf("BalanceDue = %v, want 1200", stored.BalanceDue)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	base := Invoice{ClinicID: uuid.New(), PeriodMonth: "2024-09", FeePercentage: 6}

	bad := base
	bad.ClinicID = uuid.Nil
	if err := svc.Create(context.Background(), &bad, nil); err == nil {
		t.Error("missing clinic should fail")
	}

	bad = base
	bad.PeriodMonth = "September"
	if err := svc.Create(context.Background(), &bad, nil); err == nil {
		t.Error("bad period month should fail")
	}

	bad = base
	bad.FeePercentage = 120
	if err := svc.Create(context.Background(), &bad, nil); err == nil {
		t.Error("fee over 100 should fail")
	}
}

func TestCreateWithItems(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	inv := &Invoice{ClinicID: uuid.New(), PeriodMonth: "2024-09", InsurancePayments: 5000, FeePercentage: 5}
	items := []*Item{{Description: "Billing services", Amount: 250}}
	if err := svc.Create(context.Background(), inv, items); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Items(context.Background(), inv.ID)
	if err != nil || len(got) != 1 {
		t.Fatalf("items = %v, %v", got, err)
	}
}
