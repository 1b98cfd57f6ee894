package billingentry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/grid"
	"github.com/medbill/medbill/internal/platform/auth"
)

type mockRepo struct {
	items map[uuid.UUID]*Entry
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Entry)}
}

func (m *mockRepo) Create(_ context.Context, e *Entry) error {
	e.ID = uuid.New()
	m.items[e.ID] = e
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Entry, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return e, nil
}

func (m *mockRepo) Update(_ context.Context, e *Entry) error {
	m.items[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByClinic(_ context.Context, clinicID uuid.UUID, _ ListFilter, _, _ int) ([]*Entry, int, error) {
	var out []*Entry
	for _, e := range m.items {
		if e.ClinicID == clinicID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

type stubLocks struct {
	locked []string
}

func (s *stubLocks) LockedColumns(_ context.Context, _ string) ([]string, error) {
	return s.locked, nil
}

type stubPatients struct{}

func (stubPatients) LookupByNumber(_ context.Context, _, number string) (*grid.PatientDefaults, error) {
	if number == "3861" {
		return &grid.PatientDefaults{Name: "Maria Lopez", Insurance: "BCBS", Copay: 25, Coinsurance: 10}, nil
	}
	return nil, nil
}

func newTestService(mem *gateway.Memory, locked []string) *Service {
	return NewService(newMockRepo(), mem, stubPatients{}, &stubLocks{locked: locked}, zerolog.Nop())
}

func TestCreateDerivesMonthTag(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, gateway.NewMemory(), nil, nil, zerolog.Nop())

	date := time.Date(2024, time.September, 5, 0, 0, 0, 0, time.UTC)
	e := &Entry{ClinicID: uuid.New(), PatientName: "Maria Lopez", ServiceDate: &date}
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if e.DerivedMonth == nil || *e.DerivedMonth != "September" {
		t.Errorf("DerivedMonth = %v", e.DerivedMonth)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	svc := newTestService(gateway.NewMemory(), nil)
	if err := svc.Create(context.Background(), &Entry{PatientName: "x"}); err == nil {
		t.Error("missing clinic_id should fail")
	}
	if err := svc.Create(context.Background(), &Entry{ClinicID: uuid.New(), PatientName: "  "}); err == nil {
		t.Error("blank patient_name should fail")
	}
}

func TestCommitCellRespectsClinicLocks(t *testing.T) {
	mem := gateway.NewMemory()
	mem.Seed("billing_entries", []gateway.Row{{"id": "e1", "copay": 0.0}})
	svc := newTestService(mem, []string{"copay"})

	_, err := svc.CommitCell(context.Background(), "c1", "e1", "copay", "30", auth.RoleStandard)
	if !errors.Is(err, grid.ErrColumnLocked) {
		t.Errorf("err = %v, want ErrColumnLocked", err)
	}

	patch, err := svc.CommitCell(context.Background(), "c1", "e1", "copay", "30", auth.RoleSuperAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if patch["copay"] != 30.0 {
		t.Errorf("patch = %v", patch)
	}
}

func TestCommitCellPatientLookup(t *testing.T) {
	mem := gateway.NewMemory()
	mem.Seed("billing_entries", []gateway.Row{{"id": "e1", "patient_name": "old"}})
	svc := newTestService(mem, nil)

	patch, err := svc.CommitCell(context.Background(), "c1", "e1", "patient_name", "3861", auth.RoleStandard)
	if err != nil {
		t.Fatal(err)
	}
	if patch["patient_name"] != "Maria Lopez" || patch["insurance"] != "BCBS" {
		t.Errorf("patch = %v", patch)
	}
	if mem.Writes() != 1 {
		t.Errorf("writes = %d, want 1", mem.Writes())
	}
}

func TestImportPartialFailure(t *testing.T) {
	mem := gateway.NewMemory()
	svc := newTestService(mem, nil)

	mem.FailNext = &gateway.Error{Code: gateway.CodeGeneric, Message: "down"}
	created, err := svc.Import(context.Background(), "c1", []gateway.Row{
		{"patient_name": "A"},
		{"patient_name": "B"},
	})
	var batchErr *grid.BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("err = %v, want BatchError", err)
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if len(mem.Table("billing_entries")) != 1 {
		t.Error("completed insert should remain")
	}
}

func TestBulkCreateStampsClinic(t *testing.T) {
	mem := gateway.NewMemory()
	svc := newTestService(mem, nil)

	created, err := svc.BulkCreateFromNumbers(context.Background(), "c1", nil, []string{"3861", "777"})
	if err != nil {
		t.Fatal(err)
	}
	if created != 2 {
		t.Errorf("created = %d", created)
	}
	for _, row := range mem.Table("billing_entries") {
		if row["clinic_id"] != "c1" {
			t.Errorf("row missing clinic: %v", row)
		}
	}
}
