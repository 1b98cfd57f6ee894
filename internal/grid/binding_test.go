package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/platform/auth"
)

type stubLookup struct {
	patients map[string]*PatientDefaults
	calls    int
}

func (s *stubLookup) LookupByNumber(ctx context.Context, clinicID, number string) (*PatientDefaults, error) {
	s.calls++
	return s.patients[number], nil
}

func newTestBinding(gw gateway.Client, patients PatientLookup) *Binding {
	return NewBinding(gw, "billing_entries", BillingColumns(), "c1", patients, zerolog.Nop())
}

func seedBilling(mem *gateway.Memory) {
	mem.Seed("billing_entries", []gateway.Row{
		{"id": "e1", "patient_name": "Smith", "amount": 100.0, "derived_month": "September"},
		{"id": "e2", "patient_name": "Jones", "amount": 50.0},
	})
}

func TestCommitCellUpdatesRemoteThenLocal(t *testing.T) {
	mem := gateway.NewMemory()
	seedBilling(mem)
	b := newTestBinding(mem, nil)
	if err := b.Load(context.Background(), nil, "id"); err != nil {
		t.Fatal(err)
	}

	patch, err := b.CommitCell(context.Background(), "e1", "amount", "250.75", auth.RoleStandard)
	if err != nil {
		t.Fatal(err)
	}
	if patch["amount"] != 250.75 {
		t.Errorf("patch = %v", patch)
	}
	if got := mem.Table("billing_entries")[0]["amount"]; got != 250.75 {
		t.Errorf("remote amount = %v", got)
	}
	// merge-only: the client-side derived field survives
	if b.Rows()[0]["derived_month"] != "September" {
		t.Errorf("derived field lost: %v", b.Rows()[0])
	}
}

func TestCommitCellNonNumericStoresZero(t *testing.T) {
	mem := gateway.NewMemory()
	seedBilling(mem)
	b := newTestBinding(mem, nil)

	patch, err := b.CommitCell(context.Background(), "e1", "amount", "abc", auth.RoleStandard)
	if err != nil {
		t.Fatal(err)
	}
	if patch["amount"] != 0.0 {
		t.Errorf("patch = %v, want amount 0", patch)
	}
}

func TestPlaceholderRowNeverWrites(t *testing.T) {
	mem := gateway.NewMemory()
	b := newTestBinding(mem, nil)

	patch, err := b.CommitCell(context.Background(), "placeholder-3", "amount", "10", auth.RoleStandard)
	if err != nil {
		t.Fatal(err)
	}
	if patch != nil {
		t.Errorf("patch = %v, want nil", patch)
	}
	if mem.Writes() != 0 {
		t.Errorf("gateway writes = %d, want 0", mem.Writes())
	}
}

func TestLockedColumnRoles(t *testing.T) {
	mem := gateway.NewMemory()
	seedBilling(mem)
	b := newTestBinding(mem, nil)
	b.SetLockedColumns([]string{"copay"})

	if _, err := b.CommitCell(context.Background(), "e1", "copay", "30", auth.RoleStandard); !errors.Is(err, ErrColumnLocked) {
		t.Errorf("standard role err = %v, want ErrColumnLocked", err)
	}
	if mem.Writes() != 0 {
		t.Errorf("gateway writes = %d, want 0", mem.Writes())
	}

	if _, err := b.CommitCell(context.Background(), "e1", "copay", "30", auth.RoleSuperAdmin); err != nil {
		t.Errorf("super admin err = %v", err)
	}
	if mem.Writes() != 1 {
		t.Errorf("gateway writes = %d, want 1", mem.Writes())
	}
}

func TestNumericPatientNameTriggersSingleUpdate(t *testing.T) {
	mem := gateway.NewMemory()
	seedBilling(mem)
	lookup := &stubLookup{patients: map[string]*PatientDefaults{
		"3861": {Name: "Maria Lopez", Insurance: "BCBS", Copay: 25, Coinsurance: 10},
	}}
	b := newTestBinding(mem, lookup)

	patch, err := b.CommitCell(context.Background(), "e1", "patient_name", "3861", auth.RoleStandard)
	if err != nil {
		t.Fatal(err)
	}
	if patch["patient_name"] != "Maria Lopez" || patch["insurance"] != "BCBS" || patch["copay"] != 25.0 || patch["coinsurance"] != 10.0 {
		t.Errorf("patch = %v", patch)
	}
	if mem.Writes() != 1 {
		t.Errorf("gateway writes = %d, want exactly 1", mem.Writes())
	}
	row := mem.Table("billing_entries")[0]
	if row["insurance"] != "BCBS" {
		t.Errorf("row = %v", row)
	}
}

func TestNonNumericNameSkipsLookup(t *testing.T) {
	mem := gateway.NewMemory()
	seedBilling(mem)
	lookup := &stubLookup{patients: map[string]*PatientDefaults{}}
	b := newTestBinding(mem, lookup)

	if _, err := b.CommitCell(context.Background(), "e1", "patient_name", "Carter", auth.RoleStandard); err != nil {
		t.Fatal(err)
	}
	if lookup.calls != 0 {
		t.Errorf("lookup calls = %d, want 0", lookup.calls)
	}
}

func TestFailedCommitLeavesLocalUntouched(t *testing.T) {
	mem := gateway.NewMemory()
	seedBilling(mem)
	b := newTestBinding(mem, nil)
	if err := b.Load(context.Background(), nil, "id"); err != nil {
		t.Fatal(err)
	}

	mem.FailNext = &gateway.Error{Code: gateway.CodeGeneric, Message: "connection reset"}
	if _, err := b.CommitCell(context.Background(), "e1", "amount", "999", auth.RoleStandard); err == nil {
		t.Fatal("expected error")
	}
	if b.Rows()[0]["amount"] != 100.0 {
		t.Errorf("local amount = %v, want pre-edit 100", b.Rows()[0]["amount"])
	}
}

func TestSessionSingleEditingCell(t *testing.T) {
	s := NewSession()
	if _, had := s.Open(CellRef{"e1", "amount"}); had {
		t.Error("first open should displace nothing")
	}
	displaced, had := s.Open(CellRef{"e2", "notes"})
	if !had || displaced != (CellRef{"e1", "amount"}) {
		t.Errorf("displaced = %v, %v", displaced, had)
	}
	if err := s.BeginCommit(CellRef{"e2", "notes"}); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginCommit(CellRef{"e2", "notes"}); err == nil {
		t.Error("double commit should fail")
	}
	s.Finish()
	if s.State() != StateViewing {
		t.Errorf("state = %v", s.State())
	}
}

func TestDeleteRowsPartialFailure(t *testing.T) {
	mem := gateway.NewMemory()
	seedBilling(mem)
	b := newTestBinding(mem, nil)
	if err := b.Load(context.Background(), nil, "id"); err != nil {
		t.Fatal(err)
	}

	mem.FailNext = &gateway.Error{Code: gateway.CodeGeneric, Message: "timeout"}
	deleted, err := b.DeleteRows(context.Background(), []string{"e1", "e2"})
	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("err = %v, want BatchError", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	// the successful delete stays committed
	if len(mem.Table("billing_entries")) != 1 {
		t.Errorf("remote rows = %d, want 1", len(mem.Table("billing_entries")))
	}
}

func TestBulkCreateFromNumbers(t *testing.T) {
	mem := gateway.NewMemory()
	lookup := &stubLookup{patients: map[string]*PatientDefaults{
		"100": {Name: "Ann Reyes", Insurance: "Aetna", Copay: 20, Coinsurance: 0},
	}}
	b := newTestBinding(mem, lookup)

	created, err := b.BulkCreateFromNumbers(context.Background(), []string{"100", "999"}, gateway.Row{"clinic_id": "c1"})
	if err != nil {
		t.Fatal(err)
	}
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}
	rows := mem.Table("billing_entries")
	byName := map[string]gateway.Row{}
	for _, r := range rows {
		byName[r["patient_name"].(string)] = r
	}
	if byName["Ann Reyes"]["insurance"] != "Aetna" {
		t.Errorf("matched row = %v", byName["Ann Reyes"])
	}
	if _, ok := byName["999"]; !ok {
		t.Error("unmatched number should keep the raw value as name")
	}
}
