package clinic

import (
	"context"
	"testing"

	"github.com/medbill/medbill/internal/gateway"
)

func TestLockedColumnsRoundTrip(t *testing.T) {
	gw := gateway.NewMemory()
	s := NewSettings(gw)
	ctx := context.Background()

	cols, err := s.LockedColumns(ctx, "clinic-1")
	if err != nil {
		t.Fatalf("LockedColumns: %v", err)
	}
	if cols != nil {
		t.Fatalf("expected no columns before any write, got %v", cols)
	}

	if err := s.SetLockedColumns(ctx, "clinic-1", []string{"insurance_payment", "total_pay"}); err != nil {
		t.Fatalf("SetLockedColumns: %v", err)
	}
	cols, err = s.LockedColumns(ctx, "clinic-1")
	if err != nil {
		t.Fatalf("LockedColumns: %v", err)
	}
	if len(cols) != 2 || cols[0] != "insurance_payment" || cols[1] != "total_pay" {
		t.Fatalf("unexpected columns %v", cols)
	}
}

func TestSetLockedColumnsUpsertsSingleRow(t *testing.T) {
	gw := gateway.NewMemory()
	s := NewSettings(gw)
	ctx := context.Background()

	if err := s.SetLockedColumns(ctx, "clinic-1", []string{"copay"}); err != nil {
		t.Fatalf("SetLockedColumns: %v", err)
	}
	if err := s.SetLockedColumns(ctx, "clinic-1", []string{"copay", "coinsurance"}); err != nil {
		t.Fatalf("SetLockedColumns: %v", err)
	}
	if got := len(gw.Table(settingsTable)); got != 1 {
		t.Fatalf("expected one settings row after two writes, got %d", got)
	}
}

func TestLockColumnIsIdempotent(t *testing.T) {
	gw := gateway.NewMemory()
	s := NewSettings(gw)
	ctx := context.Background()

	if _, err := s.LockColumn(ctx, "clinic-1", "amount"); err != nil {
		t.Fatalf("LockColumn: %v", err)
	}
	writes := gw.Writes()
	cols, err := s.LockColumn(ctx, "clinic-1", "amount")
	if err != nil {
		t.Fatalf("LockColumn: %v", err)
	}
	if len(cols) != 1 {
		t.Fatalf("expected single column, got %v", cols)
	}
	if gw.Writes() != writes {
		t.Fatal("re-locking a locked column should not write")
	}
}

func TestUnlockColumn(t *testing.T) {
	gw := gateway.NewMemory()
	s := NewSettings(gw)
	ctx := context.Background()

	if err := s.SetLockedColumns(ctx, "clinic-1", []string{"amount", "notes"}); err != nil {
		t.Fatalf("SetLockedColumns: %v", err)
	}
	cols, err := s.UnlockColumn(ctx, "clinic-1", "amount")
	if err != nil {
		t.Fatalf("UnlockColumn: %v", err)
	}
	if len(cols) != 1 || cols[0] != "notes" {
		t.Fatalf("unexpected columns %v", cols)
	}
}

func TestLockedColumnsIsolatedPerClinic(t *testing.T) {
	gw := gateway.NewMemory()
	s := NewSettings(gw)
	ctx := context.Background()

	if err := s.SetLockedColumns(ctx, "clinic-1", []string{"amount"}); err != nil {
		t.Fatalf("SetLockedColumns: %v", err)
	}
	cols, err := s.LockedColumns(ctx, "clinic-2")
	if err != nil {
		t.Fatalf("LockedColumns: %v", err)
	}
	if cols != nil {
		t.Fatalf("clinic-2 should have no locks, got %v", cols)
	}
}
