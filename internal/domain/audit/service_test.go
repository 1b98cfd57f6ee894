package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/platform/middleware"
)

type mockRepo struct {
	logs []*Log
}

func (m *mockRepo) Create(ctx context.Context, l *Log) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	m.logs = append(m.logs, l)
	return nil
}

func (m *mockRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Log, int, error) {
	var out []*Log
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Resource != "" && l.Resource != filter.Resource {
			continue
		}
		out = append(out, l)
	}
	return out, len(out), nil
}

func TestRecordChangeMapsEntry(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	err := svc.RecordChange(middleware.AuditEntry{
		UserID:     "user-1",
		Role:       "admin",
		Resource:   "billing-entries",
		ClinicID:   "clinic-1",
		Action:     "update",
		Path:       "/api/v1/billing-entries/abc/cells",
		Method:     "POST",
		StatusCode: 200,
	})
	if err != nil {
		t.Fatalf("RecordChange: %v", err)
	}
	if len(repo.logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(repo.logs))
	}
	l := repo.logs[0]
	if l.UserID == nil || *l.UserID != "user-1" {
		t.Fatalf("unexpected user_id %v", l.UserID)
	}
	if l.ClinicID == nil || *l.ClinicID != "clinic-1" {
		t.Fatalf("unexpected clinic_id %v", l.ClinicID)
	}
	if l.Action != "update" || l.Resource != "billing-entries" {
		t.Fatalf("unexpected log %+v", l)
	}
}

func TestRecordChangeNilsEmptyActors(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	if err := svc.RecordChange(middleware.AuditEntry{Action: "delete", Resource: "todos"}); err != nil {
		t.Fatalf("RecordChange: %v", err)
	}
	l := repo.logs[0]
	if l.UserID != nil {
		t.Fatal("empty user id should persist as NULL")
	}
	if l.ClinicID != nil {
		t.Fatal("empty clinic id should persist as NULL")
	}
}

func TestListFiltersByAction(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)
	for _, action := range []string{"create", "update", "update"} {
		if err := svc.RecordChange(middleware.AuditEntry{Action: action, Resource: "invoices"}); err != nil {
			t.Fatalf("RecordChange: %v", err)
		}
	}
	logs, total, err := svc.List(context.Background(), ListFilter{Action: "update"}, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("expected 2 update logs, got %d", len(logs))
	}
}
