package timecard

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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
		return nil, pgx.ErrNoRows
	}
	return e, nil
}

func (m *mockRepo) GetOpenByUser(_ context.Context, userID uuid.UUID) (*Entry, error) {
	for _, e := range m.items {
		if e.UserID == userID && e.Open() {
			return e, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRepo) Update(_ context.Context, e *Entry) error {
	m.items[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ *time.Time) ([]*Entry, error) {
	var out []*Entry
	for _, e := range m.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestClockInRejectsSecondOpenEntry(t *testing.T) {
	svc := NewService(newMockRepo())
	userID := uuid.New()

	if _, err := svc.ClockIn(context.Background(), userID, nil, 20); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ClockIn(context.Background(), userID, nil, 20); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Errorf("err = %v, want ErrAlreadyClockedIn", err)
	}
}

func TestUpdateRejectsReopenWithOpenEntry(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	userID := uuid.New()

	start := time.Date(2024, time.September, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	first, err := svc.ClockIn(context.Background(), userID, nil, 20)
	if err != nil {
		t.Fatal(err)
	}
	svc.now = func() time.Time { return start.Add(4 * time.Hour) }
	if _, err := svc.ClockOut(context.Background(), userID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ClockIn(context.Background(), userID, nil, 20); err != nil {
		t.Fatal(err)
	}

	// clearing clock_out on the first entry would leave two open entries
	edit := *first
	edit.ClockOut = nil
	if err := svc.Update(context.Background(), &edit); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Errorf("err = %v, want ErrAlreadyClockedIn", err)
	}
	open := 0
	for _, e := range repo.items {
		if e.Open() {
			open++
		}
	}
	if open != 1 {
		t.Errorf("open entries = %d, want 1", open)
	}
}

func TestUpdateKeepsOwnEntryOpen(t *testing.T) {
	svc := NewService(newMockRepo())
	userID := uuid.New()

	e, err := svc.ClockIn(context.Background(), userID, nil, 20)
	if err != nil {
		t.Fatal(err)
	}
	e.HourlyRate = 25
	if err := svc.Update(context.Background(), e); err != nil {
		t.Errorf("editing the open entry itself should succeed, got %v", err)
	}
}

func TestClockOutDerivesTotals(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	userID := uuid.New()

	start := time.Date(2024, time.September, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	if _, err := svc.ClockIn(context.Background(), userID, nil, 22); err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return start.Add(7*time.Hour + 30*time.Minute) }
	e, err := svc.ClockOut(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if e.TotalHours == nil || math.Abs(*e.TotalHours-7.5) > 1e-9 {
		t.Errorf("TotalHours = %v, want 7.5", e.TotalHours)
	}
	if e.TotalPay == nil || math.Abs(*e.TotalPay-165) > 1e-9 {
		t.Errorf("TotalPay = %v, want 165", e.TotalPay)
	}
}

func TestClockOutWithoutOpenEntry(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.ClockOut(context.Background(), uuid.New()); err == nil {
		t.Error("expected error")
	}
}

func TestUpdateRecomputes(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	userID := uuid.New()

	start := time.Date(2024, time.September, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	e, err := svc.ClockIn(context.Background(), userID, nil, 20)
	if err != nil {
		t.Fatal(err)
	}

	out := start.Add(4 * time.Hour)
	e.ClockOut = &out
	e.HourlyRate = 25
	if err := svc.Update(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if e.TotalPay == nil || *e.TotalPay != 100 {
		t.Errorf("TotalPay = %v, want 100", e.TotalPay)
	}

	// endpoints out of order
	bad := *e
	before := start.Add(-time.Hour)
	bad.ClockOut = &before
	if err := svc.Update(context.Background(), &bad); err == nil {
		t.Error("clock_out before clock_in should fail")
	}
}
