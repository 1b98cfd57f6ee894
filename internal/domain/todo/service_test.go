package todo

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Item
	notes map[uuid.UUID][]*Note
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Item), notes: make(map[uuid.UUID][]*Note)}
}

func (m *mockRepo) Create(_ context.Context, item *Item) error {
	item.ID = uuid.New()
	m.items[item.ID] = item
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return item, nil
}

func (m *mockRepo) Update(_ context.Context, item *Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByClinic(_ context.Context, clinicID uuid.UUID, status string) ([]*Item, error) {
	var out []*Item
	for _, item := range m.items {
		if item.ClinicID == clinicID && (status == "" || item.Status == status) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockRepo) AddNote(_ context.Context, note *Note) error {
	note.ID = uuid.New()
	m.notes[note.TodoID] = append(m.notes[note.TodoID], note)
	return nil
}

func (m *mockRepo) GetNotes(_ context.Context, todoID uuid.UUID) ([]*Note, error) {
	return m.notes[todoID], nil
}

func TestCreateDefaultsToOpen(t *testing.T) {
	svc := NewService(newMockRepo())
	item := &Item{ClinicID: uuid.New(), Title: "Resend claim 4412"}
	if err := svc.Create(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	if item.Status != StatusOpen {
		t.Errorf("Status = %q", item.Status)
	}

	if err := svc.Create(context.Background(), &Item{ClinicID: uuid.New(), Title: "x", Status: "bogus"}); err == nil {
		t.Error("invalid status should fail")
	}
	if err := svc.Create(context.Background(), &Item{ClinicID: uuid.New(), Title: "  "}); err == nil {
		t.Error("blank title should fail")
	}
}

func TestAddNoteRequiresExistingItem(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	item := &Item{ClinicID: uuid.New(), Title: "Follow up with payer"}
	if err := svc.Create(context.Background(), item); err != nil {
		t.Fatal(err)
	}

	if err := svc.AddNote(context.Background(), &Note{TodoID: item.ID, Body: "called, waiting on EOB"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddNote(context.Background(), &Note{TodoID: uuid.New(), Body: "orphan"}); err == nil {
		t.Error("note on missing item should fail")
	}
	if err := svc.AddNote(context.Background(), &Note{TodoID: item.ID, Body: " "}); err == nil {
		t.Error("blank body should fail")
	}

	notes, _ := svc.Notes(context.Background(), item.ID)
	if len(notes) != 1 {
		t.Errorf("notes = %d, want 1", len(notes))
	}
}
