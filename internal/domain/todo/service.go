package todo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{StatusOpen: true, StatusResolved: true}

type Service struct {
	todos Repository
}

func NewService(todos Repository) *Service {
	return &Service{todos: todos}
}

func (s *Service) Create(ctx context.Context, item *Item) error {
	if item.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if item.Status == "" {
		item.Status = StatusOpen
	}
	if !validStatuses[item.Status] {
		return fmt.Errorf("invalid status: %s", item.Status)
	}
	return s.todos.Create(ctx, item)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.todos.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, item *Item) error {
	if strings.TrimSpace(item.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !validStatuses[item.Status] {
		return fmt.Errorf("invalid status: %s", item.Status)
	}
	return s.todos.Update(ctx, item)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.todos.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, status string) ([]*Item, error) {
	if status != "" && !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	return s.todos.ListByClinic(ctx, clinicID, status)
}

// AddNote appends to the item's note thread. Notes are never edited or
// removed once written.
func (s *Service) AddNote(ctx context.Context, note *Note) error {
	if note.TodoID == uuid.Nil {
		return fmt.Errorf("todo_id is required")
	}
	if strings.TrimSpace(note.Body) == "" {
		return fmt.Errorf("note body is required")
	}
	if _, err := s.todos.GetByID(ctx, note.TodoID); err != nil {
		return fmt.Errorf("todo item not found")
	}
	return s.todos.AddNote(ctx, note)
}

func (s *Service) Notes(ctx context.Context, todoID uuid.UUID) ([]*Note, error) {
	return s.todos.GetNotes(ctx, todoID)
}
