package timecard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadyClockedIn is returned when a user with an open entry clocks in
// again.
var ErrAlreadyClockedIn = errors.New("user already has an open timecard entry")

type Service struct {
	entries Repository
	now     func() time.Time
}

func NewService(entries Repository) *Service {
	return &Service{entries: entries, now: time.Now}
}

// ClockIn opens a new entry. At most one entry per user may be open.
func (s *Service) ClockIn(ctx context.Context, userID uuid.UUID, clinicID *uuid.UUID, hourlyRate float64) (*Entry, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user_id is required")
	}
	if hourlyRate < 0 {
		return nil, fmt.Errorf("hourly_rate must be non-negative")
	}
	open, err := s.entries.GetOpenByUser(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil && open != nil {
		return nil, ErrAlreadyClockedIn
	}

	e := &Entry{UserID: userID, ClinicID: clinicID, ClockIn: s.now(), HourlyRate: hourlyRate}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ClockOut closes the user's open entry and derives its totals.
func (s *Service) ClockOut(ctx context.Context, userID uuid.UUID) (*Entry, error) {
	e, err := s.entries.GetOpenByUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no open timecard entry")
	}
	if err != nil {
		return nil, err
	}
	out := s.now()
	e.ClockOut = &out
	e.Recompute()
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

// Update edits an entry's endpoints or rate, recomputing totals in the same
// write. An edit that reopens an entry is subject to the same single-open-
// entry rule as ClockIn.
func (s *Service) Update(ctx context.Context, e *Entry) error {
	if e.ClockOut != nil && e.ClockOut.Before(e.ClockIn) {
		return fmt.Errorf("clock_out precedes clock_in")
	}
	if e.ClockOut == nil {
		open, err := s.entries.GetOpenByUser(ctx, e.UserID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if open != nil && open.ID != e.ID {
			return ErrAlreadyClockedIn
		}
	}
	e.Recompute()
	return s.entries.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.entries.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]*Entry, error) {
	return s.entries.ListByUser(ctx, userID, from, to)
}
