package billingentry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/grid"
)

const table = "billing_entries"

// LocksReader supplies the per-clinic locked column set.
type LocksReader interface {
	LockedColumns(ctx context.Context, clinicID string) ([]string, error)
}

type Service struct {
	entries  Repository
	gw       gateway.Client
	patients grid.PatientLookup
	locks    LocksReader
	cols     grid.Columns
	log      zerolog.Logger
}

func NewService(entries Repository, gw gateway.Client, patients grid.PatientLookup, locks LocksReader, log zerolog.Logger) *Service {
	return &Service{
		entries:  entries,
		gw:       gw,
		patients: patients,
		locks:    locks,
		cols:     grid.BillingColumns(),
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, e *Entry) error {
	if e.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if strings.TrimSpace(e.PatientName) == "" {
		return fmt.Errorf("patient_name is required")
	}
	if e.DerivedMonth == nil {
		if tag := e.MonthTag(); tag != "" {
			e.DerivedMonth = &tag
		}
	}
	return s.entries.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Entry) error {
	if strings.TrimSpace(e.PatientName) == "" {
		return fmt.Errorf("patient_name is required")
	}
	if tag := e.MonthTag(); tag != "" {
		e.DerivedMonth = &tag
	}
	return s.entries.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.entries.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, f ListFilter, limit, offset int) ([]*Entry, int, error) {
	return s.entries.ListByClinic(ctx, clinicID, f, limit, offset)
}

// binding builds a per-request grid binding carrying the clinic's locked
// column set.
func (s *Service) binding(ctx context.Context, clinicID string) (*grid.Binding, error) {
	b := grid.NewBinding(s.gw, table, s.cols, clinicID, s.patients, s.log)
	if s.locks != nil {
		locked, err := s.locks.LockedColumns(ctx, clinicID)
		if err != nil {
			return nil, fmt.Errorf("load locked columns: %w", err)
		}
		b.SetLockedColumns(locked)
	}
	return b, nil
}

// CommitCell writes one cell edit through the grid pipeline. The returned
// patch holds every field the commit wrote; nil means the edit was a
// placeholder no-op.
func (s *Service) CommitCell(ctx context.Context, clinicID, entryID, field string, raw interface{}, role string) (gateway.Row, error) {
	b, err := s.binding(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return b.CommitCell(ctx, entryID, field, raw, role)
}

// DeleteRows removes selected rows, one remote call each; completed deletes
// stay committed on partial failure.
func (s *Service) DeleteRows(ctx context.Context, clinicID string, ids []string) (int, error) {
	b, err := s.binding(ctx, clinicID)
	if err != nil {
		return 0, err
	}
	return b.DeleteRows(ctx, ids)
}

// BulkCreateFromNumbers creates one entry per pasted patient number.
func (s *Service) BulkCreateFromNumbers(ctx context.Context, clinicID string, providerID *uuid.UUID, numbers []string) (int, error) {
	b, err := s.binding(ctx, clinicID)
	if err != nil {
		return 0, err
	}
	template := gateway.Row{"clinic_id": clinicID}
	if providerID != nil {
		template["provider_id"] = providerID.String()
	}
	return b.BulkCreateFromNumbers(ctx, numbers, template)
}

// Import inserts rows parsed from a spreadsheet, each as an independent
// insert; a partial failure leaves completed rows in place.
func (s *Service) Import(ctx context.Context, clinicID string, rows []gateway.Row) (int, error) {
	created := 0
	failed := 0
	var firstErr error
	for _, row := range rows {
		row["clinic_id"] = clinicID
		if _, err := s.gw.Insert(ctx, table, []gateway.Row{row}); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created++
	}
	if failed > 0 {
		return created, &grid.BatchError{Op: "import", Failed: failed, Total: failed + created, FirstErr: firstErr}
	}
	return created, nil
}
