package receivable

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/grid"
	"github.com/medbill/medbill/internal/period"
)

const table = "accounts_receivable"

// LocksReader supplies the per-clinic locked column set.
type LocksReader interface {
	LockedColumns(ctx context.Context, clinicID string) ([]string, error)
}

type Service struct {
	entries Repository
	gw      gateway.Client
	locks   LocksReader
	cols    grid.Columns
	log     zerolog.Logger
}

func NewService(entries Repository, gw gateway.Client, locks LocksReader, log zerolog.Logger) *Service {
	return &Service{entries: entries, gw: gw, locks: locks, cols: grid.ReceivableColumns(), log: log}
}

func (s *Service) Create(ctx context.Context, e *Entry) error {
	if e.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if strings.TrimSpace(e.PatientName) == "" {
		return fmt.Errorf("patient_name is required")
	}
	return s.entries.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Entry) error {
	return s.entries.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.entries.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*Entry, error) {
	return s.entries.ListByClinic(ctx, clinicID)
}

// CommitCell writes one cell through the grid pipeline with the receivable
// column set.
func (s *Service) CommitCell(ctx context.Context, clinicID, entryID, field string, raw interface{}, role string) (gateway.Row, error) {
	b := grid.NewBinding(s.gw, table, s.cols, clinicID, nil, s.log)
	if s.locks != nil {
		locked, err := s.locks.LockedColumns(ctx, clinicID)
		if err != nil {
			return nil, fmt.Errorf("load locked columns: %w", err)
		}
		b.SetLockedColumns(locked)
	}
	return b.CommitCell(ctx, entryID, field, raw, role)
}

// GroupBy selects which date drives month bucketing. "September A/R" in the
// payment sense means payments received in September for earlier services,
// so the two dimensions are never conflated.
type GroupBy int

const (
	ByServiceMonth GroupBy = iota
	ByPaymentMonth
)

func toPeriodRecord(e *Entry, by GroupBy) period.Record {
	r := period.Record{TotalPay: e.TotalPay}
	if e.ClaimStatus != nil {
		r.Status = *e.ClaimStatus
	}
	if e.InsurancePayment != nil {
		r.InsurancePay = *e.InsurancePayment
	}
	if e.CollectedFromPatient != nil {
		r.PatientPay = *e.CollectedFromPatient
	}
	switch by {
	case ByPaymentMonth:
		if e.InsurancePayDate != nil {
			r.Date = e.InsurancePayDate.Format(period.DateLayout)
		}
	default:
		if e.DateOfService != nil {
			r.Date = e.DateOfService.Format(period.DateLayout)
		}
	}
	return r
}

// MonthlySummaries buckets a clinic's receivables by month, most recent
// first. Entries missing the chosen date are excluded.
func (s *Service) MonthlySummaries(ctx context.Context, clinicID uuid.UUID, by GroupBy) ([]period.MonthSummary, error) {
	entries, err := s.entries.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	records := make([]period.Record, 0, len(entries))
	for _, e := range entries {
		records = append(records, toPeriodRecord(e, by))
	}
	return period.SummarizeByMonth(records), nil
}
