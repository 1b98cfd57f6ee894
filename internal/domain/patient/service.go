package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/medbill/medbill/internal/grid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.ClinicID == uuid.Nil {
		return fmt.Errorf("clinic_id is required")
	}
	if strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("patient name is required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("patient name is required")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, search string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.ListByClinic(ctx, clinicID, search, limit, offset)
}

// LookupByNumber resolves a numeric patient number to the defaults the
// billing grid folds into a row. A missing patient is not an error; the
// typed value stays as entered.
func (s *Service) LookupByNumber(ctx context.Context, clinicID, number string) (*grid.PatientDefaults, error) {
	cid, err := uuid.Parse(clinicID)
	if err != nil {
		return nil, fmt.Errorf("invalid clinic id: %w", err)
	}
	p, err := s.patients.GetByNumber(ctx, cid, number)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := &grid.PatientDefaults{Name: p.FullName()}
	if p.Insurance != nil {
		d.Insurance = *p.Insurance
	}
	if p.Copay != nil {
		d.Copay = *p.Copay
	}
	if p.Coinsurance != nil {
		d.Coinsurance = *p.Coinsurance
	}
	return d, nil
}
