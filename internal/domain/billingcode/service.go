package billingcode

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	codes Repository
}

func NewService(codes Repository) *Service {
	return &Service{codes: codes}
}

func (s *Service) Create(ctx context.Context, c *Code) error {
	c.Code = strings.TrimSpace(c.Code)
	if c.Code == "" {
		return fmt.Errorf("code is required")
	}
	if c.DefaultRate != nil && *c.DefaultRate < 0 {
		return fmt.Errorf("default_rate must not be negative")
	}
	c.Active = true
	return s.codes.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Code, error) {
	return s.codes.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Code) error {
	c.Code = strings.TrimSpace(c.Code)
	if c.Code == "" {
		return fmt.Errorf("code is required")
	}
	if c.DefaultRate != nil && *c.DefaultRate < 0 {
		return fmt.Errorf("default_rate must not be negative")
	}
	return s.codes.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.codes.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Code, error) {
	return s.codes.List(ctx, activeOnly)
}
