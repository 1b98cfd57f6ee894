package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medbill/medbill/internal/platform/auth"
)

type Service struct {
	profiles Repository
}

func NewService(profiles Repository) *Service {
	return &Service{profiles: profiles}
}

func validRole(role string) bool {
	switch role {
	case auth.RoleStandard, auth.RoleAdmin, auth.RoleSuperAdmin:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, p *Profile) error {
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if p.Role == "" {
		p.Role = auth.RoleStandard
	}
	if !validRole(p.Role) {
		return fmt.Errorf("invalid role %q", p.Role)
	}
	p.Active = true
	return s.profiles.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return s.profiles.GetByEmail(ctx, email)
}

func (s *Service) Update(ctx context.Context, p *Profile) error {
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if !validRole(p.Role) {
		return fmt.Errorf("invalid role %q", p.Role)
	}
	return s.profiles.Update(ctx, p)
}

// SetRole changes one user's role. Only super_admin may grant or revoke
// the super_admin role itself.
func (s *Service) SetRole(ctx context.Context, id uuid.UUID, role, actorRole string) (*Profile, error) {
	if !validRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if (role == auth.RoleSuperAdmin || p.Role == auth.RoleSuperAdmin) && actorRole != auth.RoleSuperAdmin {
		return nil, fmt.Errorf("only super_admin may change super_admin roles")
	}
	p.Role = role
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Deactivate flips the account off without deleting history rows that
// reference it.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Active = false
	return s.profiles.Update(ctx, p)
}

func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.profiles.List(ctx)
}
