package audit

import (
	"context"

	"github.com/medbill/medbill/internal/platform/middleware"
)

type Service struct {
	logs Repository
}

func NewService(logs Repository) *Service {
	return &Service{logs: logs}
}

// RecordChange satisfies middleware.AuditRecorder. The middleware calls it
// after the response is written, so it runs outside the request context.
func (s *Service) RecordChange(entry middleware.AuditEntry) error {
	l := &Log{
		Role:       entry.Role,
		Resource:   entry.Resource,
		Action:     entry.Action,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Path:       entry.Path,
		Method:     entry.Method,
		RequestID:  entry.RequestID,
		StatusCode: entry.StatusCode,
	}
	if entry.UserID != "" {
		l.UserID = &entry.UserID
	}
	if entry.ClinicID != "" {
		l.ClinicID = &entry.ClinicID
	}
	return s.logs.Create(context.Background(), l)
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Log, int, error) {
	return s.logs.List(ctx, filter, limit, offset)
}

var _ middleware.AuditRecorder = (*Service)(nil)
