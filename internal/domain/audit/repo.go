package audit

import "context"

// ListFilter narrows the audit listing. Zero values mean no filtering.
type ListFilter struct {
	UserID   string
	Resource string
	Action   string
	ClinicID string
}

type Repository interface {
	Create(ctx context.Context, l *Log) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Log, int, error)
}
