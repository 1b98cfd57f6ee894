// Package gateway provides a thin typed client over named database tables:
// list, insert, patch-by-id, delete and upsert. The editable-grid binding and
// the settings store speak to storage exclusively through this surface, which
// keeps per-cell commits a single scoped write regardless of column.
package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Row is one record keyed by column name.
type Row map[string]interface{}

// Filter restricts a Select to rows whose columns equal the given values.
type Filter map[string]interface{}

// Error codes. Every failure is generic except the undefined-column case,
// which reporting uses to fall back to an older schema's query path.
const (
	CodeGeneric         = "gateway_error"
	CodeUndefinedColumn = "undefined_column"
	CodeNotFound        = "not_found"
)

// Error is a gateway failure carrying a human-readable message and a machine
// code.
type Error struct {
	Code    string
	Table   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: %s: %s", e.Table, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsUndefinedColumn reports whether err is a gateway error caused by a column
// that does not exist in the deployed schema.
func IsUndefinedColumn(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Code == CodeUndefinedColumn
}

// IsNotFound reports whether err indicates a missing row.
func IsNotFound(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Code == CodeNotFound
}

// Client is the remote-table surface. All calls are scoped to a single named
// table; the store's own row-level atomicity is the only write guarantee.
type Client interface {
	// Select returns rows matching filter, ordered by orderBy when non-empty
	// ("column ASC|DESC"), limited to limit when positive.
	Select(ctx context.Context, table string, filter Filter, orderBy string, limit int) ([]Row, error)
	// Insert writes the given rows and returns them as stored.
	Insert(ctx context.Context, table string, rows []Row) ([]Row, error)
	// Update applies patch to the single row whose id column equals matchID.
	Update(ctx context.Context, table string, patch Row, matchID interface{}) error
	// Delete removes the rows whose id column is in matchIDs.
	Delete(ctx context.Context, table string, matchIDs []interface{}) error
	// Upsert inserts row, updating the existing record on conflictKeys conflict.
	Upsert(ctx context.Context, table string, row Row, conflictKeys []string) error
}
