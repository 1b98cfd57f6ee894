package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/medbill/medbill/internal/gateway"
	"github.com/medbill/medbill/internal/platform/auth"
)

// PlaceholderPrefix marks synthetic rows used only to pad a grid's visible
// row count. They are never persisted.
const PlaceholderPrefix = "placeholder-"

// ErrColumnLocked is returned when a standard role edits a locked column.
var ErrColumnLocked = errors.New("column is locked")

// PatientDefaults are the fields folded into a billing row when a numeric
// patient number is committed into the name cell.
type PatientDefaults struct {
	Name        string
	Insurance   string
	Copay       float64
	Coinsurance float64
}

// PatientLookup resolves a numeric patient number to its defaults within a
// clinic. A nil result with nil error means no match.
type PatientLookup interface {
	LookupByNumber(ctx context.Context, clinicID, number string) (*PatientDefaults, error)
}

// Binding ties a local row cache to one remote table. All writes go through
// the gateway; the cache is only updated after the remote call succeeds, and
// then by merging the changed fields into the existing row.
type Binding struct {
	gw       gateway.Client
	table    string
	cols     Columns
	session  *Session
	clinicID string
	patients PatientLookup
	locked   map[string]bool
	rows     []gateway.Row
	log      zerolog.Logger
}

func NewBinding(gw gateway.Client, table string, cols Columns, clinicID string, patients PatientLookup, log zerolog.Logger) *Binding {
	return &Binding{
		gw:       gw,
		table:    table,
		cols:     cols,
		session:  NewSession(),
		clinicID: clinicID,
		patients: patients,
		locked:   map[string]bool{},
		log:      log,
	}
}

// Session exposes the one-editing-cell state machine for this grid.
func (b *Binding) Session() *Session { return b.session }

// SetLockedColumns replaces the locked set. The caller loads and persists it
// through the clinic settings service.
func (b *Binding) SetLockedColumns(fields []string) {
	b.locked = make(map[string]bool, len(fields))
	for _, f := range fields {
		b.locked[f] = true
	}
}

// LockedColumns returns the locked set in no particular order.
func (b *Binding) LockedColumns() []string {
	out := make([]string, 0, len(b.locked))
	for f := range b.locked {
		out = append(out, f)
	}
	return out
}

// IsLocked reports whether a column is in the locked set.
func (b *Binding) IsLocked(field string) bool { return b.locked[field] }

// Load refreshes the local cache from the remote table.
func (b *Binding) Load(ctx context.Context, filter gateway.Filter, orderBy string) error {
	rows, err := b.gw.Select(ctx, b.table, filter, orderBy, 0)
	if err != nil {
		return err
	}
	b.rows = rows
	return nil
}

// Rows returns the local cache. Callers must not hold the slice across a
// Load.
func (b *Binding) Rows() []gateway.Row { return b.rows }

// CommitCell commits one cell edit. The returned patch holds every field the
// commit wrote, which is more than one field when the patient auto-lookup
// fires. A nil, nil return means the edit was a no-op (placeholder row).
//
// The local row is untouched until the remote update succeeds; on failure
// the grid keeps showing the pre-edit value.
func (b *Binding) CommitCell(ctx context.Context, rowID, field string, raw interface{}, role string) (gateway.Row, error) {
	if strings.HasPrefix(rowID, PlaceholderPrefix) {
		return nil, nil
	}

	col, ok := b.cols.Spec(field)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", field)
	}
	if b.locked[field] && !auth.CanEditLockedColumn(role) {
		return nil, ErrColumnLocked
	}

	value, err := col.Coerce(raw)
	if err != nil {
		return nil, err
	}

	patch := gateway.Row{field: value}
	if field == "patient_name" && b.patients != nil {
		if number, ok := numericValue(value); ok {
			match, err := b.patients.LookupByNumber(ctx, b.clinicID, number)
			if err != nil {
				b.log.Warn().Err(err).Str("number", number).Msg("patient lookup failed")
			} else if match != nil {
				patch["patient_name"] = match.Name
				patch["insurance"] = match.Insurance
				patch["copay"] = match.Copay
				patch["coinsurance"] = match.Coinsurance
			}
		}
	}

	if err := b.gw.Update(ctx, b.table, patch, rowID); err != nil {
		return nil, err
	}
	b.mergeLocal(rowID, patch)
	return patch, nil
}

// mergeLocal folds changed fields into the cached row without replacing the
// row object, so fields the server response does not carry survive.
func (b *Binding) mergeLocal(rowID string, patch gateway.Row) {
	for i, row := range b.rows {
		if fmt.Sprint(row["id"]) == rowID {
			for k, v := range patch {
				b.rows[i][k] = v
			}
			return
		}
	}
}

// numericValue reports whether a committed value is purely numeric, the
// trigger for the patient auto-lookup.
func numericValue(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return "", false
		}
	}
	return s, true
}

// AddRow inserts one row and appends the stored result to the cache.
func (b *Binding) AddRow(ctx context.Context, row gateway.Row) (gateway.Row, error) {
	stored, err := b.gw.Insert(ctx, b.table, []gateway.Row{row})
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", b.table)
	}
	b.rows = append(b.rows, stored[0])
	return stored[0], nil
}

// BatchError reports a bulk operation where some rows failed. Completed rows
// stay committed; the error is reported once for the whole batch.
type BatchError struct {
	Op       string
	Failed   int
	Total    int
	FirstErr error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %d of %d rows failed: %v", e.Op, e.Failed, e.Total, e.FirstErr)
}

func (e *BatchError) Unwrap() error { return e.FirstErr }

// DeleteRows removes the selected rows, one independent remote call per row.
// Placeholder ids are skipped. Partial failure is not rolled back.
func (b *Binding) DeleteRows(ctx context.Context, rowIDs []string) (int, error) {
	deleted := 0
	var firstErr error
	failed := 0
	for _, id := range rowIDs {
		if strings.HasPrefix(id, PlaceholderPrefix) {
			continue
		}
		if err := b.gw.Delete(ctx, b.table, []interface{}{id}); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		deleted++
		b.dropLocal(id)
	}
	if failed > 0 {
		return deleted, &BatchError{Op: "delete rows", Failed: failed, Total: failed + deleted, FirstErr: firstErr}
	}
	return deleted, nil
}

func (b *Binding) dropLocal(rowID string) {
	for i, row := range b.rows {
		if fmt.Sprint(row["id"]) == rowID {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			return
		}
	}
}

// BulkCreateFromNumbers creates one row per pasted patient number, looking
// each number up and folding the matched defaults into the template. Rows
// are inserted independently; a partial failure leaves completed rows in
// place and is reported once.
func (b *Binding) BulkCreateFromNumbers(ctx context.Context, numbers []string, template gateway.Row) (int, error) {
	created := 0
	failed := 0
	var firstErr error
	for _, number := range numbers {
		number = strings.TrimSpace(number)
		if number == "" {
			continue
		}
		row := gateway.Row{}
		for k, v := range template {
			row[k] = v
		}
		row["patient_name"] = number
		if b.patients != nil {
			match, err := b.patients.LookupByNumber(ctx, b.clinicID, number)
			if err == nil && match != nil {
				row["patient_name"] = match.Name
				row["insurance"] = match.Insurance
				row["copay"] = match.Copay
				row["coinsurance"] = match.Coinsurance
			}
		}
		stored, err := b.gw.Insert(ctx, b.table, []gateway.Row{row})
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created++
		if len(stored) > 0 {
			b.rows = append(b.rows, stored[0])
		}
	}
	if failed > 0 {
		return created, &BatchError{Op: "bulk create", Failed: failed, Total: failed + created, FirstErr: firstErr}
	}
	return created, nil
}
