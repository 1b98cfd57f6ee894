package clinic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/medbill/medbill/internal/gateway"
)

const (
	settingsTable    = "clinic_settings"
	keyLockedColumns = "locked_columns"
)

// Settings persists per-clinic named settings through the gateway. The
// locked-columns set is written on every lock toggle so it survives reloads
// and is shared across sessions for the clinic.
type Settings struct {
	gw gateway.Client
}

func NewSettings(gw gateway.Client) *Settings {
	return &Settings{gw: gw}
}

// LockedColumns reads the clinic's locked column identifiers, in stored
// order. A clinic with no setting has no locked columns.
func (s *Settings) LockedColumns(ctx context.Context, clinicID string) ([]string, error) {
	rows, err := s.gw.Select(ctx, settingsTable, gateway.Filter{"clinic_id": clinicID, "key": keyLockedColumns}, "", 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	raw, _ := rows[0]["value"].(string)
	if raw == "" {
		return nil, nil
	}
	var cols []string
	if err := json.Unmarshal([]byte(raw), &cols); err != nil {
		return nil, fmt.Errorf("corrupt locked_columns setting for clinic %s: %w", clinicID, err)
	}
	return cols, nil
}

// SetLockedColumns replaces the set, one upsert keyed by clinic and setting
// name.
func (s *Settings) SetLockedColumns(ctx context.Context, clinicID string, cols []string) error {
	if cols == nil {
		cols = []string{}
	}
	value, err := json.Marshal(cols)
	if err != nil {
		return err
	}
	return s.gw.Upsert(ctx, settingsTable,
		gateway.Row{"clinic_id": clinicID, "key": keyLockedColumns, "value": string(value)},
		[]string{"clinic_id", "key"})
}

// LockColumn adds one column to the set if absent.
func (s *Settings) LockColumn(ctx context.Context, clinicID, column string) ([]string, error) {
	cols, err := s.LockedColumns(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if c == column {
			return cols, nil
		}
	}
	cols = append(cols, column)
	return cols, s.SetLockedColumns(ctx, clinicID, cols)
}

// UnlockColumn removes one column from the set.
func (s *Settings) UnlockColumn(ctx context.Context, clinicID, column string) ([]string, error) {
	cols, err := s.LockedColumns(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	kept := cols[:0]
	for _, c := range cols {
		if c != column {
			kept = append(kept, c)
		}
	}
	return kept, s.SetLockedColumns(ctx, clinicID, kept)
}
