package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Call records one operation issued against the in-memory client. Tests use
// the log to assert that a code path wrote nothing.
type Call struct {
	Op    string
	Table string
	Rows  []Row
	Patch Row
	ID    interface{}
}

// Memory is an in-memory Client for tests. Rows are keyed by their "id"
// column; inserts without an id get a generated uuid.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Row
	Calls  []Call

	// FailNext, when set, makes the next mutating call return the error and
	// clears itself.
	FailNext error

	// MissingColumns marks columns that behave as absent on a table, so
	// selects touching them fail with an undefined-column error.
	MissingColumns map[string]string
}

func NewMemory() *Memory {
	return &Memory{tables: map[string][]Row{}}
}

// Seed replaces the contents of a table.
func (m *Memory) Seed(table string, rows []Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]Row, len(rows))
	for i, r := range rows {
		copied[i] = cloneRow(r)
	}
	m.tables[table] = copied
}

// Table returns a snapshot of a table's rows.
func (m *Memory) Table(table string) []Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out
}

// Writes counts the mutating calls recorded so far.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Op != "select" {
			n++
		}
	}
	return n
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (m *Memory) takeErr() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *Memory) Select(ctx context.Context, table string, filter Filter, orderBy string, limit int) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: "select", Table: table})
	if col, ok := m.MissingColumns[table]; ok {
		orderCol := orderBy
		if n := len(orderBy); n > 5 && orderBy[n-5:] == " DESC" {
			orderCol = orderBy[:n-5]
		}
		if _, filtered := filter[col]; filtered || orderCol == col {
			return nil, &Error{Code: CodeUndefinedColumn, Table: table, Message: fmt.Sprintf("column %q does not exist", col)}
		}
	}
	var out []Row
	for _, row := range m.tables[table] {
		if matches(row, filter) {
			out = append(out, cloneRow(row))
		}
	}
	if orderBy != "" {
		sortRows(out, orderBy)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: "insert", Table: table, Rows: rows})
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		stored := cloneRow(r)
		if _, ok := stored["id"]; !ok {
			stored["id"] = uuid.NewString()
		}
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, cloneRow(stored))
	}
	return out, nil
}

func (m *Memory) Update(ctx context.Context, table string, patch Row, matchID interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: "update", Table: table, Patch: patch, ID: matchID})
	if err := m.takeErr(); err != nil {
		return err
	}
	for i, row := range m.tables[table] {
		if sameID(row["id"], matchID) {
			for k, v := range patch {
				m.tables[table][i][k] = v
			}
			return nil
		}
	}
	return &Error{Code: CodeNotFound, Table: table, Message: fmt.Sprintf("no row with id %v", matchID)}
}

func (m *Memory) Delete(ctx context.Context, table string, matchIDs []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: "delete", Table: table, ID: matchIDs})
	if err := m.takeErr(); err != nil {
		return err
	}
	keep := m.tables[table][:0]
	for _, row := range m.tables[table] {
		drop := false
		for _, id := range matchIDs {
			if sameID(row["id"], id) {
				drop = true
				break
			}
		}
		if !drop {
			keep = append(keep, row)
		}
	}
	m.tables[table] = keep
	return nil
}

func (m *Memory) Upsert(ctx context.Context, table string, row Row, conflictKeys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, Call{Op: "upsert", Table: table, Rows: []Row{row}})
	if err := m.takeErr(); err != nil {
		return err
	}
	for i, existing := range m.tables[table] {
		hit := true
		for _, k := range conflictKeys {
			if fmt.Sprint(existing[k]) != fmt.Sprint(row[k]) {
				hit = false
				break
			}
		}
		if hit {
			for k, v := range row {
				m.tables[table][i][k] = v
			}
			return nil
		}
	}
	stored := cloneRow(row)
	if _, ok := stored["id"]; !ok {
		stored["id"] = uuid.NewString()
	}
	m.tables[table] = append(m.tables[table], stored)
	return nil
}

func matches(row Row, filter Filter) bool {
	for k, want := range filter {
		if fmt.Sprint(row[k]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func sameID(a, b interface{}) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// sortRows understands the "col" and "col DESC" forms used by callers.
func sortRows(rows []Row, orderBy string) {
	col := orderBy
	desc := false
	if n := len(orderBy); n > 5 && orderBy[n-5:] == " DESC" {
		col = orderBy[:n-5]
		desc = true
	}
	sort.SliceStable(rows, func(i, j int) bool {
		less := fmt.Sprint(rows[i][col]) < fmt.Sprint(rows[j][col])
		if desc {
			return !less
		}
		return less
	})
}
