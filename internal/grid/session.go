package grid

import "fmt"

// CellState is the edit lifecycle of a single cell.
type CellState int

const (
	StateViewing CellState = iota
	StateEditing
	StateCommitting
)

func (s CellState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateCommitting:
		return "committing"
	}
	return "unknown"
}

// CellRef identifies one cell by row id and column field.
type CellRef struct {
	RowID string
	Field string
}

// Session enforces the at-most-one-editing-cell rule for a grid instance.
// Opening an edit on a new cell returns the previously open cell so the
// caller can flush its pending value before the new edit begins.
type Session struct {
	state   CellState
	current CellRef
}

func NewSession() *Session {
	return &Session{state: StateViewing}
}

// State reports the current lifecycle state.
func (s *Session) State() CellState { return s.state }

// Editing returns the cell currently being edited, if any.
func (s *Session) Editing() (CellRef, bool) {
	if s.state == StateEditing {
		return s.current, true
	}
	return CellRef{}, false
}

// Open moves a cell into the editing state. If another cell was already
// editing, it is returned as displaced; the caller must commit or cancel it
// first so its value is not silently dropped.
func (s *Session) Open(cell CellRef) (displaced CellRef, hadPrior bool) {
	if s.state == StateEditing && s.current != cell {
		displaced, hadPrior = s.current, true
	}
	s.state = StateEditing
	s.current = cell
	return displaced, hadPrior
}

// BeginCommit transitions the editing cell into committing. It is an error
// to commit a cell that is not the one being edited.
func (s *Session) BeginCommit(cell CellRef) error {
	if s.state != StateEditing || s.current != cell {
		return fmt.Errorf("cell %s/%s is not being edited", cell.RowID, cell.Field)
	}
	s.state = StateCommitting
	return nil
}

// Finish returns the session to viewing after a commit resolves, success or
// failure alike. On failure the caller leaves the local row untouched so the
// pre-edit value is what the grid shows.
func (s *Session) Finish() {
	s.state = StateViewing
	s.current = CellRef{}
}

// Cancel abandons the open edit.
func (s *Session) Cancel() {
	s.state = StateViewing
	s.current = CellRef{}
}
