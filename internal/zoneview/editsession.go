package zoneview

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

// editInputCharLimit bounds the length of an edited price.
const editInputCharLimit = 16

// CellRef addresses one cell of a data row.
type CellRef struct {
	RowID  int64
	Column ColumnID
}

// EditOutcome is the result of asking to edit a cell.
type EditOutcome int

const (
	// EditStarted means the cell became editable.
	EditStarted EditOutcome = iota
	// EditRefocused means the cell was already being edited.
	EditRefocused
	// EditRejected means another edit holds the lock, or the cell
	// cannot be edited.
	EditRejected
)

// editState is one of editIdle, *editEditing or *editCommitting.
type editState interface{ isEditState() }

type editIdle struct{}

// editEditing holds the lock while the user types a new value.
type editEditing struct {
	target   CellRef
	original Cell

	// baseline is the value shown when editing began. Not set when the
	// cell did not display a number.
	baseline    float64
	hasBaseline bool

	input textinput.Model

	// replaceOnType is set while the whole value is selected: the first
	// typed character replaces it.
	replaceOnType bool
}

// editCommitting holds the lock while the update request is in flight.
type editCommitting struct {
	target   CellRef
	original Cell
	value    float64
	seq      uint64
}

func (editIdle) isEditState()        {}
func (*editEditing) isEditState()    {}
func (*editCommitting) isEditState() {}

// EditSession lets exactly one price cell be edited at a time.
//
// Commits are optimistic: the new value is shown while the request is
// in flight and rolled back if the store rejects it.
type EditSession struct {
	store  *RowStore
	remote *Remote
	state  editState
}

func NewEditSession(store *RowStore, remote *Remote) *EditSession {
	return &EditSession{store: store, remote: remote, state: editIdle{}}
}

// Begin asks to edit the cell at ref.
func (e *EditSession) Begin(ref CellRef) (EditOutcome, tea.Cmd) {
	switch st := e.state.(type) {
	case *editEditing:
		if st.target != ref {
			return EditRejected, nil
		}
		st.replaceOnType = false
		st.input.CursorEnd()
		return EditRefocused, st.input.Focus()
	case *editCommitting:
		return EditRejected, nil
	}

	col, ok := ColumnByID(ref.Column)
	if !ok || !col.Editable() {
		return EditRejected, nil
	}
	row, ok := e.store.Find(ref.RowID)
	if !ok || row.Busy != "" {
		return EditRejected, nil
	}

	original := row.Cell(ref.Column)
	baseline, hasBaseline := parsePrice(original.Display)

	input := newTextInput("", editInputCharLimit)
	if hasBaseline {
		input.SetValue(formatInputNumber(baseline))
	}
	input.CursorEnd()
	cmd := input.Focus()

	e.state = &editEditing{
		target:        ref,
		original:      original,
		baseline:      baseline,
		hasBaseline:   hasBaseline,
		input:         input,
		replaceOnType: true,
	}
	return EditStarted, cmd
}

// HandleKey routes a key to the edit input.
//
// passthrough is true for keys that leave the cell (tab, up, down...):
// they commit the edit and should also be handled by the table.
func (e *EditSession) HandleKey(msg tea.KeyMsg) (cmd tea.Cmd, passthrough bool) {
	st, ok := e.state.(*editEditing)
	if !ok {
		return nil, false
	}

	switch msg.String() {
	case "esc":
		e.Cancel()
		return nil, false
	case "enter":
		return e.Commit(), false
	case "tab", "shift+tab", "up", "down":
		return e.Commit(), true
	case "left", "right", "home", "end", "ctrl+a", "ctrl+e":
		st.replaceOnType = false
	case "backspace", "delete", "ctrl+u":
		if st.replaceOnType {
			st.input.SetValue("")
			st.replaceOnType = false
			return nil, false
		}
	}

	if msg.Type == tea.KeyRunes {
		runes := numericRunes(msg.Runes)
		if len(runes) == 0 {
			return nil, false
		}
		if st.replaceOnType {
			st.input.SetValue("")
			st.replaceOnType = false
		}
		msg.Runes = runes
	} else if msg.Type == tea.KeySpace {
		return nil, false
	}

	st.input, cmd = st.input.Update(msg)
	return cmd, false
}

// numericRunes keeps only the characters a price can contain.
func numericRunes(in []rune) []rune {
	out := in[:0:0]
	for _, r := range in {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			out = append(out, r)
		}
	}
	return out
}

// Cancel abandons an edit in progress and restores the cell.
//
// A commit already in flight cannot be cancelled.
func (e *EditSession) Cancel() {
	if _, ok := e.state.(*editEditing); ok {
		e.state = editIdle{}
	}
}

// Commit validates the typed value and sends it to the store.
//
// Invalid input and an unchanged value end the edit silently without a
// request.
func (e *EditSession) Commit() tea.Cmd {
	st, ok := e.state.(*editEditing)
	if !ok {
		return nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(st.input.Value()), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		e.state = editIdle{}
		return nil
	}
	if st.hasBaseline && value == st.baseline {
		e.state = editIdle{}
		return nil
	}

	col, _ := ColumnByID(st.target.Column)
	row, ok := e.store.Find(st.target.RowID)
	if !ok {
		e.state = editIdle{}
		return nil
	}

	row.Busy = st.target.Column
	e.store.SetCell(st.target.RowID, st.target.Column, priceCell(value))

	seq, cmd := e.remote.UpdateField(st.target, col.Field, value)
	e.state = &editCommitting{
		target:   st.target,
		original: st.original,
		value:    value,
		seq:      seq,
	}
	return cmd
}

// HandleResult completes a commit.
//
// Returns handled=false for results of other or superseded commits. On
// failure the cell is rolled back and the error returned for display.
func (e *EditSession) HandleResult(msg EditResultMsg) (handled bool, err error) {
	st, ok := e.state.(*editCommitting)
	if !ok || msg.Seq != st.seq || !e.remote.IsLatest(zoneapi.OpUpdate, msg.Seq) {
		return false, nil
	}
	e.state = editIdle{}

	row, found := e.store.Find(st.target.RowID)
	if !found {
		return true, msg.Err
	}
	row.Busy = ""

	optimistic := priceCell(st.value)
	if msg.Err != nil {
		// A reload may have replaced the cell meanwhile; keep the newer value.
		if row.Cell(st.target.Column) == optimistic {
			e.store.SetCell(st.target.RowID, st.target.Column, st.original)
		}
		return true, msg.Err
	}

	e.store.SetCell(st.target.RowID, st.target.Column, optimistic)
	return true, nil
}

// Active reports whether an edit holds the lock.
func (e *EditSession) Active() bool {
	_, idle := e.state.(editIdle)
	return !idle
}

// Editing reports whether the user is typing into a cell.
func (e *EditSession) Editing() bool {
	_, ok := e.state.(*editEditing)
	return ok
}

// Committing reports whether an update request is in flight.
func (e *EditSession) Committing() bool {
	_, ok := e.state.(*editCommitting)
	return ok
}

// Target returns the cell holding the lock.
func (e *EditSession) Target() (CellRef, bool) {
	switch st := e.state.(type) {
	case *editEditing:
		return st.target, true
	case *editCommitting:
		return st.target, true
	default:
		return CellRef{}, false
	}
}

// InputValue returns the text typed so far.
func (e *EditSession) InputValue() string {
	if st, ok := e.state.(*editEditing); ok {
		return st.input.Value()
	}
	return ""
}

// View renders the edit input, highlighting a fully selected value.
func (e *EditSession) View(width int) string {
	st, ok := e.state.(*editEditing)
	if !ok {
		return ""
	}
	if st.replaceOnType && st.input.Value() != "" {
		return editSelectedStyle.Render(truncateValue(st.input.Value(), width))
	}
	st.input.Width = max(width-1, 1)
	return editInputStyle.Render(st.input.View())
}
