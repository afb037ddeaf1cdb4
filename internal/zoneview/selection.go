package zoneview

import "fmt"

const (
	CheckboxUnchecked     = "☐"
	CheckboxChecked       = "☑"
	CheckboxIndeterminate = "▣"
)

// HeaderState is the tri-state of the select-all control.
type HeaderState int

const (
	HeaderUnchecked HeaderState = iota
	HeaderChecked
	HeaderIndeterminate
)

func (h HeaderState) Mark() string {
	switch h {
	case HeaderChecked:
		return CheckboxChecked
	case HeaderIndeterminate:
		return CheckboxIndeterminate
	default:
		return CheckboxUnchecked
	}
}

// SelectionManager tracks which rows are selected for bulk deletion.
//
// Selection lives on the rows themselves, so it survives sorting and
// filtering. The pinned draft row is never selectable.
type SelectionManager struct {
	store *RowStore
}

func NewSelectionManager(store *RowStore) *SelectionManager {
	return &SelectionManager{store: store}
}

// Toggle flips the selection of the row with the given id.
func (m *SelectionManager) Toggle(id int64) bool {
	r, ok := m.store.Find(id)
	if !ok {
		return false
	}
	r.Selected = !r.Selected
	return true
}

// ToggleHeader sets every row to the header's new state: all selected
// unless every row already was.
func (m *SelectionManager) ToggleHeader() {
	selected := m.HeaderState() != HeaderChecked
	for _, r := range m.store.DataRows() {
		r.Selected = selected
	}
}

// HeaderState derives the select-all control from the rows.
func (m *SelectionManager) HeaderState() HeaderState {
	rows := m.store.DataRows()
	n := m.Count()
	switch {
	case n == 0:
		return HeaderUnchecked
	case n == len(rows):
		return HeaderChecked
	default:
		return HeaderIndeterminate
	}
}

// Count returns the number of selected rows.
func (m *SelectionManager) Count() int {
	n := 0
	for _, r := range m.store.DataRows() {
		if r.Selected {
			n++
		}
	}
	return n
}

// SelectedIDs returns the ids of the selected rows in store order.
func (m *SelectionManager) SelectedIDs() []int64 {
	var ids []int64
	for _, r := range m.store.DataRows() {
		if r.Selected {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Clear deselects every row.
func (m *SelectionManager) Clear() {
	for _, r := range m.store.DataRows() {
		r.Selected = false
	}
}

// ToolbarLabel is the primary toolbar action for the current selection.
func (m *SelectionManager) ToolbarLabel() string {
	if n := m.Count(); n > 0 {
		return fmt.Sprintf("Delete (%d)", n)
	}
	return "New zone (t)"
}

// ApplyDeleted removes exactly the acknowledged ids from the store.
func (m *SelectionManager) ApplyDeleted(ids []int64) int {
	return m.store.Remove(ids...)
}
