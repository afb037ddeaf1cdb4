package zoneview

import "slices"

// RowStore is the ordered set of rows shown by the table.
//
// It is the single owner of row order and membership. Every component
// that changes which rows exist, or where they are, does so through it.
// A pinned row, if any, is always kept at index 0.
type RowStore struct {
	rows []*Row

	// placeholder is set when the empty-state message should be shown.
	placeholder bool
}

// NewRowStore returns an empty store showing the empty-state placeholder.
func NewRowStore() *RowStore {
	return &RowStore{placeholder: true}
}

// Rows returns every row in enumeration order, pinned row first.
//
// The slice is a copy; the rows are shared.
func (s *RowStore) Rows() []*Row {
	return slices.Clone(s.rows)
}

// DataRows returns every row except the pinned one, in order.
func (s *RowStore) DataRows() []*Row {
	out := make([]*Row, 0, len(s.rows))
	for _, r := range s.rows {
		if !r.Pinned {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of rows, including a pinned row.
func (s *RowStore) Len() int { return len(s.rows) }

// ShowsPlaceholder reports whether the empty-state placeholder is shown.
func (s *RowStore) ShowsPlaceholder() bool { return s.placeholder }

// Pinned returns the pinned row, or nil.
func (s *RowStore) Pinned() *Row {
	if len(s.rows) > 0 && s.rows[0].Pinned {
		return s.rows[0]
	}
	return nil
}

// Find returns the non-pinned row with the given id.
func (s *RowStore) Find(id int64) (*Row, bool) {
	for _, r := range s.rows {
		if !r.Pinned && r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// InsertTop inserts r at the top and hides the placeholder.
//
// A pinned row displaces any existing pinned row. A regular row goes
// just below the pinned row.
func (s *RowStore) InsertTop(r *Row) {
	s.placeholder = false

	if r.Pinned {
		if s.Pinned() != nil {
			s.rows[0] = r
			return
		}
		s.rows = slices.Insert(s.rows, 0, r)
		return
	}

	at := 0
	if s.Pinned() != nil {
		at = 1
	}
	s.rows = slices.Insert(s.rows, at, r)
}

// Remove deletes the rows with the given ids and returns how many were
// removed. The placeholder is shown if no rows remain.
func (s *RowStore) Remove(ids ...int64) int {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	before := len(s.rows)
	s.rows = slices.DeleteFunc(s.rows, func(r *Row) bool {
		return !r.Pinned && drop[r.ID]
	})
	s.refreshPlaceholder()
	return before - len(s.rows)
}

// RemovePinned deletes the pinned row, if any.
func (s *RowStore) RemovePinned() {
	if s.Pinned() == nil {
		return
	}
	s.rows = s.rows[1:]
	s.refreshPlaceholder()
}

// SetCell replaces one cell of the row with the given id.
func (s *RowStore) SetCell(id int64, col ColumnID, cell Cell) bool {
	r, ok := s.Find(id)
	if !ok {
		return false
	}
	r.Cells[col] = cell
	return true
}

// Reorder replaces the order of the non-pinned rows.
//
// ordered must be a permutation of DataRows; the pinned row stays first.
func (s *RowStore) Reorder(ordered []*Row) {
	pinned := s.Pinned()
	rows := make([]*Row, 0, len(ordered)+1)
	if pinned != nil {
		rows = append(rows, pinned)
	}
	s.rows = append(rows, ordered...)
}

// Reset replaces every non-pinned row, as after a reload.
func (s *RowStore) Reset(rows []*Row) {
	s.Reorder(rows)
	s.refreshPlaceholder()
}

func (s *RowStore) refreshPlaceholder() {
	s.placeholder = len(s.rows) == 0
}
