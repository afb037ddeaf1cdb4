// Test<API> provides a controlled interface for testing internal model state.
// These methods are only exposed for tests in the zoneview_test package.
package zoneview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TestSetClock replaces the activity log clock.
func (l *ActivityLog) TestSetClock(now func() time.Time) {
	l.now = now
}

// TestPendingDebounce returns the message the latest filter debounce
// timer will deliver.
func (f *SymbolFilter) TestPendingDebounce() DebounceMsg {
	return DebounceMsg{Tag: f.debounce.tag, Seq: f.debounce.seq}
}

// TestPendingSearch returns the message the latest ticker search
// debounce timer will deliver.
func (s *RowCreationSession) TestPendingSearch() DebounceMsg {
	return DebounceMsg{Tag: s.search.tag, Seq: s.search.seq}
}

// TestPending returns the message the latest timer will deliver.
func (d *Debouncer) TestPending() DebounceMsg {
	return DebounceMsg{Tag: d.tag, Seq: d.seq}
}

// TestDetachTable drops the model's table so the next Update panics.
func (m *Model) TestDetachTable() { m.table = nil }

// TestRows returns the row store.
func (t *Table) TestRows() *RowStore { return t.rows }

// TestFilter returns the filter engine.
func (t *Table) TestFilter() *FilterEngine { return t.filter }

// TestSelection returns the selection manager.
func (t *Table) TestSelection() *SelectionManager { return t.selection }

// TestSorter returns the sorter.
func (t *Table) TestSorter() *Sorter { return t.sorter }

// TestEdit returns the edit session.
func (t *Table) TestEdit() *EditSession { return t.edit }

// TestDraft returns the creation draft.
func (t *Table) TestDraft() *RowCreationSession { return t.draft }

// TestActivity returns the activity log.
func (t *Table) TestActivity() *ActivityLog { return t.activity }

// TestSymbolFilter returns the symbol filter input.
func (t *Table) TestSymbolFilter() *SymbolFilter { return t.symbolFilter }

// TestNotice returns the blocking notice, if any.
func (t *Table) TestNotice() *Notice { return t.notice }

// TestCursor returns the cursor's visible row and column indexes.
func (t *Table) TestCursor() (row, col int) { return t.cursorRow, t.cursorCol }

// TestSetCursor moves the cursor without bounds adjustments beyond
// clamping.
func (t *Table) TestSetCursor(row, col int) {
	t.cursorRow = row
	t.cursorCol = clamp(col, 0, len(Columns)-1)
	t.ensureCursorVisible()
}

// TestFocus returns the name of the focused region.
func (t *Table) TestFocus() string { return t.focus.String() }

// TestHelpVisible reports whether the help screen is shown.
func (t *Table) TestHelpVisible() bool { return t.showHelp }

// TestLoading reports whether a load is in flight.
func (t *Table) TestLoading() bool { return t.loading }

// TestDeleting reports whether a bulk delete is in flight.
func (t *Table) TestDeleting() bool { return t.deleting }

// TestFilterPaneExpanded reports whether the filter pane is (or is
// becoming) expanded.
func (t *Table) TestFilterPaneExpanded() bool { return t.filterPane.IsExpanded() }

// TestActivityPaneExpanded reports whether the activity pane is (or is
// becoming) expanded.
func (t *Table) TestActivityPaneExpanded() bool { return t.activityPane.IsExpanded() }

// TestForceExpandPanes expands both panes without animation.
func (t *Table) TestForceExpandPanes() {
	t.filterPane.ForceExpand()
	t.activityPane.height.ForceExpand()
}

// TestForceCollapsePanes collapses both panes without animation.
func (t *Table) TestForceCollapsePanes() {
	t.filterPane.height.ForceCollapse()
	t.activityPane.height.ForceCollapse()
	t.setFocus(focusTable)
}

// TestStatusText returns the status bar text without styling.
func (t *Table) TestStatusText() string { return t.buildStatusText() }

// TestHandleKey routes a key as the program would.
func (t *Table) TestHandleKey(msg tea.KeyMsg) tea.Cmd { return t.handleKeyMsg(msg) }

// TestHandleMouse routes a mouse event as the program would.
func (t *Table) TestHandleMouse(msg tea.MouseMsg) tea.Cmd { return t.handleMouse(msg) }

// TestBodyTop returns the screen line of the first table body row.
func (t *Table) TestBodyTop() int {
	return t.filterPane.Height() + tableToolbarLines + tableHeaderLines
}

// TestColumnX returns a screen x inside column col, or inside the
// checkbox column for -1.
func (t *Table) TestColumnX(col int) int {
	if col < 0 {
		return 0
	}
	x := checkboxWidth
	widths := t.columnWidths()
	for i := 0; i < col; i++ {
		x += widths[i] + 1
	}
	return x + 1
}

// TestFailureNotice builds the notice shown for a failed request.
func TestFailureNotice(title, fallback string, err error) *Notice {
	return failureNotice(title, fallback, err)
}

// TestWait blocks until the watcher has started polling.
func (cw *ConfigWatcher) TestWait() {
	cw.w.Wait()
}

// TestFilterDelay returns the symbol filter's debounce delay.
func (t *Table) TestFilterDelay() time.Duration {
	return t.symbolFilter.debounce.delay
}

// TestSearchDelay returns the ticker search debounce delay.
func (t *Table) TestSearchDelay() time.Duration {
	return t.draft.search.delay
}
