package zoneview

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

// batchCmds combines non-nil commands.
func batchCmds(cmds ...tea.Cmd) tea.Cmd {
	n := 0
	for _, c := range cmds {
		if c != nil {
			cmds[n] = c
			n++
		}
	}
	switch n {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds[:n]...)
	}
}

// ---- Key / Mouse Dispatch ----

func (t *Table) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	key := normalizeKey(msg.String())

	// A notice blocks everything until dismissed.
	if t.notice != nil {
		switch {
		case key == "ctrl+c":
			return t.handleQuit(msg)
		case isDismissKey(key):
			t.notice = nil
		}
		return nil
	}

	if t.showHelp {
		switch key {
		case "h", "?", "esc", "q":
			t.showHelp = false
		case "ctrl+c":
			return t.handleQuit(msg)
		}
		return nil
	}

	// Cell editing takes priority.
	if t.edit.Editing() {
		cmd, passthrough := t.edit.HandleKey(msg)
		if passthrough {
			t.handleEditExitKey(key)
		}
		return t.withSpinner(cmd)
	}

	// Then the creation draft.
	if t.draft.State() == CreationOpen {
		cmd, err := t.draft.HandleKey(msg)
		if err != nil {
			t.notice = validationNotice(err)
			return nil
		}
		t.ensureCursorVisible()
		return t.withSpinner(cmd)
	}

	// Then the symbol filter input.
	if t.symbolFilter.IsActive() {
		cmd := t.symbolFilter.HandleKey(msg)
		t.ensureCursorVisible()
		return cmd
	}

	// Dispatch via key map.
	if handler, ok := t.keyMap[key]; ok {
		return handler(t, msg)
	}
	return nil
}

// handleEditExitKey moves the cursor after a key that ended an edit.
func (t *Table) handleEditExitKey(key string) {
	switch key {
	case "up":
		t.moveCursor(-1)
	case "down":
		t.moveCursor(1)
	case "tab":
		t.cursorCol = t.nextEditableColumn(t.cursorCol, 1)
	case "shift+tab":
		t.cursorCol = t.nextEditableColumn(t.cursorCol, -1)
	}
}

// nextEditableColumn returns the next editable column from col in
// direction, wrapping around.
func (t *Table) nextEditableColumn(col, direction int) int {
	n := len(Columns)
	for step := 1; step <= n; step++ {
		next := ((col+direction*step)%n + n) % n
		if Columns[next].Editable() {
			return next
		}
	}
	return col
}

// withSpinner starts the busy indicator when cmd started a request.
func (t *Table) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil || !t.busy() {
		return cmd
	}
	return batchCmds(cmd, t.startSpinner())
}

func (t *Table) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if t.notice != nil || t.showHelp {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		t.scroll(-wheelStep)
		return nil
	case tea.MouseButtonWheelDown:
		t.scroll(wheelStep)
		return nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
	default:
		return nil
	}

	filterH := t.filterPane.Height()
	tableTop := filterH
	bodyTop := tableTop + tableToolbarLines + tableHeaderLines
	bodyBottom := bodyTop + t.bodyHeight()

	switch {
	case msg.Y < filterH:
		return t.leaveTableFor(focusFilters)
	case msg.Y == tableTop:
		return t.handleToolbarClick(msg.X)
	case msg.Y == tableTop+tableToolbarLines:
		return t.handleHeaderClick(msg.X)
	case msg.Y < bodyBottom:
		return t.handleBodyClick(msg.X, msg.Y-bodyTop)
	case msg.Y < bodyBottom+t.activityPane.Height():
		return t.leaveTableFor(focusActivity)
	}
	return nil
}

// leaveTableFor commits an open edit and focuses a pane.
func (t *Table) leaveTableFor(region focusRegion) tea.Cmd {
	cmd := t.edit.Commit()
	if t.regionAvailable(region) {
		t.setFocus(region)
	}
	return t.withSpinner(cmd)
}

func (t *Table) scroll(delta int) {
	n := len(t.visibleRows())
	lines := max(t.bodyHeight()-t.candidateLines(), 1)
	t.top = clamp(t.top+delta, 0, max(n-lines, 0))
	t.cursorRow = clamp(t.cursorRow, t.top, max(t.top+lines-1, 0))
	t.ensureCursorVisible()
}

func (t *Table) handleToolbarClick(x int) tea.Cmd {
	if x >= lipgloss.Width(t.selection.ToolbarLabel())+2 {
		return nil
	}
	if t.selection.Count() == 0 {
		return t.handleOpenDraft(tea.KeyMsg{})
	}
	commit := t.edit.Commit()
	if del := t.handleDeleteSelected(tea.KeyMsg{}); del != nil {
		return batchCmds(commit, del)
	}
	return t.withSpinner(commit)
}

func (t *Table) handleHeaderClick(x int) tea.Cmd {
	commit := t.edit.Commit()
	switch col := t.columnAt(x); {
	case col == -1:
		t.selection.ToggleHeader()
	case col >= 0:
		t.sortBy(col)
	}
	return t.withSpinner(commit)
}

// handleBodyClick handles a click on body line.
//
// A click anywhere but the edited cell commits the edit, the way
// focus leaving an input does.
func (t *Table) handleBodyClick(x, line int) tea.Cmd {
	rowIdx, candidate := t.lineTarget(line)
	if candidate >= 0 {
		t.draft.PickCandidate(candidate)
		return nil
	}

	rows := t.visibleRows()
	if rowIdx < 0 || rowIdx >= len(rows) {
		return t.withSpinner(t.edit.Commit())
	}
	row := rows[rowIdx]
	col := t.columnAt(x)

	if ref, ok := t.edit.Target(); ok && t.edit.Editing() {
		if col >= 0 && ref.RowID == row.ID && !row.Pinned && ref.Column == Columns[col].ID {
			_, cmd := t.edit.Begin(ref)
			return cmd
		}
	}
	commit := t.edit.Commit()

	t.setFocus(focusTable)
	t.cursorRow = rowIdx
	if col >= 0 {
		t.cursorCol = col
	}
	t.ensureCursorVisible()

	if row.Pinned {
		if f, ok := draftFieldFor(col); ok {
			t.draft.FocusField(f)
		}
		return t.withSpinner(commit)
	}

	switch {
	case col == -1:
		t.selection.Toggle(row.ID)
	case col >= 0 && Columns[col].Editable():
		return batchCmds(t.withSpinner(commit), t.beginEdit(row, col))
	}
	return t.withSpinner(commit)
}

// lineTarget maps a body line to a visible row index, or to a candidate
// index when the line falls in the suggestion box under the draft.
func (t *Table) lineTarget(line int) (row, candidate int) {
	extra := t.candidateLines()
	if extra == 0 || t.top > 0 {
		return t.top + line, -1
	}
	switch {
	case line == 0:
		return 0, -1
	case line <= extra:
		// The box has a border line above and below.
		i := line - 2
		if i < 0 || i >= min(t.draft.Candidates().Len(), maxVisibleCandidates) {
			return -1, -1
		}
		return -1, i
	default:
		return line - extra, -1
	}
}

// draftFieldFor maps a column index to the draft input rendered there.
func draftFieldFor(col int) (DraftField, bool) {
	if col < 0 || col >= len(Columns) {
		return 0, false
	}
	switch Columns[col].ID {
	case ColumnSymbol:
		return FieldSymbol, true
	case ColumnEntry:
		return FieldEntry, true
	case ColumnStoploss:
		return FieldStoploss, true
	case ColumnTarget:
		return FieldTarget, true
	case ColumnCreated, ColumnUpdated:
		return FieldNotes, true
	}
	return 0, false
}

// ---- Debounce ----

func (t *Table) handleDebounce(msg DebounceMsg) tea.Cmd {
	switch msg.Tag {
	case debounceSymbolFilter:
		if t.symbolFilter.HandleDebounce(msg) {
			t.ensureCursorVisible()
		}
		return nil
	case debounceTickerSearch:
		return t.draft.HandleDebounce(msg)
	}
	return nil
}

// handleConfigChanged re-reads the config file after an outside edit and
// applies the settings that take effect without a restart.
func (t *Table) handleConfigChanged() tea.Cmd {
	before := t.config.Snapshot()
	if err := t.config.Reload(); err != nil {
		t.logger.Warn(fmt.Sprintf("config: reload: %v", err))
		t.activity.Error(fmt.Sprintf("Could not reload settings: %v", err))
		return nil
	}
	after := t.config.Snapshot()
	if after == before {
		return nil
	}
	t.symbolFilter.SetDelay(after.FilterDebounce)
	t.draft.SetSearchDelay(after.SearchDebounce)
	t.activity.Info("Reloaded settings from " + t.config.Path())
	return nil
}

// ---- Remote Results ----

func (t *Table) handleZonesLoaded(msg ZonesLoadedMsg) tea.Cmd {
	if !t.remote.IsLatest(zoneapi.OpList, msg.Seq) {
		return nil
	}
	t.loading = false

	if msg.Err != nil {
		t.fail(failureNotice("Could not load zones", "Failed to load zones", msg.Err), msg.Err, "load")
		return nil
	}

	selected := make(map[int64]bool)
	for _, id := range t.selection.SelectedIDs() {
		selected[id] = true
	}
	var cursorID int64 = -1
	if r, ok := t.cursorTarget(); ok && !r.Pinned {
		cursorID = r.ID
	}
	busy, committing := t.edit.Target()
	committing = committing && t.edit.Committing()

	rows := make([]*Row, 0, len(msg.Zones))
	for _, z := range msg.Zones {
		r := NewZoneRow(z)
		r.Selected = selected[z.ID]
		if committing && busy.RowID == z.ID {
			r.Busy = busy.Column
		}
		rows = append(rows, r)
	}
	t.rows.Reset(rows)
	t.sorter.Apply()
	t.filter.Apply()

	if cursorID >= 0 {
		for i, r := range t.visibleRows() {
			if !r.Pinned && r.ID == cursorID {
				t.cursorRow = i
				break
			}
		}
	}
	t.ensureCursorVisible()

	t.logger.Debug("zoneview: zones loaded", "count", len(rows))
	t.activity.Info(fmt.Sprintf("Loaded %d zones", len(rows)))
	return nil
}

func (t *Table) handleEditResult(msg EditResultMsg) tea.Cmd {
	handled, err := t.edit.HandleResult(msg)
	if !handled {
		return nil
	}
	if err != nil {
		t.fail(failureNotice("Update failed", "Failed to update zone", err), err, "update")
		return nil
	}

	text := msg.Result.Message
	if text == "" {
		symbol := ""
		if r, ok := t.rows.Find(msg.Target.RowID); ok {
			symbol = r.Symbol()
		}
		text = fmt.Sprintf("Updated %s %s to %s", symbol, msg.Target.Column, FormatPrice(msg.Value))
	}
	t.activity.Info(text)
	t.setFlash(text)
	return nil
}

func (t *Table) handleCreateResult(msg CreateResultMsg) tea.Cmd {
	handled, err := t.draft.HandleCreateResult(msg)
	if !handled {
		return nil
	}
	if err != nil {
		t.fail(failureNotice("Create failed", "Failed to create zone", err), err, "create")
		return nil
	}

	text := msg.Result.Message
	if text == "" {
		text = "Zone created"
	}
	t.activity.Info(text)
	t.setFlash(text)
	t.refreshRows()
	t.cursorRow, t.top = 0, 0
	return t.reload()
}

func (t *Table) handleDeleteResult(msg DeleteResultMsg) tea.Cmd {
	if msg.Seq != t.deleteSeq || !t.remote.IsLatest(zoneapi.OpDelete, msg.Seq) {
		return nil
	}
	t.deleting = false

	if msg.Err != nil {
		t.fail(failureNotice("Delete failed", "Failed to delete zones", msg.Err), msg.Err, "delete")
		return nil
	}

	removed := t.selection.ApplyDeleted(msg.IDs)
	t.refreshRows()

	text := msg.Result.Message
	if text == "" {
		text = fmt.Sprintf("Deleted %d zones", removed)
	}
	t.activity.Info(text)
	if n := msg.Result.Errors; n > 0 {
		t.activity.Error(fmt.Sprintf("%d zones could not be deleted", n))
	}
	t.setFlash(text)
	return nil
}

func (t *Table) handleSearchResult(msg SearchResultMsg) tea.Cmd {
	handled, err := t.draft.HandleSearchResult(msg)
	if !handled || err == nil {
		t.ensureCursorVisible()
		return nil
	}

	text := "Symbol search failed"
	if m, ok := zoneapi.ServerMessage(err); ok && m != "" {
		text += ": " + m
	}
	t.activity.Error(text)
	t.setFlash(text)
	t.logger.Warn("zoneview: ticker search failed", "query", msg.Query, "error", err)
	return nil
}

// ---- Animation Handlers ----

func (t *Table) handleFilterPaneAnimation(now time.Time) tea.Cmd {
	done := t.filterPane.Update(now)
	t.ensureCursorVisible()
	if done {
		return nil
	}
	return animationTick(FilterPaneAnimationMsg{})
}

func (t *Table) handleActivityPaneAnimation(now time.Time) tea.Cmd {
	done := t.activityPane.Update(now)
	t.ensureCursorVisible()
	if done {
		return nil
	}
	return animationTick(ActivityPaneAnimationMsg{})
}

// ---- General Handlers ----

func (t *Table) handleToggleHelp(msg tea.KeyMsg) tea.Cmd {
	t.showHelp = !t.showHelp
	return nil
}

func (t *Table) handleQuit(msg tea.KeyMsg) tea.Cmd {
	t.logger.Debug("zoneview: quit requested")
	return tea.Quit
}

func (t *Table) handleReload(msg tea.KeyMsg) tea.Cmd {
	return t.reload()
}

// ---- Zone Handlers ----

func (t *Table) handleOpenDraft(msg tea.KeyMsg) tea.Cmd {
	commit := t.edit.Commit()
	if !t.draft.Open() {
		return t.withSpinner(commit)
	}
	t.setFocus(focusTable)
	t.refreshRows()
	t.cursorRow, t.top = 0, 0
	return t.withSpinner(commit)
}

func (t *Table) handleBeginEdit(msg tea.KeyMsg) tea.Cmd {
	switch t.focus {
	case focusFilters:
		t.filterPane.ToggleCursor()
		t.ensureCursorVisible()
		return nil
	case focusActivity:
		return nil
	}

	row, ok := t.cursorTarget()
	if !ok || row.Pinned {
		return nil
	}
	return t.beginEdit(row, t.cursorCol)
}

func (t *Table) beginEdit(row *Row, col int) tea.Cmd {
	if col < 0 || col >= len(Columns) {
		return nil
	}
	if !Columns[col].Editable() {
		t.setFlash("Only entry, stoploss and target can be edited")
		return nil
	}

	outcome, cmd := t.edit.Begin(CellRef{RowID: row.ID, Column: Columns[col].ID})
	if outcome == EditRejected {
		switch {
		case t.edit.Active():
			t.setFlash("Another zone is being saved")
		case row.Busy != "":
			t.setFlash(fmt.Sprintf("%s is being saved", row.Symbol()))
		}
	}
	return cmd
}

func (t *Table) handleSpace(msg tea.KeyMsg) tea.Cmd {
	switch t.focus {
	case focusFilters:
		t.filterPane.ToggleCursor()
		t.ensureCursorVisible()
		return nil
	case focusActivity:
		return nil
	}

	if row, ok := t.cursorTarget(); ok && !row.Pinned {
		t.selection.Toggle(row.ID)
	}
	return nil
}

func (t *Table) handleToggleAll(msg tea.KeyMsg) tea.Cmd {
	t.selection.ToggleHeader()
	return nil
}

func (t *Table) handleDeleteSelected(msg tea.KeyMsg) tea.Cmd {
	if t.deleting {
		return nil
	}
	ids := t.selection.SelectedIDs()
	if len(ids) == 0 {
		t.setFlash("Select zones to delete with space")
		return nil
	}

	seq, cmd := t.remote.DeleteZones(ids)
	t.deleteSeq = seq
	t.deleting = true
	t.activity.Info(fmt.Sprintf("Deleting %d zones", len(ids)))
	return batchCmds(cmd, t.startSpinner())
}

func (t *Table) handleExport(msg tea.KeyMsg) tea.Cmd {
	zones := t.filter.Export()
	data, err := json.MarshalIndent(zones, "", "  ")
	if err != nil {
		t.logger.CaptureError(fmt.Errorf("zoneview: export: %v", err))
		return nil
	}
	t.activity.Info(fmt.Sprintf("Exported %d zones\n%s", len(zones), data))
	t.activityPane.ScrollToEnd()
	t.setFlash(fmt.Sprintf("Exported %d zones to the activity log (l to view)", len(zones)))
	return nil
}

// ---- Sorting Handlers ----

func (t *Table) sortBy(col int) {
	if col < 0 || col >= len(Columns) {
		return
	}
	t.sorter.Activate(Columns[col].ID)
	t.filter.Apply()
	t.cursorCol = col
	t.ensureCursorVisible()
}

func (t *Table) handleSortCursorColumn(msg tea.KeyMsg) tea.Cmd {
	t.sortBy(t.cursorCol)
	return nil
}

func (t *Table) handleSortNumberedColumn(msg tea.KeyMsg) tea.Cmd {
	if len(msg.Runes) != 1 {
		return nil
	}
	t.sortBy(int(msg.Runes[0]-'1'))
	return nil
}

// ---- Filter Handlers ----

func (t *Table) handleEnterSymbolFilter(msg tea.KeyMsg) tea.Cmd {
	return t.symbolFilter.Activate()
}

func (t *Table) handleTogglePillKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if !strings.HasPrefix(key, "alt+") {
		return nil
	}
	digit := strings.TrimPrefix(key, "alt+")
	if len(digit) != 1 || digit[0] < '1' || digit[0] > '9' {
		return nil
	}
	if t.filterPane.TogglePill(int(digit[0] - '1')) {
		t.ensureCursorVisible()
	}
	return nil
}

func (t *Table) handleClearFilters(msg tea.KeyMsg) tea.Cmd {
	t.symbolFilter.Clear()
	t.filter.Clear()
	t.ensureCursorVisible()
	return nil
}

// ---- Pane Toggle Handlers ----

func (t *Table) handleToggleFilterPane(msg tea.KeyMsg) tea.Cmd {
	willBeVisible := !t.filterPane.IsExpanded()
	t.resolveFocusAfterToggle(willBeVisible, t.activityPane.IsExpanded())
	t.filterPane.Toggle()

	if err := t.config.SetFilterPaneVisible(willBeVisible); err != nil {
		t.logger.Warn("zoneview: could not persist filter pane state", "error", err)
	}
	return animationTick(FilterPaneAnimationMsg{})
}

func (t *Table) handleToggleActivityPane(msg tea.KeyMsg) tea.Cmd {
	willBeVisible := !t.activityPane.IsExpanded()
	t.resolveFocusAfterToggle(t.filterPane.IsExpanded(), willBeVisible)
	t.activityPane.Toggle()

	if err := t.config.SetActivityPaneVisible(willBeVisible); err != nil {
		t.logger.Warn("zoneview: could not persist activity pane state", "error", err)
	}
	return animationTick(ActivityPaneAnimationMsg{})
}

func (t *Table) handleFocusCycle(msg tea.KeyMsg) tea.Cmd {
	direction := 1
	if msg.Type == tea.KeyShiftTab {
		direction = -1
	}
	t.cycleFocus(direction)
	return nil
}

// ---- Navigation Handlers ----

func (t *Table) handleVerticalNav(msg tea.KeyMsg) tea.Cmd {
	up := msg.String() == "up" || msg.String() == "k"

	switch t.focus {
	case focusActivity:
		if up {
			t.activityPane.Up()
		} else {
			t.activityPane.Down()
		}
	case focusFilters:
		// Pills are laid out on one axis.
		if up {
			t.filterPane.MoveCursor(-1)
		} else {
			t.filterPane.MoveCursor(1)
		}
	default:
		if up {
			t.moveCursor(-1)
		} else {
			t.moveCursor(1)
		}
	}
	return nil
}

func (t *Table) handleHorizontalNav(msg tea.KeyMsg) tea.Cmd {
	delta := 1
	if msg.String() == "left" {
		delta = -1
	}

	switch t.focus {
	case focusFilters:
		t.filterPane.MoveCursor(delta)
	case focusTable:
		t.cursorCol = clamp(t.cursorCol+delta, 0, len(Columns)-1)
	}
	return nil
}

func (t *Table) handlePageNav(msg tea.KeyMsg) tea.Cmd {
	down := msg.String() == "pgdown"

	if t.focus == focusActivity {
		if down {
			t.activityPane.PageDown()
		} else {
			t.activityPane.PageUp()
		}
		return nil
	}

	page := max(t.bodyHeight()-1, 1)
	if down {
		t.moveCursor(page)
	} else {
		t.moveCursor(-page)
	}
	return nil
}

func (t *Table) handleHomeEnd(msg tea.KeyMsg) tea.Cmd {
	if t.focus != focusTable {
		return nil
	}
	if msg.String() == "home" {
		t.cursorRow = 0
	} else {
		t.cursorRow = len(t.visibleRows()) - 1
	}
	t.ensureCursorVisible()
	return nil
}
