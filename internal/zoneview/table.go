package zoneview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tradezones/zonedesk/internal/observability"
	"github.com/tradezones/zonedesk/internal/zoneapi"
)

const (
	// tableToolbarLines is the selection toolbar above the header.
	tableToolbarLines = 1
	tableHeaderLines  = 1

	// checkboxWidth is the selection column, mark plus gap.
	checkboxWidth = 2

	// wheelStep is how many rows a mouse wheel notch scrolls.
	wheelStep = 3

	// flashDuration is how long a transient status message stays.
	flashDuration = 4 * time.Second
)

// Table is the zones view: a sortable, filterable, editable table with
// an inline creation draft, a filter pane and an activity log.
//
// Every component shares one RowStore. Table sequences their changes
// and renders the result.
type Table struct {
	// Configuration and key bindings.
	config *ConfigManager
	keyMap map[string]func(*Table, tea.KeyMsg) tea.Cmd
	logger *observability.CoreLogger

	remote *Remote

	rows      *RowStore
	sorter    *Sorter
	filter    *FilterEngine
	selection *SelectionManager
	edit      *EditSession
	draft     *RowCreationSession

	symbolFilter *SymbolFilter
	filterPane   *FilterPane
	activity     *ActivityLog
	activityPane *ActivityPane

	// notice, when set, blocks all input until dismissed.
	notice *Notice

	spinner  spinner.Model
	spinning bool

	// cursorRow indexes the visible rows; cursorCol indexes Columns.
	cursorRow int
	cursorCol int
	top       int
	focus     focusRegion

	loading   bool
	deleteSeq uint64
	deleting  bool
	showHelp  bool

	// flash is a transient status line message.
	flash      string
	flashUntil time.Time

	width, height int
}

func NewTable(
	store zoneapi.Store,
	cfg *ConfigManager,
	logger *observability.CoreLogger,
) *Table {
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	if cfg == nil {
		cfg = NewConfigManager(nil, DefaultConfigPath(), logger)
	}

	remote := NewRemote(store, cfg.RequestTimeout())
	rows := NewRowStore()
	filter := NewFilterEngine(rows)
	symbolFilter := NewSymbolFilter(filter, cfg.FilterDebounce())

	t := &Table{
		config:       cfg,
		keyMap:       buildKeyMap(TableKeyBindings()),
		logger:       logger,
		remote:       remote,
		rows:         rows,
		sorter:       NewSorter(rows),
		filter:       filter,
		selection:    NewSelectionManager(rows),
		edit:         NewEditSession(rows, remote),
		draft:        NewRowCreationSession(rows, remote, cfg.SearchDebounce()),
		symbolFilter: symbolFilter,
		filterPane:   NewFilterPane(filter, symbolFilter, cfg.FilterPaneVisible()),
		activity:     NewActivityLog(),
		activityPane: NewActivityPane(cfg.ActivityPaneVisible()),
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		cursorCol:    columnIndex(ColumnEntry),
	}
	return t
}

// Init starts the first load of the zones.
func (t *Table) Init() tea.Cmd {
	return t.reload()
}

func (t *Table) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.handleWindowResize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return t.handleKeyMsg(msg)

	case tea.MouseMsg:
		return t.handleMouse(msg)

	case DebounceMsg:
		return t.handleDebounce(msg)

	case ConfigChangedMsg:
		return t.handleConfigChanged()


	case ZonesLoadedMsg:
		return t.handleZonesLoaded(msg)

	case EditResultMsg:
		return t.handleEditResult(msg)

	case CreateResultMsg:
		return t.handleCreateResult(msg)

	case DeleteResultMsg:
		return t.handleDeleteResult(msg)

	case SearchResultMsg:
		return t.handleSearchResult(msg)

	case FilterPaneAnimationMsg:
		return t.handleFilterPaneAnimation(time.Now())

	case ActivityPaneAnimationMsg:
		return t.handleActivityPaneAnimation(time.Now())

	case spinner.TickMsg:
		return t.handleSpinnerTick(msg)
	}
	return nil
}

func (t *Table) View() string {
	if t.width <= 0 || t.height <= 0 {
		return ""
	}

	var sections []string
	if t.filterPane.IsVisible() {
		sections = append(sections, t.filterPane.View(t.width))
	}
	sections = append(sections, t.renderTable())
	if t.activityPane.IsVisible() {
		t.activityPane.SetItems(t.activity.Items())
		sections = append(sections, t.activityPane.View(t.width, t.activitySummary()))
	}
	sections = append(sections, t.renderStatusBar())

	full := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(t.width, t.height, lipgloss.Left, lipgloss.Top, full)
}

// ---- Layout ----

func (t *Table) handleWindowResize(width, height int) {
	t.width, t.height = width, height
	t.activityPane.ResizeFor(max(height-StatusBarHeight, 0))
	t.ensureCursorVisible()
}

// tableHeight is the height of the toolbar, header and body together.
func (t *Table) tableHeight() int {
	return max(t.height-StatusBarHeight-t.filterPane.Height()-t.activityPane.Height(), 0)
}

// bodyHeight is the number of lines available to rows.
func (t *Table) bodyHeight() int {
	return max(t.tableHeight()-tableToolbarLines-tableHeaderLines, 1)
}

// columnWidths spreads the table width over the columns, each at least
// its MinWidth. Leftover space goes to the symbol column.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(Columns))
	used := checkboxWidth
	for i, c := range Columns {
		widths[i] = c.MinWidth
		used += c.MinWidth + 1
	}
	if extra := t.width - used; extra > 0 {
		per := extra / len(Columns)
		for i := range widths {
			widths[i] += per
		}
		widths[0] += extra - per*len(Columns)
	}
	return widths
}

// columnAt returns the column index under screen x, or -1 for the
// checkbox column and -2 past the last column.
func (t *Table) columnAt(x int) int {
	if x < checkboxWidth {
		return -1
	}
	pos := checkboxWidth
	for i, w := range t.columnWidths() {
		if x < pos+w+1 {
			return i
		}
		pos += w + 1
	}
	return -2
}

// ---- Cursor ----

// visibleRows returns the rows on screen, in order, pinned draft first.
func (t *Table) visibleRows() []*Row {
	return t.filter.Visible()
}

// cursorTarget returns the row under the cursor.
func (t *Table) cursorTarget() (*Row, bool) {
	rows := t.visibleRows()
	if t.cursorRow < 0 || t.cursorRow >= len(rows) {
		return nil, false
	}
	return rows[t.cursorRow], true
}

func (t *Table) moveCursor(delta int) {
	n := len(t.visibleRows())
	if n == 0 {
		t.cursorRow, t.top = 0, 0
		return
	}
	t.cursorRow = clamp(t.cursorRow+delta, 0, n-1)
	t.ensureCursorVisible()
}

// ensureCursorVisible clamps the cursor and scrolls it into view.
func (t *Table) ensureCursorVisible() {
	n := len(t.visibleRows())
	if n == 0 {
		t.cursorRow, t.top = 0, 0
		return
	}
	t.cursorRow = clamp(t.cursorRow, 0, n-1)

	lines := t.bodyHeight() - t.candidateLines()
	lines = max(lines, 1)
	if t.cursorRow < t.top {
		t.top = t.cursorRow
	}
	if t.cursorRow >= t.top+lines {
		t.top = t.cursorRow - lines + 1
	}
	t.top = clamp(t.top, 0, max(n-lines, 0))
}

// candidateLines is the height of the symbol suggestion box under the
// draft row.
func (t *Table) candidateLines() int {
	c := t.draft.Candidates()
	if !t.draft.IsOpen() || !c.Visible() {
		return 0
	}
	return min(c.Len(), maxVisibleCandidates) + 2
}

// ---- Row set changes ----

// refreshRows reclassifies rows after any change to the row set and
// keeps the cursor on screen.
func (t *Table) refreshRows() {
	t.filter.Apply()
	t.ensureCursorVisible()
}

func (t *Table) reload() tea.Cmd {
	t.loading = true
	return batchCmds(t.remote.LoadZones(), t.startSpinner())
}

// ---- Busy indicator ----

func (t *Table) busy() bool {
	return t.loading || t.deleting || t.edit.Committing() ||
		t.draft.State() == CreationSubmitting
}

func (t *Table) startSpinner() tea.Cmd {
	if t.spinning {
		return nil
	}
	t.spinning = true
	return t.spinner.Tick
}

func (t *Table) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	if !t.busy() {
		t.spinning = false
		return nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return cmd
}

// ---- Messages to the user ----

// setFlash shows a transient status line message.
func (t *Table) setFlash(msg string) {
	t.flash = msg
	t.flashUntil = time.Now().Add(flashDuration)
}

// fail records a failed remote action: a blocking notice, an activity
// log entry and an error report.
func (t *Table) fail(notice *Notice, err error, op string) {
	t.notice = notice
	t.activity.Error(fmt.Sprintf("%s: %s", notice.Title, notice.Message))
	t.logger.CaptureError(fmt.Errorf("zoneview: %s: %v", op, err))
}

func (t *Table) activitySummary() string {
	errs := 0
	for _, e := range t.activity.Entries() {
		if e.Level == ActivityError {
			errs++
		}
	}
	switch errs {
	case 0:
		return ""
	case 1:
		return "1 error"
	default:
		return fmt.Sprintf("%d errors", errs)
	}
}

// ---- Status bar ----

func (t *Table) renderStatusBar() string {
	statusText := t.buildStatusText()
	helpText := t.buildHelpText()

	innerWidth := max(t.width-2*StatusBarPadding, 0)
	spaceForHelp := max(innerWidth-lipgloss.Width(statusText), 0)
	rightAligned := lipgloss.PlaceHorizontal(spaceForHelp, lipgloss.Right, helpText)

	return statusBarStyle.
		Width(t.width).
		MaxWidth(t.width).
		Render(statusText + rightAligned)
}

func (t *Table) buildStatusText() string {
	prefix := ""
	if t.busy() {
		prefix = t.spinner.View() + " "
	}

	switch {
	case t.symbolFilter.IsActive():
		return fmt.Sprintf("Symbol: %s%s [%d/%d] (Enter to apply • Esc to clear)",
			t.symbolFilter.Query(), string(mediumShadeBlock),
			t.filter.Counts().Total-t.filter.HiddenCount(), t.filter.Counts().Total)
	case t.draft.IsOpen():
		return prefix + t.draft.Summary()
	case t.edit.Editing():
		ref, _ := t.edit.Target()
		row, _ := t.rows.Find(ref.RowID)
		symbol := ""
		if row != nil {
			symbol = row.Symbol()
		}
		return fmt.Sprintf("Editing %s %s (Enter to save • Esc to cancel)", symbol, ref.Column)
	case t.flash != "" && time.Now().Before(t.flashUntil):
		return prefix + t.flash
	}

	if t.loading && t.rows.Len() == 0 {
		return prefix + loadingMessage
	}
	return prefix + t.buildActiveStatus()
}

// buildActiveStatus summarizes sort, filters and selection.
func (t *Table) buildActiveStatus() string {
	parts := []string{"zonedesk"}

	if n := t.selection.Count(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	} else {
		parts = append(parts, t.filterPane.Summary())
	}

	if spec, ok := t.sorter.Spec(); ok {
		col, _ := ColumnByID(spec.Column)
		parts = append(parts, fmt.Sprintf("sorted by %s %s", col.Title, t.sorter.Indicator(spec.Column)))
	}
	if q := t.filter.Spec().Symbol; q != "" {
		parts = append(parts, fmt.Sprintf("symbol %q (ctrl+l to clear)", q))
	}
	if t.focus != focusTable {
		parts = append(parts, "focus: "+t.focus.String())
	}
	return strings.Join(parts, " • ")
}

func (t *Table) buildHelpText() string {
	if t.symbolFilter.IsActive() || t.draft.IsOpen() || t.edit.Editing() {
		return ""
	}
	return "h: help"
}
