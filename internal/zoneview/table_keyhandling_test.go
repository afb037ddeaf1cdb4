package zoneview_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradezones/zonedesk/internal/zoneapi"
	"github.com/tradezones/zonedesk/internal/zoneapi/zoneapitest"
	"github.com/tradezones/zonedesk/internal/zoneview"
)

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func mixedZones() []zoneapi.Zone {
	short := zoneWithEntry(3, "TSLA", 250)
	short.Type = string(zoneview.ZoneShort)
	short.Stoploss, short.Target = 260, 230
	hit := zoneWithEntry(2, "MSFT", 410)
	hit.Status = string(zoneview.StatusTargetHit)
	return []zoneapi.Zone{zoneWithEntry(1, "AAPL", 190), hit, short}
}

func TestKeys_NumberSortsColumnAndToggles(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(runeKey('3'))
	require.Equal(t, []string{"AAPL", "TSLA", "MSFT"}, f.visible())
	require.Contains(t, f.view(), "Entry "+zoneview.SortIndicatorAsc)

	f.press(runeKey('3'))
	require.Equal(t, []string{"MSFT", "TSLA", "AAPL"}, f.visible())
	require.Contains(t, f.view(), "Entry "+zoneview.SortIndicatorDesc)
	require.Contains(t, f.tbl.TestStatusText(), "sorted by Entry")
}

func TestKeys_SortCursorColumn(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(key(tea.KeyLeft), key(tea.KeyLeft), runeKey('s'))
	_, col := f.tbl.TestCursor()
	require.Equal(t, 0, col)
	require.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, f.visible())

	f.press(runeKey('s'))
	require.Equal(t, []string{"TSLA", "MSFT", "AAPL"}, f.visible())
}

func TestKeys_PillsAndClear(t *testing.T) {
	f := newTableFixture(t, mixedZones()...)

	// alt+1 is Active.
	f.press(altKey('1'))
	require.Equal(t, []string{"AAPL", "TSLA"}, f.visible())
	require.Contains(t, f.view(), "showing 2 of 3")

	// alt+7 is Short, ANDed with the status.
	f.press(altKey('7'))
	require.Equal(t, []string{"TSLA"}, f.visible())

	f.press(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, f.visible())
	require.Contains(t, f.view(), "3 zones")
}

func TestKeys_SymbolFilterAppliesOnEnter(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(runeKey('/'))
	require.True(t, f.tbl.TestSymbolFilter().IsActive())

	// Keys go to the input, not the key map.
	f.typeText("sl")
	require.False(t, f.tbl.TestDraft().IsOpen())
	require.Len(t, f.visible(), 3, "the filter waits for typing to pause")

	f.press(key(tea.KeyEnter))
	require.False(t, f.tbl.TestSymbolFilter().IsActive())
	require.Equal(t, []string{"TSLA"}, f.visible())
	require.Contains(t, f.tbl.TestStatusText(), `symbol "sl"`)
}

func TestKeys_SymbolFilterAppliesAfterDebounce(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(runeKey('/'))
	f.typeText("ms")
	settle(f.tbl, f.tbl.Update(f.tbl.TestSymbolFilter().TestPendingDebounce()))

	require.True(t, f.tbl.TestSymbolFilter().IsActive())
	require.Equal(t, []string{"MSFT"}, f.visible())

	f.press(key(tea.KeyEsc))
	require.Len(t, f.visible(), 3)
}

func TestKeys_HelpBlocksOtherKeys(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(runeKey('h'))
	require.True(t, f.tbl.TestHelpVisible())
	require.Contains(t, f.view(), "zonedesk keys")

	f.press(runeKey('t'))
	require.False(t, f.tbl.TestDraft().IsOpen())

	f.press(key(tea.KeyEsc))
	require.False(t, f.tbl.TestHelpVisible())
	require.Contains(t, f.view(), "AAPL")
}

func TestKeys_QuitReturnsQuit(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	cmd := f.tbl.Update(runeKey('q'))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestKeys_ToggleActivityPanePersists(t *testing.T) {
	f := newTableFixture(t, threeZones()...)
	require.False(t, f.tbl.TestActivityPaneExpanded())

	f.press(runeKey('l'))
	require.True(t, f.tbl.TestActivityPaneExpanded())
	require.True(t, f.cfg.ActivityPaneVisible())
	require.Contains(t, f.view(), "Loaded 3 zones")

	reloaded := zoneview.NewConfigManager(f.fs, testConfigPath, nil)
	require.True(t, reloaded.ActivityPaneVisible())

	f.press(runeKey('l'))
	require.False(t, f.tbl.TestActivityPaneExpanded())
	require.False(t, f.cfg.ActivityPaneVisible())
}

func TestKeys_ToggleFilterPaneMovesFocus(t *testing.T) {
	f := newTableFixture(t, threeZones()...)
	require.True(t, f.tbl.TestFilterPaneExpanded())

	f.press(key(tea.KeyTab))
	require.Equal(t, "filters", f.tbl.TestFocus())

	f.press(runeKey('f'))
	require.False(t, f.tbl.TestFilterPaneExpanded())
	require.Equal(t, "table", f.tbl.TestFocus())
	require.False(t, f.cfg.FilterPaneVisible())
}

func TestKeys_FocusFiltersAndTogglePill(t *testing.T) {
	f := newTableFixture(t, mixedZones()...)

	f.press(key(tea.KeyTab))
	require.Equal(t, "filters", f.tbl.TestFocus())

	// Target Hit is the third pill.
	f.press(key(tea.KeyRight), key(tea.KeyRight), key(tea.KeySpace))
	require.Equal(t, []string{"MSFT"}, f.visible())
	require.Empty(t, f.tbl.TestSelection().SelectedIDs())

	f.press(key(tea.KeyShiftTab))
	require.Equal(t, "table", f.tbl.TestFocus())
}

func TestKeys_Navigation(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(runeKey('j'), runeKey('j'), runeKey('j'))
	row, _ := f.tbl.TestCursor()
	require.Equal(t, 2, row, "the cursor stops at the last row")

	f.press(runeKey('k'))
	row, _ = f.tbl.TestCursor()
	require.Equal(t, 1, row)

	f.press(key(tea.KeyHome))
	row, _ = f.tbl.TestCursor()
	require.Equal(t, 0, row)

	f.press(key(tea.KeyEnd))
	row, _ = f.tbl.TestCursor()
	require.Equal(t, 2, row)

	f.press(key(tea.KeyRight), key(tea.KeyRight), key(tea.KeyRight),
		key(tea.KeyRight), key(tea.KeyRight), key(tea.KeyRight))
	_, col := f.tbl.TestCursor()
	require.Equal(t, len(zoneview.Columns)-1, col)
}

func TestKeys_SelectAllAndHeaderMark(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(key(tea.KeySpace))
	require.Contains(t, f.view(), zoneview.CheckboxIndeterminate)

	f.press(runeKey('a'))
	require.Equal(t, 3, f.tbl.TestSelection().Count())
	require.Contains(t, f.view(), "Delete (3)")

	f.press(runeKey('a'))
	require.Zero(t, f.tbl.TestSelection().Count())
}

func TestKeys_DeleteWithoutSelectionFlashes(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(runeKey('D'))

	require.False(t, f.tbl.TestDeleting())
	require.Contains(t, f.tbl.TestStatusText(), "Select zones to delete with space")
}

func TestKeys_ExportVisibleRows(t *testing.T) {
	f := newTableFixture(t, mixedZones()...)

	f.press(altKey('1'), runeKey('y'))

	entries := f.tbl.TestActivity().Entries()
	var lines []string
	for _, e := range entries {
		lines = append(lines, e.Message)
	}
	require.Contains(t, lines, "Exported 2 zones")
	require.Contains(t, lines, `    "symbol": "TSLA",`)
	require.NotContains(t, lines, `    "symbol": "MSFT",`)
	require.Contains(t, f.tbl.TestStatusText(), "Exported 2 zones to the activity log")
}

func TestKeys_EditTabMovesToNextEditableColumn(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.press(runeKey('e'), key(tea.KeyTab))

	require.False(t, f.tbl.TestEdit().Active(), "an unchanged value commits silently")
	_, col := f.tbl.TestCursor()
	require.Equal(t, "Stoploss", zoneview.Columns[col].Title)
}

func TestKeys_EditDownCommitsAndMoves(t *testing.T) {
	f := newTableFixture(t, threeZones()...)

	f.store.EXPECT().
		UpdateZoneField(gomock.Any(), int64(1), zoneapi.FieldEntry, 200.0).
		Return(zoneapi.UpdateResult{}, nil)

	f.press(runeKey('e'))
	f.typeText("200")
	f.press(key(tea.KeyDown))

	row, _ := f.tbl.TestCursor()
	require.Equal(t, 1, row)
	require.Contains(t, f.tbl.TestStatusText(), "Updated AAPL")
}

func TestKeys_ConfigWithPanesOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte("activity_pane_visible: true\nfilter_pane_visible: false\n"), 0o644))
	cfg := zoneview.NewConfigManager(fs, testConfigPath, nil)
	require.True(t, cfg.ActivityPaneVisible())

	ctrl := gomock.NewController(t)
	store := zoneapitest.NewMockStore(ctrl)
	tbl := zoneview.NewTable(store, cfg, nil)

	require.True(t, tbl.TestActivityPaneExpanded())
	require.False(t, tbl.TestFilterPaneExpanded())
}
