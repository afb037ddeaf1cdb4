package zoneview_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/tradezones/zonedesk/internal/zoneview"
)

func TestSymbolFilter_AppliesOnlyAfterDebounce(t *testing.T) {
	store := newStore(
		zone(1, "AAPL", zoneview.StatusActive),
		zone(2, "ABX", zoneview.StatusEntryHit),
		zone(3, "MSFT", zoneview.StatusActive),
	)
	engine := zoneview.NewFilterEngine(store)
	f := zoneview.NewSymbolFilter(engine, 300*time.Millisecond)

	f.Activate()
	require.True(t, f.IsActive())

	f.HandleKey(runeKey('a'))
	stale := f.TestPendingDebounce()
	f.HandleKey(runeKey('b'))

	require.Equal(t, "ab", f.Query())
	require.Len(t, engine.Visible(), 3, "typing must not filter before the delay")

	require.False(t, f.HandleDebounce(stale), "a superseded timer is ignored")
	require.Len(t, engine.Visible(), 3)

	require.True(t, f.HandleDebounce(f.TestPendingDebounce()))
	require.Equal(t, []string{"ABX"}, visibleSymbols(engine))
}

func TestSymbolFilter_EnterAppliesImmediately(t *testing.T) {
	store := newStore(zone(1, "AAPL", zoneview.StatusActive), zone(2, "MSFT", zoneview.StatusActive))
	engine := zoneview.NewFilterEngine(store)
	f := zoneview.NewSymbolFilter(engine, time.Hour)

	f.Activate()
	typeString(f, "msf")
	pending := f.TestPendingDebounce()

	f.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, f.IsActive())
	require.Equal(t, []string{"MSFT"}, visibleSymbols(engine))
	require.False(t, f.HandleDebounce(pending), "enter cancels the pending timer")
}

func TestSymbolFilter_EscClearsQuery(t *testing.T) {
	store := newStore(zone(1, "AAPL", zoneview.StatusActive), zone(2, "MSFT", zoneview.StatusActive))
	engine := zoneview.NewFilterEngine(store)
	f := zoneview.NewSymbolFilter(engine, time.Hour)

	f.Activate()
	typeString(f, "aa")
	f.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, engine.Visible(), 1)

	f.Activate()
	f.HandleKey(tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, f.Query())
	require.Len(t, engine.Visible(), 2)
}
