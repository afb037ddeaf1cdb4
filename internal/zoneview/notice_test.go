package zoneview_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tradezones/zonedesk/internal/zoneapi"
	"github.com/tradezones/zonedesk/internal/zoneview"
)

func TestFilterPane_SummaryAndPills(t *testing.T) {
	store := newStore(
		zone(1, "AAPL", zoneview.StatusActive),
		zone(2, "MSFT", zoneview.StatusTargetHit),
		shortZone(3, "TSLA", zoneview.StatusActive),
	)
	engine := zoneview.NewFilterEngine(store)
	pane := zoneview.NewFilterPane(engine, zoneview.NewSymbolFilter(engine, 0), true)

	require.Equal(t, "3 zones", pane.Summary())
	view := stripANSI(pane.View(120))
	require.Contains(t, view, "Active 2")
	require.Contains(t, view, "Target Hit 1")
	require.Contains(t, view, "Short Zone 1")

	// Pills are statuses first, then types.
	require.True(t, pane.TogglePill(6))
	require.Equal(t, []string{"TSLA"}, visibleSymbols(engine))
	require.Equal(t, "showing 1 of 3", pane.Summary())

	require.False(t, pane.TogglePill(7))
}

func TestFilterPane_CursorWraps(t *testing.T) {
	engine := zoneview.NewFilterEngine(zoneview.NewRowStore())
	pane := zoneview.NewFilterPane(engine, zoneview.NewSymbolFilter(engine, 0), true)

	pane.MoveCursor(-1)
	require.Equal(t, 6, pane.Cursor())
	pane.MoveCursor(1)
	require.Equal(t, 0, pane.Cursor())

	pane.ToggleCursor()
	require.True(t, engine.Spec().Statuses[zoneview.StatusActive])
}

func TestFailureNotice_PrefersServerMessage(t *testing.T) {
	remote := &zoneapi.RemoteError{Op: zoneapi.OpDelete, Status: 400, Message: "No zones selected for deletion"}
	n := zoneview.TestFailureNotice("Delete failed", "Failed to delete zones", remote)
	require.Equal(t, "No zones selected for deletion", n.Message)

	transport := &zoneapi.TransportError{Op: zoneapi.OpDelete, Err: errors.New("connection refused")}
	n = zoneview.TestFailureNotice("Delete failed", "Failed to delete zones", transport)
	require.Equal(t, "Failed to delete zones", n.Message)

	view := stripANSI(n.View(80))
	require.Contains(t, view, "Delete failed")
	require.Contains(t, view, "press enter to dismiss")
}
