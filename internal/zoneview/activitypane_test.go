package zoneview_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tradezones/zonedesk/internal/zoneview"
)

func expandActivityPane(t *testing.T, p *zoneview.ActivityPane, height int) {
	t.Helper()

	p.SetExpandedHeight(height)
	p.Toggle()
	p.Update(time.Now().Add(zoneview.AnimationDuration + time.Millisecond))

	require.True(t, p.IsExpanded())
	require.False(t, p.IsAnimating())
	require.Equal(t, height, p.Height())
}

func makeActivity(n int) []zoneview.KeyValuePair {
	items := make([]zoneview.KeyValuePair, n)
	for i := range n {
		items[i] = zoneview.KeyValuePair{
			Key:   fmt.Sprintf("10:00:%02d", i),
			Value: fmt.Sprintf("entry %02d", i+1),
		}
	}
	return items
}

func TestActivityPane_CollapsedRendersNothing(t *testing.T) {
	p := zoneview.NewActivityPane(false)
	p.SetItems(makeActivity(3))
	require.Empty(t, p.View(80, ""))
}

func TestActivityPane_StopsFollowingWhenUserScrollsUp(t *testing.T) {
	p := zoneview.NewActivityPane(false)
	expandActivityPane(t, p, 5) // border + padding + header + 2 lines

	p.SetItems(makeActivity(10))
	require.Contains(t, stripANSI(p.View(80, "")), "[9-10 of 10]")

	p.Up()
	require.False(t, p.Following())

	p.SetItems(makeActivity(11))
	require.Contains(t, stripANSI(p.View(80, "")), "[9-10 of 11]",
		"new entries must not move the view while the user reads older ones")

	p.ScrollToEnd()
	require.Contains(t, stripANSI(p.View(80, "")), "[10-11 of 11]")
}

func TestActivityPane_DownWrapsAndResumesFollowing(t *testing.T) {
	p := zoneview.NewActivityPane(false)
	expandActivityPane(t, p, 5)

	p.SetItems(makeActivity(5))
	require.Contains(t, stripANSI(p.View(80, "")), "[4-5 of 5]")

	p.Down()
	require.Equal(t, 0, p.Cursor())
	require.Contains(t, stripANSI(p.View(80, "")), "[1-2 of 5]")

	for range 4 {
		p.Down()
	}
	require.True(t, p.Following())
	require.Contains(t, stripANSI(p.View(80, "")), "[4-5 of 5]")
}

func TestActivityPane_PageUpDownWrapAround(t *testing.T) {
	p := zoneview.NewActivityPane(false)
	expandActivityPane(t, p, 4) // one content line

	p.SetItems(makeActivity(5))
	require.Contains(t, stripANSI(p.View(80, "")), "[5-5 of 5]")

	p.PageDown()
	require.Contains(t, stripANSI(p.View(80, "")), "[1-1 of 5]")

	p.PageUp()
	require.Contains(t, stripANSI(p.View(80, "")), "[5-5 of 5]")
}

func TestActivityPane_HeaderShowsSummaryAndEmptyHint(t *testing.T) {
	p := zoneview.NewActivityPane(true)

	out := stripANSI(p.View(80, "2 errors"))
	require.Contains(t, out, "Activity • 2 errors")
	require.Contains(t, out, "No activity yet.")
}

func TestActivityPane_TimestampHiddenWhenTooNarrow(t *testing.T) {
	p := zoneview.NewActivityPane(true)
	p.SetItems([]zoneview.KeyValuePair{{Key: "10:11:12", Value: "hello"}})

	require.Contains(t, stripANSI(p.View(80, "")), "10:11:12")

	narrow := stripANSI(p.View(8, ""))
	require.NotContains(t, narrow, "10:11:12")
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     []string
	}{
		{"fits", "hello", 10, []string{"hello"}},
		{"wraps at boundary", "abcdefghij", 5, []string{"abcde", "fghij"}},
		{"keeps newlines", "abc\ndef", 10, []string{"abc", "def"}},
		{"wraps and keeps newlines", "abcdefghij\nxy", 5, []string{"abcde", "fghij", "xy"}},
		{"empty", "", 10, []string{""}},
		{"zero width", "abc", 0, []string{"abc"}},
		{"wide runes", "₹₹₹", 2, []string{"₹₹", "₹"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, zoneview.WrapText(tt.text, tt.maxWidth))
		})
	}
}

func TestWithEllipsis(t *testing.T) {
	require.Equal(t, "hello w...", zoneview.WithEllipsis("hello world! this is long", 10))
	require.Equal(t, "...", zoneview.WithEllipsis("hello", 3))
	require.Equal(t, "..", zoneview.WithEllipsis("hello", 2))
	require.Equal(t, "...", zoneview.WithEllipsis("", 10))
}
