package zoneview_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tradezones/zonedesk/internal/zoneapi"
	"github.com/tradezones/zonedesk/internal/zoneview"
)

func candidates(symbols ...string) *zoneview.CandidateList {
	items := make([]zoneapi.Ticker, len(symbols))
	for i, s := range symbols {
		items[i] = zoneapi.Ticker{Symbol: s}
	}
	var c zoneview.CandidateList
	c.Set(items)
	return &c
}

func highlighted(c *zoneview.CandidateList) string {
	t, ok := c.Highlighted()
	if !ok {
		return ""
	}
	return t.Symbol
}

func TestCandidateList_NextWraps(t *testing.T) {
	c := candidates("A", "B", "C")
	require.Equal(t, -1, c.Highlight())

	var got []string
	for range 4 {
		c.Next()
		got = append(got, highlighted(c))
	}
	require.Equal(t, []string{"A", "B", "C", "A"}, got)
}

func TestCandidateList_PrevWraps(t *testing.T) {
	c := candidates("A", "B", "C")

	c.Prev()
	require.Equal(t, "C", highlighted(c), "no highlight goes to the last")
	c.Prev()
	c.Prev()
	require.Equal(t, "A", highlighted(c))
	c.Prev()
	require.Equal(t, "C", highlighted(c))
}

func TestCandidateList_HighlightedOrFirst(t *testing.T) {
	c := candidates("A", "B")

	first, ok := c.HighlightedOrFirst()
	require.True(t, ok)
	require.Equal(t, "A", first.Symbol)

	c.Next()
	c.Next()
	second, _ := c.HighlightedOrFirst()
	require.Equal(t, "B", second.Symbol)
}

func TestCandidateList_EmptyResultHides(t *testing.T) {
	c := candidates("A")
	require.True(t, c.Visible())

	c.Set(nil)
	require.False(t, c.Visible())
	_, ok := c.HighlightedOrFirst()
	require.False(t, ok)
	c.Next()
	require.Equal(t, -1, c.Highlight())
}

func TestCandidateList_ViewShowsPrices(t *testing.T) {
	var c zoneview.CandidateList
	c.Set([]zoneapi.Ticker{{Symbol: "AAPL", LastPrice: price(190)}, {Symbol: "AAL"}})

	view := stripANSI(c.View(30))
	require.Contains(t, view, "AAPL")
	require.Contains(t, view, "₹ 190.00")
	require.Contains(t, view, "AAL")

	c.Hide()
	require.Empty(t, c.View(30))
}

func TestCandidateList_KeepsOnlyRenderedCandidates(t *testing.T) {
	symbols := make([]string, 12)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("SYM%02d", i)
	}
	c := candidates(symbols...)
	require.Equal(t, 10, c.Len())

	c.Prev()
	require.Equal(t, "SYM09", highlighted(c))
	require.Contains(t, c.View(30), "SYM09")
	require.NotContains(t, c.View(30), "SYM10")

	for range 10 {
		c.Next()
	}
	require.Equal(t, "SYM09", highlighted(c), "wraps within the rendered items")
}
