package zoneview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

// maxVisibleCandidates bounds the rendered height of the candidate list.
const maxVisibleCandidates = 10

// CandidateList is the symbol search dropdown of the creation draft.
//
// The highlight is -1 when no candidate is highlighted. Navigation wraps
// around in both directions.
type CandidateList struct {
	items     []zoneapi.Ticker
	highlight int
	visible   bool
}

// Set replaces the candidates, keeping at most maxVisibleCandidates so
// every item the highlight can reach is on screen. An empty result hides
// the list.
func (c *CandidateList) Set(items []zoneapi.Ticker) {
	c.items = items[:min(len(items), maxVisibleCandidates)]
	c.highlight = -1
	c.visible = len(items) > 0
}

// Hide closes the list without selecting anything.
func (c *CandidateList) Hide() {
	c.visible = false
	c.highlight = -1
}

func (c *CandidateList) Visible() bool  { return c.visible }
func (c *CandidateList) Len() int       { return len(c.items) }
func (c *CandidateList) Highlight() int { return c.highlight }

// Next moves the highlight down, wrapping past the last candidate.
func (c *CandidateList) Next() {
	if len(c.items) == 0 {
		return
	}
	c.highlight = (c.highlight + 1) % len(c.items)
}

// Prev moves the highlight up, wrapping before the first candidate.
// With nothing highlighted it lands on the last one.
func (c *CandidateList) Prev() {
	n := len(c.items)
	if n == 0 {
		return
	}
	if c.highlight <= 0 {
		c.highlight = n - 1
		return
	}
	c.highlight--
}

// Highlighted returns the highlighted candidate.
func (c *CandidateList) Highlighted() (zoneapi.Ticker, bool) {
	if c.highlight < 0 || c.highlight >= len(c.items) {
		return zoneapi.Ticker{}, false
	}
	return c.items[c.highlight], true
}

// HighlightedOrFirst returns the highlighted candidate, else the first.
func (c *CandidateList) HighlightedOrFirst() (zoneapi.Ticker, bool) {
	if t, ok := c.Highlighted(); ok {
		return t, true
	}
	if len(c.items) == 0 {
		return zoneapi.Ticker{}, false
	}
	return c.items[0], true
}

// View renders the visible candidates as "SYMBOL  ₹price" lines.
func (c *CandidateList) View(width int) string {
	if !c.visible || width <= 0 {
		return ""
	}

	lines := make([]string, 0, len(c.items))
	for i, t := range c.items {
		price := NoValue
		if t.LastPrice != nil {
			price = FormatPrice(*t.LastPrice)
		}

		gap := max(width-lipgloss.Width(t.Symbol)-lipgloss.Width(price)-2, 1)
		line := truncateValue(" "+t.Symbol+strings.Repeat(" ", gap)+price+" ", width)

		style := candidateStyle
		if i == c.highlight {
			style = candidateHighlightStyle
		}
		lines = append(lines, style.Width(width).Render(line))
	}
	return candidateBoxStyle.Render(strings.Join(lines, "\n"))
}
