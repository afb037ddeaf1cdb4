package zoneview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filterPaneTitle       = "Filters"
	filterPaneBorderLines = 1
	filterPaneBodyLines   = 4 // header, symbol, statuses, types
	filterPaneHeight      = filterPaneBorderLines + filterPaneBodyLines
	filterPaneLabelWidth  = 8
)

// filterPill is one toggle of the filter pane: a status or a zone type.
type filterPill struct {
	status Status
	typ    ZoneType
}

func (p filterPill) label() string {
	if p.status != "" {
		return string(p.status)
	}
	return string(p.typ)
}

// filterPills lists every toggle in navigation order: statuses, then types.
var filterPills = func() []filterPill {
	pills := make([]filterPill, 0, len(AllStatuses)+len(AllZoneTypes))
	for _, s := range AllStatuses {
		pills = append(pills, filterPill{status: s})
	}
	for _, t := range AllZoneTypes {
		pills = append(pills, filterPill{typ: t})
	}
	return pills
}()

// FilterPane is the collapsible pane above the table holding the symbol
// search and the status and type pills with their row counts.
//
// Pills apply as soon as they are toggled. When focused, left and right
// move between pills and space toggles the highlighted one.
type FilterPane struct {
	height *AnimatedValue
	engine *FilterEngine
	symbol *SymbolFilter

	cursor  int
	focused bool
}

func NewFilterPane(engine *FilterEngine, symbol *SymbolFilter, expanded bool) *FilterPane {
	return &FilterPane{
		height: NewAnimatedValue(expanded, filterPaneHeight),
		engine: engine,
		symbol: symbol,
	}
}

func (p *FilterPane) Height() int               { return p.height.Value() }
func (p *FilterPane) IsVisible() bool           { return p.height.IsVisible() }
func (p *FilterPane) IsExpanded() bool          { return p.height.IsExpanded() }
func (p *FilterPane) IsAnimating() bool         { return p.height.IsAnimating() }
func (p *FilterPane) Toggle()                   { p.height.Toggle() }
func (p *FilterPane) Update(now time.Time) bool { return p.height.Update(now) }
func (p *FilterPane) Focused() bool             { return p.focused }
func (p *FilterPane) SetFocused(focused bool)   { p.focused = focused }
func (p *FilterPane) Cursor() int               { return p.cursor }
func (p *FilterPane) ForceExpand()              { p.height.ForceExpand() }

// MoveCursor moves the pill highlight by delta, wrapping around.
func (p *FilterPane) MoveCursor(delta int) {
	n := len(filterPills)
	p.cursor = ((p.cursor+delta)%n + n) % n
}

// ToggleCursor toggles the highlighted pill.
func (p *FilterPane) ToggleCursor() {
	p.TogglePill(p.cursor)
}

// TogglePill toggles pill i: statuses first, then zone types.
func (p *FilterPane) TogglePill(i int) bool {
	if i < 0 || i >= len(filterPills) {
		return false
	}
	pill := filterPills[i]
	if pill.status != "" {
		p.engine.ToggleStatus(pill.status)
	} else {
		p.engine.ToggleType(pill.typ)
	}
	return true
}

// Summary is the "showing N of M" line shown in the pane header.
func (p *FilterPane) Summary() string {
	total := p.engine.Counts().Total
	if !p.engine.IsFiltering() {
		return fmt.Sprintf("%d zones", total)
	}
	return fmt.Sprintf("showing %d of %d", total-p.engine.HiddenCount(), total)
}

// View renders the pane, or nothing while it is collapsed.
func (p *FilterPane) View(width int) string {
	h := p.Height()
	if width <= 0 || h <= 0 {
		return ""
	}

	spec := p.engine.Spec()
	counts := p.engine.Counts()

	header := paneHeaderStyle.Render(filterPaneTitle) +
		navInfoStyle.Render(" • "+p.Summary())
	if p.engine.IsFiltering() {
		header += navInfoStyle.Render("  (ctrl+l clears)")
	}

	inner := max(width-filterPaneLabelWidth, 1)
	label := filterLabelStyle.Width(filterPaneLabelWidth)

	var statuses, types []string
	for i, pill := range filterPills {
		var on bool
		var n int
		if pill.status != "" {
			on, n = spec.Statuses[pill.status], counts.ByStatus[pill.status]
		} else {
			on, n = spec.Types[pill.typ], counts.ByType[pill.typ]
		}
		rendered := p.renderPill(pill.label(), n, on, p.focused && i == p.cursor)
		if pill.status != "" {
			statuses = append(statuses, rendered)
		} else {
			types = append(types, rendered)
		}
	}

	lines := []string{
		clipANSI(header, width),
		label.Render("Symbol") + p.symbol.View(inner),
		label.Render("Status") + clipANSI(strings.Join(statuses, " "), inner),
		label.Render("Type") + clipANSI(strings.Join(types, " "), inner),
	}
	body := lipgloss.Place(width, filterPaneBodyLines, lipgloss.Left, lipgloss.Top,
		strings.Join(lines, "\n"))

	// Cut to the animated height while opening or closing.
	return lipgloss.NewStyle().MaxHeight(h).Render(paneBorderStyle.Width(width).Render(body))
}

func (p *FilterPane) renderPill(label string, count int, on, highlighted bool) string {
	style := pillStyle
	if on {
		style = pillActiveStyle
	}
	if highlighted {
		style = style.Underline(true).Bold(true)
	}
	return style.Render(fmt.Sprintf("%s %d", label, count))
}
