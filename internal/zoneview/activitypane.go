package zoneview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	// ActivityPaneHeightRatio is the share of the terminal height the
	// expanded activity pane takes.
	ActivityPaneHeightRatio = 0.3

	// ActivityPaneMinHeight fits the border, padding, header and one line.
	ActivityPaneMinHeight = activityBorderLines + activityPaddingLines + activityHeaderLines + 1

	activityPaneTitle    = "Activity"
	activityBorderLines  = 1
	activityPaddingLines = 1
	activityHeaderLines  = 1

	// activityKeyWidth fits an "HH:MM:SS" key plus its padding.
	activityKeyWidth = 10
)

// ActivityPane is the collapsible log panel under the table.
//
// It follows the tail of the log until the user moves the cursor away
// from the last entry; moving back to it resumes following.
type ActivityPane struct {
	height *AnimatedValue

	items []KeyValuePair

	// cursor is the selected entry, top the first entry on screen.
	cursor int
	top    int

	focused bool
	follow  bool

	// Layout of the last View, needed to page by screenfuls.
	valueWidth int
	lines      int
}

func NewActivityPane(expanded bool) *ActivityPane {
	return &ActivityPane{
		height: NewAnimatedValue(expanded, ActivityPaneMinHeight),
		follow: true,
	}
}

func (p *ActivityPane) Height() int               { return p.height.Value() }
func (p *ActivityPane) IsVisible() bool           { return p.height.IsVisible() }
func (p *ActivityPane) IsAnimating() bool         { return p.height.IsAnimating() }
func (p *ActivityPane) IsExpanded() bool          { return p.height.IsExpanded() }
func (p *ActivityPane) Toggle()                   { p.height.Toggle() }
func (p *ActivityPane) Update(now time.Time) bool { return p.height.Update(now) }
func (p *ActivityPane) Focused() bool             { return p.focused }
func (p *ActivityPane) SetFocused(focused bool)   { p.focused = focused }
func (p *ActivityPane) Cursor() int               { return p.cursor }
func (p *ActivityPane) Following() bool           { return p.follow }

// SetExpandedHeight sets the expanded height, at least ActivityPaneMinHeight.
func (p *ActivityPane) SetExpandedHeight(h int) {
	p.height.SetExpanded(max(h, ActivityPaneMinHeight))
}

// ResizeFor derives the expanded height from the terminal height.
func (p *ActivityPane) ResizeFor(terminalHeight int) {
	p.SetExpandedHeight(int(float64(terminalHeight) * ActivityPaneHeightRatio))
}

// ScrollToEnd selects the newest entry and resumes following the tail.
func (p *ActivityPane) ScrollToEnd() {
	p.follow = true
	p.jumpToTail()
}

// SetItems replaces the displayed entries.
func (p *ActivityPane) SetItems(items []KeyValuePair) {
	p.items = items
	if len(items) == 0 {
		p.cursor, p.top, p.follow = 0, 0, true
		return
	}
	p.cursor = clamp(p.cursor, 0, len(items)-1)
	p.top = clamp(p.top, 0, len(items)-1)
	p.reposition()
}

func (p *ActivityPane) reposition() {
	if p.follow {
		p.jumpToTail()
	} else {
		p.revealCursor()
	}
}

// View renders the pane, or nothing while it is collapsed.
func (p *ActivityPane) View(width int, summary string) string {
	h := p.Height()
	if width <= 0 || h < ActivityPaneMinHeight {
		return ""
	}

	innerH := h - activityBorderLines - activityPaddingLines
	p.lines = max(innerH-activityHeaderLines, 1)
	keyWidth := min(activityKeyWidth, max(width-2, 1))
	p.valueWidth = max(width-keyWidth-1, 1)
	p.reposition()

	end := p.endFrom(p.top)
	body := lipgloss.JoinVertical(lipgloss.Left,
		p.header(width, summary, end),
		p.body(keyWidth, end),
	)
	placed := lipgloss.Place(width, innerH, lipgloss.Left, lipgloss.Top, body)
	return paneBorderStyle.Width(width).Height(innerH).Render(placed)
}

// header renders "Activity • summary      [X-Y of N]".
func (p *ActivityPane) header(width int, summary string, end int) string {
	title := paneHeaderStyle.Render(activityPaneTitle)
	var nav string
	if len(p.items) > 0 {
		nav = navInfoStyle.Render(fmt.Sprintf(" [%d-%d of %d]", p.top+1, end, len(p.items)))
	}

	left := title
	if summary != "" {
		const sep = " • "
		room := width - lipgloss.Width(title) - lipgloss.Width(nav) - len(sep)
		if room > 0 {
			left += navInfoStyle.Render(sep + truncateValue(summary, room))
		}
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(nav), 0)
	return left + strings.Repeat(" ", gap) + nav
}

func (p *ActivityPane) body(keyWidth, end int) string {
	if len(p.items) == 0 {
		return activityKeyStyle.Render("No activity yet." + strings.Repeat("\n", p.lines-1))
	}

	out := make([]string, 0, p.lines)
	used := 0
	for i := p.top; i < end && used < p.lines; i++ {
		lines := p.entry(p.items[i], i == p.cursor && p.focused, keyWidth, p.lines-used)
		out = append(out, lines...)
		used += len(lines)
	}
	for ; used < p.lines; used++ {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// entry renders one log item, wrapped, with its key on the first line
// only. Items taller than maxLines end in an ellipsis.
func (p *ActivityPane) entry(item KeyValuePair, selected bool, keyWidth, maxLines int) []string {
	keyStyle, valueStyle := activityKeyStyle, activityValueStyle
	if selected {
		keyStyle, valueStyle = activitySelectedKeyStyle, activitySelectedValueStyle
	}
	if strings.HasPrefix(item.Value, "✗") && !selected {
		valueStyle = activityErrorStyle
	}

	wrapped := WrapText(item.Value, p.valueWidth)
	if len(wrapped) > maxLines {
		wrapped = wrapped[:maxLines]
		wrapped[maxLines-1] = WithEllipsis(wrapped[maxLines-1], p.valueWidth)
	}

	key := item.Key
	if keyWidth-lipgloss.Width(keyStyle.Render("")) < len(key) {
		key = ""
	}

	out := make([]string, len(wrapped))
	for i, v := range wrapped {
		k := ""
		if i == 0 {
			k = key
		}
		out[i] = keyStyle.Width(keyWidth).Render(k) + " " + valueStyle.Width(p.valueWidth).Render(v)
	}
	return out
}

// Up moves the cursor to the previous entry, wrapping to the last.
func (p *ActivityPane) Up() {
	if len(p.items) == 0 {
		return
	}
	if p.cursor == 0 {
		p.jumpToTail()
	} else {
		p.cursor--
		p.revealCursor()
	}
	p.syncFollow()
}

// Down moves the cursor to the next entry, wrapping to the first.
func (p *ActivityPane) Down() {
	if len(p.items) == 0 {
		return
	}
	if p.cursor == len(p.items)-1 {
		p.cursor, p.top = 0, 0
	} else {
		p.cursor++
		p.revealCursor()
	}
	p.syncFollow()
}

// PageDown moves one screenful forward, wrapping to the first entry.
func (p *ActivityPane) PageDown() {
	if len(p.items) == 0 {
		return
	}
	if p.lines <= 0 {
		p.Down()
		return
	}
	end := p.endFrom(p.top)
	if end >= len(p.items) {
		p.cursor, p.top = 0, 0
	} else {
		p.cursor, p.top = end, end
		p.revealCursor()
	}
	p.syncFollow()
}

// PageUp moves one screenful back, wrapping to the last entry.
func (p *ActivityPane) PageUp() {
	if len(p.items) == 0 {
		return
	}
	if p.lines <= 0 {
		p.Up()
		return
	}
	if p.top == 0 {
		p.jumpToTail()
		p.syncFollow()
		return
	}

	top, used := p.top, 0
	for top > 0 {
		h := wrappedLineCount(p.items[top-1].Value, p.valueWidth)
		if used > 0 && used+h > p.lines {
			break
		}
		used += min(h, p.lines-used)
		top--
		if used >= p.lines {
			break
		}
	}
	p.cursor, p.top = top, top
	p.revealCursor()
	p.syncFollow()
}

// syncFollow resumes following the tail when the cursor sits on the
// last entry, and stops it otherwise.
func (p *ActivityPane) syncFollow() {
	p.follow = len(p.items) == 0 || p.cursor == len(p.items)-1
	if p.follow {
		p.jumpToTail()
	}
}

func (p *ActivityPane) revealCursor() {
	if len(p.items) == 0 {
		p.cursor, p.top = 0, 0
		return
	}
	p.cursor = clamp(p.cursor, 0, len(p.items)-1)
	if p.cursor < p.top {
		p.top = p.cursor
		return
	}
	for p.cursor >= p.endFrom(p.top) && p.top < len(p.items)-1 {
		p.top++
	}
}

// jumpToTail selects the last entry and scrolls it to the bottom.
func (p *ActivityPane) jumpToTail() {
	if len(p.items) == 0 {
		p.cursor, p.top = 0, 0
		return
	}
	p.cursor = len(p.items) - 1
	if p.lines <= 0 {
		p.top = p.cursor
		return
	}

	top := p.cursor
	used := min(wrappedLineCount(p.items[top].Value, p.valueWidth), p.lines)
	for top > 0 {
		h := wrappedLineCount(p.items[top-1].Value, p.valueWidth)
		if used+h > p.lines {
			break
		}
		used += h
		top--
	}
	p.top = top
}

// endFrom returns the exclusive index of the last entry that fits on
// screen when start is the first one.
func (p *ActivityPane) endFrom(start int) int {
	if len(p.items) == 0 {
		return 0
	}
	if p.lines <= 0 {
		return min(start+1, len(p.items))
	}
	i, used := clamp(start, 0, len(p.items)-1), 0
	for i < len(p.items) && used < p.lines {
		used += min(wrappedLineCount(p.items[i].Value, p.valueWidth), p.lines-used)
		i++
	}
	return i
}

// WithEllipsis cuts line so that it ends in "..." within maxWidth columns.
func WithEllipsis(line string, maxWidth int) string {
	const marker = "..."
	if maxWidth <= len(marker) {
		return marker[:max(maxWidth, 0)]
	}
	return runewidth.Truncate(line, maxWidth-len(marker), "") + marker
}

// wrappedLineCount is the number of screen lines text takes when
// wrapped at maxWidth.
func wrappedLineCount(text string, maxWidth int) int {
	return len(WrapText(text, maxWidth))
}

// WrapText hard-wraps text at maxWidth columns, keeping embedded newlines.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	var out []string
	for part := range strings.SplitSeq(text, "\n") {
		if runewidth.StringWidth(part) <= maxWidth {
			out = append(out, part)
			continue
		}
		var b strings.Builder
		w := 0
		for _, r := range part {
			rw := runewidth.RuneWidth(r)
			if w+rw > maxWidth && w > 0 {
				out = append(out, b.String())
				b.Reset()
				w = 0
			}
			b.WriteRune(r)
			w += rw
		}
		out = append(out, b.String())
	}
	return out
}
