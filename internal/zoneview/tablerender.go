package zoneview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	emptyStateMessage = "Get started by creating your first trading zone"
	emptyStateAction  = "Create Zone (press t)"
	noMatchesMessage  = "No zones match the current filters (ctrl+l to clear)"
	loadingMessage    = "Loading zones..."
)

// renderTable renders the toolbar, header and body, or the help screen
// and notice in place of the body.
func (t *Table) renderTable() string {
	height := t.tableHeight()
	if height <= 0 {
		return ""
	}

	var body string
	switch {
	case t.notice != nil:
		body = lipgloss.Place(t.width, t.bodyHeight(), lipgloss.Center, lipgloss.Center,
			t.notice.View(t.width))
	case t.showHelp:
		body = t.renderHelp(t.bodyHeight())
	default:
		body = t.renderBody()
	}

	out := lipgloss.JoinVertical(lipgloss.Left, t.renderToolbar(), t.renderHeader(), body)
	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(out)
}

// renderToolbar shows the primary action on the left and the row counts
// on the right.
func (t *Table) renderToolbar() string {
	label := t.selection.ToolbarLabel()
	action := pillActiveStyle.Render(label)
	if t.selection.Count() > 0 {
		action = pillActiveStyle.Background(colorNegative).Render(label)
	}

	info := t.filterPane.Summary()
	if n := t.selection.Count(); n > 0 {
		info = fmt.Sprintf("%d selected", n)
	}
	info = navInfoStyle.Render(info)

	gap := max(t.width-lipgloss.Width(action)-lipgloss.Width(info)-1, 1)
	return clipANSI(action+strings.Repeat(" ", gap)+info, t.width)
}

func (t *Table) renderHeader() string {
	widths := t.columnWidths()

	var b strings.Builder
	b.WriteString(padCell(tableHeaderStyle.Render(t.selection.HeaderState().Mark()), checkboxWidth))
	for i, c := range Columns {
		title := c.Title
		if ind := t.sorter.Indicator(c.ID); ind != "" {
			title += " " + ind
		} else {
			title += fmt.Sprintf(" %d", i+1)
		}
		style := tableHeaderStyle
		if i != t.cursorCol {
			style = style.Bold(false)
		}
		b.WriteString(padCell(style.Render(truncateValue(title, widths[i])), widths[i]+1))
	}
	return clipANSI(b.String(), t.width)
}

func (t *Table) renderBody() string {
	height := t.bodyHeight()
	rows := t.visibleRows()

	if len(rows) == 0 {
		return t.renderEmptyState(height)
	}

	widths := t.columnWidths()
	lines := make([]string, 0, height)
	for i := t.top; i < len(rows) && len(lines) < height; i++ {
		row := rows[i]
		if row.Pinned {
			lines = append(lines, t.renderDraftRow(widths))
			if box := t.renderCandidates(widths); box != "" {
				lines = append(lines, strings.Split(box, "\n")...)
			}
			continue
		}
		lines = append(lines, t.renderRow(row, i == t.cursorRow, widths))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (t *Table) renderEmptyState(height int) string {
	var content string
	switch {
	case t.loading && t.rows.Len() == 0:
		content = tablePlaceholder.Render(loadingMessage)
	case t.rows.ShowsPlaceholder():
		content = lipgloss.JoinVertical(lipgloss.Center,
			tablePlaceholder.Render(emptyStateMessage),
			"",
			tableEmptyAction.Render(emptyStateAction))
	default:
		content = tablePlaceholder.Render(noMatchesMessage)
	}
	return lipgloss.Place(t.width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderRow renders one zone. The cursor row is highlighted, and the
// cell under the cursor reversed while the table has focus.
func (t *Table) renderRow(row *Row, isCursor bool, widths []int) string {
	editRef, editing := t.edit.Target()
	editing = editing && t.edit.Editing() && editRef.RowID == row.ID

	mark := CheckboxUnchecked
	if row.Selected {
		mark = CheckboxChecked
	}

	var b strings.Builder
	b.WriteString(t.rowCell(mark, checkboxWidth, tableCellStyle, isCursor, false))

	for i, c := range Columns {
		w := widths[i]
		if editing && editRef.Column == c.ID {
			b.WriteString(padCell(clipANSI(t.edit.View(w), w), w+1))
			continue
		}

		text := row.Cell(c.ID).Display
		style := tableCellStyle
		switch {
		case row.Busy == c.ID:
			style = tableBusyStyle
		case c.ID == ColumnStatus:
			if s, ok := statusStyles[row.Status]; ok {
				style = s
			}
		}

		if c.ID == ColumnSymbol {
			text = truncateValue(text, max(w-2, 0))
			if m, ok := typeMarks[row.Type]; ok && !isCursor {
				b.WriteString(m + " ")
			} else {
				b.WriteString(t.rowCell(typeMarkText(row.Type), 2, style, isCursor, false))
			}
			w -= 2
		}

		onCursor := isCursor && i == t.cursorCol && t.focus == focusTable
		b.WriteString(t.rowCell(truncateValue(text, w), w+1, style, isCursor, onCursor))
	}
	return clipANSI(b.String(), t.width)
}

// rowCell pads text to width and styles it for its row.
func (t *Table) rowCell(text string, width int, style lipgloss.Style, cursorRow, cursorCell bool) string {
	switch {
	case cursorCell:
		w := max(width-1, 0)
		return tableCursorStyle.Render(padCell(text, w)) + tableCursorRowStyle.Render(" ")
	case cursorRow:
		return tableCursorRowStyle.Render(padCell(text, width))
	default:
		return padCell(style.Render(text), width)
	}
}

func typeMarkText(t ZoneType) string {
	switch t {
	case ZoneLong:
		return "▲ "
	case ZoneShort:
		return "▼ "
	default:
		return "• "
	}
}

// renderDraftRow renders the creation draft: inputs in the symbol and
// price columns, the inferred type in the status column and notes
// spanning the date columns.
func (t *Table) renderDraftRow(widths []int) string {
	var b strings.Builder
	b.WriteString(padCell(draftMarkStyle.Render("+"), checkboxWidth))

	for i := 0; i < len(Columns); i++ {
		c := Columns[i]
		w := widths[i]

		var cell string
		switch c.ID {
		case ColumnSymbol:
			cell = t.draft.FieldView(FieldSymbol, w)
		case ColumnLast:
			cell = navInfoStyle.Render(t.draft.LastPriceText())
		case ColumnEntry:
			cell = t.draft.FieldView(FieldEntry, w)
		case ColumnStoploss:
			cell = t.draft.FieldView(FieldStoploss, w)
		case ColumnTarget:
			cell = t.draft.FieldView(FieldTarget, w)
		case ColumnStatus:
			cell = navInfoStyle.Render(t.draft.InferredType())
		case ColumnCreated:
			if i+1 < len(Columns) && Columns[i+1].ID == ColumnUpdated {
				w += widths[i+1] + 1
				i++
			}
			cell = t.draft.FieldView(FieldNotes, w)
		default:
			cell = navInfoStyle.Render(NoValue)
		}
		b.WriteString(padCell(clipANSI(cell, w), w+1))
	}
	return clipANSI(b.String(), t.width)
}

// renderCandidates renders the suggestion box under the draft's symbol
// input.
func (t *Table) renderCandidates(widths []int) string {
	c := t.draft.Candidates()
	if !c.Visible() || t.draft.Focused() != FieldSymbol {
		return ""
	}
	boxWidth := max(widths[0]+widths[1], 20)
	box := c.View(boxWidth)
	if box == "" {
		return ""
	}

	indent := strings.Repeat(" ", checkboxWidth)
	lines := strings.Split(box, "\n")
	for i, l := range lines {
		lines[i] = clipANSI(indent+l, t.width)
	}
	return strings.Join(lines, "\n")
}

// renderHelp lists every key binding by category.
func (t *Table) renderHelp(height int) string {
	var lines []string
	lines = append(lines, paneHeaderStyle.Render("zonedesk keys")+navInfoStyle.Render("  (h or esc to close)"), "")

	for _, category := range TableKeyBindings() {
		lines = append(lines, paneHeaderStyle.Render(category.Name))
		for _, binding := range category.Bindings {
			keys := strings.Join(binding.Keys, ", ")
			lines = append(lines,
				"  "+helpKeyStyle.Render(truncateValue(keys, 18))+helpDescStyle.Render(binding.Description))
		}
		lines = append(lines, "")
	}

	// Lay out in columns when the list is taller than the screen.
	if len(lines) <= height || height <= 0 {
		return strings.Join(lines, "\n")
	}
	colWidth := max(t.width/2, 1)
	var cols []string
	for start := 0; start < len(lines); start += height {
		end := min(start+height, len(lines))
		cols = append(cols, lipgloss.NewStyle().Width(colWidth).Render(strings.Join(lines[start:end], "\n")))
	}
	return clipANSI(lipgloss.JoinHorizontal(lipgloss.Top, cols...), t.width)
}

// padCell right-pads a possibly styled string to width columns.
func padCell(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
