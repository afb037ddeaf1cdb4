package zoneview

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	StatusBarHeight  = 1
	StatusBarPadding = 1

	// mediumShadeBlock stands in for the cursor in status line prompts.
	mediumShadeBlock = '▒'
)

// Palette.
var (
	colorText      = lipgloss.AdaptiveColor{Light: "#111111", Dark: "#bbbbbb"}
	colorSubtle    = lipgloss.AdaptiveColor{Light: "#8a8a8a", Dark: "#6c6c6c"}
	colorHeading   = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD95C"}
	colorLayout    = lipgloss.AdaptiveColor{Light: "#949494", Dark: "#444444"}
	colorSelected  = lipgloss.AdaptiveColor{Light: "#d7d7af", Dark: "#3a3a2a"}
	colorDark      = lipgloss.Color("#171717")
	colorAccent    = lipgloss.AdaptiveColor{Light: "#0087af", Dark: "#5fd7ff"}
	colorPositive  = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5fd75f"}
	colorNegative  = lipgloss.AdaptiveColor{Light: "#d70000", Dark: "#ff5f5f"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#af5f00", Dark: "#ffaf5f"}
	colorStatusBar = lipgloss.AdaptiveColor{Light: "#e4e4e4", Dark: "#262626"}
)

// topOnlyBorder draws a single rule above a pane.
var topOnlyBorder = lipgloss.Border{Top: "─"}

// Panes.
var (
	paneBorderStyle = lipgloss.NewStyle().
			Border(topOnlyBorder).
			BorderForeground(colorLayout).
			BorderTop(true).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false)

	paneHeaderStyle = lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
	navInfoStyle    = lipgloss.NewStyle().Foreground(colorSubtle)

	activityKeyStyle           = lipgloss.NewStyle().Foreground(colorSubtle).Padding(0, 1)
	activityValueStyle         = lipgloss.NewStyle().Foreground(colorText)
	activityErrorStyle         = lipgloss.NewStyle().Foreground(colorNegative)
	activitySelectedKeyStyle   = activityKeyStyle.Background(colorSelected)
	activitySelectedValueStyle = activityValueStyle.Background(colorSelected)

	filterLabelStyle = lipgloss.NewStyle().Foreground(colorSubtle)
	filterHintStyle  = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
	filterQueryStyle = lipgloss.NewStyle().Foreground(colorAccent)
	pillStyle        = lipgloss.NewStyle().Foreground(colorSubtle).Padding(0, 1)
	pillActiveStyle  = lipgloss.NewStyle().Foreground(colorDark).Background(colorAccent).Padding(0, 1)
)

// Table.
var (
	tableHeaderStyle    = lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
	tableCellStyle      = lipgloss.NewStyle().Foreground(colorText)
	tableCursorRowStyle = lipgloss.NewStyle().Background(colorSelected)
	tableCursorStyle    = lipgloss.NewStyle().Reverse(true)
	tableBusyStyle      = lipgloss.NewStyle().Foreground(colorWarning).Italic(true)
	tablePlaceholder    = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
	tableEmptyAction    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	editInputStyle    = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	editSelectedStyle = lipgloss.NewStyle().Foreground(colorDark).Background(colorAccent)

	draftInputStyle        = lipgloss.NewStyle().Foreground(colorSubtle)
	draftFocusedInputStyle = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	draftDisabledStyle     = lipgloss.NewStyle().Foreground(colorSubtle).Faint(true)
	draftMarkStyle         = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	candidateBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorLayout)
	candidateStyle          = lipgloss.NewStyle().Foreground(colorText)
	candidateHighlightStyle = lipgloss.NewStyle().Foreground(colorDark).Background(colorAccent)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorNegative).
			Padding(1, 2)
	noticeTitleStyle = lipgloss.NewStyle().Foreground(colorNegative).Bold(true)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorHeading).Width(18)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorText)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorStatusBar).
			Padding(0, StatusBarPadding)
)

// statusStyles colors the status column.
var statusStyles = map[Status]lipgloss.Style{
	StatusActive:      lipgloss.NewStyle().Foreground(colorAccent),
	StatusEntryHit:    lipgloss.NewStyle().Foreground(colorWarning),
	StatusTargetHit:   lipgloss.NewStyle().Foreground(colorPositive),
	StatusStoplossHit: lipgloss.NewStyle().Foreground(colorNegative),
	StatusFailed:      lipgloss.NewStyle().Foreground(colorSubtle),
}

// typeMarks is the direction indicator shown before a symbol.
var typeMarks = map[ZoneType]string{
	ZoneLong:    lipgloss.NewStyle().Foreground(colorPositive).Render("▲"),
	ZoneShort:   lipgloss.NewStyle().Foreground(colorNegative).Render("▼"),
	ZoneInvalid: lipgloss.NewStyle().Foreground(colorSubtle).Render("•"),
}

// truncateValue cuts s to at most width columns, ending in "..." when cut.
func truncateValue(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// clipANSI cuts a styled string to width columns.
func clipANSI(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(max(width, 0)).Render(s)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
