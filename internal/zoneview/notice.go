package zoneview

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

// Notice is a blocking message box. While shown, every key but the
// dismiss keys is ignored.
type Notice struct {
	Title   string
	Message string
}

// failureNotice describes a failed remote action.
//
// The server's own message is shown when it sent one; anything else
// gets the generic fallback.
func failureNotice(title, fallback string, err error) *Notice {
	msg, ok := zoneapi.ServerMessage(err)
	if !ok || strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	return &Notice{Title: title, Message: msg}
}

// validationNotice describes a draft that cannot be submitted.
func validationNotice(err error) *Notice {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return &Notice{Title: "Cannot create zone", Message: verr.Message}
	}
	return &Notice{Title: "Cannot create zone", Message: err.Error()}
}

// isDismissKey reports whether key closes a notice.
func isDismissKey(key string) bool {
	switch key {
	case "enter", "esc", "space", " ":
		return true
	}
	return false
}

// View renders the notice box at most width columns wide.
func (n *Notice) View(width int) string {
	boxWidth := clamp(width-4, 20, 60)
	inner := max(boxWidth-noticeStyle.GetHorizontalFrameSize(), 1)

	lines := []string{noticeTitleStyle.Render(truncateValue(n.Title, inner)), ""}
	lines = append(lines, WrapText(n.Message, inner)...)
	lines = append(lines, "", navInfoStyle.Render("press enter to dismiss"))
	return noticeStyle.Width(boxWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
