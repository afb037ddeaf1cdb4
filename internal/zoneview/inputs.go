package zoneview

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
)

// newTextInput returns an unfocused single-line input with a steady cursor.
func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}
