package zoneview

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const symbolFilterCharLimit = 20

// SymbolFilter is the symbol search box of the filter pane.
//
// Typing previews nothing until the input has been quiet for the
// debounce delay; the query is then applied to the FilterEngine.
// Enter applies at once.
type SymbolFilter struct {
	engine   *FilterEngine
	input    textinput.Model
	debounce *Debouncer
	active   bool
}

func NewSymbolFilter(engine *FilterEngine, delay time.Duration) *SymbolFilter {
	return &SymbolFilter{
		engine:   engine,
		input:    newTextInput("type to filter symbols", symbolFilterCharLimit),
		debounce: NewDebouncer(debounceSymbolFilter, delay),
	}
}

// Activate starts typing into the filter.
func (f *SymbolFilter) Activate() tea.Cmd {
	f.active = true
	f.input.CursorEnd()
	return f.input.Focus()
}

// SetDelay changes how long typing must pause before the filter applies.
func (f *SymbolFilter) SetDelay(delay time.Duration) { f.debounce.SetDelay(delay) }

// IsActive reports whether keys go to the filter input.
func (f *SymbolFilter) IsActive() bool { return f.active }

// Query returns the text typed so far, applied or not.
func (f *SymbolFilter) Query() string { return f.input.Value() }

// HandleKey routes a key while the filter is active.
//
// Enter applies the query and leaves the input; Esc clears it.
func (f *SymbolFilter) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		f.exit()
		f.apply()
		return nil
	case tea.KeyEsc:
		f.exit()
		f.input.SetValue("")
		f.apply()
		return nil
	case tea.KeyTab, tea.KeyShiftTab:
		return nil
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() == before {
		return cmd
	}
	return batchCmds(cmd, f.debounce.Trigger())
}

// HandleDebounce applies the query once typing has paused.
// Reports whether the visible rows may have changed.
func (f *SymbolFilter) HandleDebounce(msg DebounceMsg) bool {
	if !f.debounce.Fired(msg) {
		return false
	}
	f.apply()
	return true
}

// Clear empties the input without touching the engine.
func (f *SymbolFilter) Clear() {
	f.debounce.Cancel()
	f.input.SetValue("")
}

func (f *SymbolFilter) apply() {
	f.debounce.Cancel()
	if strings.TrimSpace(f.input.Value()) == f.engine.Spec().Symbol {
		return
	}
	f.engine.SetSymbol(strings.TrimSpace(f.input.Value()))
}

func (f *SymbolFilter) exit() {
	f.active = false
	f.input.Blur()
}

// View renders the input within width columns.
func (f *SymbolFilter) View(width int) string {
	if width <= 0 {
		return ""
	}
	if !f.active {
		q := f.input.Value()
		if q == "" {
			return filterHintStyle.Render(truncateValue("press / to search", width))
		}
		return filterQueryStyle.Render(truncateValue(q, width))
	}
	in := f.input
	in.Width = max(width-1, 1)
	return in.View()
}
