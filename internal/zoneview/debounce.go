package zoneview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// debounceTag names an independent debounce timer.
type debounceTag int

const (
	debounceSymbolFilter debounceTag = iota
	debounceTickerSearch
)

// DebounceMsg is delivered when a debounce timer fires.
type DebounceMsg struct {
	Tag debounceTag
	Seq uint64
}

// Debouncer delays an action until input has been quiet for a while.
//
// Each Trigger supersedes the previous one: only the message carrying
// the latest sequence number is honored by Fired.
type Debouncer struct {
	tag   debounceTag
	delay time.Duration
	seq   uint64
}

func NewDebouncer(tag debounceTag, delay time.Duration) *Debouncer {
	return &Debouncer{tag: tag, delay: delay}
}

// Trigger restarts the timer.
func (d *Debouncer) Trigger() tea.Cmd {
	d.seq++
	tag, seq := d.tag, d.seq
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return DebounceMsg{Tag: tag, Seq: seq}
	})
}

// SetDelay changes the quiet period for later triggers.
func (d *Debouncer) SetDelay(delay time.Duration) { d.delay = delay }

// Cancel invalidates any pending timer.
func (d *Debouncer) Cancel() { d.seq++ }

// Fired reports whether msg is the latest timer of this debouncer.
func (d *Debouncer) Fired(msg DebounceMsg) bool {
	return msg.Tag == d.tag && msg.Seq == d.seq
}

