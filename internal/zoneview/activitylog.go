package zoneview

import (
	"strings"
	"time"
)

const (
	// maxActivityEntries bounds the activity log. The oldest entries are
	// dropped first.
	maxActivityEntries = 500

	// activityTimestampFormat is the compact display format for entry times.
	activityTimestampFormat = "15:04:05"
)

// ActivityLevel classifies an activity log entry.
type ActivityLevel int

const (
	ActivityInfo ActivityLevel = iota
	ActivityError
)

// ActivityEntry is one line of the activity log.
type ActivityEntry struct {
	Time    time.Time
	Level   ActivityLevel
	Message string
}

// KeyValuePair is a display-ready log line: a short key and its text.
type KeyValuePair struct {
	Key   string
	Value string
}

// ActivityLog records what the table did: loads, edits, creations,
// deletions, exports and every failure.
//
// This is the data model; [ActivityPane] handles presentation.
type ActivityLog struct {
	entries []ActivityEntry

	// now is the clock, replaced in tests.
	now func() time.Time
}

func NewActivityLog() *ActivityLog {
	return &ActivityLog{now: time.Now}
}

// Info records a successful action.
func (l *ActivityLog) Info(message string) {
	l.add(ActivityInfo, message)
}

// Error records a failure.
func (l *ActivityLog) Error(message string) {
	l.add(ActivityError, message)
}

func (l *ActivityLog) add(level ActivityLevel, message string) {
	ts := l.now()
	// Multi-line messages (an export, a server error body) become one
	// entry per line, all sharing the same time.
	for line := range strings.SplitSeq(strings.TrimRight(message, "\n"), "\n") {
		l.entries = append(l.entries, ActivityEntry{
			Time:    ts,
			Level:   level,
			Message: strings.TrimRight(line, " \t\r"),
		})
	}
	if over := len(l.entries) - maxActivityEntries; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
}

// Len returns the number of entries.
func (l *ActivityLog) Len() int { return len(l.entries) }

// Entries returns a copy of the entries, oldest first.
func (l *ActivityLog) Entries() []ActivityEntry {
	return append([]ActivityEntry(nil), l.entries...)
}

// Items converts the entries into display lines keyed by HH:MM:SS.
// Failures are prefixed with "✗".
func (l *ActivityLog) Items() []KeyValuePair {
	items := make([]KeyValuePair, len(l.entries))
	for i, e := range l.entries {
		value := e.Message
		if e.Level == ActivityError {
			value = "✗ " + value
		}
		items[i] = KeyValuePair{
			Key:   e.Time.Format(activityTimestampFormat),
			Value: value,
		}
	}
	return items
}
