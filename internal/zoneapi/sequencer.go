package zoneapi

import "sync"

// Operation identifies a logical remote operation.
type Operation string

const (
	OpList   Operation = "list"
	OpUpdate Operation = "update"
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
	OpSearch Operation = "search"
)

// Sequencer hands out monotonically increasing sequence numbers and
// remembers the latest one dispatched for each operation.
//
// Responses tagged with a number older than the latest for their
// operation are stale and should be discarded.
type Sequencer struct {
	mu sync.Mutex

	// latest maps an operation to its most recently issued number.
	latest map[Operation]uint64

	// next is the next number to issue, shared by all operations.
	next uint64
}

// NewSequencer creates a new Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{
		latest: make(map[Operation]uint64),
		next:   1,
	}
}

// Next issues a new number for op, making every earlier one stale.
func (s *Sequencer) Next(op Operation) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.next
	s.next++

	s.latest[op] = seq
	return seq
}

// IsLatest reports whether seq is the most recent number issued for op.
func (s *Sequencer) IsLatest(op Operation, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, ok := s.latest[op]
	return ok && latest == seq
}

// Invalidate makes every number issued so far for op stale.
func (s *Sequencer) Invalidate(op Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.latest[op]; !ok {
		return
	}
	s.latest[op] = s.next
	s.next++
}
