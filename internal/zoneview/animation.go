package zoneview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// AnimationDuration is how long a pane takes to open or close.
	AnimationDuration = 150 * time.Millisecond

	// AnimationFrame is the interval between animation ticks.
	AnimationFrame = 16 * time.Millisecond
)

// AnimatedValue is a pane height that slides between zero and its
// expanded size.
//
// Only touched from the bubbletea update loop, so it needs no locking.
type AnimatedValue struct {
	current  int
	target   int
	expanded int

	// start is when the running animation began.
	start time.Time
}

func NewAnimatedValue(isExpanded bool, expandedSize int) *AnimatedValue {
	a := &AnimatedValue{expanded: expandedSize}
	if isExpanded {
		a.current = expandedSize
		a.target = expandedSize
	}
	return a
}

// Toggle flips the animation target between collapsed and expanded.
func (a *AnimatedValue) Toggle() {
	a.start = time.Now()
	if a.target == 0 {
		a.target = a.expanded
	} else {
		a.target = 0
	}
}

// Update advances the animation to now and reports whether it is done.
func (a *AnimatedValue) Update(now time.Time) bool {
	if a.current == a.target {
		return true
	}

	progress := float64(now.Sub(a.start)) / float64(AnimationDuration)
	if progress >= 1 {
		a.current = a.target
		a.start = time.Time{}
		return true
	}

	eased := easeOutCubic(progress)
	if a.current < a.target {
		a.current = int(eased * float64(a.expanded))
	} else {
		a.current = int((1 - eased) * float64(a.expanded))
	}
	return false
}

// SetExpanded changes the expanded size, snapping to it when the value
// already rests expanded.
func (a *AnimatedValue) SetExpanded(size int) {
	resting := a.target > 0 && a.current == a.target
	a.expanded = size
	if a.target > 0 {
		a.target = size
	}
	if resting {
		a.current = size
	}
}

func (a *AnimatedValue) Value() int        { return a.current }
func (a *AnimatedValue) IsAnimating() bool { return a.current != a.target }
func (a *AnimatedValue) IsVisible() bool   { return a.current > 0 }
func (a *AnimatedValue) IsExpanding() bool { return a.current < a.target }

// IsExpanded reports whether the value rests at its expanded size.
func (a *AnimatedValue) IsExpanded() bool {
	return a.target > 0 && a.current == a.target
}

// IsCollapsed reports whether the value rests at zero.
func (a *AnimatedValue) IsCollapsed() bool {
	return a.target == 0 && a.current == 0
}

// ForceExpand snaps to the expanded size without animating.
func (a *AnimatedValue) ForceExpand() {
	a.current = a.expanded
	a.target = a.expanded
	a.start = time.Time{}
}

// ForceCollapse snaps to zero without animating.
func (a *AnimatedValue) ForceCollapse() {
	a.current = 0
	a.target = 0
	a.start = time.Time{}
}

// easeOutCubic maps t in [0, 1] to [0, 1], decelerating near the end.
func easeOutCubic(t float64) float64 {
	return (t-1)*(t-1)*(t-1) + 1
}

// animationTick schedules the next frame of a pane animation.
func animationTick(msg tea.Msg) tea.Cmd {
	return tea.Tick(AnimationFrame, func(time.Time) tea.Msg { return msg })
}
