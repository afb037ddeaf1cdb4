package zoneview

// focusRegion identifies the part of the screen that receives
// navigation keys.
type focusRegion int

const (
	focusTable focusRegion = iota
	focusFilters
	focusActivity
)

func (r focusRegion) String() string {
	switch r {
	case focusFilters:
		return "filters"
	case focusActivity:
		return "activity"
	default:
		return "table"
	}
}

// focusOrder is the Tab-cycling order.
var focusOrder = []focusRegion{focusTable, focusFilters, focusActivity}

// regionAvailable reports whether a region can take focus. The table
// always can; a pane only while expanded.
func (t *Table) regionAvailable(region focusRegion) bool {
	switch region {
	case focusFilters:
		return t.filterPane.IsExpanded()
	case focusActivity:
		return t.activityPane.IsExpanded()
	default:
		return true
	}
}

// cycleFocus moves focus to the next available region in direction.
func (t *Table) cycleFocus(direction int) {
	n := len(focusOrder)
	cur := 0
	for i, r := range focusOrder {
		if r == t.focus {
			cur = i
			break
		}
	}
	for step := 1; step <= n; step++ {
		next := focusOrder[((cur+direction*step)%n+n)%n]
		if t.regionAvailable(next) {
			t.setFocus(next)
			return
		}
	}
}

// setFocus activates region and deactivates the others.
func (t *Table) setFocus(region focusRegion) {
	t.focus = region
	t.filterPane.SetFocused(region == focusFilters)
	t.activityPane.SetFocused(region == focusActivity)
}

// resolveFocusAfterToggle moves focus back to the table when the
// focused pane is about to collapse.
func (t *Table) resolveFocusAfterToggle(filtersVisible, activityVisible bool) {
	switch {
	case t.focus == focusFilters && !filtersVisible,
		t.focus == focusActivity && !activityVisible:
		t.setFocus(focusTable)
	}
}
