package zoneview

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

const (
	SortIndicatorAsc  = "▲"
	SortIndicatorDesc = "▼"
)

// SortDirection is ascending or descending.
type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

// SortSpec is the active ordering of the table.
type SortSpec struct {
	Column    ColumnID
	Kind      SortKind
	Direction SortDirection
}

// numericPrefix matches the leading number of a cleaned cell value.
var numericPrefix = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)

// numericKey parses the number shown in a cell.
//
// Everything but digits, '.' and '-' is ignored, so "₹ 1,234.50" reads
// as 1234.5. The "no value" sentinel and unparseable text sort as
// negative infinity.
func numericKey(c Cell) float64 {
	text := c.Display
	if c.SortValue != "" {
		text = c.SortValue
	}
	if strings.TrimSpace(text) == NoValue {
		return math.Inf(-1)
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, text)

	m := numericPrefix.FindString(cleaned)
	if m == "" {
		return math.Inf(-1)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}

// dateKey returns the instant a cell represents, preferring its
// full-precision sort value. Unparseable dates are the zero instant.
func dateKey(c Cell) time.Time {
	for _, s := range []string{c.SortValue, c.Display} {
		s = strings.TrimSpace(s)
		if s == "" || s == NoValue {
			continue
		}
		if t, err := zoneapi.ParseTimestamp(s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func textKey(c Cell) string {
	return strings.ToLower(strings.TrimSpace(c.Display))
}

// compareAscending compares two rows on spec's column and kind.
func compareAscending(a, b *Row, spec SortSpec) int {
	ca, cb := a.Cell(spec.Column), b.Cell(spec.Column)
	switch spec.Kind {
	case SortNumeric:
		return cmp.Compare(numericKey(ca), numericKey(cb))
	case SortDate:
		return dateKey(ca).Compare(dateKey(cb))
	default:
		return strings.Compare(textKey(ca), textKey(cb))
	}
}

// Compare orders two rows under spec.
//
// Descending negates the ascending comparison.
func Compare(a, b *Row, spec SortSpec) int {
	c := compareAscending(a, b, spec)
	if spec.Direction == SortDescending {
		return -c
	}
	return c
}

// SortRows returns rows ordered by spec.
//
// The sort is stable. A pinned row is excluded from the comparison and
// placed first.
func SortRows(rows []*Row, spec SortSpec) []*Row {
	var pinned *Row
	rest := make([]*Row, 0, len(rows))
	for _, r := range rows {
		if r.Pinned {
			pinned = r
			continue
		}
		rest = append(rest, r)
	}

	slices.SortStableFunc(rest, func(a, b *Row) int {
		return Compare(a, b, spec)
	})

	if pinned == nil {
		return rest
	}
	return append([]*Row{pinned}, rest...)
}

// Sorter keeps the RowStore ordered by the active SortSpec.
type Sorter struct {
	store *RowStore

	spec   SortSpec
	active bool
}

func NewSorter(store *RowStore) *Sorter {
	return &Sorter{store: store}
}

// Activate sorts by col.
//
// Activating the current column flips the direction; another column
// starts ascending.
func (s *Sorter) Activate(col ColumnID) SortSpec {
	column, ok := ColumnByID(col)
	if !ok {
		return s.spec
	}

	dir := SortAscending
	if s.active && s.spec.Column == col && s.spec.Direction == SortAscending {
		dir = SortDescending
	}

	s.spec = SortSpec{Column: col, Kind: column.Kind, Direction: dir}
	s.active = true
	s.Apply()
	return s.spec
}

// Apply reorders the store by the active spec, if any.
func (s *Sorter) Apply() {
	if !s.active {
		return
	}
	s.store.Reorder(SortRows(s.store.DataRows(), s.spec))
}

// Spec returns the active spec and whether one is set.
func (s *Sorter) Spec() (SortSpec, bool) {
	return s.spec, s.active
}

// Indicator returns the header arrow for col under the active spec.
func (s *Sorter) Indicator(col ColumnID) string {
	if !s.active || s.spec.Column != col {
		return ""
	}
	if s.spec.Direction == SortDescending {
		return SortIndicatorDesc
	}
	return SortIndicatorAsc
}
