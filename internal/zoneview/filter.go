package zoneview

import (
	"maps"
	"strings"
)

// FilterSpec is the set of active row filters.
//
// A row is visible when it matches every active criterion. Empty status
// or type sets do not restrict anything.
type FilterSpec struct {
	Symbol   string
	Statuses map[Status]bool
	Types    map[ZoneType]bool
}

// IsEmpty reports whether the spec shows every row.
func (f FilterSpec) IsEmpty() bool {
	return strings.TrimSpace(f.Symbol) == "" && len(f.Statuses) == 0 && len(f.Types) == 0
}

// Matches reports whether r passes every active criterion.
func (f FilterSpec) Matches(r *Row) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Symbol)); q != "" &&
		!strings.Contains(strings.ToLower(r.Symbol()), q) {
		return false
	}
	if len(f.Statuses) > 0 && !f.Statuses[r.Status] {
		return false
	}
	if len(f.Types) > 0 && !f.Types[r.Type] {
		return false
	}
	return true
}

func (f FilterSpec) clone() FilterSpec {
	return FilterSpec{
		Symbol:   f.Symbol,
		Statuses: maps.Clone(f.Statuses),
		Types:    maps.Clone(f.Types),
	}
}

// Classification partitions rows by visibility, preserving order.
type Classification struct {
	Visible []*Row
	Hidden  []*Row
}

// Classify partitions rows under spec from scratch.
//
// A pinned row does not participate and is always visible.
func Classify(rows []*Row, spec FilterSpec) Classification {
	var c Classification
	for _, r := range rows {
		if r.Pinned || spec.Matches(r) {
			c.Visible = append(c.Visible, r)
		} else {
			c.Hidden = append(c.Hidden, r)
		}
	}
	return c
}

// Counts tallies rows by status and type.
type Counts struct {
	Total    int
	ByStatus map[Status]int
	ByType   map[ZoneType]int
}

// CountRows tallies every non-pinned row, regardless of any filter.
func CountRows(rows []*Row) Counts {
	c := Counts{
		ByStatus: make(map[Status]int),
		ByType:   make(map[ZoneType]int),
	}
	for _, r := range rows {
		if r.Pinned {
			continue
		}
		c.Total++
		c.ByStatus[r.Status]++
		c.ByType[r.Type]++
	}
	return c
}

// FilterEngine holds the applied FilterSpec and the resulting visibility.
type FilterEngine struct {
	store *RowStore

	spec    FilterSpec
	visible []*Row
	hidden  int
	counts  Counts
}

func NewFilterEngine(store *RowStore) *FilterEngine {
	f := &FilterEngine{store: store}
	f.Apply()
	return f
}

// Apply reclassifies every row and recounts categories.
func (f *FilterEngine) Apply() {
	rows := f.store.Rows()
	c := Classify(rows, f.spec)
	f.visible = c.Visible
	f.hidden = len(c.Hidden)
	f.counts = CountRows(rows)
}

// Spec returns a copy of the applied spec.
func (f *FilterEngine) Spec() FilterSpec { return f.spec.clone() }

// SetSymbol sets the symbol substring and reapplies.
func (f *FilterEngine) SetSymbol(q string) {
	f.spec.Symbol = q
	f.Apply()
}

// ToggleStatus adds or removes a status from the filter and reapplies.
func (f *FilterEngine) ToggleStatus(s Status) {
	if f.spec.Statuses == nil {
		f.spec.Statuses = make(map[Status]bool)
	}
	if f.spec.Statuses[s] {
		delete(f.spec.Statuses, s)
	} else {
		f.spec.Statuses[s] = true
	}
	f.Apply()
}

// ToggleType adds or removes a zone type from the filter and reapplies.
func (f *FilterEngine) ToggleType(t ZoneType) {
	if f.spec.Types == nil {
		f.spec.Types = make(map[ZoneType]bool)
	}
	if f.spec.Types[t] {
		delete(f.spec.Types, t)
	} else {
		f.spec.Types[t] = true
	}
	f.Apply()
}

// Clear resets the spec so every row is visible.
func (f *FilterEngine) Clear() {
	f.spec = FilterSpec{}
	f.Apply()
}

// Visible returns the visible rows in store order.
func (f *FilterEngine) Visible() []*Row { return f.visible }

// HiddenCount returns how many rows the filter hides.
func (f *FilterEngine) HiddenCount() int { return f.hidden }

// Counts returns the category tallies of the full row set.
func (f *FilterEngine) Counts() Counts { return f.counts }

// IsFiltering reports whether any criterion is active.
func (f *FilterEngine) IsFiltering() bool { return !f.spec.IsEmpty() }

// ExportedZone is the summary of a visible zone produced by Export.
type ExportedZone struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

// Export summarizes the visible, non-pinned rows.
func (f *FilterEngine) Export() []ExportedZone {
	out := make([]ExportedZone, 0, len(f.visible))
	for _, r := range f.visible {
		if r.Pinned {
			continue
		}
		out = append(out, ExportedZone{
			Symbol: r.Symbol(),
			Status: string(r.Status),
			Type:   string(r.Type),
		})
	}
	return out
}
