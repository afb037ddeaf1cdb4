package zoneview

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

// NoValue is the display sentinel for an absent numeric value.
const NoValue = "-"

// dateDisplayFormat is how timestamps are shown in the table.
const dateDisplayFormat = "02 Jan 2006 15:04"

// ColumnID identifies a table column.
type ColumnID string

const (
	ColumnSymbol   ColumnID = "symbol"
	ColumnLast     ColumnID = "last"
	ColumnEntry    ColumnID = "entry"
	ColumnStoploss ColumnID = "stoploss"
	ColumnTarget   ColumnID = "target"
	ColumnStatus   ColumnID = "status"
	ColumnCreated  ColumnID = "created"
	ColumnUpdated  ColumnID = "updated"
)

// SortKind selects how a column's cells are compared.
type SortKind int

const (
	SortNumeric SortKind = iota
	SortDate
	SortText
)

func (k SortKind) String() string {
	switch k {
	case SortNumeric:
		return "numeric"
	case SortDate:
		return "date"
	default:
		return "text"
	}
}

// Column describes one table column.
type Column struct {
	ID    ColumnID
	Title string
	Kind  SortKind

	// Field is the remote field an editable column writes to.
	// Empty for read-only columns.
	Field zoneapi.Field

	// MinWidth is the narrowest the column is rendered.
	MinWidth int
}

// Editable reports whether cells in the column can be edited in place.
func (c Column) Editable() bool { return c.Field != "" }

// Columns is the table layout, in display order.
var Columns = []Column{
	{ID: ColumnSymbol, Title: "Symbol", Kind: SortText, MinWidth: 12},
	{ID: ColumnLast, Title: "Last", Kind: SortNumeric, MinWidth: 11},
	{ID: ColumnEntry, Title: "Entry", Kind: SortNumeric, Field: zoneapi.FieldEntry, MinWidth: 11},
	{ID: ColumnStoploss, Title: "Stoploss", Kind: SortNumeric, Field: zoneapi.FieldStoploss, MinWidth: 11},
	{ID: ColumnTarget, Title: "Target", Kind: SortNumeric, Field: zoneapi.FieldTarget, MinWidth: 11},
	{ID: ColumnStatus, Title: "Status", Kind: SortText, MinWidth: 12},
	{ID: ColumnCreated, Title: "Created", Kind: SortDate, MinWidth: 17},
	{ID: ColumnUpdated, Title: "Updated", Kind: SortDate, MinWidth: 17},
}

// ColumnByID returns the column with the given id.
func ColumnByID(id ColumnID) (Column, bool) {
	for _, c := range Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

func columnIndex(id ColumnID) int {
	for i, c := range Columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Status is a zone's lifecycle status.
type Status string

const (
	StatusActive      Status = "Active"
	StatusEntryHit    Status = "Entry Hit"
	StatusTargetHit   Status = "Target Hit"
	StatusStoplossHit Status = "Stoploss Hit"
	StatusFailed      Status = "Failed"
)

// AllStatuses lists the statuses in filter-pill order.
var AllStatuses = []Status{
	StatusActive,
	StatusEntryHit,
	StatusTargetHit,
	StatusStoplossHit,
	StatusFailed,
}

// ZoneType is a zone's direction.
type ZoneType string

const (
	ZoneLong    ZoneType = "Long Zone"
	ZoneShort   ZoneType = "Short Zone"
	ZoneInvalid ZoneType = "Invalid"
)

// AllZoneTypes lists the filterable zone types in filter-pill order.
var AllZoneTypes = []ZoneType{ZoneLong, ZoneShort}

// Cell is one rendered table value.
type Cell struct {
	// Display is the text shown in the table.
	Display string

	// SortValue, when set, is compared instead of Display.
	// Date cells carry their full-precision timestamp here.
	SortValue string
}

// Row is one zone in the table.
type Row struct {
	ID       int64
	Cells    map[ColumnID]Cell
	Status   Status
	Type     ZoneType
	Notes    string
	Selected bool

	// Pinned marks the creation draft row.
	Pinned bool

	// Busy is the column of a cell waiting on a remote write, or "".
	Busy ColumnID
}

// Cell returns the row's cell for col.
func (r *Row) Cell(col ColumnID) Cell {
	return r.Cells[col]
}

// Symbol returns the row's symbol text.
func (r *Row) Symbol() string {
	return r.Cells[ColumnSymbol].Display
}

// NewZoneRow builds a table row from an API zone.
func NewZoneRow(z zoneapi.Zone) *Row {
	cells := map[ColumnID]Cell{
		ColumnSymbol:   {Display: z.Symbol},
		ColumnLast:     optionalPriceCell(z.LastPrice),
		ColumnEntry:    priceCell(z.Entry),
		ColumnStoploss: priceCell(z.Stoploss),
		ColumnTarget:   priceCell(z.Target),
		ColumnStatus:   {Display: z.Status},
		ColumnCreated:  dateCell(z.CreatedAt.Time),
		ColumnUpdated:  dateCell(z.LastActivity()),
	}
	return &Row{
		ID:     z.ID,
		Cells:  cells,
		Status: Status(z.Status),
		Type:   ZoneType(z.Type),
		Notes:  z.Notes,
	}
}

// FormatPrice renders a price the way the table shows it.
func FormatPrice(v float64) string {
	return fmt.Sprintf("₹ %.2f", v)
}

func priceCell(v float64) Cell {
	return Cell{Display: FormatPrice(v)}
}

func optionalPriceCell(v *float64) Cell {
	if v == nil {
		return Cell{Display: NoValue}
	}
	return priceCell(*v)
}

func dateCell(t time.Time) Cell {
	if t.IsZero() {
		return Cell{Display: NoValue}
	}
	return Cell{
		Display:   t.Format(dateDisplayFormat),
		SortValue: t.Format(time.RFC3339Nano),
	}
}

// parsePrice extracts the number from a displayed price.
func parsePrice(display string) (float64, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(display), "₹"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatInputNumber renders v for an edit input, without trailing zeros.
func formatInputNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
