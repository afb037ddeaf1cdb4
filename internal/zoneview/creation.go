package zoneview

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	lru "github.com/hashicorp/golang-lru"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

const (
	// searchCacheSize is how many distinct queries a draft remembers.
	searchCacheSize = 64

	symbolInputCharLimit = 20
	priceInputCharLimit  = 16
	notesInputCharLimit  = 500
)

// DraftField is an input of the creation draft, in tab order.
type DraftField int

const (
	FieldSymbol DraftField = iota
	FieldEntry
	FieldStoploss
	FieldTarget
	FieldNotes

	draftFieldCount
)

func (f DraftField) String() string {
	switch f {
	case FieldSymbol:
		return "symbol"
	case FieldEntry:
		return "entry"
	case FieldStoploss:
		return "stoploss"
	case FieldTarget:
		return "target"
	case FieldNotes:
		return "notes"
	default:
		return "unknown"
	}
}

// isPrice reports whether the field only accepts numbers.
func (f DraftField) isPrice() bool {
	return f == FieldEntry || f == FieldStoploss || f == FieldTarget
}

// CreationState is the lifecycle of the creation draft.
type CreationState int

const (
	CreationClosed CreationState = iota
	CreationOpen
	CreationSubmitting
)

func (s CreationState) String() string {
	switch s {
	case CreationOpen:
		return "open"
	case CreationSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// ValidationError is a draft that cannot be submitted.
type ValidationError struct {
	Field   DraftField
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// InferZoneType derives the zone direction from its price levels.
func InferZoneType(entry, stoploss, target float64) ZoneType {
	switch {
	case target > entry && stoploss < entry:
		return ZoneLong
	case target < entry && stoploss > entry:
		return ZoneShort
	default:
		return ZoneInvalid
	}
}

// RowCreationSession is the new-zone draft pinned to the top of the table.
type RowCreationSession struct {
	store  *RowStore
	remote *Remote

	state  CreationState
	inputs [draftFieldCount]textinput.Model
	focus  DraftField

	candidates CandidateList
	lastPrice  *float64

	// search delays ticker lookups until typing pauses.
	search *Debouncer

	// cache remembers search results for the lifetime of the draft.
	cache *lru.Cache

	submitSeq uint64
}

func NewRowCreationSession(
	store *RowStore,
	remote *Remote,
	searchDelay time.Duration,
) *RowCreationSession {
	return &RowCreationSession{
		store:  store,
		remote: remote,
		search: NewDebouncer(debounceTickerSearch, searchDelay),
	}
}

func (s *RowCreationSession) SetSearchDelay(delay time.Duration) {
	s.search.SetDelay(delay)
}

// Open pins an empty draft to the top of the table and focuses its
// symbol field. Does nothing if a draft already exists.
func (s *RowCreationSession) Open() bool {
	if s.state != CreationClosed {
		return false
	}

	cache, err := lru.New(searchCacheSize)
	if err != nil {
		return false
	}
	s.cache = cache

	s.inputs = [draftFieldCount]textinput.Model{
		FieldSymbol:   newTextInput("Search symbol", symbolInputCharLimit),
		FieldEntry:    newTextInput("Entry", priceInputCharLimit),
		FieldStoploss: newTextInput("Stoploss", priceInputCharLimit),
		FieldTarget:   newTextInput("Target", priceInputCharLimit),
		FieldNotes:    newTextInput("Notes", notesInputCharLimit),
	}
	s.candidates = CandidateList{highlight: -1}
	s.lastPrice = nil

	s.store.InsertTop(&Row{Pinned: true, Cells: map[ColumnID]Cell{}})
	s.state = CreationOpen
	s.focusField(FieldSymbol)
	return true
}

// Cancel discards the draft. A submission in flight cannot be cancelled.
func (s *RowCreationSession) Cancel() {
	if s.state != CreationOpen {
		return
	}
	s.close()
}

func (s *RowCreationSession) close() {
	s.store.RemovePinned()
	s.state = CreationClosed
	s.search.Cancel()
	s.remote.Invalidate(zoneapi.OpSearch)
	s.candidates.Hide()
	if s.cache != nil {
		s.cache.Purge()
	}
}

// HandleKey routes a key while the draft is open.
//
// The returned error is a *ValidationError when a submission attempt is
// blocked.
func (s *RowCreationSession) HandleKey(msg tea.KeyMsg) (tea.Cmd, error) {
	if s.state != CreationOpen {
		return nil, nil
	}

	key := msg.String()
	if key == "ctrl+s" || key == "alt+enter" {
		return s.Submit()
	}

	if s.focus == FieldSymbol && s.candidates.Visible() {
		switch key {
		case "down":
			s.candidates.Next()
			return nil, nil
		case "up":
			s.candidates.Prev()
			return nil, nil
		case "enter":
			if t, ok := s.candidates.Highlighted(); ok {
				s.selectCandidate(t)
				return nil, nil
			}
		case "tab":
			if t, ok := s.candidates.HighlightedOrFirst(); ok {
				s.selectCandidate(t)
				return nil, nil
			}
		case "esc":
			s.candidates.Hide()
			return nil, nil
		}
	}

	switch key {
	case "esc":
		s.Cancel()
		return nil, nil
	case "enter":
		if s.focus == FieldNotes {
			return s.Submit()
		}
		s.focusField(s.focus + 1)
		return nil, nil
	case "tab", "down":
		s.focusField((s.focus + 1) % draftFieldCount)
		return nil, nil
	case "shift+tab", "up":
		s.focusField((s.focus + draftFieldCount - 1) % draftFieldCount)
		return nil, nil
	}

	if s.focus.isPrice() && msg.Type == tea.KeyRunes {
		msg.Runes = numericRunes(msg.Runes)
		if len(msg.Runes) == 0 {
			return nil, nil
		}
	}

	input := &s.inputs[s.focus]
	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)

	if s.focus == FieldSymbol && input.Value() != before {
		return batchCmds(cmd, s.symbolChanged()), nil
	}
	return cmd, nil
}

// symbolChanged restarts the search timer, or closes the list when the
// query is cleared.
func (s *RowCreationSession) symbolChanged() tea.Cmd {
	if strings.TrimSpace(s.inputs[FieldSymbol].Value()) == "" {
		s.search.Cancel()
		s.remote.Invalidate(zoneapi.OpSearch)
		s.candidates.Hide()
		return nil
	}
	return s.search.Trigger()
}

// HandleDebounce runs the search once typing has paused.
func (s *RowCreationSession) HandleDebounce(msg DebounceMsg) tea.Cmd {
	if !s.search.Fired(msg) || s.state != CreationOpen {
		return nil
	}

	query := strings.TrimSpace(s.inputs[FieldSymbol].Value())
	if query == "" {
		s.candidates.Hide()
		return nil
	}

	if cached, ok := s.cache.Get(query); ok {
		// Anything still in flight is older than this answer.
		s.remote.Invalidate(zoneapi.OpSearch)
		s.candidates.Set(cached.([]zoneapi.Ticker))
		return nil
	}

	_, cmd := s.remote.SearchTickers(query)
	return cmd
}

// HandleSearchResult shows the latest search results.
//
// Results of superseded searches are dropped.
func (s *RowCreationSession) HandleSearchResult(msg SearchResultMsg) (handled bool, err error) {
	if s.state == CreationClosed || !s.remote.IsLatest(zoneapi.OpSearch, msg.Seq) {
		return false, nil
	}
	if msg.Err != nil {
		s.candidates.Hide()
		return true, msg.Err
	}

	s.cache.Add(msg.Query, msg.Tickers)
	if s.state == CreationOpen && s.focus == FieldSymbol {
		s.candidates.Set(msg.Tickers)
	}
	return true, nil
}

func (s *RowCreationSession) selectCandidate(t zoneapi.Ticker) {
	s.inputs[FieldSymbol].SetValue(t.Symbol)
	s.inputs[FieldSymbol].CursorEnd()
	s.lastPrice = t.LastPrice
	s.candidates.Hide()
	s.search.Cancel()
	s.remote.Invalidate(zoneapi.OpSearch)
	s.focusField(FieldEntry)
}

// PickCandidate selects the i-th suggestion, as by a mouse click.
func (s *RowCreationSession) PickCandidate(i int) bool {
	if s.state != CreationOpen || !s.candidates.Visible() || i < 0 || i >= s.candidates.Len() {
		return false
	}
	s.selectCandidate(s.candidates.items[i])
	return true
}

// FocusField moves input focus to f while the draft is editable.
func (s *RowCreationSession) FocusField(f DraftField) {
	if s.state == CreationOpen {
		s.focusField(f)
	}
}

func (s *RowCreationSession) focusField(f DraftField) {
	if f < 0 || f >= draftFieldCount {
		return
	}
	for i := range s.inputs {
		s.inputs[i].Blur()
	}
	if f != FieldSymbol {
		s.candidates.Hide()
	}
	s.focus = f
	_ = s.inputs[f].Focus()
}

// Validate checks the draft before submission.
//
// Reports the first offending field: the symbol, then the first price
// level that is not a number.
func (s *RowCreationSession) Validate() *ValidationError {
	if strings.TrimSpace(s.inputs[FieldSymbol].Value()) == "" {
		return &ValidationError{Field: FieldSymbol, Message: "Please select a symbol"}
	}
	for _, f := range []DraftField{FieldEntry, FieldStoploss, FieldTarget} {
		if _, ok := s.price(f); !ok {
			return &ValidationError{
				Field:   f,
				Message: "Please enter valid numbers for entry, stoploss, and target",
			}
		}
	}
	return nil
}

// Submit validates the draft and sends it to the store.
//
// A blocked submission focuses the offending field and sends nothing.
func (s *RowCreationSession) Submit() (tea.Cmd, error) {
	if s.state != CreationOpen {
		return nil, nil
	}
	if verr := s.Validate(); verr != nil {
		s.focusField(verr.Field)
		return nil, verr
	}

	entry, _ := s.price(FieldEntry)
	stoploss, _ := s.price(FieldStoploss)
	target, _ := s.price(FieldTarget)
	req := zoneapi.CreateZoneRequest{
		Symbol:   strings.ToUpper(strings.TrimSpace(s.inputs[FieldSymbol].Value())),
		Entry:    entry,
		Stoploss: stoploss,
		Target:   target,
		Notes:    strings.TrimSpace(s.inputs[FieldNotes].Value()),
	}

	for i := range s.inputs {
		s.inputs[i].Blur()
	}
	s.candidates.Hide()
	s.search.Cancel()
	s.state = CreationSubmitting

	seq, cmd := s.remote.CreateZone(req)
	s.submitSeq = seq
	return cmd, nil
}

// HandleCreateResult completes a submission.
//
// On success the draft is closed and the caller reloads the rows. On
// failure the draft is re-enabled with its values intact.
func (s *RowCreationSession) HandleCreateResult(msg CreateResultMsg) (handled bool, err error) {
	if s.state != CreationSubmitting || msg.Seq != s.submitSeq {
		return false, nil
	}
	if msg.Err != nil {
		s.state = CreationOpen
		s.focusField(FieldSymbol)
		return true, msg.Err
	}
	s.close()
	return true, nil
}

func (s *RowCreationSession) price(f DraftField) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s.inputs[f].Value()), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// InferredType is the zone type implied by the draft's price levels,
// or NoValue while any of them is not a number.
func (s *RowCreationSession) InferredType() string {
	entry, ok1 := s.price(FieldEntry)
	stoploss, ok2 := s.price(FieldStoploss)
	target, ok3 := s.price(FieldTarget)
	if !ok1 || !ok2 || !ok3 {
		return NoValue
	}
	return string(InferZoneType(entry, stoploss, target))
}

// State returns the draft lifecycle state.
func (s *RowCreationSession) State() CreationState { return s.state }

// IsOpen reports whether a draft exists.
func (s *RowCreationSession) IsOpen() bool { return s.state != CreationClosed }

// Focused returns the focused draft field.
func (s *RowCreationSession) Focused() DraftField { return s.focus }

// Value returns the text of a draft field.
func (s *RowCreationSession) Value(f DraftField) string {
	if f < 0 || f >= draftFieldCount {
		return ""
	}
	return s.inputs[f].Value()
}

// Candidates returns the symbol search dropdown.
func (s *RowCreationSession) Candidates() *CandidateList { return &s.candidates }

// LastPriceText renders the reference price of the chosen symbol.
func (s *RowCreationSession) LastPriceText() string {
	if s.lastPrice == nil {
		return NoValue
	}
	return FormatPrice(*s.lastPrice)
}

// FieldView renders one draft input within width columns.
func (s *RowCreationSession) FieldView(f DraftField, width int) string {
	if s.state == CreationClosed || width <= 0 {
		return ""
	}
	input := s.inputs[f]
	if s.state == CreationSubmitting {
		return draftDisabledStyle.Render(truncateValue(input.Value(), width))
	}
	input.Width = max(width-1, 1)
	style := draftInputStyle
	if f == s.focus {
		style = draftFocusedInputStyle
	}
	return style.Render(input.View())
}

// Summary describes the draft for the status bar.
func (s *RowCreationSession) Summary() string {
	switch s.state {
	case CreationSubmitting:
		return "Creating zone..."
	case CreationOpen:
		return fmt.Sprintf("New zone • %s • type %s (ctrl+s to save, esc to cancel)",
			s.focus, s.InferredType())
	default:
		return ""
	}
}
