package zoneview_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tradezones/zonedesk/internal/zoneapi"
	"github.com/tradezones/zonedesk/internal/zoneapi/zoneapitest"
	"github.com/tradezones/zonedesk/internal/zoneview"
)

type draftFixture struct {
	store   *zoneapitest.MockStore
	rows    *zoneview.RowStore
	session *zoneview.RowCreationSession
}

func newDraftFixture(t *testing.T, rows ...*zoneview.Row) *draftFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := zoneapitest.NewMockStore(ctrl)
	rs := newStore(rows...)
	remote := zoneview.NewRemote(store, time.Second)
	return &draftFixture{
		store:   store,
		rows:    rs,
		session: zoneview.NewRowCreationSession(rs, remote, 300*time.Millisecond),
	}
}

func (f *draftFixture) press(msg tea.KeyMsg) (tea.Cmd, error) {
	return f.session.HandleKey(msg)
}

func (f *draftFixture) typeKeys(s string) {
	for _, r := range s {
		_, _ = f.session.HandleKey(runeKey(r))
	}
}

// search fires the pending debounce timer and runs the resulting
// request, if any.
func (f *draftFixture) search() (tea.Cmd, zoneview.SearchResultMsg, bool) {
	cmd := f.session.HandleDebounce(f.session.TestPendingSearch())
	if cmd == nil {
		return nil, zoneview.SearchResultMsg{}, false
	}
	return cmd, cmd().(zoneview.SearchResultMsg), true
}

var saveKey = tea.KeyMsg{Type: tea.KeyCtrlS}

func TestInferZoneType(t *testing.T) {
	tests := []struct {
		name                    string
		entry, stoploss, target float64
		want                    zoneview.ZoneType
	}{
		{"long", 100, 90, 110, zoneview.ZoneLong},
		{"short", 100, 110, 90, zoneview.ZoneShort},
		{"target equals entry", 100, 90, 100, zoneview.ZoneInvalid},
		{"stop equals entry", 100, 100, 110, zoneview.ZoneInvalid},
		{"both above", 100, 120, 110, zoneview.ZoneInvalid},
		{"both below", 100, 80, 90, zoneview.ZoneInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, zoneview.InferZoneType(tt.entry, tt.stoploss, tt.target))
		})
	}
}

func TestRowCreation_OpenPinsOneDraft(t *testing.T) {
	f := newDraftFixture(t)
	require.True(t, f.rows.ShowsPlaceholder())

	require.True(t, f.session.Open())
	require.False(t, f.rows.ShowsPlaceholder())
	require.NotNil(t, f.rows.Pinned())
	require.Equal(t, zoneview.FieldSymbol, f.session.Focused())

	require.False(t, f.session.Open(), "only one draft at a time")
	require.Equal(t, 1, f.rows.Len())

	_, _ = f.press(key(tea.KeyEsc))
	require.False(t, f.session.IsOpen())
	require.Nil(t, f.rows.Pinned())
	require.True(t, f.rows.ShowsPlaceholder())
}

func TestRowCreation_ValidationBlocksSubmit(t *testing.T) {
	f := newDraftFixture(t)
	// No expectations: a request would fail the test.
	f.session.Open()

	_, err := f.press(saveKey)
	var verr *zoneview.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "Please select a symbol", verr.Message)
	require.Equal(t, zoneview.FieldSymbol, f.session.Focused())

	f.typeKeys("AAPL")
	_, _ = f.press(key(tea.KeyEnter))
	f.typeKeys("100")
	_, err = f.press(saveKey)
	require.ErrorAs(t, err, &verr)
	require.Equal(t, zoneview.FieldStoploss, verr.Field)
	require.Equal(t, "Please enter valid numbers for entry, stoploss, and target", verr.Message)
	require.Equal(t, zoneview.FieldStoploss, f.session.Focused())
	require.Equal(t, zoneview.CreationOpen, f.session.State())
}

func TestRowCreation_PriceFieldsAcceptOnlyNumbers(t *testing.T) {
	f := newDraftFixture(t)
	f.session.Open()

	_, _ = f.press(key(tea.KeyTab))
	f.typeKeys("1a2.5b")

	require.Equal(t, "12.5", f.session.Value(zoneview.FieldEntry))
}

func (f *draftFixture) fill(symbol, entry, stoploss, target, notes string) {
	f.typeKeys(symbol)
	for _, v := range []string{entry, stoploss, target, notes} {
		_, _ = f.press(key(tea.KeyTab))
		f.typeKeys(v)
	}
}

func TestRowCreation_SubmitSendsUppercaseSymbol(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().
		CreateZone(gomock.Any(), zoneapi.CreateZoneRequest{
			Symbol:   "AAPL",
			Entry:    100,
			Stoploss: 90,
			Target:   120,
			Notes:    "breakout",
		}).
		Return(zoneapi.CreateResult{Message: "Zone created successfully"}, nil)

	f.session.Open()
	f.fill("aapl", "100", "90", "120", "breakout")
	require.Equal(t, string(zoneview.ZoneLong), f.session.InferredType())

	cmd, err := f.press(saveKey)
	require.NoError(t, err)
	require.Equal(t, zoneview.CreationSubmitting, f.session.State())

	handled, err := f.session.HandleCreateResult(cmd().(zoneview.CreateResultMsg))
	require.True(t, handled)
	require.NoError(t, err)
	require.False(t, f.session.IsOpen())
	require.Nil(t, f.rows.Pinned())
}

func TestRowCreation_EnterInNotesSubmits(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().CreateZone(gomock.Any(), gomock.Any()).Return(zoneapi.CreateResult{}, nil)

	f.session.Open()
	f.fill("x", "1", "2", "0.5", "")
	require.Equal(t, zoneview.FieldNotes, f.session.Focused())
	require.Equal(t, string(zoneview.ZoneShort), f.session.InferredType())

	cmd, err := f.press(key(tea.KeyEnter))
	require.NoError(t, err)
	require.NotNil(t, cmd)
	cmd()
}

func TestRowCreation_FailureKeepsDraft(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().
		CreateZone(gomock.Any(), gomock.Any()).
		Return(zoneapi.CreateResult{}, &zoneapi.RemoteError{Op: zoneapi.OpCreate, Status: 400, Message: "Invalid symbol"})

	f.session.Open()
	f.fill("ZZZZ", "100", "90", "120", "")

	cmd, err := f.press(saveKey)
	require.NoError(t, err)

	handled, err := f.session.HandleCreateResult(cmd().(zoneview.CreateResultMsg))
	require.True(t, handled)
	require.Error(t, err)

	require.Equal(t, zoneview.CreationOpen, f.session.State())
	require.NotNil(t, f.rows.Pinned())
	require.Equal(t, "ZZZZ", f.session.Value(zoneview.FieldSymbol))
	require.Equal(t, "120", f.session.Value(zoneview.FieldTarget))
}

func TestRowCreation_SearchAndPickCandidate(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().
		SearchTickers(gomock.Any(), "AA").
		Return([]zoneapi.Ticker{
			{Symbol: "AAL", LastPrice: price(12.5)},
			{Symbol: "AAPL", LastPrice: price(190)},
		}, nil)

	f.session.Open()
	f.typeKeys("AA")

	_, msg, ok := f.search()
	require.True(t, ok)
	handled, err := f.session.HandleSearchResult(msg)
	require.True(t, handled)
	require.NoError(t, err)
	require.True(t, f.session.Candidates().Visible())

	_, _ = f.press(key(tea.KeyDown))
	_, _ = f.press(key(tea.KeyDown))
	_, _ = f.press(key(tea.KeyEnter))

	require.Equal(t, "AAPL", f.session.Value(zoneview.FieldSymbol))
	require.Equal(t, "₹ 190.00", f.session.LastPriceText())
	require.False(t, f.session.Candidates().Visible())
	require.Equal(t, zoneview.FieldEntry, f.session.Focused())
}

func TestRowCreation_TabPicksFirstCandidate(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().
		SearchTickers(gomock.Any(), "MS").
		Return([]zoneapi.Ticker{{Symbol: "MSFT"}, {Symbol: "MSTR"}}, nil)

	f.session.Open()
	f.typeKeys("MS")
	_, msg, _ := f.search()
	_, _ = f.session.HandleSearchResult(msg)

	_, _ = f.press(key(tea.KeyTab))

	require.Equal(t, "MSFT", f.session.Value(zoneview.FieldSymbol))
	require.Equal(t, zoneview.NoValue, f.session.LastPriceText())
}

func TestRowCreation_EscClosesListBeforeDraft(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().SearchTickers(gomock.Any(), "A").Return([]zoneapi.Ticker{{Symbol: "A"}}, nil)

	f.session.Open()
	f.typeKeys("A")
	_, msg, _ := f.search()
	_, _ = f.session.HandleSearchResult(msg)

	_, _ = f.press(key(tea.KeyEsc))
	require.False(t, f.session.Candidates().Visible())
	require.True(t, f.session.IsOpen())
	require.Equal(t, "A", f.session.Value(zoneview.FieldSymbol))

	_, _ = f.press(key(tea.KeyEsc))
	require.False(t, f.session.IsOpen())
}

func TestRowCreation_StaleSearchResultDiscarded(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().SearchTickers(gomock.Any(), "A").Return([]zoneapi.Ticker{{Symbol: "ABC"}, {Symbol: "AXE"}}, nil)
	f.store.EXPECT().SearchTickers(gomock.Any(), "AX").Return([]zoneapi.Ticker{{Symbol: "AXE"}}, nil)

	f.session.Open()
	f.typeKeys("A")
	first, _, ok := f.search()
	require.True(t, ok)

	f.typeKeys("X")
	_, second, ok := f.search()
	require.True(t, ok)

	handled, _ := f.session.HandleSearchResult(second)
	require.True(t, handled)

	// The older request finishes last and must not overwrite the list.
	handled, _ = f.session.HandleSearchResult(first().(zoneview.SearchResultMsg))
	require.False(t, handled)
	require.Equal(t, 1, f.session.Candidates().Len())
}

func TestRowCreation_RepeatedQueryServedFromCache(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().
		SearchTickers(gomock.Any(), "TS").
		Return([]zoneapi.Ticker{{Symbol: "TSLA"}}, nil).
		Times(1)
	f.store.EXPECT().
		SearchTickers(gomock.Any(), "TSL").
		Return([]zoneapi.Ticker{{Symbol: "TSLA"}}, nil).
		Times(1)

	f.session.Open()
	f.typeKeys("TS")
	_, msg, _ := f.search()
	_, _ = f.session.HandleSearchResult(msg)

	f.typeKeys("L")
	_, msg, _ = f.search()
	_, _ = f.session.HandleSearchResult(msg)

	_, _ = f.press(key(tea.KeyBackspace))
	require.Equal(t, "TS", f.session.Value(zoneview.FieldSymbol))

	_, _, requested := f.search()
	require.False(t, requested, "a cached query sends no request")
	require.True(t, f.session.Candidates().Visible())
	require.Equal(t, 1, f.session.Candidates().Len())
}

func TestRowCreation_ClearingSymbolHidesList(t *testing.T) {
	f := newDraftFixture(t)
	f.store.EXPECT().SearchTickers(gomock.Any(), "Q").Return([]zoneapi.Ticker{{Symbol: "QQQ"}}, nil)

	f.session.Open()
	f.typeKeys("Q")
	_, msg, _ := f.search()
	_, _ = f.session.HandleSearchResult(msg)
	require.True(t, f.session.Candidates().Visible())

	_, _ = f.press(key(tea.KeyBackspace))

	require.False(t, f.session.Candidates().Visible())
	_, _, requested := f.search()
	require.False(t, requested)
}
