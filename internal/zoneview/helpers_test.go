package zoneview_test

import (
	"regexp"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tradezones/zonedesk/internal/zoneapi"
	"github.com/tradezones/zonedesk/internal/zoneview"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var baseTime = time.Date(2026, time.March, 2, 9, 15, 0, 0, time.UTC)

func price(v float64) *float64 { return &v }

// apiZone returns a long zone entered at 100 with a 90 stop and 110 target.
func apiZone(id int64, symbol string, status zoneview.Status) zoneapi.Zone {
	return zoneapi.Zone{
		ID:        id,
		Symbol:    symbol,
		Type:      string(zoneview.ZoneLong),
		Entry:     100,
		Stoploss:  90,
		Target:    110,
		Status:    string(status),
		CreatedAt: zoneapi.Timestamp{Time: baseTime.Add(time.Duration(id) * time.Hour)},
		LastPrice: price(101.5),
	}
}

func zone(id int64, symbol string, status zoneview.Status) *zoneview.Row {
	return zoneview.NewZoneRow(apiZone(id, symbol, status))
}

func newStore(rows ...*zoneview.Row) *zoneview.RowStore {
	store := zoneview.NewRowStore()
	store.Reset(rows)
	return store
}

func symbols(rows []*zoneview.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Pinned {
			out = append(out, "<draft>")
			continue
		}
		out = append(out, r.Symbol())
	}
	return out
}

func visibleSymbols(engine *zoneview.FilterEngine) []string {
	return symbols(engine.Visible())
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

type keyHandler interface {
	HandleKey(tea.KeyMsg) tea.Cmd
}

func typeString(h keyHandler, s string) {
	for _, r := range s {
		h.HandleKey(runeKey(r))
	}
}
