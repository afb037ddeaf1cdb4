package zoneview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tradezones/zonedesk/internal/zoneapi"
)

// Remote turns zone store calls into tea commands.
//
// Every command's result message carries the sequence number issued
// when it was dispatched, so handlers can drop stale results.
type Remote struct {
	store   zoneapi.Store
	seq     *zoneapi.Sequencer
	timeout time.Duration
}

func NewRemote(store zoneapi.Store, timeout time.Duration) *Remote {
	return &Remote{
		store:   store,
		seq:     zoneapi.NewSequencer(),
		timeout: timeout,
	}
}

func (r *Remote) requestContext() (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), r.timeout)
}

// IsLatest reports whether seq is the newest dispatch of op.
func (r *Remote) IsLatest(op zoneapi.Operation, seq uint64) bool {
	return r.seq.IsLatest(op, seq)
}

// Invalidate makes every outstanding dispatch of op stale.
func (r *Remote) Invalidate(op zoneapi.Operation) {
	r.seq.Invalidate(op)
}

// LoadZones fetches the full row set.
func (r *Remote) LoadZones() tea.Cmd {
	seq := r.seq.Next(zoneapi.OpList)
	return func() tea.Msg {
		ctx, cancel := r.requestContext()
		defer cancel()
		zones, err := r.store.ListZones(ctx)
		return ZonesLoadedMsg{Seq: seq, Zones: zones, Err: err}
	}
}

// UpdateField writes one price level of a zone.
func (r *Remote) UpdateField(target CellRef, field zoneapi.Field, value float64) (uint64, tea.Cmd) {
	seq := r.seq.Next(zoneapi.OpUpdate)
	return seq, func() tea.Msg {
		ctx, cancel := r.requestContext()
		defer cancel()
		res, err := r.store.UpdateZoneField(ctx, target.RowID, field, value)
		return EditResultMsg{Seq: seq, Target: target, Value: value, Result: res, Err: err}
	}
}

// CreateZone submits a new zone.
func (r *Remote) CreateZone(req zoneapi.CreateZoneRequest) (uint64, tea.Cmd) {
	seq := r.seq.Next(zoneapi.OpCreate)
	return seq, func() tea.Msg {
		ctx, cancel := r.requestContext()
		defer cancel()
		res, err := r.store.CreateZone(ctx, req)
		return CreateResultMsg{Seq: seq, Result: res, Err: err}
	}
}

// DeleteZones deletes every zone in ids with one request.
func (r *Remote) DeleteZones(ids []int64) (uint64, tea.Cmd) {
	seq := r.seq.Next(zoneapi.OpDelete)
	return seq, func() tea.Msg {
		ctx, cancel := r.requestContext()
		defer cancel()
		res, err := r.store.DeleteZones(ctx, ids)
		return DeleteResultMsg{Seq: seq, IDs: ids, Result: res, Err: err}
	}
}

// SearchTickers looks up symbols starting with query.
func (r *Remote) SearchTickers(query string) (uint64, tea.Cmd) {
	seq := r.seq.Next(zoneapi.OpSearch)
	return seq, func() tea.Msg {
		ctx, cancel := r.requestContext()
		defer cancel()
		tickers, err := r.store.SearchTickers(ctx, query)
		return SearchResultMsg{Seq: seq, Query: query, Tickers: tickers, Err: err}
	}
}
