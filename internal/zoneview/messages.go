package zoneview

import "github.com/tradezones/zonedesk/internal/zoneapi"

// ZonesLoadedMsg carries the result of a full row set load.
type ZonesLoadedMsg struct {
	Seq   uint64
	Zones []zoneapi.Zone
	Err   error
}

// EditResultMsg carries the result of a single-field update.
type EditResultMsg struct {
	Seq    uint64
	Target CellRef
	Value  float64
	Result zoneapi.UpdateResult
	Err    error
}

// CreateResultMsg carries the result of a zone creation.
type CreateResultMsg struct {
	Seq    uint64
	Result zoneapi.CreateResult
	Err    error
}

// DeleteResultMsg carries the result of a bulk delete.
type DeleteResultMsg struct {
	Seq    uint64
	IDs    []int64
	Result zoneapi.DeleteResult
	Err    error
}

// SearchResultMsg carries the result of a ticker search.
type SearchResultMsg struct {
	Seq     uint64
	Query   string
	Tickers []zoneapi.Ticker
	Err     error
}

// ConfigChangedMsg reports that the config file changed on disk.
type ConfigChangedMsg struct{}

// FilterPaneAnimationMsg advances the filter pane animation.
type FilterPaneAnimationMsg struct{}

// ActivityPaneAnimationMsg advances the activity pane animation.
type ActivityPaneAnimationMsg struct{}
