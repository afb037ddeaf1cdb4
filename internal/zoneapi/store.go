// Package zoneapi is the client for the zones JSON/HTTP API.
package zoneapi

import "context"

//go:generate mockgen -destination=zoneapitest/mock_store.go -package=zoneapitest . Store

// Store is the remote zone store.
//
// Implementations never retry: every failure is returned to the caller,
// which decides how to surface it.
type Store interface {
	// ListZones returns every zone of the current user, most recently
	// updated first.
	ListZones(ctx context.Context) ([]Zone, error)

	// UpdateZoneField sets one price level of a zone.
	UpdateZoneField(ctx context.Context, id int64, field Field, value float64) (UpdateResult, error)

	// CreateZone creates a zone.
	CreateZone(ctx context.Context, req CreateZoneRequest) (CreateResult, error)

	// DeleteZones deletes every zone in ids with a single request.
	DeleteZones(ctx context.Context, ids []int64) (DeleteResult, error)

	// SearchTickers returns symbols starting with query.
	SearchTickers(ctx context.Context, query string) ([]Ticker, error)
}
