package zoneapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Field names a zone price level that can be updated in place.
type Field string

const (
	FieldEntry    Field = "entry"
	FieldStoploss Field = "stoploss"
	FieldTarget   Field = "target"
)

// Zone is a trading zone as returned by the zones API.
type Zone struct {
	ID         int64      `json:"id"`
	Symbol     string     `json:"symbol"`
	Type       string     `json:"type"`
	Entry      float64    `json:"entry"`
	Stoploss   float64    `json:"stoploss"`
	Target     float64    `json:"target"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes"`
	CreatedAt  Timestamp  `json:"created_at"`
	UpdatedAt  *Timestamp `json:"updated_at,omitempty"`
	EntryAt    *Timestamp `json:"entry_at,omitempty"`
	TargetAt   *Timestamp `json:"target_at,omitempty"`
	StoplossAt *Timestamp `json:"stoploss_at,omitempty"`
	FailedAt   *Timestamp `json:"failed_at,omitempty"`
	LastPrice  *float64   `json:"last_price"`
}

// LastActivity returns the most recent lifecycle timestamp of the zone,
// falling back to its creation time.
func (z Zone) LastActivity() time.Time {
	latest := z.CreatedAt.Time
	for _, ts := range []*Timestamp{z.UpdatedAt, z.EntryAt, z.TargetAt, z.StoplossAt, z.FailedAt} {
		if ts != nil && ts.After(latest) {
			latest = ts.Time
		}
	}
	return latest
}

// Ticker is a symbol search candidate.
type Ticker struct {
	Symbol    string   `json:"symbol"`
	LastPrice *float64 `json:"last_price"`
}

// CreateZoneRequest is the body of a zone creation request.
type CreateZoneRequest struct {
	Symbol   string  `json:"symbol"`
	Entry    float64 `json:"entry"`
	Stoploss float64 `json:"stoploss"`
	Target   float64 `json:"target"`
	Notes    string  `json:"notes"`
}

// UpdateResult is the successful outcome of a field update.
type UpdateResult struct {
	Message string `json:"message"`
	Zone    *Zone  `json:"zone,omitempty"`
}

// CreateResult is the successful outcome of a zone creation.
type CreateResult struct {
	Message string `json:"message"`
	Zone    *Zone  `json:"zone,omitempty"`
}

// DeleteResult is the successful outcome of a bulk delete.
//
// Errors counts the requested zones the server did not delete (not
// found or not owned) while still acknowledging the request as a whole.
type DeleteResult struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
	Errors       int    `json:"errors"`
}

type zonesResponse struct {
	Zones []Zone `json:"zones"`
}

type tickersResponse struct {
	Tickers []Ticker `json:"tickers"`
}

// envelope holds the fields shared by every API response.
type envelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// timestampLayouts are tried in order when parsing timestamps.
//
// The server emits ISO 8601 without a zone offset, with optional
// microseconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"02 Jan 2006 15:04",
	"02 Jan 2006",
}

// Timestamp is a time decoded from the API's ISO 8601 strings.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using every layout the API and the table emit.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("zoneapi: unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
