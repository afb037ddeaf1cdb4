package zoneapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tradezones/zonedesk/internal/observability"
)

const (
	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 1 << 20

	// sessionCookieName is the cookie carrying an authenticated session.
	sessionCookieName = "session"

	defaultTimeout = 10 * time.Second
)

// ClientParams configures NewClient.
type ClientParams struct {
	// BaseURL is the API origin, e.g. "http://localhost:5000".
	BaseURL string

	// Token is sent as a bearer token when non-empty.
	Token string

	// SessionCookie is sent as the session cookie when non-empty.
	SessionCookie string

	// Timeout bounds each request. Zero means the default.
	Timeout time.Duration

	// RequestsPerSecond limits the request rate. Zero or less disables it.
	RequestsPerSecond float64

	Metrics *Metrics
	Logger  *observability.CoreLogger

	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the zones API.
//
// Implements Store.
type Client struct {
	baseURL       *url.URL
	token         string
	sessionCookie string

	http    *retryablehttp.Client
	limiter *rate.Limiter

	// search collapses concurrent identical ticker searches.
	search singleflight.Group

	metrics *Metrics
	logger  *observability.CoreLogger
}

var _ Store = (*Client)(nil)

// NewClient creates a Client.
//
// Retries are disabled: a failed write must be re-initiated by the user.
func NewClient(params ClientParams) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(params.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("zoneapi: invalid base URL: %v", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("zoneapi: base URL must be http or https, got %q", params.BaseURL)
	}

	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = 0
	rc.CheckRetry = noRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger.Logger

	limit := rate.Inf
	if params.RequestsPerSecond > 0 {
		limit = rate.Limit(params.RequestsPerSecond)
	}

	return &Client{
		baseURL:       base,
		token:         params.Token,
		sessionCookie: params.SessionCookie,
		http:          rc,
		limiter:       rate.NewLimiter(limit, 1),
		metrics:       params.Metrics,
		logger:        logger,
	}, nil
}

// noRetry never retries, but still surfaces context errors.
func noRetry(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, err
}

// ListZones implements Store.ListZones.
func (c *Client) ListZones(ctx context.Context) ([]Zone, error) {
	var resp zonesResponse
	if err := c.do(ctx, OpList, http.MethodGet, "/api/zones", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Zones, nil
}

// UpdateZoneField implements Store.UpdateZoneField.
func (c *Client) UpdateZoneField(
	ctx context.Context,
	id int64,
	field Field,
	value float64,
) (UpdateResult, error) {
	path := "/api/zones/" + strconv.FormatInt(id, 10)
	body := map[Field]float64{field: value}

	var resp UpdateResult
	if err := c.do(ctx, OpUpdate, http.MethodPut, path, nil, body, &resp); err != nil {
		return UpdateResult{}, err
	}
	// A success without a message is how the server reports an unknown failure.
	if resp.Message == "" {
		return UpdateResult{}, &RemoteError{Op: OpUpdate, Status: http.StatusOK, Message: "Unknown error"}
	}
	return resp, nil
}

// CreateZone implements Store.CreateZone.
func (c *Client) CreateZone(ctx context.Context, req CreateZoneRequest) (CreateResult, error) {
	var resp CreateResult
	if err := c.do(ctx, OpCreate, http.MethodPost, "/api/zones/create", nil, req, &resp); err != nil {
		return CreateResult{}, err
	}
	return resp, nil
}

// DeleteZones implements Store.DeleteZones.
func (c *Client) DeleteZones(ctx context.Context, ids []int64) (DeleteResult, error) {
	if len(ids) == 0 {
		return DeleteResult{}, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	query := url.Values{"ids": {strings.Join(parts, ",")}}

	var resp DeleteResult
	if err := c.do(ctx, OpDelete, http.MethodDelete, "/api/zones", query, nil, &resp); err != nil {
		return DeleteResult{}, err
	}
	return resp, nil
}

// SearchTickers implements Store.SearchTickers.
//
// Concurrent searches for the same query share one request.
func (c *Client) SearchTickers(ctx context.Context, query string) ([]Ticker, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	v, err, _ := c.search.Do(query, func() (any, error) {
		var resp tickersResponse
		err := c.do(ctx, OpSearch, http.MethodGet, "/api/tickers/search",
			url.Values{"q": {query}}, nil, &resp)
		return resp.Tickers, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]Ticker), nil
}

// do performs one request and decodes the response into out.
func (c *Client) do(
	ctx context.Context,
	op Operation,
	method, path string,
	query url.Values,
	body any,
	out any,
) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(op, outcomeOf(err), time.Since(start))
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	c.logger.Debug("zoneapi: request", "op", op, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("reading response: %v", err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if ok {
			return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %v", err)}
		}
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	switch {
	case env.Error != "":
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: env.Error}
	case !ok:
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decoding response: %v", err)}
		}
	}
	return nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*retryablehttp.Request, error) {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %v", err)
		}
	}

	var rawBody any
	if payload != nil {
		rawBody = payload
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u.String(), rawBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.sessionCookie})
	}
	return req, nil
}

func outcomeOf(err error) string {
	var remote *RemoteError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &remote):
		return OutcomeRejected
	default:
		return OutcomeTransport
	}
}
