// Package garage61 contains a small client for the Garage61 REST API
package garage61

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/model"
	"github.com/mpapenbr/garage61-mcp-go/pkg/observability"
)

const (
	DefaultBaseURL = "https://garage61.net/api/v1"
	// NormalLap selects complete laps only
	NormalLap = 1
	// Me is the driver filter value for the token owner
	Me = "me"

	GroupNone   = "none"
	GroupDriver = "driver"

	maxErrorBody = 512
)

type (
	Option func(*Client)
	Client struct {
		baseURL    string
		token      string
		httpClient *http.Client
		timeout    time.Duration
		l          *log.Logger
	}
	// LapQuery holds the filter parameters of the laps endpoint
	LapQuery struct {
		Cars         []int
		Tracks       []int
		Drivers      []string
		Limit        int
		Group        string
		SeeTelemetry bool
		LapTypes     []int
	}
)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout limits every single request. 0 means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: observability.InstrumentedHTTPClient("garage61"),
		l:          log.Default().Named("garage61"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCars returns the raw payload of the cars endpoint
func (c *Client) GetCars(ctx context.Context) ([]byte, error) {
	c.l.Debug("Fetching cars", log.String("url", c.baseURL+"/cars"))
	return c.get(ctx, "cars", "/cars", nil)
}

// GetTracks returns the raw payload of the tracks endpoint
func (c *Client) GetTracks(ctx context.Context) ([]byte, error) {
	c.l.Debug("Fetching tracks", log.String("url", c.baseURL+"/tracks"))
	return c.get(ctx, "tracks", "/tracks", nil)
}

// GetLaps returns the laps matching q, fastest first
func (c *Client) GetLaps(ctx context.Context, q LapQuery) ([]model.Lap, error) {
	params := q.values()
	c.l.Debug("Fetching laps", log.String("params", params.Encode()))
	body, err := c.get(ctx, "laps", "/laps", params)
	if err != nil {
		return nil, err
	}
	var list model.LapList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decoding laps: %w", err)
	}
	slices.SortStableFunc(list.Items, func(a, b model.Lap) int {
		return cmp.Compare(a.LapTime, b.LapTime)
	})
	c.l.Debug("Fetched laps", log.Int("laps", len(list.Items)))
	return list.Items, nil
}

// GetLapTelemetryCSV returns the telemetry of a lap as CSV. If the telemetry
// is not accessible (Pro plan required) or missing, ok is false.
//
//nolint:whitespace // can't make both editor and linter happy
func (c *Client) GetLapTelemetryCSV(
	ctx context.Context, lapID string,
) (csv string, ok bool, err error) {
	c.l.Debug("Fetching telemetry", log.String("lap", lapID))
	body, err := c.get(ctx, "lap_csv", "/laps/"+url.PathEscape(lapID)+"/csv", nil)
	switch {
	case err == nil:
		return string(body), true, nil
	case errors.Is(err, ErrProRequired):
		c.l.Info("Pro plan required for telemetry data", log.String("lap", lapID))
		return "", false, nil
	case errors.Is(err, ErrNotFound):
		c.l.Warn("Telemetry data not found", log.String("lap", lapID))
		return "", false, nil
	default:
		return "", false, err
	}
}

func (q LapQuery) values() url.Values {
	v := url.Values{}
	for _, id := range q.Cars {
		v.Add("cars", strconv.Itoa(id))
	}
	for _, id := range q.Tracks {
		v.Add("tracks", strconv.Itoa(id))
	}
	for _, d := range q.Drivers {
		v.Add("drivers", d)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Group != "" {
		v.Set("group", q.Group)
	}
	if q.SeeTelemetry {
		v.Set("seeTelemetry", "true")
	}
	for _, t := range q.LapTypes {
		v.Add("lapTypes", strconv.Itoa(t))
	}
	return v
}

//nolint:whitespace // can't make both editor and linter happy
func (c *Client) get(
	ctx context.Context, endpoint, path string, params url.Values,
) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	observability.APIRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	c.l.Debug("API response",
		log.String("endpoint", endpoint),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(body)))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrProRequired
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		text := string(body)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: text}
	}
}
