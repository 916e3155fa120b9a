// Package ephemeris provides the precision-source implementations: a remote
// HTTP client, an LRU cache decorator, and an in-process solver for
// deployments without a remote service.
package ephemeris

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/observability"
	"github.com/skyglow/horizon-events/internal/scheduler"
	"github.com/skyglow/horizon-events/internal/wire"
)

// Client implements scheduler.Source against a remote ephemeris service that
// answers with a wire record for a (location, date) pair.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a remote ephemeris client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// Events fetches the day's record for the location.
func (c *Client) Events(ctx context.Context, loc domain.GeoLocation, date domain.Date) (scheduler.Result, error) {
	params := url.Values{
		"latE6":        {strconv.FormatInt(int64(loc.LatE6), 10)},
		"lonE6":        {strconv.FormatInt(int64(loc.LonE6), 10)},
		"utcOffsetMin": {strconv.FormatInt(int64(loc.UTCOffsetMin), 10)},
		"date":         {strconv.Itoa(date.Stamp())},
	}

	start := time.Now()
	rec, err := c.doRequest(ctx, c.baseURL+"/v1/events?"+params.Encode())
	c.metrics.EphemerisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.EphemerisRequests.WithLabelValues("error").Inc()
		return scheduler.Result{}, err
	}
	c.metrics.EphemerisRequests.WithLabelValues("success").Inc()

	res := scheduler.Result{
		Sun:   rec.SunEvents(),
		Moon:  rec.MoonEvents(),
		Phase: rec.Phase(),
	}
	// A record whose sun category is unusable gives the caller nothing the
	// fallback couldn't do better.
	if !res.Sun.Valid {
		return scheduler.Result{}, errors.New("remote record has invalid sun state")
	}
	return res, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (wire.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return wire.Record{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wire.Record{}, fmt.Errorf("ephemeris request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return wire.Record{}, fmt.Errorf("ephemeris API error: status %d: %s", resp.StatusCode, body)
	}

	var rec wire.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return wire.Record{}, fmt.Errorf("decode response: %w", err)
	}
	return rec, nil
}
