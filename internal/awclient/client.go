// Package awclient reads buckets and window events from a local
// ActivityWatch server over its REST API.
package awclient

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config describes how to reach the server.
type Config struct {
	URL     string
	Timeout time.Duration
	Retries int
}

// Client wraps resty with the ActivityWatch base path and retry policy.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// HTTPError is returned when the server answers with a non-2xx status.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("activitywatch: status %d", e.Status)
	}
	return fmt.Sprintf("activitywatch: status %d: %s", e.Status, body)
}

// New creates a client for the server at cfg.URL.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(cfg.URL, "/")
	if base == "" {
		base = "http://localhost:5600"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	r := resty.New()
	r.
		SetBaseURL(base+"/api/0").
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(100*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "foldertime/1.0")

	// Transport errors are retried by resty itself; add server errors.
	r.AddRetryCondition(func(resp *resty.Response, err error) bool {
		return resp != nil && resp.StatusCode() >= 500
	})

	return &Client{http: r, logger: logger.Named("awclient")}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// ListBuckets returns every bucket on the server, sorted by id.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	var byID map[string]Bucket
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&byID).
		ForceContentType("application/json").
		Get("/buckets/")
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list buckets: %w", &HTTPError{Status: resp.StatusCode(), Body: resp.String()})
	}

	buckets := make([]Bucket, 0, len(byID))
	for id, b := range byID {
		if b.ID == "" {
			b.ID = id
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].ID < buckets[j].ID })

	c.logger.Debug("listed buckets", zap.Int("count", len(buckets)))
	return buckets, nil
}

// GetEvents fetches the events of one bucket, newest first as the server
// returns them.
func (c *Client) GetEvents(ctx context.Context, bucketID string, q EventQuery) ([]Event, error) {
	var events []Event
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("bucket", bucketID).
		SetQueryParams(q.params()).
		SetResult(&events).
		ForceContentType("application/json").
		Get("/buckets/{bucket}/events")
	if err != nil {
		return nil, fmt.Errorf("get events for %q: %w", bucketID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get events for %q: %w", bucketID, &HTTPError{Status: resp.StatusCode(), Body: resp.String()})
	}

	c.logger.Debug("fetched events",
		zap.String("bucket", bucketID),
		zap.Int("count", len(events)),
		zap.Duration("elapsed", resp.Time()),
	)
	return events, nil
}

func (q EventQuery) params() map[string]string {
	p := map[string]string{}
	if q.Start != nil {
		p["start"] = q.Start.UTC().Format(time.RFC3339Nano)
	}
	if q.End != nil {
		p["end"] = q.End.UTC().Format(time.RFC3339Nano)
	}
	if q.Limit > 0 {
		p["limit"] = strconv.Itoa(q.Limit)
	}
	return p
}
