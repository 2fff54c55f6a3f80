// Package feed fetches the vaccination CSV over HTTP and parses it into
// raw records.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/pkg/logger"
)

// DefaultURL is the Our World in Data vaccinations CSV.
const DefaultURL = "https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/vaccinations/vaccinations.csv"

// Client retrieves the feed. It satisfies normalize.Source.
type Client struct {
	url       string
	timeout   time.Duration
	userAgent string
	retries   int
	retryWait time.Duration
	metric    model.Metric
	logger    logger.Logger

	http *resty.Client
}

// New creates a feed Client.
func New(opts ...Option) *Client {
	c := &Client{
		url:       DefaultURL,
		timeout:   30 * time.Second,
		userAgent: "vaxtrack/1.0",
		retries:   2,
		retryWait: 500 * time.Millisecond,
		metric:    model.MetricTotalVaccinations,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	client := resty.New()
	client.SetHeader("user-agent", c.userAgent)
	client.SetHeader("accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	client.SetTimeout(c.timeout)
	client.SetRetryCount(c.retries)
	client.SetRetryWaitTime(c.retryWait)
	client.SetRetryMaxWaitTime(8 * c.retryWait)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || (res != nil && res.StatusCode() >= http.StatusInternalServerError)
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		c.logger.Debug(res.Request.Context(), "feed response",
			logger.String("url", res.Request.URL),
			logger.Int("status", res.StatusCode()),
			logger.Int("bytes", len(res.Body())),
			logger.Duration("elapsed", res.Time()),
		)
		return nil
	})
	c.http = client
	return c
}

// URL returns the feed location.
func (c *Client) URL() string { return c.url }

// Fetch performs one GET of the feed (plus retries) and parses it. A
// transport error, timeout, non-2xx status, empty body or unusable
// header yields an error wrapping ErrFeedUnavailable.
func (c *Client) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: request: %w", ErrFeedUnavailable, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnavailable, res.StatusCode())
	}

	body := res.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrFeedUnavailable)
	}

	records, skipped, err := ParseCSV(bytes.NewReader(body), c.metric.Column())
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Debug(ctx, "malformed csv rows skipped", logger.Int("skipped", skipped))
	}
	return records, nil
}
