package feed

import (
	"time"

	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithURL sets the feed URL.
func WithURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.url = u
		}
	}
}

// WithTimeout bounds each request attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRetries sets the number of extra attempts on transport errors and
// 5xx responses.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithRetryWait sets the initial backoff between attempts.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryWait = d
		}
	}
}

// WithMetric makes the metric's column required in the header.
func WithMetric(m model.Metric) Option {
	return func(c *Client) {
		if m != "" {
			c.metric = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
