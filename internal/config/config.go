// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"net/url"
	"time"

	"golang.org/x/text/language"

	"github.com/okian/vaxtrack/internal/domain/model"
)

// DefaultFeedURL is the public Our World in Data vaccinations CSV.
const DefaultFeedURL = "https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/vaccinations/vaccinations.csv"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// FeedURL is the CSV feed location.
	FeedURL string `koanf:"feed_url"`

	// Metric selects the feed column: total_vaccinations or people_vaccinated.
	Metric string `koanf:"metric"`

	// Locale is a BCP 47 tag used to group digits, e.g. "en" or "de".
	Locale string `koanf:"locale"`

	// RevalidateInterval is the time between feed refreshes.
	RevalidateInterval time.Duration `koanf:"revalidate_interval"`

	// FetchTimeout bounds a single feed request.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// FetchRetries is the number of extra attempts after a failed request.
	FetchRetries int `koanf:"fetch_retries"`

	// UserAgent is sent with feed requests.
	UserAgent string `koanf:"user_agent"`

	// DefaultLocation is selected when the URL names none.
	DefaultLocation string `koanf:"default_location"`

	// LocationValidation is strict (known locations only) or loose.
	LocationValidation string `koanf:"location_validation"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		FeedURL:            DefaultFeedURL,
		Metric:             string(model.MetricTotalVaccinations),
		Locale:             "en",
		RevalidateInterval: 5 * time.Minute,
		FetchTimeout:       30 * time.Second,
		FetchRetries:       2,
		UserAgent:          "vaxtrack/1.0",
		DefaultLocation:    model.WorldLocation,
		LocationValidation: "strict",
	}
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.FeedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: feed_url %q is not an absolute URL", ErrInvalidConfig, c.FeedURL)
	}
	if _, err := model.ParseMetric(c.Metric); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %w", ErrInvalidConfig, c.Locale, err)
	}
	if c.RevalidateInterval <= 0 {
		return fmt.Errorf("%w: revalidate_interval must be positive", ErrInvalidConfig)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: fetch_timeout must be positive", ErrInvalidConfig)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("%w: fetch_retries must not be negative", ErrInvalidConfig)
	}
	switch c.LocationValidation {
	case "strict", "loose":
	default:
		return fmt.Errorf("%w: location_validation must be strict or loose, got %q", ErrInvalidConfig, c.LocationValidation)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// MetricValue returns the parsed metric. Call after Validate.
func (c *Config) MetricValue() model.Metric {
	m, err := model.ParseMetric(c.Metric)
	if err != nil {
		return model.MetricTotalVaccinations
	}
	return m
}

// LocaleTag returns the parsed locale, English when unparseable.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
