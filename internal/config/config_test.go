package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"

	"github.com/okian/vaxtrack/internal/config"
	"github.com/okian/vaxtrack/internal/domain/model"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.FeedURL, convey.ShouldEqual, config.DefaultFeedURL)
			convey.So(cfg.Metric, convey.ShouldEqual, "total_vaccinations")
			convey.So(cfg.RevalidateInterval, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.DefaultLocation, convey.ShouldEqual, model.WorldLocation)
			convey.So(cfg.LocationValidation, convey.ShouldEqual, "strict")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then parsed accessors resolve", func() {
			convey.So(cfg.MetricValue(), convey.ShouldEqual, model.MetricTotalVaccinations)
			convey.So(cfg.LocaleTag().String(), convey.ShouldEqual, language.English.String())
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"relative feed url":  func(c *config.Config) { c.FeedURL = "vaccinations.csv" },
			"unknown metric":     func(c *config.Config) { c.Metric = "boosters" },
			"bad locale":         func(c *config.Config) { c.Locale = "not a tag!" },
			"zero interval":      func(c *config.Config) { c.RevalidateInterval = 0 },
			"zero fetch timeout": func(c *config.Config) { c.FetchTimeout = 0 },
			"negative retries":   func(c *config.Config) { c.FetchRetries = -1 },
			"bad validation":     func(c *config.Config) { c.LocationValidation = "fuzzy" },
			"bad log format":     func(c *config.Config) { c.LogFormat = "xml" },
		}
		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			if name == "unknown metric" {
				convey.So(errors.Is(err, model.ErrUnknownMetric), convey.ShouldBeTrue)
			}
		}
	})
}
