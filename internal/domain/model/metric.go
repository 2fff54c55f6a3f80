package model

import (
	"fmt"
	"strings"
)

// Metric selects which feed column represents vaccination progress.
type Metric string

const (
	// MetricTotalVaccinations is the cumulative number of doses.
	MetricTotalVaccinations Metric = "total_vaccinations"
	// MetricPeopleVaccinated is the number of people with at least one dose.
	MetricPeopleVaccinated Metric = "people_vaccinated"
)

// ParseMetric validates a configured metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricTotalVaccinations, MetricPeopleVaccinated:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}

// Column returns the CSV column name for the metric.
func (m Metric) Column() string { return string(m) }

// Label is the human readable phrase used by the page headline.
func (m Metric) Label() string {
	if m == MetricPeopleVaccinated {
		return "people vaccinated"
	}
	return "vaccine doses administered"
}
