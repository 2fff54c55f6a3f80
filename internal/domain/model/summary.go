// Package model holds the vaccination feed and summary types shared by
// the normalizer, the selection controller and the HTTP adapters.
package model

import (
	"strings"
	"time"
)

// WorldLocation is the aggregate location selected by default.
const WorldLocation = "World"

// LocationColumn is the CSV column carrying the place name.
const LocationColumn = "location"

// RawRecord is one feed row: column name -> raw string value.
type RawRecord map[string]string

// Location returns the trimmed location column.
func (r RawRecord) Location() string {
	return strings.TrimSpace(r[LocationColumn])
}

// Value returns the trimmed value of column, empty when absent.
func (r RawRecord) Value(column string) string {
	return strings.TrimSpace(r[column])
}

// Summary is the normalized per-location display record.
type Summary struct {
	ID            string `json:"id"`
	Location      string `json:"location"`
	Value         int64  `json:"value"`
	MetricDisplay string `json:"metric_display"`
}

// PickerOption is one entry of the location picker.
type PickerOption struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}

// Snapshot is the result of a single normalization run. It is not
// mutated after creation; use Clone when handing it out.
type Snapshot struct {
	Summaries []Summary `json:"summaries"`
	Metric    Metric    `json:"metric"`
	FetchedAt time.Time `json:"fetched_at"`
	SourceURL string    `json:"source_url,omitempty"`
}

// Clone returns a copy whose Summaries slice does not alias s.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Summaries != nil {
		out.Summaries = make([]Summary, len(s.Summaries))
		copy(out.Summaries, s.Summaries)
	}
	return out
}

// Len returns the number of locations in the snapshot.
func (s Snapshot) Len() int { return len(s.Summaries) }
