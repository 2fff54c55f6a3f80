// Package selection holds the "which location is shown" state of a page
// view and keeps it in step with the shareable location URL parameter.
//
// The Controller is pure state: it never touches a URL itself. Selecting
// a location calls the attached URLSync effect; inbound URL changes are
// fed back through OnExternalLocationChange. A Controller belongs to one
// view and is not safe for concurrent use.
package selection

import (
	"fmt"
	"sort"

	"github.com/okian/vaxtrack/internal/domain/model"
)

// Origins passed to the unknown-location hook.
const (
	OriginPicker = "picker"
	OriginURL    = "url"
)

// URLSync mirrors a selection into the URL without reloading the page.
type URLSync interface {
	PushLocation(location string)
}

// Controller resolves the selected location against an immutable
// summary list.
type Controller struct {
	summaries  []model.Summary
	index      map[string]int
	picker     []model.PickerOption
	selected   string
	validation Validation
	sync       URLSync
	onUnknown  func(origin, location string)
}

// NewController creates a Controller over summaries, selecting
// model.WorldLocation until told otherwise. summaries must not be
// modified afterwards.
func NewController(summaries []model.Summary, opts ...Option) *Controller {
	c := &Controller{
		summaries:  summaries,
		index:      make(map[string]int, len(summaries)),
		selected:   model.WorldLocation,
		validation: Strict,
	}
	for _, opt := range opts {
		opt(c)
	}
	for i, s := range summaries {
		if _, dup := c.index[s.Location]; !dup {
			c.index[s.Location] = i
		}
	}
	c.picker = buildPicker(summaries)
	return c
}

// Selected returns the selected location name. It may name a location
// without a summary (default on an empty list, or Loose validation).
func (c *Controller) Selected() string { return c.selected }

// Known reports whether location has a summary.
func (c *Controller) Known(location string) bool {
	_, ok := c.index[location]
	return ok
}

// Validate returns ErrUnknownLocation if location has no summary.
func (c *Controller) Validate(location string) error {
	if !c.Known(location) {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}
	return nil
}

// Current returns the summary of the selected location, if any.
func (c *Controller) Current() (model.Summary, bool) {
	i, ok := c.index[c.selected]
	if !ok {
		return model.Summary{}, false
	}
	return c.summaries[i], true
}

// Select is the picker path: it adopts location if the validation policy
// allows it and pushes the new selection to the URL. It returns true when
// the selection changed.
func (c *Controller) Select(location string) bool {
	if !c.accepts(location) {
		c.unknown(OriginPicker, location)
		return false
	}
	if location == c.selected {
		return false
	}
	c.selected = location
	if c.sync != nil {
		c.sync.PushLocation(location)
	}
	return true
}

// OnExternalLocationChange adopts a location coming from the URL,
// including the initial load of a shared link. Empty or rejected values
// keep the current selection. The URL is not written back.
func (c *Controller) OnExternalLocationChange(param string) bool {
	if param == "" {
		return false
	}
	if !c.accepts(param) {
		c.unknown(OriginURL, param)
		return false
	}
	if param == c.selected {
		return false
	}
	c.selected = param
	return true
}

// PickerOptions returns every (id, location) pair ordered by location
// name. The returned slice is shared; callers must not modify it.
func (c *Controller) PickerOptions() []model.PickerOption { return c.picker }

func (c *Controller) accepts(location string) bool {
	if location == "" {
		return false
	}
	if c.validation == Loose {
		return true
	}
	return c.Known(location)
}

func (c *Controller) unknown(origin, location string) {
	if c.onUnknown != nil {
		c.onUnknown(origin, location)
	}
}

func buildPicker(summaries []model.Summary) []model.PickerOption {
	out := make([]model.PickerOption, len(summaries))
	for i, s := range summaries {
		out[i] = model.PickerOption{ID: s.ID, Location: s.Location}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Location < out[j].Location
	})
	return out
}
