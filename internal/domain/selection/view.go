package selection

import "github.com/okian/vaxtrack/internal/domain/model"

// View is everything the presentation layer needs to render a page.
type View struct {
	Summaries     []model.Summary      `json:"summaries"`
	PickerOptions []model.PickerOption `json:"picker_options"`
	// Current is nil when the selected location has no summary.
	Current  *model.Summary `json:"current"`
	Selected string         `json:"selected"`
	Heading  string         `json:"heading"`
	ShareURL string         `json:"share_url"`
}

// View builds the view model for the current state. ShareURL is the URL
// last pushed through an attached QuerySync, or the canonical location
// URL when nothing was pushed.
func (c *Controller) View() View {
	v := View{
		Summaries:     c.summaries,
		PickerOptions: c.picker,
		Selected:      c.selected,
		Heading:       Heading(c.selected),
		ShareURL:      LocationURL("/", c.selected),
	}
	if s, ok := c.sync.(*QuerySync); ok && s.Latest() != "" {
		v.ShareURL = s.Latest()
	}
	if cur, ok := c.Current(); ok {
		v.Current = &cur
	}
	return v
}

// Heading phrases a location for the page headline.
func Heading(location string) string {
	if location == model.WorldLocation {
		return "worldwide"
	}
	return "in " + location
}
