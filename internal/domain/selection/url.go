package selection

import (
	"net/url"
	"strings"
)

// Query parameters of the page URL.
const (
	// LocationParam carries the selected location and is the shareable
	// part of the URL.
	LocationParam = "location"
	// PickParam carries a location chosen in the picker. It never
	// survives into a shareable URL.
	PickParam = "pick"
)

// LocationFromQuery returns the location parameter, empty when absent.
func LocationFromQuery(q url.Values) string {
	return strings.TrimSpace(q.Get(LocationParam))
}

// PickFromQuery returns the picker parameter, empty when absent.
func PickFromQuery(q url.Values) string {
	return strings.TrimSpace(q.Get(PickParam))
}

// LocationURL returns path with the location parameter set, e.g.
// "/?location=United+States". An empty location yields path unchanged.
func LocationURL(path, location string) string {
	if location == "" {
		return path
	}
	return path + "?" + url.Values{LocationParam: []string{location}}.Encode()
}

// QuerySync is a URLSync that rewrites the location parameter of a URL
// in place and keeps every pushed URL, newest last, like a browser
// history stack. Other query parameters are preserved.
type QuerySync struct {
	URL     *url.URL
	History []string
}

// NewQuerySync starts from a copy of u without the picker parameter.
func NewQuerySync(u *url.URL) *QuerySync {
	cp := *u
	q := cp.Query()
	q.Del(PickParam)
	cp.RawQuery = q.Encode()
	return &QuerySync{URL: &cp}
}

// PushLocation implements URLSync.
func (s *QuerySync) PushLocation(location string) {
	q := s.URL.Query()
	q.Set(LocationParam, location)
	s.URL.RawQuery = q.Encode()
	s.History = append(s.History, s.URL.RequestURI())
}

// Latest returns the most recently pushed URL, empty before any push.
func (s *QuerySync) Latest() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1]
}

// Apply feeds a page request's query into c: the location parameter is
// the inbound URL state and the picker parameter, when present, a
// selection made on top of it. It reports whether a picker selection
// changed the state.
func Apply(c *Controller, q url.Values) bool {
	c.OnExternalLocationChange(LocationFromQuery(q))
	if pick := PickFromQuery(q); pick != "" {
		return c.Select(pick)
	}
	return false
}
