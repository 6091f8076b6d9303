// Package directory is the filtering core every roster screen shares: a pure
// predicate pipeline over the fetched professional list. It does no I/O and
// never mutates its inputs, so callers can re-run it on every criteria change.
package directory

import (
	"net/url"
	"strconv"
	"strings"

	"atlas-service/internal/geo"
)

// Criteria is the current set of active predicates. Zero-valued fields impose
// no constraint. Criteria are session-scoped and never persisted.
type Criteria struct {
	// SearchTerm is the free-text location query. On its own it only drives
	// map recentering; it filters the roster only when TextFilter is set.
	SearchTerm string
	TextFilter bool

	// SelectedTypes uses the legacy role model (agent/buyer/vendor), exact
	// match, OR within the set.
	SelectedTypes []string

	// SelectedTags matches when the entity's tag set intersects it.
	SelectedTags []string

	// MinRating is a rating key; both sides resolve through the rating-level
	// mapping before comparison.
	MinRating string

	// MineOnly restricts to records whose submitted_by equals CurrentUser,
	// byte for byte. Weak identity, not authentication.
	MineOnly    bool
	CurrentUser string

	// Viewport, when non-nil, keeps only records whose explicit coordinates
	// fall inside the viewport's box. Records without real coordinates are
	// excluded; the estimated fallback position never feeds this stage.
	Viewport *geo.Viewport
}

// IsEmpty reports whether no predicate is active.
func (c Criteria) IsEmpty() bool {
	return !(c.TextFilter && strings.TrimSpace(c.SearchTerm) != "") &&
		len(c.SelectedTypes) == 0 &&
		len(c.SelectedTags) == 0 &&
		c.MinRating == "" &&
		!(c.MineOnly && c.CurrentUser != "") &&
		c.Viewport == nil
}

// CriteriaFromQuery parses the GET /agents query surface. Recognized params:
// search, text_filter, types, tags (comma-separated), min_rating, mine,
// current_user, and the viewport triple lat/lng/zoom (all three required for
// the viewport stage to activate; the parsed viewport is clamped).
func CriteriaFromQuery(q url.Values) Criteria {
	c := Criteria{
		SearchTerm:    q.Get("search"),
		TextFilter:    q.Get("text_filter") == "true",
		SelectedTypes: splitList(q.Get("types")),
		SelectedTags:  splitList(q.Get("tags")),
		MinRating:     q.Get("min_rating"),
		MineOnly:      q.Get("mine") == "true",
		CurrentUser:   q.Get("current_user"),
	}

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	zoom, zoomErr := strconv.ParseFloat(q.Get("zoom"), 64)
	if latErr == nil && lngErr == nil && zoomErr == nil {
		v := geo.Viewport{Latitude: lat, Longitude: lng, Zoom: zoom}.Clamp()
		c.Viewport = &v
	}
	return c
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
