package directory

import (
	"strings"

	"atlas-service/internal/domain/professional"
	"atlas-service/internal/domain/rating"
	"atlas-service/internal/geo"
)

// ComputeVisible derives the visible subset of the roster. Predicates AND
// together; input order is preserved; the input slice is never mutated. An
// entity missing a field an active predicate needs is excluded, never an
// error. Calling it again on its own output with the same criteria returns
// the same list.
func ComputeVisible(entities []professional.Professional, c Criteria, levels rating.Levels) []professional.Professional {
	out := make([]professional.Professional, 0, len(entities))
	for i := range entities {
		if matches(&entities[i], c, levels) {
			out = append(out, entities[i])
		}
	}
	return out
}

func matches(p *professional.Professional, c Criteria, levels rating.Levels) bool {
	if c.TextFilter {
		if term := strings.TrimSpace(c.SearchTerm); term != "" && !matchesText(p, term) {
			return false
		}
	}
	if len(c.SelectedTypes) > 0 && !containsString(c.SelectedTypes, p.Type) {
		return false
	}
	if len(c.SelectedTags) > 0 && !intersects(p.Tags, c.SelectedTags) {
		return false
	}
	if c.MinRating != "" && !meetsMinRating(p.Rating, c.MinRating, levels) {
		return false
	}
	if c.MineOnly && c.CurrentUser != "" && p.SubmittedBy != c.CurrentUser {
		return false
	}
	if c.Viewport != nil && !insideViewport(p, *c.Viewport) {
		return false
	}
	return true
}

// matchesText is a case-insensitive substring match over name, brokerage and
// every service-area string.
func matchesText(p *professional.Professional, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.FullName), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Brokerage), term) {
		return true
	}
	for _, area := range p.AreaStrings() {
		if strings.Contains(strings.ToLower(area), term) {
			return true
		}
	}
	return false
}

// meetsMinRating resolves both keys through the level mapping. An entity
// with no rating, or a rating key the mapping doesn't know, fails whenever a
// threshold is active. An unknown threshold key matches nothing.
func meetsMinRating(entityKey, thresholdKey string, levels rating.Levels) bool {
	threshold, ok := levels.ValueOf(thresholdKey)
	if !ok {
		return false
	}
	value, ok := levels.ValueOf(entityKey)
	if !ok {
		return false
	}
	return value >= threshold
}

// insideViewport admits only records with explicit coordinates inside the
// box. Estimated fallback positions are display-only and deliberately do not
// count here.
func insideViewport(p *professional.Professional, v geo.Viewport) bool {
	if !p.HasCoordinates() {
		return false
	}
	return geo.BoundsAround(v).Contains(*p.Latitude, *p.Longitude)
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func intersects(a []string, b []string) bool {
	for _, v := range a {
		if containsString(b, v) {
			return true
		}
	}
	return false
}
