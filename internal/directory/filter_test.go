package directory

import (
	"net/url"
	"reflect"
	"testing"

	"atlas-service/internal/domain/professional"
	"atlas-service/internal/domain/rating"
	"atlas-service/internal/geo"
)

func testLevels() rating.Levels {
	return rating.Levels{
		"poor":  {Key: "poor", Label: "Poor", Value: 0},
		"great": {Key: "great", Label: "Great", Value: 2},
	}
}

func ptr(f float64) *float64 { return &f }

func roster() []professional.Professional {
	return []professional.Professional{
		{
			ID: "1", FullName: "Dana Reyes", Brokerage: "Harbor Realty",
			Type: professional.TypeAgent, Tags: []string{"luxury"}, Rating: "great",
			SubmittedBy: "mike", ServiceArea: "Brooklyn",
			Latitude: ptr(40.7130), Longitude: ptr(-74.0050),
		},
		{
			ID: "2", FullName: "Sam Okafor", Brokerage: "Metro Group",
			Type: professional.TypeVendor, Tags: []string{"commercial"}, Rating: "poor",
			SubmittedBy: "jess", ServiceArea: "Queens",
			Latitude: ptr(42.0), Longitude: ptr(-71.0),
		},
		{
			ID: "3", FullName: "Lee Tran", Brokerage: "Harbor Realty",
			Type: professional.TypeAgent, Tags: []string{"luxury", "commercial"},
			SubmittedBy: "mike", ServiceArea: "Manhattan",
			// no rating, no coordinates
		},
	}
}

func ids(pros []professional.Professional) []string {
	out := make([]string, len(pros))
	for i, p := range pros {
		out[i] = p.ID
	}
	return out
}

func TestEmptyCriteriaPassThrough(t *testing.T) {
	in := roster()
	got := ComputeVisible(in, Criteria{}, testLevels())
	if !reflect.DeepEqual(got, in) {
		t.Errorf("empty criteria: got %v, want input unchanged", ids(got))
	}
	// A search term alone must not filter: search drives map recentering only.
	got = ComputeVisible(in, Criteria{SearchTerm: "harbor"}, testLevels())
	if !reflect.DeepEqual(got, in) {
		t.Errorf("search term without TextFilter filtered the roster: %v", ids(got))
	}
}

func TestComputeVisiblePredicates(t *testing.T) {
	levels := testLevels()
	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"tag match", Criteria{SelectedTags: []string{"luxury"}}, []string{"1", "3"}},
		{"tag OR semantics", Criteria{SelectedTags: []string{"luxury", "commercial"}}, []string{"1", "2", "3"}},
		{"no tag overlap", Criteria{SelectedTags: []string{"farmland"}}, nil},
		{"type match", Criteria{SelectedTypes: []string{professional.TypeVendor}}, []string{"2"}},
		{"min rating excludes unrated", Criteria{MinRating: "great"}, []string{"1"}},
		{"min rating floor", Criteria{MinRating: "poor"}, []string{"1", "2"}},
		{"unknown threshold matches nothing", Criteria{MinRating: "stellar"}, nil},
		{"ownership exact match", Criteria{MineOnly: true, CurrentUser: "mike"}, []string{"1", "3"}},
		{"ownership is case sensitive", Criteria{MineOnly: true, CurrentUser: "Mike"}, nil},
		{"ownership flag without user is inert", Criteria{MineOnly: true}, []string{"1", "2", "3"}},
		{
			"text filter opt-in",
			Criteria{SearchTerm: "harbor", TextFilter: true},
			[]string{"1", "3"},
		},
		{
			"text filter matches service area",
			Criteria{SearchTerm: "queens", TextFilter: true},
			[]string{"2"},
		},
		{
			"predicates AND together",
			Criteria{SelectedTags: []string{"luxury"}, MineOnly: true, CurrentUser: "mike", MinRating: "great"},
			[]string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(ComputeVisible(roster(), tt.c, levels))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewportStage(t *testing.T) {
	v := geo.Viewport{Latitude: 40.7128, Longitude: -74.0060, Zoom: 10}

	got := ids(ComputeVisible(roster(), Criteria{Viewport: &v}, testLevels()))
	// Entity 1 has explicit coords inside; entity 2 is far away; entity 3 has
	// no real coordinates and must be excluded even though its fallback
	// position lands inside the box.
	if !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("viewport stage: got %v, want [1]", got)
	}

	fb := geo.FallbackPosition("3")
	if !geo.BoundsAround(v).Contains(fb.Latitude, fb.Longitude) {
		t.Fatal("test premise broken: entity 3's fallback position should fall inside the box")
	}
}

func TestIdempotence(t *testing.T) {
	levels := testLevels()
	criteria := []Criteria{
		{},
		{SelectedTags: []string{"luxury"}},
		{MinRating: "great", MineOnly: true, CurrentUser: "mike"},
	}
	for _, c := range criteria {
		once := ComputeVisible(roster(), c, levels)
		twice := ComputeVisible(once, c, levels)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("criteria %+v not idempotent: %v then %v", c, ids(once), ids(twice))
		}
	}
}

func TestRatingThresholdMonotonicity(t *testing.T) {
	levels := testLevels()
	low := ComputeVisible(roster(), Criteria{MinRating: "poor"}, levels)
	high := ComputeVisible(roster(), Criteria{MinRating: "great"}, levels)

	if len(high) > len(low) {
		t.Fatalf("higher threshold returned more entities: %d > %d", len(high), len(low))
	}
	lowIDs := ids(low)
	for _, p := range high {
		if !containsString(lowIDs, p.ID) {
			t.Errorf("entity %s passes the high threshold but not the low one", p.ID)
		}
	}
}

func TestInputNotMutated(t *testing.T) {
	in := roster()
	snapshot := roster()
	ComputeVisible(in, Criteria{SelectedTags: []string{"luxury"}, MinRating: "great"}, testLevels())
	if !reflect.DeepEqual(in, snapshot) {
		t.Error("ComputeVisible mutated its input")
	}
}

func TestCriteriaFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("search", "park slope")
	q.Set("tags", "luxury, commercial ,")
	q.Set("min_rating", "great")
	q.Set("mine", "true")
	q.Set("current_user", "mike")
	q.Set("lat", "40.7")
	q.Set("lng", "-74.0")
	q.Set("zoom", "999")

	c := CriteriaFromQuery(q)
	if c.SearchTerm != "park slope" || c.TextFilter {
		t.Errorf("search parsing wrong: %+v", c)
	}
	if !reflect.DeepEqual(c.SelectedTags, []string{"luxury", "commercial"}) {
		t.Errorf("tags = %v", c.SelectedTags)
	}
	if c.MinRating != "great" || !c.MineOnly || c.CurrentUser != "mike" {
		t.Errorf("criteria fields wrong: %+v", c)
	}
	if c.Viewport == nil {
		t.Fatal("viewport triple should activate the viewport stage")
	}
	if c.Viewport.Zoom != geo.MaxZoom {
		t.Errorf("viewport not clamped: zoom = %v", c.Viewport.Zoom)
	}

	// Partial viewport params do not activate the stage.
	q.Del("zoom")
	if c := CriteriaFromQuery(q); c.Viewport != nil {
		t.Error("viewport stage activated without a full lat/lng/zoom triple")
	}

	if !CriteriaFromQuery(url.Values{}).IsEmpty() {
		t.Error("empty query should parse to empty criteria")
	}
}
