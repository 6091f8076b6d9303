package search

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"atlas-service/internal/geo"
)

// fakeSuggester records every query it receives and can delay responses to
// simulate slow networks.
type fakeSuggester struct {
	mu      sync.Mutex
	queries []string
	delay   time.Duration
	err     error
}

func (f *fakeSuggester) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	delay, err := f.delay, f.err
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []Suggestion{{ID: "s-" + query, PlaceName: query + ", NY", Latitude: 40.7, Longitude: -74.0}}, nil
}

func (f *fakeSuggester) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakeResolver struct {
	loc Location
	err error
}

func (f *fakeResolver) Resolve(ctx context.Context, query string) (Location, error) {
	if f.err != nil {
		return Location{}, f.err
	}
	return f.loc, nil
}

// collector gathers callback output behind a lock.
type collector struct {
	mu          sync.Mutex
	suggestions [][]Suggestion
	viewports   []geo.Viewport
	errs        []error
	resizes     int
}

func (c *collector) callbacks() Callbacks {
	return Callbacks{
		OnSuggestions: func(s []Suggestion) {
			c.mu.Lock()
			c.suggestions = append(c.suggestions, s)
			c.mu.Unlock()
		},
		OnViewport: func(v geo.Viewport) {
			c.mu.Lock()
			c.viewports = append(c.viewports, v)
			c.mu.Unlock()
		},
		OnResize: func() {
			c.mu.Lock()
			c.resizes++
			c.mu.Unlock()
		},
		OnError: func(err error) {
			c.mu.Lock()
			c.errs = append(c.errs, err)
			c.mu.Unlock()
		},
	}
}

func (c *collector) lastSuggestions() []Suggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.suggestions) == 0 {
		return nil
	}
	return c.suggestions[len(c.suggestions)-1]
}

func (c *collector) errorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errs)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	sugg := &fakeSuggester{}
	col := &collector{}
	c := NewController(sugg, &fakeResolver{}, col.callbacks(), WithDebounce(30*time.Millisecond))
	defer c.Close()

	// "ab" is below the minimum length: cleared immediately, no I/O.
	// "abc" then "abcd" land inside one debounce window: only "abcd" may
	// reach the provider.
	c.SetSearchInput("ab")
	c.SetSearchInput("abc")
	time.Sleep(5 * time.Millisecond)
	c.SetSearchInput("abcd")

	waitFor(t, "suggestion fetch", func() bool { return len(sugg.calls()) > 0 })
	time.Sleep(60 * time.Millisecond) // catch any straggler fetch for "abc"

	calls := sugg.calls()
	if len(calls) != 1 || calls[0] != "abcd" {
		t.Errorf("provider calls = %v, want exactly [abcd]", calls)
	}
	waitFor(t, "suggestion callback", func() bool { return len(col.lastSuggestions()) == 1 })
}

func TestShortQueryClearsWithoutNetwork(t *testing.T) {
	sugg := &fakeSuggester{}
	col := &collector{}
	c := NewController(sugg, &fakeResolver{}, col.callbacks(), WithDebounce(10*time.Millisecond))
	defer c.Close()

	c.SetSearchInput("br")
	time.Sleep(40 * time.Millisecond)

	if calls := sugg.calls(); len(calls) != 0 {
		t.Errorf("short query reached the provider: %v", calls)
	}
	if got := col.lastSuggestions(); got == nil || len(got) != 0 {
		t.Errorf("short query should emit an explicit empty suggestion list, got %v", got)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	// The first query's response comes back slowly; by then a newer
	// keystroke owns the suggestion list, so the slow result must be dropped.
	sugg := &fakeSuggester{delay: 80 * time.Millisecond}
	col := &collector{}
	c := NewController(sugg, &fakeResolver{}, col.callbacks(), WithDebounce(5*time.Millisecond))
	defer c.Close()

	c.SetSearchInput("brooklyn")
	waitFor(t, "first fetch to start", func() bool { return len(sugg.calls()) == 1 })

	sugg.mu.Lock()
	sugg.delay = 0
	sugg.mu.Unlock()
	c.SetSearchInput("manhattan")

	waitFor(t, "fresh suggestions", func() bool {
		s := col.lastSuggestions()
		return len(s) == 1 && s[0].ID == "s-manhattan"
	})
	time.Sleep(120 * time.Millisecond) // let the slow brooklyn response land

	if s := col.lastSuggestions(); len(s) != 1 || s[0].ID != "s-manhattan" {
		t.Errorf("stale response overwrote fresh suggestions: %v", s)
	}
}

func TestSelectSuggestionRecentersOnly(t *testing.T) {
	col := &collector{}
	c := NewController(&fakeSuggester{}, &fakeResolver{}, col.callbacks(), WithDebounce(5*time.Millisecond))
	defer c.Close()

	c.SelectSuggestion(Suggestion{ID: "x", PlaceName: "Park Slope, Brooklyn, NY", Latitude: 40.671, Longitude: -73.977})

	v := c.Viewport()
	if v.Latitude != 40.671 || v.Longitude != -73.977 || v.Zoom != StreetZoom {
		t.Errorf("viewport after selection = %+v", v)
	}
	if c.SearchTerm() != "Park Slope, Brooklyn, NY" {
		t.Errorf("term = %q", c.SearchTerm())
	}
	if got := col.lastSuggestions(); len(got) != 0 {
		t.Errorf("suggestion list should be closed after selection, got %v", got)
	}
}

func TestCommitSearch(t *testing.T) {
	t.Run("success recenters", func(t *testing.T) {
		col := &collector{}
		res := &fakeResolver{loc: Location{Latitude: 34.05, Longitude: -118.24, Zoom: 12}}
		c := NewController(&fakeSuggester{}, res, col.callbacks())
		defer c.Close()

		c.SetSearchInput("lo") // below min length, no fetch scheduled
		c.SetSearchInput("los angeles")
		c.CommitSearch(context.Background())

		v := c.Viewport()
		if v.Latitude != 34.05 || v.Longitude != -118.24 || v.Zoom != 12 {
			t.Errorf("viewport after commit = %+v", v)
		}
	})

	t.Run("failure leaves viewport unchanged", func(t *testing.T) {
		col := &collector{}
		res := &fakeResolver{err: errors.New("no result")}
		c := NewController(&fakeSuggester{}, res, col.callbacks())
		defer c.Close()

		before := c.Viewport()
		c.SetSearchInput("nowhere at all")
		c.CommitSearch(context.Background())

		if got := c.Viewport(); got != before {
			t.Errorf("failed commit moved the viewport: %+v -> %+v", before, got)
		}
		if col.errorCount() != 1 {
			t.Errorf("expected one surfaced error, got %d", col.errorCount())
		}
		if c.SearchTerm() != "nowhere at all" {
			t.Error("term must stay editable after a failed commit")
		}
	})

	t.Run("empty term is a no-op", func(t *testing.T) {
		col := &collector{}
		res := &fakeResolver{loc: Location{Latitude: 1, Longitude: 1, Zoom: 1}}
		c := NewController(&fakeSuggester{}, res, col.callbacks())
		defer c.Close()

		before := c.Viewport()
		c.CommitSearch(context.Background())
		if got := c.Viewport(); got != before {
			t.Errorf("empty commit moved the viewport: %+v", got)
		}
	})
}

func TestUpdateViewportValidation(t *testing.T) {
	c := NewController(&fakeSuggester{}, &fakeResolver{}, Callbacks{})
	defer c.Close()

	f := func(v float64) *float64 { return &v }

	// Malformed event: lat out of range, NaN longitude, negative zoom.
	c.UpdateViewport(ViewportPatch{Latitude: f(999), Longitude: f(math.NaN()), Zoom: f(-5)})

	v := c.Viewport()
	if v.Latitude != geo.MaxLatitude {
		t.Errorf("latitude = %v, want clamped to %v", v.Latitude, geo.MaxLatitude)
	}
	if v.Longitude != geo.DefaultLongitude {
		t.Errorf("NaN longitude should keep prior value %v, got %v", geo.DefaultLongitude, v.Longitude)
	}
	if v.Zoom != geo.MinZoom {
		t.Errorf("zoom = %v, want clamped to %v", v.Zoom, geo.MinZoom)
	}
	if !v.Valid() {
		t.Errorf("viewport invalid after malformed update: %+v", v)
	}

	// Partial patch keeps the other fields.
	c.UpdateViewport(ViewportPatch{Zoom: f(13)})
	if got := c.Viewport(); got.Zoom != 13 || got.Latitude != geo.MaxLatitude {
		t.Errorf("partial patch mangled viewport: %+v", got)
	}
}

func TestMapLifecycleResizesOnce(t *testing.T) {
	col := &collector{}
	c := NewController(&fakeSuggester{}, &fakeResolver{}, col.callbacks())
	defer c.Close()

	if c.MapLoaded() {
		t.Error("map must start unloaded")
	}
	c.MarkMapLoaded()
	c.MarkMapLoaded()
	c.MarkMapLoaded()

	if !c.MapLoaded() {
		t.Error("map should report loaded")
	}
	col.mu.Lock()
	resizes := col.resizes
	col.mu.Unlock()
	if resizes != 1 {
		t.Errorf("resize fired %d times, want exactly 1", resizes)
	}
}

func TestCloseDropsPendingWork(t *testing.T) {
	sugg := &fakeSuggester{delay: 50 * time.Millisecond}
	col := &collector{}
	c := NewController(sugg, &fakeResolver{}, col.callbacks(), WithDebounce(5*time.Millisecond))

	c.SetSearchInput("brooklyn")
	waitFor(t, "fetch to start", func() bool { return len(sugg.calls()) == 1 })
	c.Close()
	time.Sleep(100 * time.Millisecond)

	if got := col.lastSuggestions(); len(got) != 0 {
		t.Errorf("closed controller delivered suggestions: %v", got)
	}

	// Everything after Close is inert.
	c.SetSearchInput("manhattan")
	c.UpdateViewport(ViewportPatch{})
	c.CommitSearch(context.Background())
	time.Sleep(30 * time.Millisecond)
	if calls := sugg.calls(); len(calls) != 1 {
		t.Errorf("closed controller scheduled work: %v", calls)
	}
}
