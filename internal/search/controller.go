// Package search owns free-text location search and the map viewport state
// machine. It is deliberately transport-free: the WebSocket layer, a CLI, or
// a test drives it through plain method calls and receives results through
// callbacks. Searching a location recenters the map; it never filters the
// roster (that contract lives in internal/directory).
package search

import (
	"context"
	"math"
	"sync"
	"time"

	"atlas-service/internal/geo"
)

const (
	// DefaultDebounce restarts on every keystroke; only the last query in a
	// burst reaches the suggestion provider.
	DefaultDebounce = 300 * time.Millisecond

	// MinQueryLen below which suggestions are cleared with no network I/O.
	MinQueryLen = 3

	// StreetZoom is applied when the user picks a concrete suggestion.
	StreetZoom = 14.0

	defaultRequestTimeout = 15 * time.Second
)

// Suggestion is one candidate returned by the suggestion provider.
type Suggestion struct {
	ID         string   `json:"id"`
	PlaceName  string   `json:"place_name"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	PlaceTypes []string `json:"place_types,omitempty"`
}

// Location is a resolved search-commit result.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
}

// Suggester produces address suggestions for a partial query.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]Suggestion, error)
}

// Resolver resolves a committed free-text query to a single location.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Location, error)
}

// Callbacks deliver controller output. Nil entries are skipped. Callbacks run
// while the controller lock is held, so they must not call back in.
type Callbacks struct {
	// OnSuggestions fires with the current suggestion list, including the
	// empty list when suggestions are cleared.
	OnSuggestions func([]Suggestion)
	// OnViewport fires with every committed (validated, clamped) viewport.
	OnViewport func(geo.Viewport)
	// OnResize fires exactly once, after the map reports loaded.
	OnResize func()
	// OnError surfaces non-fatal failures (suggestion fetch, commit miss).
	OnError func(error)
}

// Controller is the per-session search and viewport state machine. All
// methods are safe for concurrent use. Close releases the debounce timer;
// a closed controller discards any in-flight results.
type Controller struct {
	suggester Suggester
	resolver  Resolver
	cb        Callbacks
	debounce  time.Duration
	timeout   time.Duration

	mu        sync.Mutex
	term      string
	viewport  geo.Viewport
	timer     *time.Timer
	seq       uint64 // identifies the newest scheduled suggestion fetch
	mapLoaded bool
	resized   bool
	closed    bool
}

// Option tweaks controller construction.
type Option func(*Controller)

// WithDebounce overrides the debounce interval (tests use a short one).
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithRequestTimeout bounds each provider call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// NewController builds a controller at the default viewport.
func NewController(suggester Suggester, resolver Resolver, cb Callbacks, opts ...Option) *Controller {
	c := &Controller{
		suggester: suggester,
		resolver:  resolver,
		cb:        cb,
		debounce:  DefaultDebounce,
		timeout:   defaultRequestTimeout,
		viewport:  geo.DefaultViewport(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSearchInput records a keystroke. Short queries clear suggestions
// immediately; longer ones restart the debounce timer, cancelling whatever
// fetch was pending.
func (c *Controller) SetSearchInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.term = text
	c.seq++ // supersede any pending or in-flight fetch
	c.stopTimerLocked()

	if len(text) < MinQueryLen {
		c.emitSuggestionsLocked(nil)
		return
	}

	seq := c.seq
	query := text
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fetchSuggestions(seq, query)
	})
}

// fetchSuggestions runs off the timer goroutine. Results commit only if no
// newer keystroke arrived while the request was in flight.
func (c *Controller) fetchSuggestions(seq uint64, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	suggestions, err := c.suggester.Suggest(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		return // stale response, a newer keystroke owns the suggestion list
	}
	if err != nil {
		c.emitErrorLocked(err)
		c.emitSuggestionsLocked(nil)
		return
	}
	c.emitSuggestionsLocked(suggestions)
}

// SelectSuggestion recenters the map on the chosen place at street-level zoom
// and closes the suggestion list. It does not touch any filter criteria.
func (c *Controller) SelectSuggestion(s Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.term = s.PlaceName
	c.seq++
	c.stopTimerLocked()
	c.emitSuggestionsLocked(nil)
	c.setViewportLocked(geo.Viewport{Latitude: s.Latitude, Longitude: s.Longitude, Zoom: StreetZoom})
}

// CommitSearch resolves the current term on explicit submission. On failure
// the viewport stays where it was and the error surfaces through OnError; the
// term remains editable.
func (c *Controller) CommitSearch(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	term := c.term
	c.seq++
	c.stopTimerLocked()
	c.emitSuggestionsLocked(nil)
	c.mu.Unlock()

	if term == "" {
		return
	}

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	loc, err := c.resolver.Resolve(rctx, term)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if err != nil {
		c.emitErrorLocked(err)
		return
	}
	c.setViewportLocked(geo.Viewport{Latitude: loc.Latitude, Longitude: loc.Longitude, Zoom: loc.Zoom})
}

// ViewportPatch updates a subset of viewport fields. Nil fields keep their
// current value.
type ViewportPatch struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Zoom      *float64 `json:"zoom"`
}

// UpdateViewport applies a drag/zoom event. Non-finite fields are rejected
// (the prior value is kept) and the result is clamped before committing.
func (c *Controller) UpdateViewport(patch ViewportPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	next := c.viewport
	if patch.Latitude != nil && !math.IsNaN(*patch.Latitude) && !math.IsInf(*patch.Latitude, 0) {
		next.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil && !math.IsNaN(*patch.Longitude) && !math.IsInf(*patch.Longitude, 0) {
		next.Longitude = *patch.Longitude
	}
	if patch.Zoom != nil && !math.IsNaN(*patch.Zoom) && !math.IsInf(*patch.Zoom, 0) {
		next.Zoom = *patch.Zoom
	}
	c.setViewportLocked(next)
}

// Viewport returns the current committed viewport.
func (c *Controller) Viewport() geo.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// SearchTerm returns the raw text as last typed or selected.
func (c *Controller) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term
}

// MarkMapLoaded records the widget's load event. The first call triggers one
// deferred resize; embedded map widgets routinely misreport their size until
// resized after load. Further calls are no-ops.
func (c *Controller) MarkMapLoaded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.mapLoaded = true
	if !c.resized {
		c.resized = true
		if c.cb.OnResize != nil {
			c.cb.OnResize()
		}
	}
}

// MapLoaded gates marker/overlay pushes and imperative map calls.
func (c *Controller) MapLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mapLoaded
}

// Close stops the debounce timer and drops all future work. Safe to call
// more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.seq++
	c.stopTimerLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) setViewportLocked(v geo.Viewport) {
	c.viewport = v.Clamp()
	if c.cb.OnViewport != nil {
		c.cb.OnViewport(c.viewport)
	}
}

func (c *Controller) emitSuggestionsLocked(s []Suggestion) {
	if c.cb.OnSuggestions != nil {
		if s == nil {
			s = []Suggestion{}
		}
		c.cb.OnSuggestions(s)
	}
}

func (c *Controller) emitErrorLocked(err error) {
	if c.cb.OnError != nil {
		c.cb.OnError(err)
	}
}
