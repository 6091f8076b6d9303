// Package geo holds the map-facing geometry: viewport validation, the
// estimated-position fallback for ungeocoded records, and the decorative
// coverage polygons. Nothing here talks to a real geocoder.
package geo

import "math"

// Viewport bounds. Latitude stops at the web-mercator limit, not the poles.
const (
	MinLatitude  = -85.0
	MaxLatitude  = 85.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinZoom      = 0.0
	MaxZoom      = 22.0
)

// Default center: lower Manhattan, matching the seed data's market.
const (
	DefaultLatitude  = 40.7128
	DefaultLongitude = -74.0060
	DefaultZoom      = 10.0
)

// Viewport is the map's current center and zoom.
type Viewport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
}

// DefaultViewport returns the initial map state.
func DefaultViewport() Viewport {
	return Viewport{Latitude: DefaultLatitude, Longitude: DefaultLongitude, Zoom: DefaultZoom}
}

// Clamp forces every field into documented bounds. Non-finite values are
// replaced with defaults rather than propagated; a malformed map event must
// never poison the viewport.
func (v Viewport) Clamp() Viewport {
	v.Latitude = clampFinite(v.Latitude, MinLatitude, MaxLatitude, DefaultLatitude)
	v.Longitude = clampFinite(v.Longitude, MinLongitude, MaxLongitude, DefaultLongitude)
	v.Zoom = clampFinite(v.Zoom, MinZoom, MaxZoom, DefaultZoom)
	return v
}

// Valid reports whether every field is finite and within bounds.
func (v Viewport) Valid() bool {
	return finiteIn(v.Latitude, MinLatitude, MaxLatitude) &&
		finiteIn(v.Longitude, MinLongitude, MaxLongitude) &&
		finiteIn(v.Zoom, MinZoom, MaxZoom)
}

// Bounds is the axis-aligned box the viewport covers.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// BoundsAround derives the visible box from the center and zoom. The offset
// halves with each zoom step, so higher zoom means a tighter box.
func BoundsAround(v Viewport) Bounds {
	offset := 0.1 / math.Pow(2, v.Zoom-10)
	return Bounds{
		North: v.Latitude + offset,
		South: v.Latitude - offset,
		East:  v.Longitude + offset,
		West:  v.Longitude - offset,
	}
}

// Contains reports whether the point falls inside the box, edges included.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

func clampFinite(v, min, max, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func finiteIn(v, min, max float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= min && v <= max
}
