package geo

import (
	"math"
	"testing"
)

func TestViewportClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Viewport
		want Viewport
	}{
		{"in bounds untouched", Viewport{40.7, -74.0, 10}, Viewport{40.7, -74.0, 10}},
		{"latitude too high", Viewport{999, -74.0, 10}, Viewport{85, -74.0, 10}},
		{"latitude too low", Viewport{-999, -74.0, 10}, Viewport{-85, -74.0, 10}},
		{"longitude wraps to edge", Viewport{40.7, 200, 10}, Viewport{40.7, 180, 10}},
		{"negative zoom", Viewport{40.7, -74.0, -5}, Viewport{40.7, -74.0, 0}},
		{"zoom too high", Viewport{40.7, -74.0, 30}, Viewport{40.7, -74.0, 22}},
		{"NaN longitude defaults", Viewport{40.7, math.NaN(), 10}, Viewport{40.7, DefaultLongitude, 10}},
		{"Inf latitude defaults", Viewport{math.Inf(1), -74.0, 10}, Viewport{DefaultLatitude, -74.0, 10}},
		{
			"everything malformed",
			Viewport{999, math.NaN(), -5},
			Viewport{85, DefaultLongitude, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp()
			if got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if !got.Valid() {
				t.Errorf("Clamp(%+v) = %+v is not Valid", tt.in, got)
			}
		})
	}
}

func TestBoundsShrinkWithZoom(t *testing.T) {
	center := Viewport{Latitude: 40.7128, Longitude: -74.0060, Zoom: 10}

	b10 := BoundsAround(center)
	if got := b10.North - b10.South; math.Abs(got-0.2) > 1e-9 {
		t.Errorf("zoom 10 box height = %v, want 0.2", got)
	}

	center.Zoom = 12
	b12 := BoundsAround(center)
	if b12.North-b12.South >= b10.North-b10.South {
		t.Error("higher zoom should produce a tighter box")
	}
	if got := b12.North - b12.South; math.Abs(got-0.05) > 1e-9 {
		t.Errorf("zoom 12 box height = %v, want 0.05", got)
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{North: 41, South: 40, East: -73, West: -75}

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"center", 40.5, -74, true},
		{"north edge", 41, -74, true},
		{"west edge", 40.5, -75, true},
		{"north of box", 41.01, -74, false},
		{"east of box", 40.5, -72.9, false},
		{"far away", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}
