package geo

import (
	"testing"

	"atlas-service/internal/domain/professional"
)

func TestFallbackPositionDeterministic(t *testing.T) {
	a := FallbackPosition("01J8ZQ4X9GVN5T2M7K3W8R1DCE")
	b := FallbackPosition("01J8ZQ4X9GVN5T2M7K3W8R1DCE")
	if a != b {
		t.Errorf("same ID produced different positions: %+v vs %+v", a, b)
	}
	if !a.Estimated {
		t.Error("fallback position must be marked estimated")
	}

	// Must land in the fallback neighborhood: ±0.05 degrees of the default center.
	if a.Latitude < DefaultLatitude-0.051 || a.Latitude > DefaultLatitude+0.051 {
		t.Errorf("fallback latitude %v outside expected neighborhood", a.Latitude)
	}
	if a.Longitude < DefaultLongitude-0.051 || a.Longitude > DefaultLongitude+0.051 {
		t.Errorf("fallback longitude %v outside expected neighborhood", a.Longitude)
	}

	if c := FallbackPosition("completely-different-id"); c == a {
		t.Error("distinct IDs should usually map to distinct positions")
	}
}

func TestEffectivePosition(t *testing.T) {
	lat, lng := 34.05, -118.24

	geocoded := professional.Professional{ID: "p1", Latitude: &lat, Longitude: &lng}
	got := EffectivePosition(&geocoded)
	if got.Estimated {
		t.Error("explicit coordinates must not be marked estimated")
	}
	if got.Latitude != lat || got.Longitude != lng {
		t.Errorf("EffectivePosition = %+v, want explicit coords", got)
	}

	// Only one coordinate present still counts as ungeocoded.
	partial := professional.Professional{ID: "p2", Latitude: &lat}
	if got := EffectivePosition(&partial); !got.Estimated {
		t.Error("record missing longitude should fall back to estimated position")
	}

	bare := professional.Professional{ID: "p3"}
	if got := EffectivePosition(&bare); got != FallbackPosition("p3") {
		t.Errorf("EffectivePosition without coords = %+v, want fallback", got)
	}
}

func TestCoverageAreas(t *testing.T) {
	lat, lng := 40.7, -74.0
	pros := []professional.Professional{
		{ID: "a", FullName: "A", ServiceAreaType: professional.AreaCity, Latitude: &lat, Longitude: &lng},
		// Same rounded location as "a": must be skipped.
		{ID: "b", FullName: "B", ServiceAreaType: professional.AreaCounty, Latitude: &lat, Longitude: &lng},
		{ID: "c", FullName: "C", ServiceAreaType: professional.AreaState},
	}

	fc := CoverageAreas(pros)
	if fc.Type != "FeatureCollection" {
		t.Errorf("collection type = %q", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2 (duplicate location deduped)", len(fc.Features))
	}

	first := fc.Features[0]
	if first.Properties["professional_id"] != "a" {
		t.Errorf("first feature belongs to %v, want a", first.Properties["professional_id"])
	}
	ring := first.Geometry.Coordinates[0]
	if len(ring) != circleSteps+1 {
		t.Errorf("ring has %d points, want %d", len(ring), circleSteps+1)
	}
	if ring[0] != ring[len(ring)-1] {
		t.Error("polygon ring must be closed")
	}

	if est, _ := fc.Features[1].Properties["estimated"].(bool); !est {
		t.Error("ungeocoded record's coverage must be flagged estimated")
	}
}

func TestCoverageRadiusKm(t *testing.T) {
	tests := []struct {
		areaType string
		want     float64
	}{
		{professional.AreaCity, 8},
		{professional.AreaCounty, 20},
		{professional.AreaState, 50},
		{"", 12},
		{"region", 12},
	}
	for _, tt := range tests {
		if got := CoverageRadiusKm(tt.areaType); got != tt.want {
			t.Errorf("CoverageRadiusKm(%q) = %v, want %v", tt.areaType, got, tt.want)
		}
	}
}
