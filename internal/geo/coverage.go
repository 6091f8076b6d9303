package geo

import (
	"fmt"
	"math"

	"atlas-service/internal/domain/professional"
)

// Coverage radius by service-area granularity, in kilometers. The polygons
// are decorative approximations, not authoritative boundary data.
const (
	cityRadiusKm    = 8
	countyRadiusKm  = 20
	stateRadiusKm   = 50
	defaultRadiusKm = 12

	circleSteps = 32
	kmToDegrees = 0.009
)

// Feature is a GeoJSON feature carrying one coverage polygon.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// FeatureCollection is the GeoJSON document the map layer consumes.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// CoverageRadiusKm maps a service-area type to its display radius.
func CoverageRadiusKm(serviceAreaType string) float64 {
	switch serviceAreaType {
	case professional.AreaCity:
		return cityRadiusKm
	case professional.AreaCounty:
		return countyRadiusKm
	case professional.AreaState:
		return stateRadiusKm
	default:
		return defaultRadiusKm
	}
}

// CoverageAreas builds one circle polygon per professional, skipping records
// that would land on an already-occupied spot so overlapping estimates don't
// stack into a single blob.
func CoverageAreas(pros []professional.Professional) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	occupied := make(map[string]bool)

	for i := range pros {
		p := &pros[i]
		pos := EffectivePosition(p)

		key := fmt.Sprintf("%d-%d", int(math.Round(pos.Latitude*1000)), int(math.Round(pos.Longitude*1000)))
		if occupied[key] {
			continue
		}
		occupied[key] = true

		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"professional_id":   p.ID,
				"full_name":         p.FullName,
				"service_area_type": p.ServiceAreaType,
				"estimated":         pos.Estimated,
			},
			Geometry: Geometry{
				Type:        "Polygon",
				Coordinates: [][][2]float64{circleRing(pos.Latitude, pos.Longitude, CoverageRadiusKm(p.ServiceAreaType))},
			},
		})
	}
	return fc
}

func circleRing(lat, lng, radiusKm float64) [][2]float64 {
	ring := make([][2]float64, 0, circleSteps+1)
	for i := 0; i < circleSteps; i++ {
		angle := float64(i) / circleSteps * 2 * math.Pi
		dx := radiusKm * kmToDegrees * math.Cos(angle)
		dy := radiusKm * kmToDegrees * math.Sin(angle)
		ring = append(ring, [2]float64{lng + dx, lat + dy})
	}
	ring = append(ring, ring[0]) // close the ring
	return ring
}
