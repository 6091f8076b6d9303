package geo

import "atlas-service/internal/domain/professional"

// Position is a resolved map placement. Estimated marks positions synthesized
// from the record ID rather than real geocoding; UI layers must render those
// distinctly, since they can place an agent at a false location.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Estimated bool    `json:"estimated"`
}

// FallbackPosition derives a deterministic pseudo-coordinate near the default
// center from the identifier. Same ID, same point, every time. This is a
// display fallback only — it never feeds viewport filtering.
func FallbackPosition(id string) Position {
	h := idHash(id)
	return Position{
		Latitude:  DefaultLatitude + float64(h%100-50)*0.001,
		Longitude: DefaultLongitude + float64(h%100-50)*0.001,
		Estimated: true,
	}
}

// EffectivePosition returns the record's explicit coordinates when present,
// otherwise the estimated fallback.
func EffectivePosition(p *professional.Professional) Position {
	if p.HasCoordinates() {
		return Position{Latitude: *p.Latitude, Longitude: *p.Longitude}
	}
	return FallbackPosition(p.ID)
}

// idHash is the classic 31-multiplier string hash over int32, kept compatible
// with the hash the map screens have always used for placement.
func idHash(id string) int32 {
	var h int32
	for _, c := range []byte(id) {
		h = (h << 5) - h + int32(c)
	}
	return h
}
