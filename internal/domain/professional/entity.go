// internal/domain/professional/entity.go
package professional

import (
	"time"

	"github.com/lib/pq"
)

// Role classification used by the legacy directory screen. Later screens use
// the free-form tag set instead; both are carried on the entity.
const (
	TypeAgent  = "agent"
	TypeBuyer  = "buyer"
	TypeVendor = "vendor"
)

// Service area granularity for the single-area model.
const (
	AreaCity   = "city"
	AreaCounty = "county"
	AreaState  = "state"
)

type Professional struct {
	ID       string `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
	Brokerage string `json:"brokerage,omitempty" db:"brokerage"`
	Type     string `json:"type,omitempty" db:"type"`

	// Contact details, presence-validated only at submission.
	Phone   string `json:"phone,omitempty" db:"phone"`
	Email   string `json:"email,omitempty" db:"email"`
	Website string `json:"website,omitempty" db:"website"`

	// Coverage: single typed area plus the legacy free-text area list.
	ServiceAreaType string         `json:"service_area_type,omitempty" db:"service_area_type"`
	ServiceArea     string         `json:"service_area,omitempty" db:"service_area"`
	ServiceAreas    pq.StringArray `json:"service_areas,omitempty" db:"service_areas"`

	Tags pq.StringArray `json:"tags,omitempty" db:"tags"`

	// Explicit coordinates. Nil means the record was never geocoded; map
	// layers then fall back to an estimated position (see internal/geo).
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`

	// Rating is a key into the rating-level mapping, not a number.
	Rating string `json:"rating,omitempty" db:"rating"`

	SubmittedBy     string `json:"submitted_by,omitempty" db:"submitted_by"`
	AddressLastDeal string `json:"address_last_deal,omitempty" db:"address_last_deal"`
	Notes           string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasCoordinates reports whether the record carries real geocoded
// coordinates, as opposed to the display-only fallback position.
func (p *Professional) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// AreaStrings collects every service-area string on the record, for text
// matching across both coverage models.
func (p *Professional) AreaStrings() []string {
	areas := make([]string, 0, len(p.ServiceAreas)+1)
	if p.ServiceArea != "" {
		areas = append(areas, p.ServiceArea)
	}
	areas = append(areas, p.ServiceAreas...)
	return areas
}
