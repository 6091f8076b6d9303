// internal/domain/professional/dto.go
package professional

type CreateProfessionalRequest struct {
	FullName        string   `json:"full_name" binding:"required,max=255"`
	Brokerage       string   `json:"brokerage" binding:"max=255"`
	Type            string   `json:"type" binding:"omitempty,oneof=agent buyer vendor"`
	Phone           string   `json:"phone" binding:"max=30"`
	Email           string   `json:"email" binding:"omitempty,email,max=255"`
	Website         string   `json:"website" binding:"max=255"`
	ServiceAreaType string   `json:"service_area_type" binding:"omitempty,oneof=city county state"`
	ServiceArea     string   `json:"service_area" binding:"max=255"`
	ServiceAreas    []string `json:"service_areas"`
	Tags            []string `json:"tags"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Rating          string   `json:"rating"`
	SubmittedBy     string   `json:"submitted_by" binding:"max=255"`
	AddressLastDeal string   `json:"address_last_deal" binding:"max=255"`
	Notes           string   `json:"notes"`
}

type ListResponse struct {
	Professionals []Professional `json:"professionals"`
	Total         int            `json:"total"`
}

// AnalyticsSummary backs the premium dashboard counters.
type AnalyticsSummary struct {
	Total        int64            `json:"total"`
	WithRating   int64            `json:"with_rating"`
	WithLocation int64            `json:"with_location"`
	NewThisMonth int64            `json:"new_this_month"`
	ByTag        map[string]int64 `json:"by_tag"`
	ByRating     map[string]int64 `json:"by_rating"`
}
