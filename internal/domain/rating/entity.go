package rating

// Level is a server-defined reputation category. Value orders levels for
// minimum-rating comparisons; Color and Description drive the UI.
type Level struct {
	Key         string `json:"key" db:"key"`
	Label       string `json:"label" db:"label"`
	Value       int    `json:"value" db:"value"`
	Color       string `json:"color" db:"color"`
	Description string `json:"description" db:"description"`
}

// Levels maps a rating key to its level definition.
type Levels map[string]Level

// ValueOf resolves a rating key to its numeric value. Unknown or empty keys
// report ok=false so callers can exclude unrated entities.
func (l Levels) ValueOf(key string) (int, bool) {
	lvl, ok := l[key]
	if !ok {
		return 0, false
	}
	return lvl.Value, true
}

// Defaults is the vocabulary seeded when the rating_levels table is empty.
func Defaults() []Level {
	return []Level{
		{Key: "blacklist", Label: "Blacklist", Value: 0, Color: "#dc2626", Description: "Do not work with this agent"},
		{Key: "poor", Label: "Poor", Value: 1, Color: "#ea580c", Description: "Below expectations, proceed with caution"},
		{Key: "average", Label: "Average", Value: 2, Color: "#ca8a04", Description: "Gets the job done"},
		{Key: "great", Label: "Great", Value: 3, Color: "#16a34a", Description: "Reliable and responsive"},
		{Key: "exceptional", Label: "Exceptional", Value: 4, Color: "#2563eb", Description: "Top performer, highly recommended"},
	}
}
