package domain

// IncidentRecord is one recorded mass-shooting event.
//
// Optional numeric fields are pointers: nil marks a value the source file did
// not carry or could not parse. The derived fields are recomputed by
// Normalize and are never independently settable.
type IncidentRecord struct {
	ID             string `json:"id"` // stable identifier, merge/join key
	Date           string `json:"date"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	VictimsKilled  *int   `json:"victims_killed"`
	VictimsInjured *int   `json:"victims_injured"`

	// Derived columns.
	Year         *int     `json:"year"`
	TotalVictims *int     `json:"total_victims"`
	FullLocation *string  `json:"full_location"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`

	// RawCoordinate holds the combined "lon,lat" text some source files use
	// in place of separate coordinate columns. Normalize splits it.
	RawCoordinate string `json:"-"`
}

// StateLawRecord is one U.S. state's aggregate legislative metric, consumed
// by the choropleth view.
type StateLawRecord struct {
	StateName    string  `json:"state_name"`
	LawStrength  float64 `json:"law_strength"`   // 0-100 scale
	GunDeathRate float64 `json:"gun_death_rate"` // per 100k residents
}
