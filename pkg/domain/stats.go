package domain

// Stats holds the aggregate numbers computed server-side.
// TotalDuration is in seconds.
type Stats struct {
	TotalVisits   int `json:"total_visits"`
	TotalDuration int `json:"total_duration"`
}
