package domain

// Represents the travel leg from the origin through every stop, in order.
// Distance and duration are always populated: when no routing provider
// answers, they come from the great-circle estimate and Estimated is set.
type RouteResult struct {
	DistanceMeters  float64       `json:"total_distance_meters"`
	DurationSeconds float64       `json:"total_duration_seconds"`
	Path            []Coordinates `json:"path"`
	Estimated       bool          `json:"estimated"`
}

func (r RouteResult) DistanceKm() float64 { return r.DistanceMeters / 1000 }

func (r RouteResult) DurationHours() float64 { return r.DurationSeconds / 3600 }
