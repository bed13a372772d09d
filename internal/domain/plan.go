package domain

// One day of the itinerary. Day numbers start at 1 and are contiguous.
type ItineraryDay struct {
	DayNumber  int    `json:"day"`
	Activity   string `json:"activity"`
	RelatedPOI string `json:"related_poi,omitempty"`
}

// ItinerarySource records whether the itinerary came from the generator or the template.
type ItinerarySource string

const (
	ItineraryFromAI       ItinerarySource = "ai"
	ItineraryFromTemplate ItinerarySource = "template"
)

// An attributed piece of information backing a plan.
// Verified is fixed at creation: it is true iff a reference URL was present.
type SourceLink struct {
	ReferenceURL string       `json:"reference_url,omitempty"`
	Title        string       `json:"title"`
	Provider     Provider     `json:"source_provider"`
	Verified     bool         `json:"verified"`
	Description  string       `json:"description,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

func NewSourceLink(url, title string, provider Provider, description string, coords *Coordinates) SourceLink {
	return SourceLink{
		ReferenceURL: url,
		Title:        title,
		Provider:     provider,
		Verified:     url != "",
		Description:  description,
		Coordinates:  coords,
	}
}

// One of the three plan options returned for a request.
// It is built once per tier and never mutated afterwards.
type TripPlan struct {
	Tier             Tier              `json:"tier"`
	Destination      string            `json:"destination"`
	Stops            []GeoLocation     `json:"stops"`
	Days             int               `json:"days"`
	DistanceKm       float64           `json:"distance_km"`
	DurationHours    float64           `json:"duration_hours"`
	RouteEstimated   bool              `json:"route_estimated"`
	Path             []Coordinates     `json:"path"`
	Cost             CostBreakdown     `json:"cost"`
	Itinerary        []ItineraryDay    `json:"itinerary"`
	ItinerarySource  ItinerarySource   `json:"itinerary_source"`
	POIs             []PointOfInterest `json:"pois"`
	Sources          []SourceLink      `json:"sources"`
	ReliabilityScore int               `json:"reliability_score"`
}

// PlannerResult is the output of a planning request: the resolved origin and exactly three plans.
type PlannerResult struct {
	Origin GeoLocation `json:"origin"`
	Plans  []TripPlan  `json:"plans"`
}
