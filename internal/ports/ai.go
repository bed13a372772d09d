package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// A place proposed by the discovery capability. Coordinates are optional;
// a nil value means the caller has to geocode the label itself.
type DiscoveredPlace struct {
	Label        string
	ReferenceURL string
	Coordinates  *domain.Coordinates
}

// Contract for AI-assisted discovery of locally relevant sites.
type PlaceDiscoverer interface {
	DiscoverPlaces(ctx context.Context, prompt string, anchor domain.GeoLocation) ([]DiscoveredPlace, error)
}

type GeneratedDay struct {
	Day        int
	Activity   string
	RelatedPOI string
}

// Raw output of the itinerary capability, before any validation.
type GeneratedItinerary struct {
	Days            []GeneratedDay
	POIDescriptions map[string]string
}

// Contract for AI-assisted itinerary generation from a structured instruction.
type ItineraryGenerator interface {
	GenerateItinerary(ctx context.Context, prompt string) (*GeneratedItinerary, error)
}

type SuggestionQuery struct {
	Origin    domain.GeoLocation
	Focus     string
	Days      int
	Transport domain.TransportMode
	Limit     int
}

type SuggestedDestination struct {
	Name    string
	Country string
}

// Contract for AI-assisted destination suggestions when the request names none.
type DestinationSuggester interface {
	SuggestDestinations(ctx context.Context, q SuggestionQuery) ([]SuggestedDestination, error)
}
