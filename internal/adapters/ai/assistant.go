package ai

import (
	"context"
	"math"
	"strconv"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Templates use FString placeholders; keep literal braces out of them.
const (
	discoverySystem = `You help teachers plan school excursions. Recommend real, currently open places that a school group can visit.
Reply with JSON only: an object whose key "places" holds a list of objects with the keys "label", "reference_url", "lat" and "lng".
Use an official or encyclopedic page as reference_url. Leave lat and lng out when you are not certain of them.`

	suggestionSystem = `You suggest destinations for school excursions.
Reply with JSON only: an object whose key "destinations" holds a list of objects with the keys "name" and "country".
Use city names exactly as they appear on a map. Never suggest the starting city.`

	itinerarySystem = `You write day-by-day school trip itineraries.
Reply with JSON only: an object with the keys "days" and "poi_descriptions".
"days" is a list of objects with the keys "day" (a number starting at 1), "activity" and "related_poi".
"poi_descriptions" is a list of objects with the keys "label" and "description", one per point of interest you used.`
)

// Assistant serves place discovery, destination suggestions and itinerary
// generation from one chat model.
type Assistant struct {
	model        model.BaseChatModel
	discovery    prompt.ChatTemplate
	suggestions  prompt.ChatTemplate
	itineraryTpl prompt.ChatTemplate
}

var (
	_ ports.PlaceDiscoverer      = (*Assistant)(nil)
	_ ports.DestinationSuggester = (*Assistant)(nil)
	_ ports.ItineraryGenerator   = (*Assistant)(nil)
)

func NewAssistant(cm model.BaseChatModel) *Assistant {
	return &Assistant{
		model: cm,
		discovery: prompt.FromMessages(schema.FString,
			schema.SystemMessage(discoverySystem),
			schema.UserMessage("{request}\nSearch around {anchor} (latitude {lat}, longitude {lng})."),
		),
		suggestions: prompt.FromMessages(schema.FString,
			schema.SystemMessage(suggestionSystem),
			schema.UserMessage("Suggest up to {limit} destinations reachable by {transport} from {origin} for a {days}-day trip. Focus: {focus}."),
		),
		itineraryTpl: prompt.FromMessages(schema.FString,
			schema.SystemMessage(itinerarySystem),
			schema.UserMessage("{request}"),
		),
	}
}

type discoveryReply struct {
	Places []struct {
		Label        string   `json:"label"`
		ReferenceURL string   `json:"reference_url"`
		Lat          *float64 `json:"lat"`
		Lng          *float64 `json:"lng"`
	} `json:"places"`
}

func (a *Assistant) DiscoverPlaces(
	ctx context.Context,
	request string,
	anchor domain.GeoLocation,
) (_ []ports.DiscoveredPlace, err error) {
	defer obs.Time(ctx, "ai.DiscoverPlaces")(&err)

	var reply discoveryReply
	err = completeJSON(ctx, a.model, a.discovery, map[string]any{
		"request": request,
		"anchor":  anchor.Name,
		"lat":     strconv.FormatFloat(anchor.Lat, 'f', 4, 64),
		"lng":     strconv.FormatFloat(anchor.Lng, 'f', 4, 64),
	}, &reply)
	if err != nil {
		return nil, err
	}

	out := make([]ports.DiscoveredPlace, 0, len(reply.Places))
	for _, p := range reply.Places {
		label := strings.TrimSpace(p.Label)
		if label == "" {
			continue
		}

		place := ports.DiscoveredPlace{Label: label, ReferenceURL: strings.TrimSpace(p.ReferenceURL)}
		if p.Lat != nil && p.Lng != nil && validCoordinates(*p.Lat, *p.Lng) {
			place.Coordinates = &domain.Coordinates{Lat: *p.Lat, Lng: *p.Lng}
		}
		out = append(out, place)
	}

	return out, nil
}

type suggestionReply struct {
	Destinations []struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"destinations"`
}

func (a *Assistant) SuggestDestinations(
	ctx context.Context,
	q ports.SuggestionQuery,
) (_ []ports.SuggestedDestination, err error) {
	defer obs.Time(ctx, "ai.SuggestDestinations")(&err)

	focus := strings.TrimSpace(q.Focus)
	if focus == "" {
		focus = "general education"
	}

	var reply suggestionReply
	err = completeJSON(ctx, a.model, a.suggestions, map[string]any{
		"limit":     q.Limit,
		"transport": string(q.Transport),
		"origin":    q.Origin.Name,
		"days":      q.Days,
		"focus":     focus,
	}, &reply)
	if err != nil {
		return nil, err
	}

	out := make([]ports.SuggestedDestination, 0, len(reply.Destinations))
	for _, d := range reply.Destinations {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			continue
		}
		out = append(out, ports.SuggestedDestination{Name: name, Country: strings.TrimSpace(d.Country)})
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}

	return out, nil
}

type itineraryReply struct {
	Days []struct {
		Day        int    `json:"day"`
		Activity   string `json:"activity"`
		RelatedPOI string `json:"related_poi"`
	} `json:"days"`
	POIDescriptions []struct {
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"poi_descriptions"`
}

func (a *Assistant) GenerateItinerary(ctx context.Context, request string) (_ *ports.GeneratedItinerary, err error) {
	defer obs.Time(ctx, "ai.GenerateItinerary")(&err)

	var reply itineraryReply
	if err := completeJSON(ctx, a.model, a.itineraryTpl, map[string]any{"request": request}, &reply); err != nil {
		return nil, err
	}

	out := &ports.GeneratedItinerary{
		Days:            make([]ports.GeneratedDay, 0, len(reply.Days)),
		POIDescriptions: make(map[string]string, len(reply.POIDescriptions)),
	}
	for _, d := range reply.Days {
		out.Days = append(out.Days, ports.GeneratedDay{
			Day:        d.Day,
			Activity:   strings.TrimSpace(d.Activity),
			RelatedPOI: strings.TrimSpace(d.RelatedPOI),
		})
	}
	for _, p := range reply.POIDescriptions {
		label := strings.TrimSpace(p.Label)
		if label != "" && strings.TrimSpace(p.Description) != "" {
			out.POIDescriptions[label] = strings.TrimSpace(p.Description)
		}
	}

	return out, nil
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
