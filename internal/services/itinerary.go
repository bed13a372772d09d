package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const (
	targetArrivalHour   = 19
	earliestReturnHour  = 6
	maxPromptPOIs       = 10
	defaultActivityArea = "the town centre"
)

// ItineraryInput is what the synthesizer needs to plan the days of one trip.
type ItineraryInput struct {
	Stops       []string
	Days        int
	GradeLevel  string
	Focus       string
	Tier        domain.Tier
	Origin      string
	OneWayHours float64
	POIs        []domain.PointOfInterest // priority order
	Notes       string
}

// ItinerarySynthesizer asks the generator for a day plan and validates the answer.
type ItinerarySynthesizer struct {
	generator ports.ItineraryGenerator
	timeout   time.Duration
}

// NewItinerarySynthesizer returns a synthesizer. generator may be nil.
func NewItinerarySynthesizer(generator ports.ItineraryGenerator, timeout time.Duration) *ItinerarySynthesizer {
	return &ItinerarySynthesizer{generator: generator, timeout: timeout}
}

// ReturnDepartureHour is the latest departure on the last day that still gets
// the group home by early evening.
func ReturnDepartureHour(oneWayHours float64) int {
	return max(earliestReturnHour, targetArrivalHour-int(math.Ceil(oneWayHours)))
}

// Synthesize returns the generated days and POI descriptions, or two empty
// results when generation is off, fails or returns an incomplete plan.
func (s *ItinerarySynthesizer) Synthesize(
	ctx context.Context,
	in ItineraryInput,
	useAI bool,
) ([]domain.ItineraryDay, map[string]string) {
	if !useAI || s.generator == nil || in.Days < 1 {
		return nil, map[string]string{}
	}

	cctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	gen, err := s.generator.GenerateItinerary(cctx, BuildItineraryPrompt(in))
	if err != nil {
		obs.Logf(ctx, "op=itinerary.generate tier=%s err=%q", in.Tier, err)
		return nil, map[string]string{}
	}
	if gen == nil {
		return nil, map[string]string{}
	}

	days, ok := validDays(gen.Days, in.Days)
	if !ok {
		obs.Logf(ctx, "op=itinerary.generate tier=%s err=%q", in.Tier, "day list does not cover the trip")
		return nil, map[string]string{}
	}

	known := make(map[string]struct{}, len(in.POIs))
	for _, p := range in.POIs {
		known[p.Label] = struct{}{}
	}
	descriptions := make(map[string]string, len(gen.POIDescriptions))
	for label, desc := range gen.POIDescriptions {
		if _, ok := known[label]; ok && strings.TrimSpace(desc) != "" {
			descriptions[label] = desc
		}
	}

	return days, descriptions
}

// validDays accepts exactly one non-empty entry per day 1..n, in any order.
func validDays(gen []ports.GeneratedDay, n int) ([]domain.ItineraryDay, bool) {
	if len(gen) != n {
		return nil, false
	}

	out := make([]domain.ItineraryDay, n)
	for _, d := range gen {
		if d.Day < 1 || d.Day > n || out[d.Day-1].DayNumber != 0 || strings.TrimSpace(d.Activity) == "" {
			return nil, false
		}
		out[d.Day-1] = domain.ItineraryDay{DayNumber: d.Day, Activity: d.Activity, RelatedPOI: d.RelatedPOI}
	}
	return out, true
}

// BuildItineraryPrompt writes the generation instruction for one plan.
func BuildItineraryPrompt(in ItineraryInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan a %d-day school trip from %s visiting, in order: %s.\n",
		in.Days, in.Origin, strings.Join(in.Stops, ", "))
	if in.GradeLevel != "" {
		fmt.Fprintf(&b, "Students: grade %s.\n", in.GradeLevel)
	}
	if in.Focus != "" {
		fmt.Fprintf(&b, "Educational focus: %s.\n", in.Focus)
	}
	fmt.Fprintf(&b, "Budget tier: %s.\n", in.Tier)

	if len(in.POIs) > 0 {
		b.WriteString("Points of interest you may use, most relevant first:\n")
		for i, p := range in.POIs {
			if i == maxPromptPOIs {
				break
			}
			fmt.Fprintf(&b, "- %s\n", p.Label)
		}
	}
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		fmt.Fprintf(&b, "Teacher notes (accessibility, diet and similar needs must be reflected): %s\n", notes)
	}

	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "- Return exactly %d days numbered 1 to %d.\n", in.Days, in.Days)
	b.WriteString("- Every day is a chronological list of timed blocks, for example 08:00 to 09:30.\n")
	fmt.Fprintf(&b, "- Day 1 starts with the departure from %s.\n", in.Origin)
	fmt.Fprintf(&b, "- On the last day leave for %s no later than %02d:00 so the group arrives by %02d:00.\n",
		in.Origin, ReturnDepartureHour(in.OneWayHours), targetArrivalHour)
	fmt.Fprintf(&b, "- Name real restaurants or cafes for meals that fit a %s budget.\n", in.Tier)

	return b.String()
}

// TemplateItinerary is the deterministic plan used when generation yields nothing.
// It always has exactly in.Days entries.
func TemplateItinerary(in ItineraryInput) []domain.ItineraryDay {
	if in.Days < 1 {
		return nil
	}

	dest := defaultActivityArea
	if len(in.Stops) > 0 {
		dest = strings.Join(in.Stops, " and ")
	}
	firstPOI, secondPOI := "", ""
	if len(in.POIs) > 0 {
		firstPOI = in.POIs[0].Label
	}
	if len(in.POIs) > 1 {
		secondPOI = in.POIs[1].Label
	}
	returnLeg := fmt.Sprintf("Return journey to %s, departing at %02d:00.", in.Origin, ReturnDepartureHour(in.OneWayHours))

	if in.Days == 1 {
		visit := "a guided walk through " + dest
		if firstPOI != "" {
			visit = "a guided visit to " + firstPOI
		}
		return []domain.ItineraryDay{{
			DayNumber:  1,
			Activity:   fmt.Sprintf("Travel from %s to %s, %s. %s", in.Origin, dest, visit, returnLeg),
			RelatedPOI: firstPOI,
		}}
	}

	days := make([]domain.ItineraryDay, 0, in.Days)
	days = append(days, domain.ItineraryDay{
		DayNumber: 1,
		Activity:  fmt.Sprintf("Travel from %s to %s, check in at the accommodation and take an orientation walk.", in.Origin, dest),
	})

	if firstPOI != "" {
		days = append(days, domain.ItineraryDay{
			DayNumber:  2,
			Activity:   fmt.Sprintf("Guided visit to %s with a worksheet for the class.", firstPOI),
			RelatedPOI: firstPOI,
		})
	} else {
		days = append(days, domain.ItineraryDay{
			DayNumber: 2,
			Activity:  fmt.Sprintf("Guided walking tour of %s.", dest),
		})
	}

	if in.Days >= 3 && secondPOI != "" {
		days = append(days, domain.ItineraryDay{
			DayNumber:  3,
			Activity:   fmt.Sprintf("Visit %s followed by a group discussion.", secondPOI),
			RelatedPOI: secondPOI,
		})
	}

	for reflection := true; len(days) < in.Days; reflection = !reflection {
		activity := fmt.Sprintf("Supervised free time in %s.", dest)
		if reflection {
			activity = "Reflection workshop: students present what they learned so far."
		}
		days = append(days, domain.ItineraryDay{DayNumber: len(days) + 1, Activity: activity})
	}

	last := &days[len(days)-1]
	last.Activity += " " + returnLeg

	return days
}
