package services

import (
	"context"
	"strings"
	"testing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itineraryInput(days int, pois ...string) ItineraryInput {
	in := ItineraryInput{
		Stops:       []string{"Zagreb", "Trieste"},
		Days:        days,
		GradeLevel:  "8",
		Focus:       "history",
		Tier:        domain.TierBalanced,
		Origin:      "Ljubljana",
		OneWayHours: 5.4,
		Notes:       "one student uses a wheelchair",
	}
	for _, p := range pois {
		in.POIs = append(in.POIs, poi(p, "", domain.ProviderOpenTripMap))
	}
	return in
}

func TestReturnDepartureHour(t *testing.T) {
	assert.Equal(t, 17, ReturnDepartureHour(1.2))
	assert.Equal(t, 14, ReturnDepartureHour(5))
	assert.Equal(t, 6, ReturnDepartureHour(15))
	assert.Equal(t, 19, ReturnDepartureHour(0))
}

func TestTemplateItineraryLength(t *testing.T) {
	for days := 1; days <= 7; days++ {
		got := TemplateItinerary(itineraryInput(days, "Miramare Castle", "Museo Revoltella"))
		require.Len(t, got, days)
		for i, d := range got {
			assert.Equal(t, i+1, d.DayNumber)
			assert.NotEmpty(t, d.Activity)
		}
		assert.Contains(t, got[days-1].Activity, "Return journey to Ljubljana, departing at 13:00.")
	}
	assert.Empty(t, TemplateItinerary(itineraryInput(0)))
}

func TestTemplateItineraryStructure(t *testing.T) {
	got := TemplateItinerary(itineraryInput(5, "Miramare Castle", "Museo Revoltella"))

	assert.Contains(t, got[0].Activity, "Travel from Ljubljana to Zagreb and Trieste, check in")
	assert.Equal(t, "Miramare Castle", got[1].RelatedPOI)
	assert.Equal(t, "Museo Revoltella", got[2].RelatedPOI)
	assert.Contains(t, got[3].Activity, "Reflection workshop")
	assert.Contains(t, got[4].Activity, "Supervised free time")

	oneDay := TemplateItinerary(itineraryInput(1, "Miramare Castle"))
	assert.Contains(t, oneDay[0].Activity, "a guided visit to Miramare Castle")
	assert.Contains(t, oneDay[0].Activity, "Return journey")
	assert.Equal(t, "Miramare Castle", oneDay[0].RelatedPOI)

	// second POI is only used on trips of three days or more
	twoDays := TemplateItinerary(itineraryInput(2, "Miramare Castle", "Museo Revoltella"))
	assert.Equal(t, "Miramare Castle", twoDays[1].RelatedPOI)

	noPOIs := TemplateItinerary(itineraryInput(4))
	assert.Contains(t, noPOIs[1].Activity, "Guided walking tour")
	assert.Contains(t, noPOIs[2].Activity, "Reflection workshop")
	assert.Contains(t, noPOIs[3].Activity, "Supervised free time")
}

func TestBuildItineraryPrompt(t *testing.T) {
	prompt := BuildItineraryPrompt(itineraryInput(3, "Miramare Castle"))

	for _, want := range []string{
		"3-day school trip from Ljubljana",
		"Zagreb, Trieste",
		"grade 8",
		"- Miramare Castle",
		"wheelchair",
		"exactly 3 days",
		"no later than 13:00",
		"balanced budget",
	} {
		assert.Contains(t, prompt, want)
	}
}

func generated(days ...int) *ports.GeneratedItinerary {
	out := &ports.GeneratedItinerary{POIDescriptions: map[string]string{
		"Miramare Castle": "A seaside castle.",
		"Invented Place":  "Made up.",
	}}
	for _, d := range days {
		out.Days = append(out.Days, ports.GeneratedDay{Day: d, Activity: "08:00 activity", RelatedPOI: "Miramare Castle"})
	}
	return out
}

func TestSynthesizeAcceptsCompletePlans(t *testing.T) {
	gen := &fakeGenerator{out: generated(3, 1, 2)}
	days, desc := NewItinerarySynthesizer(gen, 0).Synthesize(context.Background(), itineraryInput(3, "Miramare Castle"), true)

	require.Len(t, days, 3)
	for i, d := range days {
		assert.Equal(t, i+1, d.DayNumber)
	}
	assert.Equal(t, map[string]string{"Miramare Castle": "A seaside castle."}, desc)
	require.Len(t, gen.prompts, 1)
	assert.True(t, strings.HasPrefix(gen.prompts[0], "Plan a 3-day school trip"))
}

func TestSynthesizeRejectsBadOutput(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"missing day":   {out: generated(1, 2)},
		"duplicate day": {out: generated(1, 1, 2)},
		"out of range":  {out: generated(1, 2, 4)},
		"nil result":    {},
		"provider down": {err: errProviderDown},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			days, desc := NewItinerarySynthesizer(gen, 0).Synthesize(context.Background(), itineraryInput(3), true)
			assert.Empty(t, days)
			assert.Empty(t, desc)
		})
	}
}

func TestSynthesizeDisabled(t *testing.T) {
	gen := &fakeGenerator{out: generated(1)}
	days, desc := NewItinerarySynthesizer(gen, 0).Synthesize(context.Background(), itineraryInput(1), false)
	assert.Empty(t, days)
	assert.Empty(t, desc)
	assert.Empty(t, gen.prompts)

	days, _ = NewItinerarySynthesizer(nil, 0).Synthesize(context.Background(), itineraryInput(1), true)
	assert.Empty(t, days)
}
