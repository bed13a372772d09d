package services

import (
	"strings"
	"trip-planner-service/internal/domain"
)

const (
	scoreNoSources = 42
	scoreBase      = 40
	scoreMax       = 98
	verifiedBonus  = 8
	secureBonus    = 6
)

var providerWeight = map[domain.Provider]int{
	domain.ProviderWikidata:    20,
	domain.ProviderOpenTripMap: 15,
	domain.ProviderGeoNames:    12,
	domain.ProviderORS:         10,
	domain.ProviderOverpass:    10,
	domain.ProviderLocalIndex:  10,
	domain.ProviderAI:          6,
	domain.ProviderCurated:     6,
}

// ReliabilityScore rates how well a plan is backed by attributed sources.
func ReliabilityScore(sources []domain.SourceLink) int {
	if len(sources) == 0 {
		return scoreNoSources
	}

	score := scoreBase
	for _, s := range sources {
		score += providerWeight[s.Provider]
		if s.Verified {
			score += verifiedBonus
		}
		if strings.HasPrefix(strings.ToLower(s.ReferenceURL), "https://") {
			score += secureBonus
		}
		if score >= scoreMax {
			return scoreMax
		}
	}
	return score
}
