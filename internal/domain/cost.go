package domain

import "math"

// Tier is the budget level of a plan. It only changes the accommodation rate.
type Tier string

const (
	TierBudget   Tier = "budget"
	TierBalanced Tier = "balanced"
	TierPremium  Tier = "premium"
)

// Tiers lists the three plan tiers in output order.
var Tiers = [3]Tier{TierBudget, TierBalanced, TierPremium}

// TransportMode is how the group travels to the destination.
type TransportMode string

const (
	TransportBus    TransportMode = "bus"
	TransportCar    TransportMode = "car"
	TransportTrain  TransportMode = "train"
	TransportFlight TransportMode = "flight"
	TransportFerry  TransportMode = "ferry"
)

func (m TransportMode) Valid() bool {
	switch m {
	case TransportBus, TransportCar, TransportTrain, TransportFlight, TransportFerry:
		return true
	}
	return false
}

// Itemised cost of one plan.
// Total is the rounded sum of the seven line items, each rounded first.
type CostBreakdown struct {
	Transport                  float64 `json:"transport"`
	Accommodation              float64 `json:"accommodation"`
	Meals                      float64 `json:"meals"`
	EntryFees                  float64 `json:"entry_fees"`
	ActivityFees               float64 `json:"activity_fees"`
	LocalTransport             float64 `json:"local_transport"`
	Contingency                float64 `json:"contingency"`
	Total                      float64 `json:"total"`
	PerStudent                 float64 `json:"per_student"`
	TransportNote              string  `json:"transport_note"`
	AccommodationNote          string  `json:"accommodation_note"`
	AccommodationRatePerPerson float64 `json:"accommodation_rate_per_person"`
}

// LineItemSum adds the seven line items without rounding the result.
func (c CostBreakdown) LineItemSum() float64 {
	return c.Transport + c.Accommodation + c.Meals + c.EntryFees +
		c.ActivityFees + c.LocalTransport + c.Contingency
}

// Round2 rounds a monetary amount to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
