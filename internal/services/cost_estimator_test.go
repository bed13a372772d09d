package services

import (
	"testing"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func busRequest() domain.PlannerRequest {
	return domain.PlannerRequest{
		DepartureDate: "2026-05-04",
		ReturnDate:    "2026-05-08",
		Students:      14,
		Transport:     domain.TransportBus,
	}
}

func TestEstimateCostBus(t *testing.T) {
	c := EstimateCost(busRequest(), 100, 5, domain.TierBudget)

	// 14 students + 1 teacher, one bus driving 2*100 + 5*50 km
	assert.InDelta(t, 810.00, c.Transport, 0.001)
	assert.InDelta(t, 2100.00, c.Accommodation, 0.001)
	assert.InDelta(t, 1875.00, c.Meals, 0.001)
	assert.InDelta(t, 174.00, c.EntryFees, 0.001)
	assert.InDelta(t, 34.80, c.ActivityFees, 0.001)
	assert.InDelta(t, 375.00, c.LocalTransport, 0.001)
	assert.InDelta(t, 247.95, c.Contingency, 0.001)
	assert.InDelta(t, 5616.75, c.Total, 0.001)
	assert.InDelta(t, 401.20, c.PerStudent, 0.001)
	assert.Equal(t, 35.0, c.AccommodationRatePerPerson)

	assert.Contains(t, c.TransportNote, "1 bus(es)")
	assert.Contains(t, c.TransportNote, "100.0 km")
	assert.Contains(t, c.AccommodationNote, "4 night(s) for 15 people")
}

func TestEstimateCostTierOnlyChangesAccommodation(t *testing.T) {
	req := busRequest()
	budget := EstimateCost(req, 250, 5, domain.TierBudget)
	balanced := EstimateCost(req, 250, 5, domain.TierBalanced)
	premium := EstimateCost(req, 250, 5, domain.TierPremium)

	assert.Less(t, budget.Total, balanced.Total)
	assert.Less(t, balanced.Total, premium.Total)

	for _, c := range []domain.CostBreakdown{balanced, premium} {
		assert.Equal(t, budget.Transport, c.Transport)
		assert.Equal(t, budget.Meals, c.Meals)
		assert.Equal(t, budget.EntryFees, c.EntryFees)
		assert.Equal(t, budget.ActivityFees, c.ActivityFees)
		assert.Equal(t, budget.LocalTransport, c.LocalTransport)
	}
	assert.InDelta(t, 3300.00, balanced.Accommodation, 0.001)
}

func TestEstimateCostTotalsAreRoundedSums(t *testing.T) {
	modes := []domain.TransportMode{
		domain.TransportBus, domain.TransportCar, domain.TransportTrain,
		domain.TransportFlight, domain.TransportFerry,
	}
	for _, mode := range modes {
		for _, students := range []int{1, 14, 49, 120} {
			req := busRequest()
			req.Transport = mode
			req.Students = students

			c := EstimateCost(req, 333.333, 3, domain.TierBalanced)
			assert.InDelta(t, domain.Round2(c.LineItemSum()), c.Total, 1e-9, "%s/%d", mode, students)
			assert.InDelta(t, c.Total/float64(students), c.PerStudent, 0.01, "%s/%d", mode, students)
		}
	}
}

func TestEstimateCostModes(t *testing.T) {
	req := busRequest()

	req.Transport = domain.TransportFlight
	assert.InDelta(t, 180.0*15, EstimateCost(req, 900, 5, domain.TierBudget).Transport, 0.001)

	req.Transport = domain.TransportTrain
	assert.InDelta(t, 60.0*15, EstimateCost(req, 900, 5, domain.TierBudget).Transport, 0.001)

	req.Transport = domain.TransportFerry
	assert.InDelta(t, 35.0*15, EstimateCost(req, 900, 5, domain.TierBudget).Transport, 0.001)

	req.Transport = domain.TransportCar
	assert.InDelta(t, 70.0, EstimateCost(req, 100, 5, domain.TierBudget).Transport, 0.001)

	// 120 students need 8 teachers: 128 people, 3 buses
	req.Transport = domain.TransportBus
	req.Students = 120
	c := EstimateCost(req, 100, 2, domain.TierBudget)
	assert.Contains(t, c.TransportNote, "3 bus(es) for 128 people")
	assert.InDelta(t, 3*(200+100)*1.80, c.Transport, 0.001)
}

func TestEstimateCostDayTripHasNoAccommodation(t *testing.T) {
	c := EstimateCost(busRequest(), 80, 1, domain.TierPremium)
	assert.Zero(t, c.Accommodation)
	assert.Contains(t, c.AccommodationNote, "no overnight stay")
}

func TestTeacherCount(t *testing.T) {
	req := busRequest()
	assert.Equal(t, 1, TeacherCount(req))

	req.TeacherRoster = "Ana\nMarko\nPetra"
	assert.Equal(t, 3, TeacherCount(req))

	req.Students = 61
	assert.Equal(t, 5, TeacherCount(req))
}
