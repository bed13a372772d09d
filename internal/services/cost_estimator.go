package services

import (
	"fmt"
	"math"
	"trip-planner-service/internal/domain"
)

const (
	studentsPerTeacher = 15
	busCapacity        = 50
	busRatePerKm       = 1.80
	busLocalKmPerDay   = 50
	carRatePerKm       = 0.35
	mealsPerDay        = 25.0
	entryFeePerStudent = 12.0
	teacherEntryFactor = 0.5
	activityShare      = 0.20
	localTransportRate = 5.0
	contingencyShare   = 0.05
)

var farePerPerson = map[domain.TransportMode]float64{
	domain.TransportFlight: 180,
	domain.TransportTrain:  60,
	domain.TransportFerry:  35,
}

var accommodationRate = map[domain.Tier]float64{
	domain.TierBudget:   35,
	domain.TierBalanced: 55,
	domain.TierPremium:  90,
}

// Supervising teachers: the roster size, but never fewer than one per 15 students.
func TeacherCount(req domain.PlannerRequest) int {
	required := int(math.Ceil(float64(req.Students) / studentsPerTeacher))
	return max(req.TeacherCount(), required)
}

// EstimateCost prices one plan. Only the accommodation rate depends on tier.
func EstimateCost(req domain.PlannerRequest, distanceKm float64, days int, tier domain.Tier) domain.CostBreakdown {
	students := req.Students
	teachers := TeacherCount(req)
	headcount := students + teachers
	nights := max(0, days-1)

	var transport float64
	var transportNote string
	switch req.Transport {
	case domain.TransportBus:
		buses := int(math.Ceil(float64(headcount) / busCapacity))
		busKm := distanceKm*2 + float64(days*busLocalKmPerDay)
		transport = float64(buses) * busKm * busRatePerKm
		transportNote = fmt.Sprintf(
			"%d bus(es) for %d people, %.1f km each way plus %d km local driving at %.2f per bus-km",
			buses, headcount, distanceKm, days*busLocalKmPerDay, busRatePerKm,
		)
	case domain.TransportCar:
		transport = distanceKm * carRatePerKm * 2
		transportNote = fmt.Sprintf("car, %.1f km each way at %.2f per km", distanceKm, carRatePerKm)
	default:
		fare := farePerPerson[req.Transport]
		transport = fare * float64(headcount)
		transportNote = fmt.Sprintf("%s, %d people at %.2f per person", req.Transport, headcount, fare)
	}

	rate := accommodationRate[tier]
	accommodationNote := fmt.Sprintf("no overnight stay (%s tier)", tier)
	if nights > 0 {
		accommodationNote = fmt.Sprintf(
			"%d night(s) for %d people at %.2f per person per night (%s tier)",
			nights, headcount, rate, tier,
		)
	}

	c := domain.CostBreakdown{
		Transport:                  domain.Round2(transport),
		Accommodation:              domain.Round2(rate * float64(headcount*nights)),
		Meals:                      domain.Round2(mealsPerDay * float64(headcount*days)),
		EntryFees:                  domain.Round2(entryFeePerStudent*float64(students) + entryFeePerStudent*float64(teachers)*teacherEntryFactor),
		LocalTransport:             domain.Round2(localTransportRate * float64(headcount*days)),
		TransportNote:              transportNote,
		AccommodationNote:          accommodationNote,
		AccommodationRatePerPerson: rate,
	}
	c.ActivityFees = domain.Round2(c.EntryFees * activityShare)
	c.Contingency = domain.Round2((c.Transport + c.Accommodation + c.Meals + c.EntryFees) * contingencyShare)
	c.Total = domain.Round2(c.LineItemSum())
	c.PerStudent = domain.Round2(c.Total / float64(max(1, students)))

	return c
}
