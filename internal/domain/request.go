package domain

import (
	"math"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// TripType classifies the excursion length requested by the school.
type TripType string

const (
	TripTypeDay      TripType = "day_trip"
	TripTypeMultiDay TripType = "multi_day"
)

// PlannerRequest is the input of a planning request.
type PlannerRequest struct {
	Origin        string        `json:"origin"`
	Destinations  []string      `json:"destinations"`
	TripType      TripType      `json:"trip_type"`
	DepartureDate string        `json:"departure_date"`
	ReturnDate    string        `json:"return_date"`
	Students      int           `json:"students"`
	TeacherRoster string        `json:"teacher_roster"`
	Transport     TransportMode `json:"transport"`
	GradeLevel    string        `json:"grade_level"`
	Focus         string        `json:"focus"`
	Notes         string        `json:"notes"`
}

// TripDates holds the parsed date range of a validated request.
type TripDates struct {
	Departure time.Time
	Return    time.Time
	Days      int
}

// DaysInclusive counts calendar days from departure to return, both included.
func DaysInclusive(departure, ret time.Time) int {
	return int(math.Round(ret.Sub(departure).Hours()/24)) + 1
}

// Validate checks the request and returns its parsed date range.
func (r PlannerRequest) Validate() (TripDates, error) {
	dep, err := time.Parse(DateLayout, strings.TrimSpace(r.DepartureDate))
	if err != nil {
		return TripDates{}, &InputError{Field: "departure_date", Reason: "expected YYYY-MM-DD"}
	}

	ret, err := time.Parse(DateLayout, strings.TrimSpace(r.ReturnDate))
	if err != nil {
		return TripDates{}, &InputError{Field: "return_date", Reason: "expected YYYY-MM-DD"}
	}

	if dep.After(ret) {
		return TripDates{}, &InputError{Field: "return_date", Reason: "return date is before departure date"}
	}

	days := DaysInclusive(dep, ret)

	switch r.TripType {
	case TripTypeDay:
		if days != 1 {
			return TripDates{}, &InputError{Field: "trip_type", Reason: "a day trip must start and end on the same day"}
		}
	case TripTypeMultiDay:
		if days < 2 {
			return TripDates{}, &InputError{Field: "trip_type", Reason: "a multi-day trip needs at least 2 days"}
		}
	case "":
	default:
		return TripDates{}, &InputError{Field: "trip_type", Reason: "unknown trip type " + string(r.TripType)}
	}

	if r.Students < 1 {
		return TripDates{}, &InputError{Field: "students", Reason: "at least one student is required"}
	}

	if !r.Transport.Valid() {
		return TripDates{}, &InputError{Field: "transport", Reason: "unknown transport mode " + string(r.Transport)}
	}

	return TripDates{Departure: dep, Return: ret, Days: days}, nil
}

// TeacherCount returns the number of non-blank entries in the teacher roster.
// Entries are separated by newlines, commas or semicolons.
func (r PlannerRequest) TeacherCount() int {
	fields := strings.FieldsFunc(r.TeacherRoster, func(c rune) bool {
		return c == '\n' || c == ',' || c == ';'
	})

	n := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}

// DestinationTexts returns the non-blank destinations in request order.
func (r PlannerRequest) DestinationTexts() []string {
	out := make([]string, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		d = strings.Join(strings.Fields(d), " ")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
