package dto

import "trip-planner-service/internal/domain"

type PlanRequest struct {
	Origin        string   `json:"origin"`
	Destinations  []string `json:"destinations"`
	TripType      string   `json:"trip_type"`
	DepartureDate string   `json:"departure_date"`
	ReturnDate    string   `json:"return_date"`
	Students      int      `json:"students"`
	TeacherRoster string   `json:"teacher_roster"`
	Transport     string   `json:"transport"`
	GradeLevel    string   `json:"grade_level"`
	Focus         string   `json:"focus"`
	Notes         string   `json:"notes"`
}

func (r PlanRequest) ToDomain() domain.PlannerRequest {
	return domain.PlannerRequest{
		Origin:        r.Origin,
		Destinations:  r.Destinations,
		TripType:      domain.TripType(r.TripType),
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
		Students:      r.Students,
		TeacherRoster: r.TeacherRoster,
		Transport:     domain.TransportMode(r.Transport),
		GradeLevel:    r.GradeLevel,
		Focus:         r.Focus,
		Notes:         r.Notes,
	}
}

type PlanResponse struct {
	Origin domain.GeoLocation `json:"origin"`
	Plans  []domain.TripPlan  `json:"plans"`
}

func NewPlanResponse(res *domain.PlannerResult) PlanResponse {
	return PlanResponse{Origin: res.Origin, Plans: res.Plans}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}
