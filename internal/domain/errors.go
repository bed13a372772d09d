package domain

import "fmt"

// InputError is returned when a planning request cannot be processed as given.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InfeasibleError is returned when the round trip cannot fit in the trip length.
type InfeasibleError struct {
	RoundTripHours float64
	AvailableHours float64
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf(
		"trip infeasible: round trip takes %.1fh but only %.0fh of travel time are available",
		e.RoundTripHours, e.AvailableHours,
	)
}
