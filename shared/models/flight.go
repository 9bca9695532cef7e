package models

import "time"

// Flight represents a bookable flight in the catalog
type Flight struct {
	ID             string       `json:"id"`
	Destination    string       `json:"destination"`
	AvailableSeats int          `json:"availableSeats"`
	DepartureTime  time.Time    `json:"departureTime,omitempty"`
	Status         FlightStatus `json:"status,omitempty"`
}

// FlightStatus is display-only; it never affects booking rules.
type FlightStatus string

const (
	FlightStatusOnTime    FlightStatus = "on_time"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusBoarding  FlightStatus = "boarding"
	FlightStatusCancelled FlightStatus = "cancelled"
)

// SeatUpdate is published after a booking or cancellation changes a flight's seat count
type SeatUpdate struct {
	FlightID       string `json:"flightId"`
	AvailableSeats int    `json:"availableSeats"`
}
