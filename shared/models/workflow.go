package models

// Task queue shared by the API server and the worker
const TaskQueue = "flight-booking-queue"

// Workflow IDs are prefixed by operation
const (
	WorkflowPrefixBook         = "book-"
	WorkflowPrefixCancel       = "cancel-"
	WorkflowPrefixListFlights  = "list-flights-"
	WorkflowPrefixListBookings = "list-bookings-"
)

// BookFlightInput is the input for the book flight workflow and activity
type BookFlightInput struct {
	PassengerName string `json:"passengerName"`
	FlightID      string `json:"flightId"`
}

// CancelBookingInput is the input for the cancel booking workflow and activity
type CancelBookingInput struct {
	PassengerName string `json:"passengerName"`
}
