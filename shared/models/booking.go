package models

import "time"

// Booking represents a passenger's active booking on a flight
type Booking struct {
	PassengerName    string    `json:"passengerName"`
	FlightID         string    `json:"flightId"`
	Destination      string    `json:"destination"`
	ConfirmationCode string    `json:"confirmationCode"`
	BookedAt         time.Time `json:"bookedAt"`
	// SeatsLeft is the flight's seat count right after the booking was made or cancelled
	SeatsLeft int `json:"seatsLeft"`
}

// View projects the booking onto the listing row.
func (b Booking) View() BookingView {
	return BookingView{
		PassengerName: b.PassengerName,
		FlightID:      b.FlightID,
		Destination:   b.Destination,
	}
}

// BookingView is a row of the bookings listing
type BookingView struct {
	PassengerName string `json:"passengerName"`
	FlightID      string `json:"flightId"`
	Destination   string `json:"destination"`
}

// BookFlightRequest represents a request to book a seat
type BookFlightRequest struct {
	PassengerName string `json:"passengerName" validate:"required,max=100"`
	FlightID      string `json:"flightId" validate:"required,max=16"`
}

// CancelBookingRequest represents a request to cancel a passenger's booking
type CancelBookingRequest struct {
	PassengerName string `json:"passengerName" validate:"required,max=100"`
}
