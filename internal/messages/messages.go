// Package messages holds the operator-facing texts shared by the console
// and the web pages.
package messages

import (
	"errors"
	"fmt"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
)

const (
	AvailableFlights = "Available Flights:"
	YourBookings     = "Your Bookings"
	NoBookings       = "No bookings yet."
	InvalidFlight    = "Invalid flight number"
	NoSuchBooking    = "No bookings found under this name"
	NameRequired     = "Passenger name is required"
	Goodbye          = "Thank you for using the Flight Booking System"
	InvalidChoice    = "Invalid choice, please try again"
	Unavailable      = "The booking service is unavailable, please try again later"
)

func FlightLine(f models.Flight) string {
	return fmt.Sprintf("%s : %s - seats available : %d", f.ID, f.Destination, f.AvailableSeats)
}

func BookingLine(b models.BookingView) string {
	return fmt.Sprintf("%s: Flight %s to %s", b.PassengerName, b.FlightID, b.Destination)
}

func BookingSucceeded(b *models.Booking) string {
	return fmt.Sprintf("Booking successful %s booked on %s to %s.", b.PassengerName, b.FlightID, b.Destination)
}

func BookingCancelled(b *models.Booking) string {
	return fmt.Sprintf("Booking for %s on %s has been canceled", b.PassengerName, b.FlightID)
}

func SoldOut(flightID string) string {
	return fmt.Sprintf("No seats available on %s", flightID)
}

func AlreadyBooked(passengerName, flightID string) string {
	if flightID == "" {
		return fmt.Sprintf("%s already has a booking", passengerName)
	}
	return fmt.Sprintf("%s already has a booking on %s", passengerName, flightID)
}

// BookFailure describes a rejected booking. existingFlight is the flight the
// passenger already holds, when known.
func BookFailure(err error, req models.BookFlightRequest, existingFlight string) string {
	switch {
	case errors.Is(err, ledger.ErrInvalidFlight):
		return InvalidFlight
	case errors.Is(err, ledger.ErrSoldOut):
		return SoldOut(req.FlightID)
	case errors.Is(err, ledger.ErrAlreadyBooked):
		return AlreadyBooked(req.PassengerName, existingFlight)
	default:
		return Unavailable
	}
}

// CancelFailure describes a rejected cancellation
func CancelFailure(err error) string {
	if errors.Is(err, ledger.ErrNoSuchBooking) {
		return NoSuchBooking
	}
	return Unavailable
}

// ExistingFlight returns the flight passengerName is booked on, or ""
func ExistingFlight(bookings []models.BookingView, passengerName string) string {
	for _, b := range bookings {
		if b.PassengerName == passengerName {
			return b.FlightID
		}
	}
	return ""
}
