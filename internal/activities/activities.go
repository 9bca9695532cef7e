package activities

import (
	"context"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// Activity names as registered on the worker
const (
	ListFlightsName   = "ListFlights"
	BookFlightName    = "BookFlight"
	ListBookingsName  = "ListBookings"
	CancelBookingName = "CancelBooking"
)

// Activities runs ledger operations for the booking workflows.
// The worker owns the single ledger instance.
type Activities struct {
	ledger *ledger.Ledger
}

// NewActivities creates a new Activities instance
func NewActivities(l *ledger.Ledger) *Activities {
	return &Activities{ledger: l}
}

// ListFlights returns every flight in catalog order
func (a *Activities) ListFlights(ctx context.Context) ([]models.Flight, error) {
	return a.ledger.ListFlights(), nil
}

// BookFlight takes a seat for the passenger
func (a *Activities) BookFlight(ctx context.Context, input models.BookFlightInput) (*models.Booking, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Booking flight", "passenger", input.PassengerName, "flightId", input.FlightID)

	booking, err := a.ledger.Book(input.PassengerName, input.FlightID)
	if err != nil {
		logger.Info("Booking rejected", "passenger", input.PassengerName, "error", err)
		return nil, toApplicationError(err)
	}

	logger.Info("Booking confirmed", "passenger", input.PassengerName, "confirmation", booking.ConfirmationCode)
	return &booking, nil
}

// ListBookings returns the active bookings in booking order
func (a *Activities) ListBookings(ctx context.Context) ([]models.BookingView, error) {
	return a.ledger.ListBookings(), nil
}

// CancelBooking releases the passenger's seat
func (a *Activities) CancelBooking(ctx context.Context, input models.CancelBookingInput) (*models.Booking, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Cancelling booking", "passenger", input.PassengerName)

	booking, err := a.ledger.Cancel(input.PassengerName)
	if err != nil {
		logger.Info("Cancellation rejected", "passenger", input.PassengerName, "error", err)
		return nil, toApplicationError(err)
	}

	logger.Info("Booking cancelled", "passenger", input.PassengerName, "flightId", booking.FlightID)
	return &booking, nil
}

// toApplicationError marks ledger errors non-retryable and tags them with
// their kind so callers can rebuild them. Retrying a rejected booking would
// give the same answer.
func toApplicationError(err error) error {
	kind := ledger.Kind(err)
	if kind == "" {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), kind, nil)
}
