package workflows

import (
	"time"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/activities"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ActivityTimeout bounds a single ledger activity
const ActivityTimeout = 10 * time.Second

// Ledger activities are not retried; a rejection is final.
func withActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
}

// BookFlightWorkflow books one seat for a passenger
func BookFlightWorkflow(ctx workflow.Context, input models.BookFlightInput) (*models.Booking, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Book flight workflow started", "passenger", input.PassengerName, "flightId", input.FlightID)

	var booking models.Booking
	err := workflow.ExecuteActivity(withActivityOptions(ctx), activities.BookFlightName, input).Get(ctx, &booking)
	if err != nil {
		logger.Info("Booking failed", "passenger", input.PassengerName, "error", err)
		return nil, err
	}

	logger.Info("Booking completed", "passenger", input.PassengerName, "confirmation", booking.ConfirmationCode)
	return &booking, nil
}

// CancelBookingWorkflow cancels a passenger's booking
func CancelBookingWorkflow(ctx workflow.Context, input models.CancelBookingInput) (*models.Booking, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Cancel booking workflow started", "passenger", input.PassengerName)

	var booking models.Booking
	err := workflow.ExecuteActivity(withActivityOptions(ctx), activities.CancelBookingName, input).Get(ctx, &booking)
	if err != nil {
		logger.Info("Cancellation failed", "passenger", input.PassengerName, "error", err)
		return nil, err
	}

	return &booking, nil
}

// ListFlightsWorkflow returns the flight catalog with current seat counts
func ListFlightsWorkflow(ctx workflow.Context) ([]models.Flight, error) {
	var flights []models.Flight
	if err := workflow.ExecuteActivity(withActivityOptions(ctx), activities.ListFlightsName).Get(ctx, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

// ListBookingsWorkflow returns the active bookings
func ListBookingsWorkflow(ctx workflow.Context) ([]models.BookingView, error) {
	bookings := []models.BookingView{}
	if err := workflow.ExecuteActivity(withActivityOptions(ctx), activities.ListBookingsName).Get(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
