package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/workflows"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
)

// temporalBookingService runs every operation as a workflow on the
// booking worker, which owns the ledger.
type temporalBookingService struct {
	temporalClient client.Client
	opts           options
}

// NewTemporalBookingService creates a BookingService backed by Temporal workflows
func NewTemporalBookingService(temporalClient client.Client, opts ...Option) BookingService {
	return &temporalBookingService{
		temporalClient: temporalClient,
		opts:           buildOptions(opts),
	}
}

func (s *temporalBookingService) execute(ctx context.Context, idPrefix string, workflow interface{}, result interface{}, args ...interface{}) error {
	workflowOptions := client.StartWorkflowOptions{
		ID:        idPrefix + uuid.New().String(),
		TaskQueue: models.TaskQueue,
	}

	run, err := s.temporalClient.ExecuteWorkflow(ctx, workflowOptions, workflow, args...)
	if err != nil {
		return fmt.Errorf("failed to start workflow: %w", err)
	}
	if err := run.Get(ctx, result); err != nil {
		return fromWorkflowError(err)
	}
	return nil
}

// fromWorkflowError turns a ledger rejection carried as an application
// error back into the matching ledger error.
func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		// the SDK appends " (type: X, retryable: false)" to the message
		msg := appErr.Error()
		if i := strings.Index(msg, " (type: "); i >= 0 {
			msg = msg[:i]
		}
		if ledgerErr := ledger.FromKind(appErr.Type(), msg); ledgerErr != nil {
			return ledgerErr
		}
	}
	return err
}

func (s *temporalBookingService) GetFlights(ctx context.Context) ([]models.Flight, error) {
	var flights []models.Flight
	if err := s.execute(ctx, models.WorkflowPrefixListFlights, workflows.ListFlightsWorkflow, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (s *temporalBookingService) GetFlight(ctx context.Context, flightID string) (*models.Flight, error) {
	flights, err := s.GetFlights(ctx)
	if err != nil {
		return nil, err
	}
	for i := range flights {
		if flights[i].ID == flightID {
			return &flights[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ledger.ErrInvalidFlight, flightID)
}

func (s *temporalBookingService) BookFlight(ctx context.Context, req *models.BookFlightRequest) (*models.Booking, error) {
	input := models.BookFlightInput{
		PassengerName: req.PassengerName,
		FlightID:      req.FlightID,
	}

	var booking models.Booking
	if err := s.execute(ctx, models.WorkflowPrefixBook, workflows.BookFlightWorkflow, &booking, input); err != nil {
		s.opts.observe(OpBook, nil, err)
		return nil, err
	}
	s.opts.observe(OpBook, &booking, nil)
	s.publishSeats(&booking)
	return &booking, nil
}

func (s *temporalBookingService) GetBookings(ctx context.Context) ([]models.BookingView, error) {
	bookings := []models.BookingView{}
	if err := s.execute(ctx, models.WorkflowPrefixListBookings, workflows.ListBookingsWorkflow, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.BookingView{}
	}
	return bookings, nil
}

func (s *temporalBookingService) CancelBooking(ctx context.Context, passengerName string) (*models.Booking, error) {
	input := models.CancelBookingInput{PassengerName: passengerName}

	var booking models.Booking
	if err := s.execute(ctx, models.WorkflowPrefixCancel, workflows.CancelBookingWorkflow, &booking, input); err != nil {
		s.opts.observe(OpCancel, nil, err)
		return nil, err
	}
	s.opts.observe(OpCancel, &booking, nil)
	s.publishSeats(&booking)
	return &booking, nil
}

// publishSeats forwards the seat count the worker read under its ledger lock
func (s *temporalBookingService) publishSeats(booking *models.Booking) {
	if !s.opts.publishesSeats() {
		return
	}
	s.opts.publishSeats(models.SeatUpdate{FlightID: booking.FlightID, AvailableSeats: booking.SeatsLeft})
}
