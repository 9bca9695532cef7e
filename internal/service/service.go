package service

import (
	"context"
	"io"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/metrics"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/sirupsen/logrus"
)

// Operation names used in logs and metrics
const (
	OpBook   = "book"
	OpCancel = "cancel"

	kindInternal = "Internal"
)

// BookingService defines the booking service interface
type BookingService interface {
	GetFlights(ctx context.Context) ([]models.Flight, error)
	GetFlight(ctx context.Context, flightID string) (*models.Flight, error)
	BookFlight(ctx context.Context, req *models.BookFlightRequest) (*models.Booking, error)
	GetBookings(ctx context.Context) ([]models.BookingView, error)
	CancelBooking(ctx context.Context, passengerName string) (*models.Booking, error)
}

// Notifier receives a flight's seat count after it changes
type Notifier interface {
	NotifySeats(update models.SeatUpdate)
}

type options struct {
	notifier Notifier
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

// Option configures a booking service
type Option func(*options)

// WithNotifier publishes seat updates after successful bookings and cancellations
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithMetrics records operation outcomes and seat counts
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the service logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.log = discard
	}
	return o
}

// observe logs and counts the outcome of a mutating operation
func (o options) observe(op string, booking *models.Booking, err error) {
	kind := ledger.Kind(err)
	if o.metrics != nil {
		metricKind := kind
		if err != nil && kind == "" {
			metricKind = kindInternal
		}
		o.metrics.ObserveOperation(op, metricKind)
	}
	if err != nil {
		entry := o.log.WithField("operation", op).WithError(err)
		if kind != "" {
			entry.WithField("kind", kind).Info("booking operation rejected")
		} else {
			entry.Error("booking operation failed")
		}
		return
	}

	o.log.WithFields(logrus.Fields{
		"operation": op,
		"passenger": booking.PassengerName,
		"flight":    booking.FlightID,
	}).Info("booking operation succeeded")
}

// publishSeats records and broadcasts a flight's new seat count
func (o options) publishSeats(update models.SeatUpdate) {
	if o.metrics != nil {
		o.metrics.SetSeats(update.FlightID, update.AvailableSeats)
	}
	if o.notifier != nil {
		o.notifier.NotifySeats(update)
	}
}

func (o options) publishesSeats() bool {
	return o.metrics != nil || o.notifier != nil
}

// bookingServiceImpl implements BookingService over an in-process ledger
type bookingServiceImpl struct {
	ledger *ledger.Ledger
	opts   options
}

// NewBookingService creates a BookingService backed by l
func NewBookingService(l *ledger.Ledger, opts ...Option) BookingService {
	svc := &bookingServiceImpl{
		ledger: l,
		opts:   buildOptions(opts),
	}
	if svc.opts.metrics != nil {
		for _, f := range l.ListFlights() {
			svc.opts.metrics.SetSeats(f.ID, f.AvailableSeats)
		}
	}
	if svc.opts.publishesSeats() {
		// published from inside the ledger so concurrent updates keep their order
		l.SetSeatObserver(svc.opts.publishSeats)
	}
	return svc
}

func (s *bookingServiceImpl) GetFlights(ctx context.Context) ([]models.Flight, error) {
	return s.ledger.ListFlights(), nil
}

func (s *bookingServiceImpl) GetFlight(ctx context.Context, flightID string) (*models.Flight, error) {
	flight, err := s.ledger.Flight(flightID)
	if err != nil {
		return nil, err
	}
	return &flight, nil
}

func (s *bookingServiceImpl) BookFlight(ctx context.Context, req *models.BookFlightRequest) (*models.Booking, error) {
	booking, err := s.ledger.Book(req.PassengerName, req.FlightID)
	if err != nil {
		s.opts.observe(OpBook, nil, err)
		return nil, err
	}
	s.opts.observe(OpBook, &booking, nil)
	return &booking, nil
}

func (s *bookingServiceImpl) GetBookings(ctx context.Context) ([]models.BookingView, error) {
	return s.ledger.ListBookings(), nil
}

func (s *bookingServiceImpl) CancelBooking(ctx context.Context, passengerName string) (*models.Booking, error) {
	booking, err := s.ledger.Cancel(passengerName)
	if err != nil {
		s.opts.observe(OpCancel, nil, err)
		return nil, err
	}
	s.opts.observe(OpCancel, &booking, nil)
	return &booking, nil
}
