package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/google/uuid"
)

// Ledger holds the flight catalog and the active bookings.
// Every exported method is one critical section, so a failed
// operation never leaves a partial mutation behind.
type Ledger struct {
	mu       sync.RWMutex
	flights  map[string]*models.Flight
	order    []string // flight IDs in catalog order
	bookings map[string]models.Booking
	booked   []string // passenger names in booking order
	now      func() time.Time
	observer func(models.SeatUpdate)
}

// New creates a ledger over the given catalog. Catalog order is kept;
// a repeated ID replaces the earlier entry in place.
func New(flights ...models.Flight) *Ledger {
	l := &Ledger{
		flights:  make(map[string]*models.Flight, len(flights)),
		bookings: make(map[string]models.Booking),
		now:      time.Now,
	}
	for _, f := range flights {
		if f.AvailableSeats < 0 {
			f.AvailableSeats = 0
		}
		if f.Status == "" {
			f.Status = models.FlightStatusOnTime
		}
		flight := f
		if _, exists := l.flights[f.ID]; !exists {
			l.order = append(l.order, f.ID)
		}
		l.flights[f.ID] = &flight
	}
	return l
}

// NewSeeded creates a ledger over the seed catalog
func NewSeeded() *Ledger {
	return New(SeedCatalog()...)
}

// SetSeatObserver registers fn to receive every seat count change. fn runs
// inside the critical section, so updates arrive in mutation order; it must
// not block or call back into the ledger.
func (l *Ledger) SetSeatObserver(fn func(models.SeatUpdate)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observer = fn
}

func (l *Ledger) publish(flight *models.Flight) {
	if l.observer != nil {
		l.observer(models.SeatUpdate{FlightID: flight.ID, AvailableSeats: flight.AvailableSeats})
	}
}

// ListFlights returns a copy of every flight in catalog order
func (l *Ledger) ListFlights() []models.Flight {
	l.mu.RLock()
	defer l.mu.RUnlock()

	flights := make([]models.Flight, 0, len(l.order))
	for _, id := range l.order {
		flights = append(flights, *l.flights[id])
	}
	return flights
}

// Flight returns a single flight by ID
func (l *Ledger) Flight(flightID string) (models.Flight, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	flight, ok := l.flights[flightID]
	if !ok {
		return models.Flight{}, fmt.Errorf("%w: %s", ErrInvalidFlight, flightID)
	}
	return *flight, nil
}

// Book takes one seat on the flight for the passenger. Checks run in
// order: unknown flight, sold out, passenger already booked.
func (l *Ledger) Book(passengerName, flightID string) (models.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	flight, ok := l.flights[flightID]
	if !ok {
		return models.Booking{}, fmt.Errorf("%w: %s", ErrInvalidFlight, flightID)
	}
	if flight.AvailableSeats <= 0 {
		return models.Booking{}, fmt.Errorf("%w: %s", ErrSoldOut, flightID)
	}
	if existing, ok := l.bookings[passengerName]; ok {
		return models.Booking{}, fmt.Errorf("%w: %s on %s", ErrAlreadyBooked, passengerName, existing.FlightID)
	}

	flight.AvailableSeats--
	booking := models.Booking{
		PassengerName:    passengerName,
		FlightID:         flight.ID,
		Destination:      flight.Destination,
		ConfirmationCode: strings.ToUpper(uuid.New().String()[:8]),
		BookedAt:         l.now(),
		SeatsLeft:        flight.AvailableSeats,
	}
	l.bookings[passengerName] = booking
	l.booked = append(l.booked, passengerName)
	l.publish(flight)

	return booking, nil
}

// Booking returns the passenger's active booking
func (l *Ledger) Booking(passengerName string) (models.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	booking, ok := l.bookings[passengerName]
	if !ok {
		return models.Booking{}, fmt.Errorf("%w: %s", ErrNoSuchBooking, passengerName)
	}
	return booking, nil
}

// ListBookings returns the active bookings in the order they were made.
// A fresh ledger yields an empty, non-nil slice.
func (l *Ledger) ListBookings() []models.BookingView {
	l.mu.RLock()
	defer l.mu.RUnlock()

	views := make([]models.BookingView, 0, len(l.booked))
	for _, name := range l.booked {
		views = append(views, l.bookings[name].View())
	}
	return views
}

// Cancel removes the passenger's booking and returns its seat to the flight.
func (l *Ledger) Cancel(passengerName string) (models.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	booking, ok := l.bookings[passengerName]
	if !ok {
		return models.Booking{}, fmt.Errorf("%w: %s", ErrNoSuchBooking, passengerName)
	}

	// bookings only ever reference catalog flights, and flights are never removed
	flight := l.flights[booking.FlightID]
	flight.AvailableSeats++
	booking.SeatsLeft = flight.AvailableSeats
	delete(l.bookings, passengerName)
	for i, name := range l.booked {
		if name == passengerName {
			l.booked = append(l.booked[:i], l.booked[i+1:]...)
			break
		}
	}
	l.publish(flight)

	return booking, nil
}
