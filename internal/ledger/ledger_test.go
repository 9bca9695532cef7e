package ledger

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seatsOf(t *testing.T, l *Ledger) map[string]int {
	t.Helper()
	seats := make(map[string]int)
	for _, f := range l.ListFlights() {
		seats[f.ID] = f.AvailableSeats
	}
	return seats
}

func TestListFlights_SeedOrder(t *testing.T) {
	l := NewSeeded()

	flights := l.ListFlights()
	require.Len(t, flights, 3)
	assert.Equal(t, "PK101", flights[0].ID)
	assert.Equal(t, "Karachi", flights[0].Destination)
	assert.Equal(t, 10, flights[0].AvailableSeats)
	assert.Equal(t, "PK202", flights[1].ID)
	assert.Equal(t, 5, flights[1].AvailableSeats)
	assert.Equal(t, "PK303", flights[2].ID)
	assert.Equal(t, 8, flights[2].AvailableSeats)
}

func TestListFlights_ReturnsCopies(t *testing.T) {
	l := NewSeeded()

	flights := l.ListFlights()
	flights[0].AvailableSeats = 0

	assert.Equal(t, 10, seatsOf(t, l)["PK101"])
}

func TestNew_DuplicateIDKeepsPosition(t *testing.T) {
	l := New(
		models.Flight{ID: "A1", Destination: "First", AvailableSeats: 1},
		models.Flight{ID: "B2", Destination: "Second", AvailableSeats: 2},
		models.Flight{ID: "A1", Destination: "Replaced", AvailableSeats: 3},
	)

	flights := l.ListFlights()
	require.Len(t, flights, 2)
	assert.Equal(t, "A1", flights[0].ID)
	assert.Equal(t, "Replaced", flights[0].Destination)
	assert.Equal(t, 3, flights[0].AvailableSeats)
}

func TestNew_ClampsNegativeSeats(t *testing.T) {
	l := New(models.Flight{ID: "X1", Destination: "Nowhere", AvailableSeats: -4})

	f, err := l.Flight("X1")
	require.NoError(t, err)
	assert.Equal(t, 0, f.AvailableSeats)
}

func TestBook_Success(t *testing.T) {
	l := NewSeeded()

	booking, err := l.Book("Ali", "PK202")
	require.NoError(t, err)
	assert.Equal(t, "Ali", booking.PassengerName)
	assert.Equal(t, "PK202", booking.FlightID)
	assert.Equal(t, "Lahore", booking.Destination)
	assert.Len(t, booking.ConfirmationCode, 8)
	assert.False(t, booking.BookedAt.IsZero())

	assert.Equal(t, 4, seatsOf(t, l)["PK202"])
	assert.Equal(t, 4, booking.SeatsLeft)
}

func TestBook_InvalidFlight(t *testing.T) {
	l := NewSeeded()
	before := seatsOf(t, l)

	_, err := l.Book("Sara", "PK999")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidFlight)
	assert.Equal(t, before, seatsOf(t, l))
	assert.Empty(t, l.ListBookings())
}

func TestBook_SoldOut(t *testing.T) {
	l := NewSeeded()
	for i := 0; i < 5; i++ {
		_, err := l.Book(fmt.Sprintf("passenger-%d", i), "PK202")
		require.NoError(t, err)
	}
	require.Equal(t, 0, seatsOf(t, l)["PK202"])
	before := seatsOf(t, l)

	_, err := l.Book("Zara", "PK202")
	assert.ErrorIs(t, err, ErrSoldOut)
	assert.Equal(t, before, seatsOf(t, l))
	assert.Len(t, l.ListBookings(), 5)
}

func TestBook_AlreadyBooked(t *testing.T) {
	l := NewSeeded()
	_, err := l.Book("Ali", "PK101")
	require.NoError(t, err)
	before := seatsOf(t, l)

	_, err = l.Book("Ali", "PK303")
	assert.ErrorIs(t, err, ErrAlreadyBooked)
	assert.Equal(t, before, seatsOf(t, l))

	booking, err := l.Booking("Ali")
	require.NoError(t, err)
	assert.Equal(t, "PK101", booking.FlightID)
}

func TestBook_InvalidFlightCheckedBeforeDuplicate(t *testing.T) {
	l := NewSeeded()
	_, err := l.Book("Ali", "PK101")
	require.NoError(t, err)

	_, err = l.Book("Ali", "PK999")
	assert.ErrorIs(t, err, ErrInvalidFlight)
}

func TestBook_SoldOutCheckedBeforeDuplicate(t *testing.T) {
	l := NewSeeded()
	_, err := l.Book("Ali", "PK101")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := l.Book(fmt.Sprintf("passenger-%d", i), "PK202")
		require.NoError(t, err)
	}
	before := seatsOf(t, l)

	_, err = l.Book("Ali", "PK202")
	assert.ErrorIs(t, err, ErrSoldOut)
	assert.Equal(t, before, seatsOf(t, l))

	booking, err := l.Booking("Ali")
	require.NoError(t, err)
	assert.Equal(t, "PK101", booking.FlightID)
}

func TestListBookings_FreshLedgerIsEmpty(t *testing.T) {
	l := NewSeeded()

	bookings := l.ListBookings()
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestListBookings_InsertionOrder(t *testing.T) {
	l := NewSeeded()
	for _, name := range []string{"Zara", "Ali", "Maya"} {
		_, err := l.Book(name, "PK101")
		require.NoError(t, err)
	}
	_, err := l.Cancel("Ali")
	require.NoError(t, err)
	_, err = l.Book("Ali", "PK303")
	require.NoError(t, err)

	assert.Equal(t, []models.BookingView{
		{PassengerName: "Zara", FlightID: "PK101", Destination: "Karachi"},
		{PassengerName: "Maya", FlightID: "PK101", Destination: "Karachi"},
		{PassengerName: "Ali", FlightID: "PK303", Destination: "Islamabad"},
	}, l.ListBookings())
}

func TestCancel_RestoresSeat(t *testing.T) {
	l := NewSeeded()
	_, err := l.Book("Ali", "PK202")
	require.NoError(t, err)

	cancelled, err := l.Cancel("Ali")
	require.NoError(t, err)
	assert.Equal(t, "PK202", cancelled.FlightID)
	assert.Equal(t, 5, cancelled.SeatsLeft)
	assert.Equal(t, 5, seatsOf(t, l)["PK202"])

	for _, b := range l.ListBookings() {
		assert.NotEqual(t, "Ali", b.PassengerName)
	}
	_, err = l.Booking("Ali")
	assert.ErrorIs(t, err, ErrNoSuchBooking)
}

func TestCancel_NoSuchBooking(t *testing.T) {
	l := NewSeeded()
	before := seatsOf(t, l)

	_, err := l.Cancel("Nobody")
	assert.ErrorIs(t, err, ErrNoSuchBooking)
	assert.Equal(t, before, seatsOf(t, l))
	assert.Empty(t, l.ListBookings())
}

func TestCancel_Twice(t *testing.T) {
	l := NewSeeded()
	_, err := l.Book("Ali", "PK303")
	require.NoError(t, err)
	_, err = l.Cancel("Ali")
	require.NoError(t, err)

	_, err = l.Cancel("Ali")
	assert.ErrorIs(t, err, ErrNoSuchBooking)
	assert.Equal(t, 8, seatsOf(t, l)["PK303"])
}

func TestBookCancel_RoundTrip(t *testing.T) {
	for _, f := range SeedCatalog() {
		t.Run(f.ID, func(t *testing.T) {
			l := NewSeeded()
			before := seatsOf(t, l)

			_, err := l.Book("Round Trip", f.ID)
			require.NoError(t, err)
			_, err = l.Cancel("Round Trip")
			require.NoError(t, err)

			assert.Equal(t, before, seatsOf(t, l))
		})
	}
}

func TestConcurrentBookings_NeverOversell(t *testing.T) {
	l := NewSeeded()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, soldOut := 0, 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Book(fmt.Sprintf("p%d", i), "PK202")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrSoldOut):
				soldOut++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 45, soldOut)
	assert.Equal(t, 0, seatsOf(t, l)["PK202"])
}

func TestSeatObserver_ReceivesChangesInOrder(t *testing.T) {
	l := NewSeeded()
	var updates []models.SeatUpdate
	l.SetSeatObserver(func(u models.SeatUpdate) { updates = append(updates, u) })

	_, err := l.Book("Ali", "PK202")
	require.NoError(t, err)
	_, err = l.Book("Sara", "PK999")
	require.Error(t, err)
	_, err = l.Cancel("Ali")
	require.NoError(t, err)

	assert.Equal(t, []models.SeatUpdate{
		{FlightID: "PK202", AvailableSeats: 4},
		{FlightID: "PK202", AvailableSeats: 5},
	}, updates)
}

func TestSeatObserver_LastUpdateMatchesLedgerUnderLoad(t *testing.T) {
	l := NewSeeded()
	var last models.SeatUpdate
	// the observer runs under the ledger lock, so no extra locking is needed here
	l.SetSeatObserver(func(u models.SeatUpdate) { last = u })

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("p%d", i)
			if _, err := l.Book(name, "PK101"); err == nil && i%2 == 0 {
				_, _ = l.Cancel(name)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, "PK101", last.FlightID)
	assert.Equal(t, seatsOf(t, l)["PK101"], last.AvailableSeats)
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"invalid flight", fmt.Errorf("%w: PK999", ErrInvalidFlight), KindInvalidFlight},
		{"sold out", ErrSoldOut, KindSoldOut},
		{"no such booking", fmt.Errorf("wrapped: %w", ErrNoSuchBooking), KindNoSuchBooking},
		{"already booked", ErrAlreadyBooked, KindAlreadyBooked},
		{"other", errors.New("boom"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Kind(tt.err))
		})
	}
}

func TestFromKind(t *testing.T) {
	err := FromKind(KindSoldOut, "PK202")
	assert.ErrorIs(t, err, ErrSoldOut)
	assert.Equal(t, "PK202", err.Error())

	assert.Equal(t, ErrNoSuchBooking, FromKind(KindNoSuchBooking, ""))
	assert.Nil(t, FromKind("Unknown", "x"))
}
