package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/messages"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/service"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, svc service.BookingService, input ...string) string {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	var out strings.Builder
	session := NewSession(svc, strings.NewReader(strings.Join(input, "\n")+"\n"), &out, log)
	require.NoError(t, session.Run(context.Background()))
	return out.String()
}

func newSeededService() service.BookingService {
	return service.NewBookingService(ledger.NewSeeded())
}

func TestSession_ViewFlights(t *testing.T) {
	out := runSession(t, newSeededService(), "1", "5")

	assert.Contains(t, out, "Available Flights:\n"+
		"PK101 : Karachi - seats available : 10\n"+
		"PK202 : Lahore - seats available : 5\n"+
		"PK303 : Islamabad - seats available : 8\n")
	assert.Contains(t, out, "Thank you for using the Flight Booking System")
}

func TestSession_BookThenView(t *testing.T) {
	out := runSession(t, newSeededService(), "2", "Ali", "PK202", "1", "3", "5")

	assert.Contains(t, out, "Booking successful Ali booked on PK202 to Lahore.")
	assert.Contains(t, out, "PK202 : Lahore - seats available : 4")
	assert.Contains(t, out, "Your Bookings\nAli: Flight PK202 to Lahore\n")
}

func TestSession_BookRejections(t *testing.T) {
	out := runSession(t, newSeededService(),
		"2", "Sara", "PK999",
		"2", "Ali", "PK101",
		"2", "Ali", "PK303",
		"2", "",
		"5")

	assert.Contains(t, out, "Invalid flight number")
	assert.Contains(t, out, "Ali already has a booking on PK101")
	assert.Contains(t, out, messages.NameRequired)
}

func TestSession_SoldOut(t *testing.T) {
	input := []string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "Zara"} {
		input = append(input, "2", name, "PK202")
	}
	input = append(input, "5")

	out := runSession(t, newSeededService(), input...)

	assert.Contains(t, out, "No seats available on PK202")
	assert.Contains(t, out, "PK202 : Lahore - seats available : 0")
}

func TestSession_Cancel(t *testing.T) {
	out := runSession(t, newSeededService(),
		"2", "Ali", "PK202",
		"4", "Ali",
		"4", "Ali",
		"3",
		"5")

	assert.Contains(t, out, "Booking for Ali on PK202 has been canceled")
	assert.Contains(t, out, "No bookings found under this name")
	assert.Contains(t, out, "Your Bookings\nNo bookings yet.\n")
}

func TestSession_InvalidChoice(t *testing.T) {
	out := runSession(t, newSeededService(), "9", "5")

	assert.Contains(t, out, "Invalid choice, please try again")
}

func TestSession_EndOfInput(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	var out strings.Builder

	err := NewSession(newSeededService(), strings.NewReader("1\n"), &out, log).Run(context.Background())

	assert.NoError(t, err)
	assert.NotContains(t, out.String(), messages.Goodbye)
}

func TestSession_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSession(newSeededService(), strings.NewReader("1\n"), io.Discard, logrus.New()).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_CancelWhileWaitingForInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in, writer := io.Pipe()
	defer writer.Close()

	errc := make(chan error, 1)
	go func() {
		errc <- NewSession(newSeededService(), in, io.Discard, logrus.New()).Run(ctx)
	}()
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestSession_ServiceFailure(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	mockService.On("GetFlights", mock.Anything).Return(nil, errors.New("temporal unreachable"))

	out := runSession(t, mockService, "1", "5")

	assert.Contains(t, out, messages.Unavailable)
	mockService.AssertExpectations(t)
}
