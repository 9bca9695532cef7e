package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/messages"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/service"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/sirupsen/logrus"
)

const menu = `
Flight Booking System
1. View Flights
2. Book Flight
3. View My Bookings
4. Cancel Booking
5. Exit
`

// Session runs the numbered menu against a booking service
type Session struct {
	svc   service.BookingService
	in    *bufio.Scanner
	out   io.Writer
	log   logrus.FieldLogger
	lines chan string
	done  chan struct{}
}

func NewSession(svc service.BookingService, in io.Reader, out io.Writer, log logrus.FieldLogger) *Session {
	return &Session{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
		log: log,
	}
}

// Run shows the menu until the operator exits, input ends or ctx is done.
// A cancelled ctx ends Run even while it waits for input.
func (s *Session) Run(ctx context.Context) error {
	s.lines = make(chan string)
	s.done = make(chan struct{})
	defer close(s.done)
	go s.read()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, menu)
		choice, ok := s.prompt(ctx, "Enter your choice: ")
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.in.Err()
		}

		switch choice {
		case "1":
			s.showFlights(ctx)
		case "2":
			s.book(ctx)
		case "3":
			s.showBookings(ctx)
		case "4":
			s.cancel(ctx)
		case "5":
			s.println(messages.Goodbye)
			return nil
		default:
			s.println(messages.InvalidChoice)
		}
	}
}

// read feeds input lines to prompt; lines is closed when input ends
func (s *Session) read() {
	defer close(s.lines)
	for s.in.Scan() {
		select {
		case s.lines <- s.in.Text():
		case <-s.done:
			return
		}
	}
}

func (s *Session) prompt(ctx context.Context, label string) (string, bool) {
	fmt.Fprint(s.out, label)
	select {
	case line, ok := <-s.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-ctx.Done():
		return "", false
	}
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) fail(op string, err error) {
	s.log.WithError(err).WithField("operation", op).Error("booking service failed")
	s.println(messages.Unavailable)
}

func (s *Session) showFlights(ctx context.Context) bool {
	flights, err := s.svc.GetFlights(ctx)
	if err != nil {
		s.fail("list_flights", err)
		return false
	}
	s.println("")
	s.println(messages.AvailableFlights)
	for _, f := range flights {
		s.println(messages.FlightLine(f))
	}
	return true
}

func (s *Session) book(ctx context.Context) {
	name, ok := s.prompt(ctx, "Enter your name: ")
	if !ok {
		return
	}
	if name == "" {
		s.println(messages.NameRequired)
		return
	}
	if !s.showFlights(ctx) {
		return
	}
	flightID, ok := s.prompt(ctx, "Enter flight number to book: ")
	if !ok {
		return
	}

	req := models.BookFlightRequest{PassengerName: name, FlightID: flightID}
	booking, err := s.svc.BookFlight(ctx, &req)
	if err != nil {
		msg := messages.BookFailure(err, req, s.existingFlight(ctx, name))
		if msg == messages.Unavailable {
			s.fail("book", err)
			return
		}
		s.println(msg)
		return
	}
	s.println(messages.BookingSucceeded(booking))
}

func (s *Session) existingFlight(ctx context.Context, name string) string {
	bookings, err := s.svc.GetBookings(ctx)
	if err != nil {
		return ""
	}
	return messages.ExistingFlight(bookings, name)
}

func (s *Session) showBookings(ctx context.Context) {
	bookings, err := s.svc.GetBookings(ctx)
	if err != nil {
		s.fail("list_bookings", err)
		return
	}
	s.println("")
	s.println(messages.YourBookings)
	if len(bookings) == 0 {
		s.println(messages.NoBookings)
		return
	}
	for _, b := range bookings {
		s.println(messages.BookingLine(b))
	}
}

func (s *Session) cancel(ctx context.Context) {
	name, ok := s.prompt(ctx, "Enter your name to cancel booking: ")
	if !ok {
		return
	}
	if name == "" {
		s.println(messages.NameRequired)
		return
	}

	booking, err := s.svc.CancelBooking(ctx, name)
	if err != nil {
		msg := messages.CancelFailure(err)
		if msg == messages.Unavailable {
			s.fail("cancel", err)
			return
		}
		s.println(msg)
		return
	}
	s.println(messages.BookingCancelled(booking))
}
