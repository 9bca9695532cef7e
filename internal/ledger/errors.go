package ledger

import "errors"

var (
	ErrInvalidFlight = errors.New("invalid flight")
	ErrSoldOut       = errors.New("no seats available")
	ErrNoSuchBooking = errors.New("no booking found")
	ErrAlreadyBooked = errors.New("passenger already booked")
)

// Error kinds carried across process boundaries (Temporal error types, API error codes)
const (
	KindInvalidFlight = "InvalidFlight"
	KindSoldOut       = "SoldOut"
	KindNoSuchBooking = "NoSuchBooking"
	KindAlreadyBooked = "AlreadyBooked"
)

var kinds = []struct {
	kind string
	err  error
}{
	{KindInvalidFlight, ErrInvalidFlight},
	{KindSoldOut, ErrSoldOut},
	{KindNoSuchBooking, ErrNoSuchBooking},
	{KindAlreadyBooked, ErrAlreadyBooked},
}

// Kind returns the stable name of a ledger error, or "" for anything else.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// FromKind rebuilds a ledger error from its kind, keeping msg as the
// error text. Unknown kinds yield nil.
func FromKind(kind, msg string) error {
	for _, k := range kinds {
		if k.kind == kind {
			if msg == "" {
				return k.err
			}
			return &kindError{err: k.err, msg: msg}
		}
	}
	return nil
}

type kindError struct {
	err error
	msg string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.err }
