package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/messages"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Flights    []models.Flight
	Bookings   []models.BookingView
	Flash      string
	FlashError bool
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, "", false)
}

// BookForm handles POST /book
func (h *Handler) BookForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderIndex(w, r, http.StatusBadRequest, "Invalid form submission", true)
		return
	}
	req := models.BookFlightRequest{
		PassengerName: r.PostForm.Get("passenger_name"),
		FlightID:      r.PostForm.Get("flight_id"),
	}
	if err := h.validator.ValidateBook(&req); err != nil {
		msg := messages.NameRequired
		if req.PassengerName != "" {
			msg = messages.InvalidFlight
		}
		h.renderIndex(w, r, http.StatusOK, msg, true)
		return
	}

	booking, err := h.bookingService.BookFlight(r.Context(), &req)
	if err != nil {
		existing := ""
		if bookings, listErr := h.bookingService.GetBookings(r.Context()); listErr == nil {
			existing = messages.ExistingFlight(bookings, req.PassengerName)
		}
		h.renderIndex(w, r, formStatus(err), messages.BookFailure(err, req, existing), true)
		return
	}
	h.renderIndex(w, r, http.StatusOK, messages.BookingSucceeded(booking), false)
}

// CancelForm handles POST /cancel
func (h *Handler) CancelForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderIndex(w, r, http.StatusBadRequest, "Invalid form submission", true)
		return
	}
	req := models.CancelBookingRequest{PassengerName: r.PostForm.Get("passenger_name")}
	if err := h.validator.ValidateCancel(&req); err != nil {
		h.renderIndex(w, r, http.StatusOK, messages.NameRequired, true)
		return
	}

	booking, err := h.bookingService.CancelBooking(r.Context(), req.PassengerName)
	if err != nil {
		h.renderIndex(w, r, formStatus(err), messages.CancelFailure(err), true)
		return
	}
	h.renderIndex(w, r, http.StatusOK, messages.BookingCancelled(booking), false)
}

// formStatus keeps domain rejections as 200 pages, like validation
// rejections; only infrastructure failures change the status.
func formStatus(err error) int {
	if ledger.Kind(err) != "" {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func (h *Handler) renderIndex(w http.ResponseWriter, r *http.Request, status int, flash string, flashError bool) {
	data := pageData{Flash: flash, FlashError: flashError}

	flights, err := h.bookingService.GetFlights(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to load flights for page")
		http.Error(w, messages.Unavailable, http.StatusServiceUnavailable)
		return
	}
	bookings, err := h.bookingService.GetBookings(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to load bookings for page")
		http.Error(w, messages.Unavailable, http.StatusServiceUnavailable)
		return
	}
	data.Flights = flights
	data.Bookings = bookings

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.log.WithError(err).Error("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
