package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/ledger"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/service"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/validator"
	"github.com/cx-tal-miterani/flight-booking-ledger/internal/weather"
	"github.com/cx-tal-miterani/flight-booking-ledger/shared/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// WeatherProvider fetches destination weather reports
type WeatherProvider interface {
	Fetch(ctx context.Context, city string) (*weather.Report, error)
}

// FlightWatcher streams seat updates for one flight over a websocket
type FlightWatcher interface {
	Serve(w http.ResponseWriter, r *http.Request, flightID string) error
}

// Handler contains HTTP handlers for the API and the web pages
type Handler struct {
	bookingService service.BookingService
	weather        WeatherProvider
	watcher        FlightWatcher
	validator      *validator.BookingValidator
	log            logrus.FieldLogger
}

// Option configures a Handler
type Option func(*Handler)

func WithWeather(p WeatherProvider) Option {
	return func(h *Handler) { h.weather = p }
}

func WithFlightWatcher(fw FlightWatcher) Option {
	return func(h *Handler) { h.watcher = fw }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(h *Handler) { h.log = log }
}

// NewHandler creates a new Handler instance
func NewHandler(bookingService service.BookingService, opts ...Option) *Handler {
	h := &Handler{
		bookingService: bookingService,
		validator:      validator.NewBookingValidator(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		h.log = discard
	}
	return h
}

// ErrorResponse is the body of every API error
type ErrorResponse struct {
	Error   string                      `json:"error"`
	Code    string                      `json:"code"`
	Details []validator.ValidationError `json:"details,omitempty"`
}

// Error codes that are not ledger kinds
const (
	CodeBadRequest  = "BadRequest"
	CodeValidation  = "ValidationFailed"
	CodeNotFound    = "NotFound"
	CodeUpstream    = "UpstreamError"
	CodeUnavailable = "Unavailable"
	CodeInternal    = "Internal"
)

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps booking service errors to status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := ledger.Kind(err)
	switch kind {
	case ledger.KindInvalidFlight, ledger.KindNoSuchBooking:
		respondError(w, http.StatusNotFound, kind, err.Error())
	case ledger.KindSoldOut, ledger.KindAlreadyBooked:
		respondError(w, http.StatusConflict, kind, err.Error())
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("booking service failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeValidation, Details: verrs})
		return
	}
	respondError(w, http.StatusBadRequest, CodeValidation, err.Error())
}

// GetFlights handles GET /api/flights
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.bookingService.GetFlights(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]
	flight, err := h.bookingService.GetFlight(r.Context(), flightID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.ValidateBook(&req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	booking, err := h.bookingService.BookFlight(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

// GetBookings handles GET /api/bookings
func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.GetBookings(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

// CancelBooking handles DELETE /api/bookings/{name}
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	req := models.CancelBookingRequest{PassengerName: mux.Vars(r)["name"]}
	if err := h.validator.ValidateCancel(&req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	booking, err := h.bookingService.CancelBooking(r.Context(), req.PassengerName)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}

// GetWeather handles GET /api/weather/{city}?unit=C|F
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	if h.weather == nil {
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "weather lookups are disabled")
		return
	}
	unit, err := weather.ParseUnit(r.URL.Query().Get("unit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	city := mux.Vars(r)["city"]
	report, err := h.weather.Fetch(r.Context(), city)
	switch {
	case errors.Is(err, weather.ErrEmptyCity):
		respondError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	case errors.Is(err, weather.ErrCityNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "City '"+city+"' not found. Please check the spelling.")
		return
	case errors.Is(err, weather.ErrUpstream):
		h.log.WithError(err).WithField("city", city).Warn("weather lookup failed")
		respondError(w, http.StatusBadGateway, CodeUpstream, "Could not retrieve weather data. Please try again later.")
		return
	case err != nil:
		h.log.WithError(err).WithField("city", city).Error("weather lookup failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
		return
	}

	summary, err := weather.Summarize(report, unit)
	if err != nil {
		h.log.WithError(err).WithField("city", city).Warn("weather report unusable")
		respondError(w, http.StatusBadGateway, CodeUpstream, "Could not retrieve weather data. Please try again later.")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// FlightUpdates handles GET /api/flights/{id}/ws
func (h *Handler) FlightUpdates(w http.ResponseWriter, r *http.Request) {
	if h.watcher == nil {
		respondError(w, http.StatusServiceUnavailable, CodeUnavailable, "live updates are disabled")
		return
	}
	flightID := mux.Vars(r)["id"]
	if _, err := h.bookingService.GetFlight(r.Context(), flightID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := h.watcher.Serve(w, r, flightID); err != nil {
		// the upgrader has already written the failure response
		h.log.WithError(err).WithField("flight", flightID).Warn("websocket upgrade failed")
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
