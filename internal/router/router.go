package router

import (
	"net/http"

	"github.com/cx-tal-miterani/flight-booking-ledger/internal/handlers"
	"github.com/gorilla/mux"
)

// Options carries the optional pieces of the router
type Options struct {
	// Metrics serves /metrics when set
	Metrics http.Handler
	// Middleware wraps every route, outermost first
	Middleware []mux.MiddlewareFunc
}

// NewRouter creates and configures the HTTP router
func NewRouter(h *handlers.Handler, opts Options) *mux.Router {
	r := mux.NewRouter()

	for _, mw := range opts.Middleware {
		r.Use(mw)
	}
	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Flights
	api.HandleFunc("/flights", h.GetFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)

	// Bookings
	api.HandleFunc("/bookings", h.GetBookings).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings/{name}", h.CancelBooking).Methods(http.MethodDelete, http.MethodOptions)

	// Destination weather
	api.HandleFunc("/weather/{city}", h.GetWeather).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for real-time seat updates
	api.HandleFunc("/flights/{id}/ws", h.FlightUpdates).Methods(http.MethodGet)

	// Web pages
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/book", h.BookForm).Methods(http.MethodPost)
	r.HandleFunc("/cancel", h.CancelForm).Methods(http.MethodPost)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics).Methods(http.MethodGet)
	}

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
