// Package api exposes the scheduling service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"velamar/internal/models"
	"velamar/internal/schedule"
)

// BookingService is the service surface the HTTP layer drives.
type BookingService interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	SaveBooking(ctx context.Context, b models.Booking, actor string, explicitCancel bool) (models.Booking, error)
	ConfirmAssignment(ctx context.Context, bookingID string, kind models.ResourceKind, name, actor string) (models.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	GenerateSeries(ctx context.Context, productID string, startDate time.Time, actor string) (int, error)
	CheckResourceAvailability(ctx context.Context, name string, kind models.ResourceKind, candidate schedule.Interval, excludeID string) (schedule.Availability, error)
	DayLayout(ctx context.Context, day time.Time, startHour, visibleHours int) ([]schedule.PlacedEntry, error)
	RankStaffCandidates(ctx context.Context, query string, interval *schedule.Interval, excludeID string) ([]schedule.StaffCandidate, error)
	Catalogs(ctx context.Context) (schedule.Catalogs, error)
}

// Config holds HTTP server settings.
type Config struct {
	Port            int
	APIKey          string
	RateLimitPerSec int
	RateLimitBurst  int
	// Calendar rendering window for GET /api/calendar/day.
	CalendarStartHour    int
	CalendarVisibleHours int
}

// HTTPServer serves the scheduling API.
type HTTPServer struct {
	svc     BookingService
	admin   CatalogAdmin
	log     zerolog.Logger
	config  Config
	limiter *rate.Limiter
	server  *http.Server
}

// NewHTTPServer builds the server and its routes. admin may be nil to
// disable catalog administration.
func NewHTTPServer(config Config, svc BookingService, admin CatalogAdmin, log zerolog.Logger) *HTTPServer {
	if config.RateLimitPerSec <= 0 {
		config.RateLimitPerSec = 50
	}
	if config.RateLimitBurst <= 0 {
		config.RateLimitBurst = 100
	}
	if config.CalendarVisibleHours <= 0 {
		config.CalendarStartHour = 8
		config.CalendarVisibleHours = 14
	}

	s := &HTTPServer{
		svc:     svc,
		admin:   admin,
		log:     log,
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimitPerSec), config.RateLimitBurst),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/", s.handleBookingByID)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/calendar/day", s.handleDayLayout)
	mux.HandleFunc("/api/series/generate", s.handleGenerateSeries)
	mux.HandleFunc("/api/staff/search", s.handleStaffSearch)
	mux.HandleFunc("/api/reports/unavailability", s.handleUnavailabilityReport)
	mux.HandleFunc("/api/reports/payments", s.handlePaymentsReport)
	mux.HandleFunc("/api/catalog/", s.handleCatalog)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start blocks serving until the listener fails or Shutdown is called.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server started")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		if s.config.APIKey != "" && r.Header.Get("X-API-Key") != s.config.APIKey {
			writeError(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// actor resolves the audit identity of the caller.
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "api"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service failure to a status code. Validation
// failures are the caller's fault; a missing record is 404.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	if models.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if models.IsValidation(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
