package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"velamar/internal/metrics"
	"velamar/internal/models"
)

// SaveBookingRequest is the request body for POST /api/bookings.
type SaveBookingRequest struct {
	Booking models.Booking `json:"booking"`
	Cancel  bool           `json:"cancel,omitempty"`
}

// ConfirmRequest is the request body for POST /api/bookings/{id}/confirm.
type ConfirmRequest struct {
	ResourceKind models.ResourceKind `json:"resource_kind"`
	ResourceName string              `json:"resource_name"`
}

// handleBookings lists or saves bookings.
// GET /api/bookings
// POST /api/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		metrics.IncHTTP("bookings_list")
		bookings, err := s.svc.ListBookings(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})

	case http.MethodPost:
		metrics.IncHTTP("bookings_save")
		var req SaveBookingRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		saved, err := s.svc.SaveBooking(r.Context(), req.Booking, actor(r), req.Cancel)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"booking": saved})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBookingByID serves a single booking and its sub-actions.
// GET /api/bookings/{id}
// DELETE /api/bookings/{id}
// POST /api/bookings/{id}/confirm
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		metrics.IncHTTP("bookings_get")
		b, err := s.svc.GetBooking(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"booking": b})

	case action == "" && r.Method == http.MethodDelete:
		metrics.IncHTTP("bookings_delete")
		if err := s.svc.DeleteBooking(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	case action == "confirm" && r.Method == http.MethodPost:
		metrics.IncHTTP("bookings_confirm")
		var req ConfirmRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.ResourceName == "" {
			writeError(w, http.StatusBadRequest, "resource_name is required")
			return
		}
		if req.ResourceKind != models.ResourceEquipment && req.ResourceKind != models.ResourceProfessional {
			writeError(w, http.StatusBadRequest, "resource_kind must be equipment or professional")
			return
		}

		b, err := s.svc.ConfirmAssignment(r.Context(), id, req.ResourceKind, req.ResourceName, actor(r))
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"booking": b})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
