package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"velamar/internal/metrics"
	"velamar/internal/models"
	"velamar/internal/schedule"
)

// AvailabilityRequest is the request body for POST /api/availability.
// Times are RFC 3339; the window is the already padded candidate
// interval.
type AvailabilityRequest struct {
	ResourceName     string              `json:"resource_name"`
	ResourceKind     models.ResourceKind `json:"resource_kind"`
	Start            string              `json:"start"`
	End              string              `json:"end"`
	ExcludeBookingID string              `json:"exclude_booking_id,omitempty"`
}

// AvailabilityResponse is the response for POST /api/availability.
type AvailabilityResponse struct {
	Status schedule.AvailabilityStatus `json:"status"`
	Reason string                      `json:"reason,omitempty"`
}

// handleAvailability checks one resource against the current snapshot.
// POST /api/availability
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailabilityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	window, err := validateAvailabilityRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.svc.CheckResourceAvailability(r.Context(), req.ResourceName, req.ResourceKind, window, req.ExcludeBookingID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AvailabilityResponse{
		Status: result.Status,
		Reason: result.Reason,
	})
}

func validateAvailabilityRequest(req *AvailabilityRequest) (schedule.Interval, error) {
	if req.ResourceName == "" {
		return schedule.Interval{}, fmt.Errorf("resource_name is required")
	}
	if req.ResourceKind != models.ResourceEquipment && req.ResourceKind != models.ResourceProfessional {
		return schedule.Interval{}, fmt.Errorf("resource_kind must be equipment or professional")
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return schedule.Interval{}, fmt.Errorf("invalid start; expected RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return schedule.Interval{}, fmt.Errorf("invalid end; expected RFC 3339 timestamp")
	}
	if !end.After(start) {
		return schedule.Interval{}, fmt.Errorf("end must be after start")
	}
	return schedule.Interval{Start: start, End: end}, nil
}
