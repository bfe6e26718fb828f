package api

import (
	"encoding/json"
	"net/http"
	"time"

	"velamar/internal/metrics"
)

// GenerateSeriesRequest is the request body for POST /api/series/generate.
type GenerateSeriesRequest struct {
	ProductID string `json:"product_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

// handleGenerateSeries expands a product's recurrence into bookings.
// POST /api/series/generate
func (s *HTTPServer) handleGenerateSeries(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("series_generate")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req GenerateSeriesRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date format; expected YYYY-MM-DD")
		return
	}

	created, err := s.svc.GenerateSeries(r.Context(), req.ProductID, startDate, actor(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"created": created})
}
