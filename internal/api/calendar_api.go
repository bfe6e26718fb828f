package api

import (
	"net/http"
	"strconv"
	"time"

	"velamar/internal/metrics"
)

// handleDayLayout returns render geometry for a day's bookings.
// GET /api/calendar/day?date=YYYY-MM-DD&start_hour=8&hours=14
func (s *HTTPServer) handleDayLayout(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar_day")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dateStr := r.URL.Query().Get("date")
	var day time.Time
	var err error
	if dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
	} else {
		day = time.Now()
	}

	startHour := s.config.CalendarStartHour
	visibleHours := s.config.CalendarVisibleHours
	if v := r.URL.Query().Get("start_hour"); v != "" {
		startHour, err = strconv.Atoi(v)
		if err != nil || startHour < 0 || startHour > 23 {
			writeError(w, http.StatusBadRequest, "invalid start_hour")
			return
		}
	}
	if v := r.URL.Query().Get("hours"); v != "" {
		visibleHours, err = strconv.Atoi(v)
		if err != nil || visibleHours < 1 || visibleHours > 24 {
			writeError(w, http.StatusBadRequest, "invalid hours")
			return
		}
	}

	placed, err := s.svc.DayLayout(r.Context(), day, startHour, visibleHours)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    day.Format("2006-01-02"),
		"entries": placed,
	})
}
