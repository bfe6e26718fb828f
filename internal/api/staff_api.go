package api

import (
	"net/http"
	"time"

	"velamar/internal/metrics"
	"velamar/internal/schedule"
)

// StaffCandidateResponse is one ranked staff match.
type StaffCandidateResponse struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	SkillID      string `json:"skill_id,omitempty"`
	Score        int    `json:"score"`
	MatchType    string `json:"match_type"`
	Availability string `json:"availability,omitempty"`
}

// handleStaffSearch ranks staff by name or skill.
// GET /api/staff/search?q=...&start=...&end=...&exclude_booking_id=...
// start and end are optional RFC 3339 timestamps; when present each
// candidate is annotated with availability for that window.
func (s *HTTPServer) handleStaffSearch(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("staff_search")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	query := q.Get("q")

	var window *schedule.Interval
	startStr, endStr := q.Get("start"), q.Get("end")
	if startStr != "" || endStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start; expected RFC 3339 timestamp")
			return
		}
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end; expected RFC 3339 timestamp")
			return
		}
		if !end.After(start) {
			writeError(w, http.StatusBadRequest, "end must be after start")
			return
		}
		window = &schedule.Interval{Start: start, End: end}
	}

	candidates, err := s.svc.RankStaffCandidates(r.Context(), query, window, q.Get("exclude_booking_id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	out := make([]StaffCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, StaffCandidateResponse{
			Name:         c.Professional.Name,
			Label:        c.Label,
			SkillID:      c.SkillID,
			Score:        c.Score,
			MatchType:    c.MatchType,
			Availability: string(c.Availability.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": out})
}
