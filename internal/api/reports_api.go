package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"velamar/internal/metrics"
	"velamar/internal/report"
)

// reportWindow parses the from/to query parameters. A missing window
// defaults to the current calendar month.
func reportWindow(r *http.Request) (from, to time.Time, err error) {
	q := r.URL.Query()
	fromStr, toStr := q.Get("from"), q.Get("to")
	if fromStr == "" && toStr == "" {
		now := time.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return from, from.AddDate(0, 1, 0), nil
	}

	from, err = time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from; expected YYYY-MM-DD")
	}
	to, err = time.Parse("2006-01-02", toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to; expected YYYY-MM-DD")
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be after from")
	}
	return from, to, nil
}

func serveWorkbook(w http.ResponseWriter, name string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleUnavailabilityReport downloads unavailability records as xlsx.
// GET /api/reports/unavailability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *HTTPServer) handleUnavailabilityReport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_unavailability")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	from, to, err := reportWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.svc.ListBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteUnavailability(&buf, bookings, from, to); err != nil {
		s.log.Error().Err(err).Msg("unavailability report failed")
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}
	serveWorkbook(w, fmt.Sprintf("unavailability_%s.xlsx", from.Format("2006-01-02")), &buf)
}

// handlePaymentsReport downloads the staff payment report as xlsx.
// GET /api/reports/payments?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *HTTPServer) handlePaymentsReport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_payments")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	from, to, err := reportWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.svc.ListBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	cat, err := s.svc.Catalogs(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WritePayments(&buf, bookings, cat.Professionals, cat.Skills, from, to); err != nil {
		s.log.Error().Err(err).Msg("payments report failed")
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}
	serveWorkbook(w, fmt.Sprintf("payments_%s.xlsx", from.Format("2006-01-02")), &buf)
}
