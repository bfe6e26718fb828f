package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "velamar",
			Name:      "booking_saved_total",
			Help:      "Count of bookings saved by resulting status.",
		},
		[]string{"status"},
	)

	availabilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "velamar",
			Name:      "availability_checks_total",
			Help:      "Count of availability checks by outcome.",
		},
		[]string{"outcome"},
	)

	autoCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "velamar",
			Name:      "bookings_auto_cancelled_total",
			Help:      "Count of standby bookings cancelled by the sweep.",
		},
	)

	seriesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "velamar",
			Name:      "series_instances_generated_total",
			Help:      "Count of booking instances created from recurrence rules.",
		},
	)

	sweepRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "velamar",
			Name:      "sweep_runs_total",
			Help:      "Count of auto-cancel sweep executions.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "velamar",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route.",
		},
		[]string{"route"},
	)

	bookingsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "velamar",
			Name:      "bookings_by_status",
			Help:      "Current number of bookings per status.",
		},
		[]string{"status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingSaved,
			availabilityChecks,
			autoCancelled,
			seriesGenerated,
			sweepRuns,
			httpRequests,
			bookingsByStatus,
		)
	})
}

func IncBookingSaved(status string) {
	bookingSaved.WithLabelValues(status).Inc()
}

func IncAvailabilityCheck(outcome string) {
	availabilityChecks.WithLabelValues(outcome).Inc()
}

func AddAutoCancelled(n int) {
	autoCancelled.Add(float64(n))
}

func AddSeriesGenerated(n int) {
	seriesGenerated.Add(float64(n))
}

func IncSweepRun() {
	sweepRuns.Inc()
}

func IncHTTP(route string) {
	httpRequests.WithLabelValues(route).Inc()
}

// SetBookingsByStatus replaces the per-status gauge with the given
// counts. Statuses absent from the map drop to zero.
func SetBookingsByStatus(counts map[string]int) {
	bookingsByStatus.Reset()
	for status, n := range counts {
		bookingsByStatus.WithLabelValues(status).Set(float64(n))
	}
}
