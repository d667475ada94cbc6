package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking workflow.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	confirmLatency   prometheus.Histogram
	reconciledTotal  *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"outcome"}),
		confirmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "confirm_latency_seconds",
			Help:      "Latency from insert to confirmed",
			Buckets:   prometheus.DefBuckets,
		}),
		reconciledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "reconciled_total",
			Help:      "Stale pending rows processed by the reconciler",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.confirmLatency, m.reconciledTotal)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveConfirmLatency(seconds float64) {
	if m == nil {
		return
	}
	m.confirmLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveReconciled(outcome string) {
	if m == nil {
		return
	}
	m.reconciledTotal.WithLabelValues(outcome).Inc()
}
