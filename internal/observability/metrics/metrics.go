package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the scheduling core. The
// availability resolver's best-effort fallback branches are deliberately
// silent toward the caller, so these counters are the only way to see them
// firing in production.
type BookingMetrics struct {
	resolveTotal      *prometheus.CounterVec
	dayFallbackTotal  *prometheus.CounterVec
	dateParseFallback prometheus.Counter
	submitTotal       *prometheus.CounterVec
	resolveLatency    *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		resolveTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "availability",
			Name:      "resolve_total",
			Help:      "Availability resolutions by modality and the wire shape that parsed",
		}, []string{"modality", "shape"}),
		dayFallbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "availability",
			Name:      "day_fallback_total",
			Help:      "Resolutions where no day entry matched the requested date and the first entry was used",
		}, []string{"modality"}),
		dateParseFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "availability",
			Name:      "date_parse_fallback_total",
			Help:      "Date inputs that matched no known format and were passed through unchanged",
		}),
		submitTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "console",
			Subsystem: "booking",
			Name:      "submit_total",
			Help:      "Booking submissions by action (created, updated, skipped, conflict, failed)",
		}, []string{"action"}),
		resolveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "console",
			Subsystem: "availability",
			Name:      "resolve_latency_seconds",
			Help:      "Latency of availability resolution including the HIS round trip",
			Buckets:   prometheus.DefBuckets,
		}, []string{"modality"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.resolveTotal, m.dayFallbackTotal, m.dateParseFallback, m.submitTotal, m.resolveLatency)
	return m
}

// ObserveResolve records one resolution. shape is the wire shape that won
// ("generated", "availability", "flat") or "none" when nothing parsed.
func (m *BookingMetrics) ObserveResolve(modality, shape string, seconds float64) {
	if m == nil {
		return
	}
	m.resolveTotal.WithLabelValues(modality, shape).Inc()
	m.resolveLatency.WithLabelValues(modality).Observe(seconds)
}

func (m *BookingMetrics) ObserveDayFallback(modality string) {
	if m == nil {
		return
	}
	m.dayFallbackTotal.WithLabelValues(modality).Inc()
}

func (m *BookingMetrics) ObserveDateParseFallback() {
	if m == nil {
		return
	}
	m.dateParseFallback.Inc()
}

func (m *BookingMetrics) ObserveSubmit(action string) {
	if m == nil {
		return
	}
	m.submitTotal.WithLabelValues(action).Inc()
}
