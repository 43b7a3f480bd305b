package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveResolve("opd", "generated", 0.12)
	m.ObserveDayFallback("virtual")
	m.ObserveDateParseFallback()
	m.ObserveSubmit("created")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected gathered metric families")
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveResolve("opd", "none", 0.1)
	m.ObserveDayFallback("opd")
	m.ObserveDateParseFallback()
	m.ObserveSubmit("failed")
}
