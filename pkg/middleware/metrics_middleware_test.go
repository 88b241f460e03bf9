package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func TestPrometheusMiddleware_RecordsRequests(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	mw := Prometheus(WithRegistry(reg))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))

	if got := metricCounterValue(t, globalMetrics.requestsTotal.WithLabelValues("/page", "200")); got != 1 {
		t.Errorf("requests_total(/page,200) = %v, want 1", got)
	}
}

func TestPrometheusMiddleware_RecordsErrorStatus(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	mw := Prometheus(WithRegistry(reg))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if got := metricCounterValue(t, globalMetrics.requestsTotal.WithLabelValues("/missing", "404")); got != 1 {
		t.Errorf("requests_total(/missing,404) = %v, want 1", got)
	}
}

func TestSessionGauge(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	Prometheus(WithRegistry(reg))

	RecordSessionCreate()
	RecordSessionCreate()
	RecordSessionDestroy()

	if got := metricGaugeValue(t, globalMetrics.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
}

func TestEventCounterStatusLabels(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	Prometheus(WithRegistry(reg))

	RecordEvent("toggle", nil)
	RecordEvent("toggle", errors.New("boom"))

	if got := metricCounterValue(t, globalMetrics.eventsTotal.WithLabelValues("toggle", "success")); got != 1 {
		t.Errorf("events_total(toggle,success) = %v, want 1", got)
	}
	if got := metricCounterValue(t, globalMetrics.eventsTotal.WithLabelValues("toggle", "error")); got != 1 {
		t.Errorf("events_total(toggle,error) = %v, want 1", got)
	}
}

func TestRecordingWithoutInitIsSafe(t *testing.T) {
	resetGlobalMetricsForTest()

	// No Prometheus() call. These must not panic.
	RecordSessionCreate()
	RecordSessionDestroy()
	RecordEvent("toggle", nil)
	RecordPatches(3)
	RecordRecomposition()
	RecordWebSocketError("read")
}
