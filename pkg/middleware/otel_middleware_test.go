package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenTelemetryPassthrough(t *testing.T) {
	called := false
	mw := OpenTelemetry()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if SpanFromRequest(r) == nil {
			t.Error("SpanFromRequest returned nil inside traced handler")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))

	if !called {
		t.Fatal("handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestOpenTelemetryFilterSkips(t *testing.T) {
	mw := OpenTelemetry(WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != "/healthz"
	}))

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Fatal("filtered request should still reach the handler")
	}
}

func TestFormatSpanName(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/docs", nil)
	if got := formatSpanName(r); got != "arbor /docs" {
		t.Errorf("formatSpanName = %q", got)
	}
}
