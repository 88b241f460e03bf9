// Package middleware provides production-grade middleware for Arbor servers.
//
// This package includes:
//   - Prometheus metrics middleware
//   - OpenTelemetry distributed tracing middleware
//
// # Prometheus Metrics
//
// The Prometheus middleware collects metrics about an Arbor server:
//   - arbor_requests_total: Counter of HTTP requests by path and status
//   - arbor_request_duration_seconds: Request duration histogram
//   - arbor_active_sessions: Gauge of live WebSocket sessions
//   - arbor_events_total: Counter of action events by type and status
//   - arbor_patches_sent_total: Counter of patches sent to clients
//   - arbor_recompositions_total: Counter of recomposition passes
//   - arbor_websocket_errors_total: Counter of WebSocket errors by type
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus())
//	r.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry Tracing
//
// The OpenTelemetry middleware creates a server span per request and
// stores it in the request context, so database drivers and HTTP
// clients downstream inherit the trace:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider; configure
// it in main() before starting the server.
package middleware
