// Package prometheus provides Prometheus collectors for sessioncore metrics.
//
// [NewPrometheusExporter] accepts a [sessioncore.Engine] and exposes an [http.Handler]
// that renders all sessioncore counters and histograms in Prometheus text exposition
// format. Counter names are prefixed sessioncore_*_total; the single histogram is
// sessioncore_new_session_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
