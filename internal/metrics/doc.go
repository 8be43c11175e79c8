// Package metrics exposes service counters in the Prometheus text
// exposition format.
//
// Registry holds atomic counters incremented by the average engine and the
// HTTP layer. Handler() renders them as client_model MetricFamily values
// encoded with prometheus/common/expfmt, served at GET /metrics.
//
// All Registry methods are safe on a nil receiver, so components that
// accept an optional registry do not need to guard their call sites.
package metrics
