// Package metrics holds the Prometheus instrumentation for the trace-cache
// engine. It is grounded on freyjadb's pkg/api/metrics.go, which registers
// all of a component's metrics eagerly in a constructor via promauto
// rather than lazily on first use.
package metrics
