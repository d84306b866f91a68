package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus metric the engine, flush worker, and
// parser report. Construct exactly one per process with New and share it.
// Names follow freyjadb/pkg/api/metrics.go's <namespace>_<subsystem>_<name>
// convention: tracecache_engine_* for Engine/Arena/Worker, tracecache_parser_*
// for Parser.
type Metrics struct {
	engineRecordsStored     *prometheus.CounterVec
	engineStoreErrors       *prometheus.CounterVec
	engineArenaUsedBytes    prometheus.Gauge
	engineDrainBytesTotal   prometheus.Counter
	engineDrainDuration     prometheus.Histogram
	engineFragmentations    prometheus.Counter
	parserRecordsDispatched *prometheus.CounterVec
	parserRecordsSkipped    *prometheus.CounterVec
}

// New creates and registers all engine metrics against the default
// Prometheus registry.
func New() *Metrics {
	return &Metrics{
		engineRecordsStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracecache_engine_records_stored_total",
				Help: "Total number of records stored into the arena, by type identifier.",
			},
			[]string{"type"},
		),
		engineStoreErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracecache_engine_store_errors_total",
				Help: "Total number of Store calls that returned an error, by reason.",
			},
			[]string{"reason"},
		),
		engineArenaUsedBytes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tracecache_engine_arena_used_bytes",
				Help: "Current number of committed, undrained bytes in the arena.",
			},
		),
		engineDrainBytesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tracecache_engine_drain_bytes_total",
				Help: "Total number of bytes written to the output file by drain calls.",
			},
		),
		engineDrainDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tracecache_engine_drain_duration_seconds",
				Help:    "Duration of drain-to-file calls.",
				Buckets: prometheus.DefBuckets,
			},
		),
		engineFragmentations: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tracecache_engine_fragmentations_total",
				Help: "Total number of times a reservation triggered a fragmentation wrap.",
			},
		),
		parserRecordsDispatched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracecache_parser_records_dispatched_total",
				Help: "Total number of records read back out of a file and handed to a processor, by type identifier.",
			},
			[]string{"type"},
		),
		parserRecordsSkipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tracecache_parser_records_skipped_total",
				Help: "Total number of records the parser skipped instead of dispatching, by reason.",
			},
			[]string{"reason"},
		),
	}
}

// ObserveStore records a single successful Engine.Store call under the
// given type identifier.
func (m *Metrics) ObserveStore(typeID string) {
	if m == nil {
		return
	}
	m.engineRecordsStored.WithLabelValues(typeID).Inc()
}

// ObserveStoreError records a failed Engine.Store call under reason (e.g.
// "unsupported_type", "arena_overflow", "serialize").
func (m *Metrics) ObserveStoreError(reason string) {
	if m == nil {
		return
	}
	m.engineStoreErrors.WithLabelValues(reason).Inc()
}

// ObserveFragmentation records one fragmentation wrap.
func (m *Metrics) ObserveFragmentation() {
	if m == nil {
		return
	}
	m.engineFragmentations.Inc()
}

// SetArenaUsedBytes reports the arena's current used-byte count.
func (m *Metrics) SetArenaUsedBytes(n int) {
	if m == nil {
		return
	}
	m.engineArenaUsedBytes.Set(float64(n))
}

// ObserveDrain records the outcome and duration of one drain call. n is the
// number of bytes written to the output file (zero for a no-op drain).
func (m *Metrics) ObserveDrain(n int, d time.Duration) {
	if m == nil {
		return
	}
	m.engineDrainDuration.Observe(d.Seconds())
	if n > 0 {
		m.engineDrainBytesTotal.Add(float64(n))
	}
}

// ObserveDispatched records one record the parser handed to a processor, by
// type identifier.
func (m *Metrics) ObserveDispatched(typeID string) {
	if m == nil {
		return
	}
	m.parserRecordsDispatched.WithLabelValues(typeID).Inc()
}

// ObserveSkipped records one record the parser skipped instead of
// dispatching, under reason (e.g. "short_read", "unsupported_type",
// "fragmented").
func (m *Metrics) ObserveSkipped(reason string) {
	if m == nil {
		return
	}
	m.parserRecordsSkipped.WithLabelValues(reason).Inc()
}
