// Package metrics provides Prometheus counters for design scans, batch
// analysis and specificity classification.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"probekit/internal/design"
	"probekit/internal/specificity"
)

// ProbeMetrics contains the Prometheus metrics of one probekit run.
type ProbeMetrics struct {
	registry *prometheus.Registry

	windowsScanned   prometheus.Counter
	windowRejections *prometheus.CounterVec
	probesAccepted   prometheus.Counter
	batchRecords     *prometheus.CounterVec
	specificity      *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec

	collectors []prometheus.Collector
}

// NewProbeMetrics creates and registers the metrics on registry.
func NewProbeMetrics(registry *prometheus.Registry) (*ProbeMetrics, error) {
	m := &ProbeMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ProbeMetrics) initMetrics() {
	m.windowsScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probekit_windows_scanned_total",
		Help: "Total number of target windows scored by the design scan",
	})
	m.windowRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probekit_window_rejections_total",
			Help: "Rejected windows by first failed criterion",
		},
		[]string{"reason"},
	)
	m.probesAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probekit_probes_accepted_total",
		Help: "Total number of accepted probes",
	})
	m.batchRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probekit_batch_records_total",
			Help: "Batch records analyzed, by sequence validity",
		},
		[]string{"valid"},
	)
	m.specificity = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "probekit_specificity_total",
			Help: "Probes classified per specificity tier",
		},
		[]string{"tier"},
	)
	m.runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "probekit_run_duration_seconds",
			Help:    "Wall time of a probekit command",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4.4min
		},
		[]string{"command", "outcome"},
	)

	// pre-create label sets so zero counts are exported
	for _, r := range design.Reasons() {
		m.windowRejections.WithLabelValues(string(r))
	}
	for _, t := range specificity.Tiers() {
		m.specificity.WithLabelValues(string(t))
	}

	m.collectors = []prometheus.Collector{
		m.windowsScanned,
		m.windowRejections,
		m.probesAccepted,
		m.batchRecords,
		m.specificity,
		m.runDuration,
	}
}

// Describe implements the Collector interface
func (m *ProbeMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ProbeMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

func (m *ProbeMetrics) WindowScanned() { m.windowsScanned.Inc() }

func (m *ProbeMetrics) WindowRejected(reason design.Reason) {
	m.windowRejections.WithLabelValues(string(reason)).Inc()
}

func (m *ProbeMetrics) ProbeAccepted() { m.probesAccepted.Inc() }

func (m *ProbeMetrics) RecordAnalyzed(valid bool) {
	m.batchRecords.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

// RecordSpecificity adds per-tier counts.
func (m *ProbeMetrics) RecordSpecificity(counts map[specificity.Tier]int) {
	for t, n := range counts {
		m.specificity.WithLabelValues(string(t)).Add(float64(n))
	}
}

// ObserveRun records how long a command took and how it ended.
func (m *ProbeMetrics) ObserveRun(command, outcome string, d time.Duration) {
	m.runDuration.WithLabelValues(command, outcome).Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *ProbeMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
