package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketboard"

// Metrics holds all collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiRetries  *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec

	stageDuration *prometheus.HistogramVec
	items         *prometheus.GaugeVec
	rows          *prometheus.CounterVec

	runs          *prometheus.CounterVec
	lastRunStatus prometheus.Gauge
	lastRunTime   prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Upstream API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		apiRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "retries_total",
			Help:      "Upstream API retries after transient failures.",
		}, []string{"endpoint"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Upstream API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each aggregation stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"stage"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "items",
			Help:      "Items seen by the last aggregation run, by phase.",
		}, []string{"phase"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "writer",
			Name:      "rows_total",
			Help:      "Rows written by table and result (inserted or ignored).",
		}, []string{"table", "result"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Aggregation runs by outcome.",
		}, []string{"outcome"}),
		lastRunStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last aggregation run succeeded, 0 otherwise.",
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last aggregation run finished.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiRetries,
		m.apiLatency,
		m.stageDuration,
		m.items,
		m.rows,
		m.runs,
		m.lastRunStatus,
		m.lastRunTime,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one upstream request attempt.
func (m *Metrics) ObserveRequest(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(endpoint, outcome).Inc()
	m.apiLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// IncRetry records a retry after a transient failure.
func (m *Metrics) IncRetry(endpoint string) {
	if m == nil {
		return
	}
	m.apiRetries.WithLabelValues(endpoint).Inc()
}

// ObserveStage records how long an aggregation stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// SetItems records an item count for a phase of the last run.
func (m *Metrics) SetItems(phase string, n int) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(phase).Set(float64(n))
}

// AddRows records writer results for a table.
func (m *Metrics) AddRows(table string, inserted, ignored int64) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(table, "inserted").Add(float64(inserted))
	m.rows.WithLabelValues(table, "ignored").Add(float64(ignored))
}

// RunFinished records the outcome of an aggregation run.
func (m *Metrics) RunFinished(err error, at time.Time) {
	if m == nil {
		return
	}
	if err != nil {
		m.runs.WithLabelValues("failure").Inc()
		m.lastRunStatus.Set(0)
	} else {
		m.runs.WithLabelValues("success").Inc()
		m.lastRunStatus.Set(1)
	}
	m.lastRunTime.Set(float64(at.Unix()))
}
