package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Report run metrics
	RunsTotal    *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	RunRows      prometheus.Histogram
	RunWarnings  prometheus.Counter
	RunsArchived prometheus.Counter

	// Upstream API metrics
	APIRequests      *prometheus.CounterVec
	APIDuration      *prometheus.HistogramVec
	RateLimitWaits   prometheus.Counter
	RateLimitWaitSec prometheus.Histogram

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Redis metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_report_runs_total",
				Help: "Total number of report runs by outcome",
			},
			[]string{"status"},
		),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerlens_report_run_duration_seconds",
			Help:    "Duration of report runs",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		RunRows: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerlens_report_run_rows",
			Help:    "Rows produced per report run",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 50000},
		}),
		RunWarnings: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlens_report_run_warnings_total",
			Help: "Total number of warnings attached to report runs",
		}),
		RunsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlens_report_runs_archived_total",
			Help: "Total number of report runs persisted to storage",
		}),

		APIRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_upstream_requests_total",
				Help: "Total upstream accounting API requests",
			},
			[]string{"endpoint", "status"},
		),
		APIDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlens_upstream_request_duration_seconds",
				Help:    "Upstream accounting API request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		RateLimitWaits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlens_upstream_rate_limit_waits_total",
			Help: "Total number of waits caused by upstream rate limiting",
		}),
		RateLimitWaitSec: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerlens_upstream_rate_limit_wait_seconds",
			Help:    "Seconds spent waiting on upstream rate limits",
			Buckets: []float64{1, 5, 15, 30, 62, 120, 300},
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerlens_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerlens_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlens_cache_hits_total",
			Help: "Total cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ledgerlens_cache_misses_total",
			Help: "Total cache misses",
		}),
	}
}

// ObserveRun records the outcome of a single report run. Safe on a nil
// receiver so handlers can run without a registry in tests.
func (m *Metrics) ObserveRun(d time.Duration, rows int, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(d.Seconds())
	if success {
		m.RunRows.Observe(float64(rows))
	}
}

// ObserveArchive records a persisted run.
func (m *Metrics) ObserveArchive() {
	if m == nil {
		return
	}
	m.RunsArchived.Inc()
}

// ObserveWarnings adds n run warnings.
func (m *Metrics) ObserveWarnings(n int) {
	if m == nil {
		return
	}
	m.RunWarnings.Add(float64(n))
}
