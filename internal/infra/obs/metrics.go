package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loftcal/internal/app/policies"
	"loftcal/internal/domain/availability"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	httpRequests  *prometheus.CounterVec
	builds        prometheus.Counter
	buildDuration prometheus.Histogram
	skippedRows   *prometheus.CounterVec
	duplicates    prometheus.Counter
	dayStatuses   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests processed by method, route and status.",
		}, []string{"method", "route", "status"}),
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "availability_matrix_builds_total",
			Help: "Availability matrices built.",
		}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "availability_matrix_build_seconds",
			Help:    "Time spent resolving availability matrices.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		skippedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_skipped_rows_total",
			Help: "Input rows skipped because they could not be parsed, by row kind.",
		}, []string{"kind"}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "availability_duplicate_overrides_total",
			Help: "Override rows that collided on the same loft and day.",
		}),
		dayStatuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_day_status_total",
			Help: "Resolved calendar cells by status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.builds,
		m.buildDuration,
		m.skippedRows,
		m.duplicates,
		m.dayStatuses,
	)
	return m
}

func (m *Metrics) ObserveBuild(result availability.Result, elapsed time.Duration) {
	m.builds.Inc()
	m.buildDuration.Observe(elapsed.Seconds())
	for _, s := range result.Skipped {
		m.skippedRows.WithLabelValues(string(s.Kind)).Inc()
	}
	m.duplicates.Add(float64(len(result.Duplicates)))
	for status, n := range result.Summary() {
		m.dayStatuses.WithLabelValues(status).Add(float64(n))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

var _ policies.BuildObserver = (*Metrics)(nil)
