package observability

import (
	"context"
	"fmt"

	"github.com/couchcryptid/accident-light-etl/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "accident_etl"

// Metrics holds the Prometheus counters and gauges for one ETL run.
type Metrics struct {
	RowsRead        prometheus.Counter
	RowsSkipped     prometheus.Counter
	FeaturesWritten prometheus.Counter
	RunDuration     prometheus.Gauge
	LastSuccess     prometheus.Gauge

	LightConditions *prometheus.CounterVec // labels: light={day,twilight,night,unknown}
	ProjectionCache *prometheus.CounterVec // labels: result={hit,miss}

	registry *prometheus.Registry
}

// NewMetrics creates all run metrics and registers them on a dedicated
// registry. A batch run has no scrape endpoint; see Push.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.RowsRead,
		m.RowsSkipped,
		m.FeaturesWritten,
		m.RunDuration,
		m.LastSuccess,
		m.LightConditions,
		m.ProjectionCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Data lines read from the accident file.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Data lines dropped for a wrong field count.",
		}),
		FeaturesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_written_total",
			Help:      "Features written to the GeoJSON document.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		LightConditions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "light_conditions_total",
			Help:      "Accidents by simplified light condition.",
		}, []string{"light"}),
		ProjectionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_cache_total",
			Help:      "UTM projection cache lookups by result.",
		}, []string{"result"}),
	}
}

// ObserveLight counts one accident under its light condition.
func (m *Metrics) ObserveLight(l *domain.Light) {
	label := "unknown"
	if l != nil {
		label = string(*l)
	}
	m.LightConditions.WithLabelValues(label).Inc()
}

// ObserveProjectionCache implements utm.CacheRecorder.
func (m *Metrics) ObserveProjectionCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ProjectionCache.WithLabelValues(result).Inc()
}

// Push sends the registry to a Prometheus Pushgateway, grouped by run ID.
func (m *Metrics) Push(ctx context.Context, url, job, runID string) error {
	if m.registry == nil {
		return fmt.Errorf("push metrics: metrics are not registered")
	}
	err := push.New(url, job).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
