package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TablesCreated          prometheus.Counter
	RecommendationsCreated prometheus.Counter
	VisibilityEvaluations  *prometheus.CounterVec
	HTTPDuration           *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TablesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aoi_tables_created_total",
			Help: "Total number of AOI tables created.",
		}),
		RecommendationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aoi_recommendations_created_total",
			Help: "Total number of AOI recommendations created.",
		}),
		VisibilityEvaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aoi_visibility_evaluations_total",
			Help: "Visibility filter decisions, labelled by outcome rule.",
		}, []string{"rule"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aoi_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementTablesCreated increments the tables created counter by 1.
func (m *Metrics) IncrementTablesCreated() {
	if m != nil {
		m.TablesCreated.Inc()
	}
}

// IncrementRecommendationsCreated increments the recommendations counter by 1.
func (m *Metrics) IncrementRecommendationsCreated() {
	if m != nil {
		m.RecommendationsCreated.Inc()
	}
}

// ObserveVisibilityRule records which rule decided a table's visibility.
func (m *Metrics) ObserveVisibilityRule(rule string) {
	if m != nil {
		m.VisibilityEvaluations.WithLabelValues(rule).Inc()
	}
}
