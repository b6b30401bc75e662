package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for one pipeline process
type Registry struct {
	// Social API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Collection Metrics
	UsersCollected prometheus.Gauge
	PostsCollected prometheus.Gauge
	FriendIDsTotal prometheus.Gauge

	// Partition Metrics
	GraphNodes     prometheus.Gauge
	GraphEdges     prometheus.Gauge
	EdgesRemoved   prometheus.Gauge
	Communities    prometheus.Gauge
	Outliers       prometheus.Gauge
	Modularity     prometheus.Gauge
	BetweennessRun prometheus.Counter

	// Sentiment Metrics
	PostsByLabel   *prometheus.GaugeVec
	LexiconEntries prometheus.Gauge

	// Stage Metrics
	StageRunsTotal       *prometheus.CounterVec
	StageDuration        *prometheus.HistogramVec
	StageLastSuccessTime *prometheus.GaugeVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initAPIMetrics()
	r.initCollectMetrics()
	r.initPartitionMetrics()
	r.initSentimentMetrics()
	r.initStageMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
