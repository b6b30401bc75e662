package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCollectMetrics() {
	r.UsersCollected = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_users_collected",
			Help: "Number of seed users in the last collected dataset",
		},
	)

	r.PostsCollected = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_posts_collected",
			Help: "Number of distinct posts in the last collected dataset",
		},
	)

	r.FriendIDsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_friend_ids_collected",
			Help: "Total friend ids across collected users",
		},
	)
}

func (r *Registry) initPartitionMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_graph_nodes",
			Help: "Nodes in the graph handed to the partitioner",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_graph_edges",
			Help: "Edges in the graph handed to the partitioner",
		},
	)

	r.EdgesRemoved = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_edges_removed",
			Help: "Edges removed by Girvan-Newman in the last run",
		},
	)

	r.Communities = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_communities",
			Help: "Communities of two or more users in the last partition",
		},
	)

	r.Outliers = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_outliers",
			Help: "Singleton components in the last partition",
		},
	)

	r.Modularity = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_partition_modularity",
			Help: "Newman modularity of the last partition",
		},
	)

	r.BetweennessRun = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cluso_social_betweenness_computations_total",
			Help: "Edge betweenness recomputations performed",
		},
	)
}

func (r *Registry) initSentimentMetrics() {
	r.PostsByLabel = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cluso_social_posts_by_label",
			Help: "Classified posts per sentiment label",
		},
		[]string{"label"},
	)

	r.LexiconEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "cluso_social_lexicon_entries",
			Help: "Single-word entries in the loaded lexicon",
		},
	)
}

func (r *Registry) initStageMetrics() {
	r.StageRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cluso_social_stage_runs_total",
			Help: "Pipeline stage runs by outcome",
		},
		[]string{"stage", "status"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cluso_social_stage_duration_seconds",
			Help:    "Pipeline stage wall time in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
		[]string{"stage"},
	)

	r.StageLastSuccessTime = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cluso_social_stage_last_success_timestamp_seconds",
			Help: "Unix time of the last successful stage run",
		},
		[]string{"stage"},
	)
}
