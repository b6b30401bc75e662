package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RecordAPIRequest records one social API call. A zero code means the
// request never produced a response.
func (r *Registry) RecordAPIRequest(endpoint string, code int, duration time.Duration) {
	status := "transport_error"
	if code > 0 {
		status = strconv.Itoa(code)
	}
	r.APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	r.APIRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordStage records a finished stage run
func (r *Registry) RecordStage(stage string, err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.StageRunsTotal.WithLabelValues(stage, status).Inc()
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err == nil {
		r.StageLastSuccessTime.WithLabelValues(stage).SetToCurrentTime()
	}
}

// SetCollected updates the collection gauges
func (r *Registry) SetCollected(users, posts, friendIDs int) {
	r.UsersCollected.Set(float64(users))
	r.PostsCollected.Set(float64(posts))
	r.FriendIDsTotal.Set(float64(friendIDs))
}

// SetGraph updates the input graph gauges
func (r *Registry) SetGraph(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// SetPartition updates the partition gauges
func (r *Registry) SetPartition(removed, communities, outliers int, modularity float64) {
	r.EdgesRemoved.Set(float64(removed))
	r.Communities.Set(float64(communities))
	r.Outliers.Set(float64(outliers))
	r.Modularity.Set(modularity)
}

// SetSentiment updates per-label post counts
func (r *Registry) SetSentiment(counts map[string]int, lexiconEntries int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.PostsByLabel.Reset()
	for label, n := range counts {
		r.PostsByLabel.WithLabelValues(label).Set(float64(n))
	}
	r.LexiconEntries.Set(float64(lexiconEntries))
}

// WriteTextfile writes every metric in the node-exporter textfile format.
// An empty path is a no-op.
func (r *Registry) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
