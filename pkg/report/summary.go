// Package report aggregates the dataset, partition and sentiment artifacts
// into the figures of the final summary and renders them.
package report

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dd0wney/cluso-social/pkg/algorithms"
	"github.com/dd0wney/cluso-social/pkg/artifact"
	"github.com/dd0wney/cluso-social/pkg/dataset"
	"github.com/dd0wney/cluso-social/pkg/graph"
	"github.com/dd0wney/cluso-social/pkg/logging"
	"github.com/dd0wney/cluso-social/pkg/sentiment"
)

// topN bounds the friend tables.
const topN = 5

// SeedFriends is the friend count of one collected user.
type SeedFriends struct {
	ScreenName string
	Friends    int
}

// Summary holds every figure in the report.
type Summary struct {
	GeneratedAt time.Time

	Seeds          int
	Users          int
	Posts          int
	FriendsPerSeed []SeedFriends
	MostCommon     []graph.FriendCount
	Overlaps       []graph.Overlap

	HasPartition     bool
	GraphNodes       int
	GraphEdges       int
	Communities      int
	CommunityUsers   int
	Outliers         int
	AvgCommunitySize float64
	LargestCommunity int
	EdgesRemoved     int
	Modularity       float64

	HasSentiment bool
	Classified   int
	Sentiment    map[sentiment.Label]int
	Examples     map[sentiment.Label]sentiment.ScoredPost

	Warnings []string
}

// Inputs names the artifacts a summary is built from. Partition and
// Sentiment may be empty or missing.
type Inputs struct {
	Dataset   string
	Partition string
	Sentiment string
}

// Build computes a summary. p and res may be nil, which yields zero counts
// for their sections.
func Build(ds *dataset.Dataset, p *algorithms.Partition, res *sentiment.Result) *Summary {
	s := &Summary{
		GeneratedAt: time.Now().UTC(),
		Seeds:       len(ds.Seeds),
		Users:       len(ds.Users),
		Posts:       len(ds.Posts),
		MostCommon:  graph.MostCommon(graph.CountFriends(ds.Users), topN),
		Sentiment:   make(map[sentiment.Label]int, len(sentiment.Labels)),
		Examples:    make(map[sentiment.Label]sentiment.ScoredPost),
	}

	for _, u := range ds.Users {
		s.FriendsPerSeed = append(s.FriendsPerSeed, SeedFriends{ScreenName: u.ScreenName, Friends: len(u.FriendIDs)})
	}
	s.Overlaps = graph.FriendOverlap(ds.Users)
	if len(s.Overlaps) > topN {
		s.Overlaps = s.Overlaps[:topN]
	}

	if p != nil {
		s.HasPartition = true
		s.GraphNodes = p.NodeCount
		s.GraphEdges = p.EdgeCount
		s.Communities = len(p.Communities)
		s.CommunityUsers = p.CommunityUsers()
		s.Outliers = len(p.Outliers)
		s.AvgCommunitySize = p.AverageCommunitySize()
		s.EdgesRemoved = len(p.Removed)
		s.Modularity = p.Modularity
		if len(p.Communities) > 0 {
			s.LargestCommunity = p.Communities[0].Size
		}
	}

	for _, l := range sentiment.Labels {
		s.Sentiment[l] = 0
	}
	if res != nil {
		s.HasSentiment = true
		s.Classified = res.Tally.Total
		for l, n := range res.Tally.Counts {
			s.Sentiment[l] = n
		}
		for l, ex := range res.Tally.Examples {
			s.Examples[l] = ex
		}
	}

	return s
}

// Load reads the artifacts named by in and builds the summary. A missing
// dataset is an error; a missing partition or sentiment artifact is
// reported as a warning and leaves its counts at zero.
func Load(in Inputs, logger logging.Logger) (*Summary, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var ds dataset.Dataset
	if _, err := artifact.Read(in.Dataset, dataset.Kind, &ds); err != nil {
		return nil, err
	}

	var warnings []string

	var part *algorithms.Partition
	if ok, err := readOptional(in.Partition, algorithms.Kind, &part); err != nil {
		return nil, err
	} else if !ok {
		warnings = append(warnings, fmt.Sprintf("partition artifact %q not found; community counts are zero", in.Partition))
	}

	var res *sentiment.Result
	if ok, err := readOptional(in.Sentiment, sentiment.Kind, &res); err != nil {
		return nil, err
	} else if !ok {
		warnings = append(warnings, fmt.Sprintf("sentiment artifact %q not found; sentiment counts are zero", in.Sentiment))
	}

	for _, w := range warnings {
		logger.Warn(w)
	}

	s := Build(&ds, part, res)
	s.Warnings = warnings
	return s, nil
}

// readOptional decodes the artifact at path into a freshly allocated *T.
// It reports false without error when path is empty or does not exist.
func readOptional[T any](path, kind string, dst **T) (bool, error) {
	if path == "" {
		return false, nil
	}
	v := new(T)
	if _, err := artifact.Read(path, kind, v); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	*dst = v
	return true, nil
}
