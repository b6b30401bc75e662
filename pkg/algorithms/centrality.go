package algorithms

import (
	"container/list"
	"math"
	"slices"

	"github.com/dd0wney/cluso-social/pkg/graph"
	"github.com/dd0wney/cluso-social/pkg/parallel"
)

// tieTolerance is the relative difference under which two betweenness
// scores are treated as equal when choosing the edge to remove.
const tieTolerance = 1e-9

// BetweennessOptions tunes EdgeBetweenness.
type BetweennessOptions struct {
	// MaxDepth bounds each breadth-first search; pairs further apart than
	// MaxDepth hops contribute nothing. 0 computes exact betweenness.
	MaxDepth int
	// Workers splits the sources across goroutines; 0 or 1 runs inline.
	Workers int
}

// EdgeScore is an edge with its betweenness.
type EdgeScore struct {
	Edge  graph.Edge `json:"edge"`
	Score float64    `json:"score"`
}

// EdgeBetweenness computes raw (unnormalised) edge betweenness for an
// undirected, unweighted graph: for every unordered pair of nodes, each
// shortest path between them carries 1/(number of shortest paths) onto
// every edge it uses. Every edge of g appears in the result, including
// edges no shortest path uses.
//
// One Brandes pass from every source counts each pair twice, so the
// accumulated flow is halved at the end.
func EdgeBetweenness(g *graph.Graph, opts BetweennessOptions) map[graph.Edge]float64 {
	nodes := g.Nodes()
	scores := make(map[graph.Edge]float64, g.EdgeCount())
	for _, e := range g.Edges() {
		scores[e] = 0
	}

	if opts.Workers <= 1 {
		for _, source := range nodes {
			accumulate(g, source, opts.MaxDepth, scores)
		}
	} else {
		// Each chunk of sources accumulates privately; partials are merged
		// in chunk order so the sums do not depend on scheduling.
		chunks := parallel.Split(len(nodes), opts.Workers)
		partials := make([]map[graph.Edge]float64, len(chunks))
		err := parallel.ForEachChunk(len(nodes), opts.Workers, func(i int, c parallel.Chunk) {
			partial := make(map[graph.Edge]float64, len(scores))
			for _, source := range nodes[c.Lo:c.Hi] {
				accumulate(g, source, opts.MaxDepth, partial)
			}
			partials[i] = partial
		})
		if err != nil {
			// Only reachable through a bug in accumulate.
			panic(err)
		}
		for _, partial := range partials {
			for e, s := range partial {
				scores[e] += s
			}
		}
	}

	for e := range scores {
		scores[e] /= 2
	}

	return scores
}

// accumulate runs one Brandes pass from source and adds the dependency
// flow of every edge into scores.
func accumulate(g *graph.Graph, source string, maxDepth int, scores map[graph.Edge]float64) {
	stack := make([]string, 0, g.NodeCount())
	predecessors := make(map[string][]string)
	sigma := map[string]float64{source: 1}
	distance := map[string]int{source: 0}

	queue := list.New()
	queue.PushBack(source)

	for queue.Len() > 0 {
		v, ok := queue.Remove(queue.Front()).(string)
		if !ok {
			continue
		}
		stack = append(stack, v)

		if maxDepth > 0 && distance[v] >= maxDepth {
			continue
		}

		for _, w := range g.Neighbors(v) {
			if _, seen := distance[w]; !seen {
				distance[w] = distance[v] + 1
				queue.PushBack(w)
			}
			if distance[w] == distance[v]+1 {
				sigma[w] += sigma[v]
				predecessors[w] = append(predecessors[w], v)
			}
		}
	}

	// Back-propagation, farthest nodes first
	delta := make(map[string]float64, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		for _, v := range predecessors[w] {
			flow := (sigma[v] / sigma[w]) * (1 + delta[w])
			scores[graph.NewEdge(v, w)] += flow
			delta[v] += flow
		}
	}
}

// RankEdges orders scores by score descending, then by edge ascending.
func RankEdges(scores map[graph.Edge]float64) []EdgeScore {
	ranked := make([]EdgeScore, 0, len(scores))
	for e, s := range scores {
		ranked = append(ranked, EdgeScore{Edge: e, Score: s})
	}
	slices.SortFunc(ranked, func(a, b EdgeScore) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		case a.Edge.Less(b.Edge):
			return -1
		case b.Edge.Less(a.Edge):
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// MaxEdge picks the edge to remove next: the highest score, with scores
// within tieTolerance of the maximum treated as tied and the tie going to
// the lexicographically smallest (From, To) pair. ok is false when scores
// is empty.
func MaxEdge(scores map[graph.Edge]float64) (best EdgeScore, ok bool) {
	top := math.Inf(-1)
	for _, s := range scores {
		if s > top {
			top = s
		}
	}

	threshold := top - tieTolerance*math.Max(1, math.Abs(top))
	for e, s := range scores {
		if s < threshold {
			continue
		}
		if !ok || e.Less(best.Edge) {
			best = EdgeScore{Edge: e, Score: s}
			ok = true
		}
	}
	return best, ok
}
