package algorithms

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-social/pkg/graph"
)

// ErrInvalidTarget is returned when the requested component count is < 1.
var ErrInvalidTarget = errors.New("target component count must be at least 1")

// GirvanNewmanOptions configures GirvanNewman.
type GirvanNewmanOptions struct {
	// TargetComponents stops edge removal once the graph has at least this
	// many connected components.
	TargetComponents int
	// MaxDepth is passed to EdgeBetweenness; 0 means exact.
	MaxDepth int
	// Workers is passed to EdgeBetweenness.
	Workers int
	// OnRemove, if set, is called after every removal.
	OnRemove func(RemovedEdge)
}

// GirvanNewman splits g into communities by repeatedly removing the edge
// with the highest betweenness, recomputing betweenness from scratch after
// every removal, until the component count reaches opts.TargetComponents
// or no edges remain. Components already present in g count toward the
// target, so a graph that is already split far enough loses no edges.
//
// g itself is never modified.
func GirvanNewman(g *graph.Graph, opts GirvanNewmanOptions) (*Partition, error) {
	return GirvanNewmanContext(context.Background(), g, opts)
}

// GirvanNewmanContext is GirvanNewman that stops with ctx's error between
// removals once ctx is done.
func GirvanNewmanContext(ctx context.Context, g *graph.Graph, opts GirvanNewmanOptions) (*Partition, error) {
	if opts.TargetComponents < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTarget, opts.TargetComponents)
	}

	work := g.Clone()
	components := ConnectedComponents(work)
	initial := len(components)
	removed := make([]RemovedEdge, 0)

	for len(components) < opts.TargetComponents && work.EdgeCount() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scores := EdgeBetweenness(work, BetweennessOptions{MaxDepth: opts.MaxDepth, Workers: opts.Workers})
		best, ok := MaxEdge(scores)
		if !ok {
			break
		}

		work.RemoveEdge(best.Edge.From, best.Edge.To)
		components = ConnectedComponents(work)

		step := RemovedEdge{
			Step:       len(removed) + 1,
			Edge:       best.Edge,
			Score:      best.Score,
			Components: len(components),
		}
		removed = append(removed, step)
		if opts.OnRemove != nil {
			opts.OnRemove(step)
		}
	}

	p := buildPartition(work, components)
	p.Removed = removed
	p.InitialComponents = initial
	p.TargetComponents = opts.TargetComponents
	p.NodeCount = g.NodeCount()
	p.EdgeCount = g.EdgeCount()
	p.Modularity = Modularity(g, p)

	return p, nil
}

// buildPartition separates outliers from communities and orders communities
// by size descending, then by smallest member.
func buildPartition(work *graph.Graph, components []Component) *Partition {
	p := &Partition{
		Communities:    make([]Community, 0),
		Outliers:       make([]string, 0),
		NodeCommunity:  make(map[string]int),
		ComponentCount: len(components),
	}

	for _, c := range components {
		if len(c.Nodes) == 1 {
			p.Outliers = append(p.Outliers, c.Nodes[0])
			continue
		}
		p.Communities = append(p.Communities, Community{
			Nodes:   c.Nodes,
			Size:    len(c.Nodes),
			Density: density(work, c.Nodes),
		})
	}

	slices.Sort(p.Outliers)
	slices.SortFunc(p.Communities, func(a, b Community) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}
		return cmp.Compare(a.Nodes[0], b.Nodes[0])
	})

	for i := range p.Communities {
		p.Communities[i].ID = i
		for _, id := range p.Communities[i].Nodes {
			p.NodeCommunity[id] = i
		}
	}

	return p
}

// density is internal edges over possible edges among nodes.
func density(g *graph.Graph, nodes []string) float64 {
	n := len(nodes)
	if n < 2 {
		return 0
	}
	internal := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if g.HasEdge(nodes[i], nodes[j]) {
				internal++
			}
		}
	}
	return float64(internal) / float64(n*(n-1)/2)
}

// Modularity scores how well p splits g (Newman's Q):
//
//	Q = Σ_c [ L_c/m − (d_c / 2m)² ]
//
// where m is g's edge count, L_c the edges of g inside community c, and d_c
// the summed degree of c's members in g. Outliers count as one-node
// communities. An edgeless graph scores 0.
func Modularity(g *graph.Graph, p *Partition) float64 {
	m := float64(g.EdgeCount())
	if m == 0 {
		return 0
	}

	label := make(map[string]int, g.NodeCount())
	groups := len(p.Communities)
	for id, c := range p.NodeCommunity {
		label[id] = c
	}
	for _, id := range p.Outliers {
		label[id] = groups
		groups++
	}

	internal := make([]float64, groups)
	degree := make([]float64, groups)
	for _, id := range g.Nodes() {
		c, ok := label[id]
		if !ok {
			continue
		}
		degree[c] += float64(g.Degree(id))
	}
	for _, e := range g.Edges() {
		a, okA := label[e.From]
		b, okB := label[e.To]
		if okA && okB && a == b {
			internal[a]++
		}
	}

	q := 0.0
	for c := 0; c < groups; c++ {
		share := degree[c] / (2 * m)
		q += internal[c]/m - share*share
	}
	return q
}
