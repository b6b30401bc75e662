// Package graph is a small undirected graph keyed by string node ids.
//
// Edges are stored once, normalised so that From < To. Self-loops are
// dropped and duplicate edges collapse, so callers can feed raw friend
// lists without cleaning them first. Iteration order is always sorted,
// which keeps every algorithm built on top of it deterministic.
package graph

import (
	"slices"
)

// Edge is an undirected edge with From < To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewEdge returns the normalised edge between a and b.
func NewEdge(a, b string) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{From: a, To: b}
}

// Less orders edges lexicographically by (From, To).
func (e Edge) Less(o Edge) bool {
	if e.From != o.From {
		return e.From < o.From
	}
	return e.To < o.To
}

// Graph is an undirected simple graph.
type Graph struct {
	adj   map[string]map[string]struct{}
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{adj: make(map[string]map[string]struct{})}
}

// AddNode adds id if it is not present.
func (g *Graph) AddNode(id string) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = make(map[string]struct{})
	}
}

// AddEdge adds the edge a-b, creating both nodes. It reports whether a new
// edge was added; self-loops and duplicates report false.
func (g *Graph) AddEdge(a, b string) bool {
	g.AddNode(a)
	g.AddNode(b)
	if a == b {
		return false
	}
	if _, ok := g.adj[a][b]; ok {
		return false
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	g.edges++
	return true
}

// RemoveEdge removes a-b and reports whether it existed. Nodes stay.
func (g *Graph) RemoveEdge(a, b string) bool {
	if _, ok := g.adj[a][b]; !ok {
		return false
	}
	delete(g.adj[a], b)
	delete(g.adj[b], a)
	g.edges--
	return true
}

// RemoveNode removes id and its incident edges.
func (g *Graph) RemoveNode(id string) {
	nbrs, ok := g.adj[id]
	if !ok {
		return
	}
	for n := range nbrs {
		delete(g.adj[n], id)
		g.edges--
	}
	delete(g.adj, id)
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// HasEdge reports whether a-b is in the graph.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.adj[a][b]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Degree returns the number of neighbours of id.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// Nodes returns all node ids sorted.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Neighbors returns the neighbours of id sorted.
func (g *Graph) Neighbors(id string) []string {
	nbrs := make([]string, 0, len(g.adj[id]))
	for n := range g.adj[id] {
		nbrs = append(nbrs, n)
	}
	slices.Sort(nbrs)
	return nbrs
}

// Edges returns every edge sorted by (From, To).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for a, nbrs := range g.adj {
		for b := range nbrs {
			if a < b {
				edges = append(edges, Edge{From: a, To: b})
			}
		}
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		switch {
		case x.Less(y):
			return -1
		case y.Less(x):
			return 1
		default:
			return 0
		}
	})
	return edges
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{adj: make(map[string]map[string]struct{}, len(g.adj)), edges: g.edges}
	for id, nbrs := range g.adj {
		cp := make(map[string]struct{}, len(nbrs))
		for n := range nbrs {
			cp[n] = struct{}{}
		}
		c.adj[id] = cp
	}
	return c
}

// Subgraph returns the graph induced by keep.
func (g *Graph) Subgraph(keep func(id string) bool) *Graph {
	sub := New()
	for id := range g.adj {
		if keep(id) {
			sub.AddNode(id)
		}
	}
	for _, e := range g.Edges() {
		if sub.HasNode(e.From) && sub.HasNode(e.To) {
			sub.AddEdge(e.From, e.To)
		}
	}
	return sub
}
