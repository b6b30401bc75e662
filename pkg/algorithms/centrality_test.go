package algorithms

import (
	"math"
	"testing"

	"github.com/dd0wney/cluso-social/pkg/graph"
)

const epsilon = 1e-9

func buildGraph(edges ...[2]string) *graph.Graph {
	g := graph.New()
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

// barbell is two triangles {a,b,c} and {d,e,f} joined by the bridge c-d.
func barbell() *graph.Graph {
	return buildGraph(
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"},
		[2]string{"d", "e"}, [2]string{"e", "f"}, [2]string{"d", "f"},
		[2]string{"c", "d"},
	)
}

func assertScore(t *testing.T, scores map[graph.Edge]float64, a, b string, want float64) {
	t.Helper()
	got, ok := scores[graph.NewEdge(a, b)]
	if !ok {
		t.Fatalf("edge %s-%s missing from scores", a, b)
	}
	if math.Abs(got-want) > epsilon {
		t.Errorf("betweenness(%s-%s) = %v, want %v", a, b, got, want)
	}
}

func TestEdgeBetweenness_Workers(t *testing.T) {
	scores := EdgeBetweenness(barbell(), BetweennessOptions{Workers: 4})
	if len(scores) != 7 {
		t.Fatalf("got %d edges, want 7", len(scores))
	}
	assertScore(t, scores, "c", "d", 9)
	assertScore(t, scores, "a", "b", 1)
}

// TestEdgeBetweenness_Path checks the A-B-C-D path: the outer edges carry
// three pairs each, the middle edge four.
func TestEdgeBetweenness_Path(t *testing.T) {
	g := buildGraph([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"})

	scores := EdgeBetweenness(g, BetweennessOptions{})

	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	assertScore(t, scores, "A", "B", 3)
	assertScore(t, scores, "B", "C", 4)
	assertScore(t, scores, "C", "D", 3)
}

// TestEdgeBetweenness_SquareSplitsPaths checks fractional credit: opposite
// corners of a 4-cycle have two shortest paths, each edge on them gets 1/2.
func TestEdgeBetweenness_SquareSplitsPaths(t *testing.T) {
	g := buildGraph([2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "d"}, [2]string{"d", "a"})

	scores := EdgeBetweenness(g, BetweennessOptions{})

	for _, e := range g.Edges() {
		assertScore(t, scores, e.From, e.To, 2)
	}
}

func TestEdgeBetweenness_Barbell(t *testing.T) {
	scores := EdgeBetweenness(barbell(), BetweennessOptions{})

	assertScore(t, scores, "c", "d", 9)
	assertScore(t, scores, "a", "b", 1)
	assertScore(t, scores, "a", "c", 4)
	assertScore(t, scores, "b", "c", 4)
	assertScore(t, scores, "d", "e", 4)
	assertScore(t, scores, "e", "f", 1)
}

func TestEdgeBetweenness_MaxDepth(t *testing.T) {
	g := buildGraph([2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"})

	scores := EdgeBetweenness(g, BetweennessOptions{MaxDepth: 1})

	// Only adjacent pairs are within one hop.
	assertScore(t, scores, "A", "B", 1)
	assertScore(t, scores, "B", "C", 1)
	assertScore(t, scores, "C", "D", 1)

	scores = EdgeBetweenness(g, BetweennessOptions{MaxDepth: 2})
	assertScore(t, scores, "A", "B", 2)
	assertScore(t, scores, "B", "C", 3)
}

func TestEdgeBetweenness_DisconnectedAndEmpty(t *testing.T) {
	if got := EdgeBetweenness(graph.New(), BetweennessOptions{}); len(got) != 0 {
		t.Errorf("empty graph should have no scores, got %v", got)
	}

	g := buildGraph([2]string{"a", "b"}, [2]string{"x", "y"})
	g.AddNode("lonely")
	scores := EdgeBetweenness(g, BetweennessOptions{})
	assertScore(t, scores, "a", "b", 1)
	assertScore(t, scores, "x", "y", 1)
}

func TestMaxEdge_TieBreak(t *testing.T) {
	scores := map[graph.Edge]float64{
		graph.NewEdge("c", "d"): 2,
		graph.NewEdge("b", "c"): 2,
		graph.NewEdge("a", "d"): 2 - 1e-12, // within tolerance
		graph.NewEdge("a", "b"): 1,
	}

	best, ok := MaxEdge(scores)
	if !ok {
		t.Fatal("expected an edge")
	}
	if best.Edge != graph.NewEdge("a", "d") {
		t.Errorf("expected tie to go to a-d, got %v", best.Edge)
	}

	if _, ok := MaxEdge(nil); ok {
		t.Error("empty scores should report ok=false")
	}
}

func TestRankEdges(t *testing.T) {
	scores := EdgeBetweenness(barbell(), BetweennessOptions{})
	ranked := RankEdges(scores)

	if len(ranked) != 7 {
		t.Fatalf("expected 7 ranked edges, got %d", len(ranked))
	}
	if ranked[0].Edge != graph.NewEdge("c", "d") {
		t.Errorf("bridge should rank first, got %v", ranked[0].Edge)
	}
	// a-c, b-c, d-e, d-f all score 4 and are ordered by endpoints.
	want := []graph.Edge{
		graph.NewEdge("a", "c"), graph.NewEdge("b", "c"),
		graph.NewEdge("d", "e"), graph.NewEdge("d", "f"),
	}
	for i, e := range want {
		if ranked[i+1].Edge != e {
			t.Errorf("ranked[%d] = %v, want %v", i+1, ranked[i+1].Edge, e)
		}
	}
}
