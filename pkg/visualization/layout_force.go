package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/dd0wney/cluso-social/pkg/graph"
)

// ForceDirectedLayout implements Fruchterman-Reingold style layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm. Nodes are
// visited in sorted order and the initial placement is seeded, so the same
// graph and config always produce the same layout.
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph) map[string]Position {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return make(map[string]Position)
	}

	// Single node - center it
	if len(nodes) == 1 {
		return map[string]Position{
			nodes[0]: {X: fdl.config.Width / 2, Y: fdl.config.Height / 2},
		}
	}

	rng := rand.New(rand.NewPCG(fdl.config.Seed, uint64(len(nodes))))
	positions := make(map[string]Position, len(nodes))
	for _, id := range nodes {
		positions[id] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	edges := g.Edges()

	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(nodes))) // Optimal distance
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[string]Position, len(nodes))

		// Repulsion between all nodes
		for i, a := range nodes {
			for _, b := range nodes[i+1:] {
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[a] = Position{X: forces[a].X + fx, Y: forces[a].Y + fy}
				forces[b] = Position{X: forces[b].X - fx, Y: forces[b].Y - fy}
			}
		}

		// Attraction along edges
		for _, e := range edges {
			dx := positions[e.From].X - positions[e.To].X
			dy := positions[e.From].Y - positions[e.To].Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < 0.01 {
				continue
			}

			force := (dist * dist) / k
			fx := (dx / dist) * force
			fy := (dy / dist) * force

			forces[e.From] = Position{X: forces[e.From].X - fx, Y: forces[e.From].Y - fy}
			forces[e.To] = Position{X: forces[e.To].X + fx, Y: forces[e.To].Y + fy}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for _, id := range nodes {
			fx, fy := forces[id].X, forces[id].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force == 0 {
				continue
			}
			step := math.Min(force, temperature) * cool
			positions[id] = Position{
				X: positions[id].X + (fx/force)*step,
				Y: positions[id].Y + (fy/force)*step,
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding)
}
