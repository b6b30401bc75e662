// Package visualization lays out a graph in 2D and draws it as SVG.
package visualization

import (
	"fmt"

	"github.com/dd0wney/cluso-social/pkg/graph"
)

// Layout names accepted by NewLayout.
const (
	LayoutForce    = "force"
	LayoutCircular = "circular"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       uint64  // Seed for initial placement; equal seeds give equal layouts
}

// DefaultLayoutConfig is a 1000x800 canvas.
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{Width: 1000, Height: 800, Iterations: 50, Padding: 50, Seed: 1}
}

// Layout places every node of a graph.
type Layout interface {
	ComputeLayout(g *graph.Graph) map[string]Position
}

// NewLayout returns the layout registered under name. An empty name is the
// force-directed layout.
func NewLayout(name string, config *LayoutConfig) (Layout, error) {
	switch name {
	case "", LayoutForce:
		return NewForceDirectedLayout(config), nil
	case LayoutCircular:
		return NewCircularLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}
