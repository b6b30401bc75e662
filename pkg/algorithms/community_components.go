package algorithms

import (
	"container/list"
	"slices"

	"github.com/dd0wney/cluso-social/pkg/graph"
)

// Component is a maximal connected node set, members sorted.
type Component struct {
	ID    int
	Nodes []string
}

// ConnectedComponents labels components by breadth-first search. Starting
// nodes are taken in sorted order, so component ids are stable: component 0
// holds the smallest node id.
func ConnectedComponents(g *graph.Graph) []Component {
	visited := make(map[string]bool, g.NodeCount())
	components := make([]Component, 0)

	for _, start := range g.Nodes() {
		if visited[start] {
			continue
		}

		component := Component{ID: len(components)}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		for queue.Len() > 0 {
			id, ok := queue.Remove(queue.Front()).(string)
			if !ok {
				continue
			}
			component.Nodes = append(component.Nodes, id)

			for _, n := range g.Neighbors(id) {
				if !visited[n] {
					visited[n] = true
					queue.PushBack(n)
				}
			}
		}

		slices.Sort(component.Nodes)
		components = append(components, component)
	}

	return components
}

// CountComponents returns the number of connected components.
func CountComponents(g *graph.Graph) int {
	return len(ConnectedComponents(g))
}
