package algorithms

import "github.com/dd0wney/cluso-social/pkg/graph"

// Kind is the artifact kind under which a Partition is stored.
const Kind = "partition"

// Community is a connected component with at least two members.
type Community struct {
	ID      int      `json:"id"`
	Nodes   []string `json:"nodes"`
	Size    int      `json:"size"`
	Density float64  `json:"density"` // surviving internal edges / possible edges
}

// RemovedEdge records one Girvan-Newman step.
type RemovedEdge struct {
	Step       int        `json:"step"`
	Edge       graph.Edge `json:"edge"`
	Score      float64    `json:"score"`
	Components int        `json:"components"` // component count after removal
}

// Partition is the result of GirvanNewman.
type Partition struct {
	Communities       []Community    `json:"communities"`
	Outliers          []string       `json:"outliers"`
	Removed           []RemovedEdge  `json:"removed"`
	NodeCommunity     map[string]int `json:"node_community"`
	InitialComponents int            `json:"initial_components"`
	ComponentCount    int            `json:"component_count"`
	TargetComponents  int            `json:"target_components"`
	NodeCount         int            `json:"node_count"`
	EdgeCount         int            `json:"edge_count"`
	Modularity        float64        `json:"modularity"`
}

// CommunityUsers is the number of nodes inside reported communities.
func (p *Partition) CommunityUsers() int {
	n := 0
	for _, c := range p.Communities {
		n += c.Size
	}
	return n
}

// AverageCommunitySize is CommunityUsers / len(Communities), or 0.
func (p *Partition) AverageCommunitySize() float64 {
	if len(p.Communities) == 0 {
		return 0
	}
	return float64(p.CommunityUsers()) / float64(len(p.Communities))
}
