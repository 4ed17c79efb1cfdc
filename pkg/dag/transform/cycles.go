package transform

import (
	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
)

// BreakCycles removes every back edge found by a depth-first search started
// from the sources, then from any node not yet visited. The graph is acyclic
// afterwards. It returns the removed edges in discovery order.
func BreakCycles(g *dag.Graph) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[catalog.Identity]int, g.NodeCount())
	var backEdges []dag.Edge

	var dfs func(node catalog.Identity)
	dfs = func(node catalog.Identity) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, dag.Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n] == white {
			dfs(n)
		}
	}
	for _, n := range g.Nodes() {
		if color[n] == white {
			dfs(n)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return backEdges
}
