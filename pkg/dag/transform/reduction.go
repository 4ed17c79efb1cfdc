package transform

import (
	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
)

// TransitiveReduction removes every edge (u, v) for which u also reaches v
// through another child, and returns the number of edges removed.
// If A->B, B->C and A->C all exist, A->C is removed.
//
// The graph must be acyclic; run [BreakCycles] first on untrusted input.
// Each module walks the descendants of its children once, so the cost is
// O(V·E) time with O(V) extra memory per walk.
func TransitiveReduction(g *dag.Graph) int {
	var redundant []dag.Edge
	for _, u := range g.Nodes() {
		children := g.Children(u)
		if len(children) < 2 {
			continue
		}
		indirect := descendants(g, children)
		for _, v := range children {
			if indirect[v] {
				redundant = append(redundant, dag.Edge{From: u, To: v})
			}
		}
	}
	for _, e := range redundant {
		g.RemoveEdge(e.From, e.To)
	}
	return len(redundant)
}

// descendants marks every module reachable in one or more steps from roots,
// not counting the roots themselves unless another root reaches them.
func descendants(g *dag.Graph, roots []catalog.Identity) map[catalog.Identity]bool {
	seen := make(map[catalog.Identity]bool)
	var stack []catalog.Identity
	for _, r := range roots {
		stack = append(stack, g.Children(r)...)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, g.Children(n)...)
	}
	return seen
}
