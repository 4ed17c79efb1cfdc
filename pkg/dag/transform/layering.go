package transform

import (
	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
)

// Stages groups the modules of g into activation waves.
//
// A module's stage is the length of the longest dependency chain below it:
// modules without dependencies are stage 0, and every module sits one stage
// above its deepest dependency. Modules in the same stage do not depend on
// each other and may be activated together once all earlier stages are up.
//
// Stages walks the graph with Kahn's algorithm from the sinks upwards. Modules
// on a cycle, and modules depending on one, never become ready and are
// returned separately in node order.
func Stages(g *dag.Graph) (stages [][]catalog.Identity, blocked []catalog.Identity) {
	nodes := g.Nodes()
	pending := make(map[catalog.Identity]int, len(nodes))
	level := make(map[catalog.Identity]int, len(nodes))
	queue := make([]catalog.Identity, 0, len(nodes))

	for _, n := range nodes {
		pending[n] = g.OutDegree(n)
		if pending[n] == 0 {
			queue = append(queue, n)
		}
	}

	placed := make(map[catalog.Identity]bool, len(nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		placed[curr] = true

		for _, parent := range g.Parents(curr) {
			if l := level[curr] + 1; l > level[parent] {
				level[parent] = l
			}
			pending[parent]--
			if pending[parent] == 0 {
				queue = append(queue, parent)
			}
		}
	}

	for _, n := range nodes {
		if !placed[n] {
			blocked = append(blocked, n)
			continue
		}
		l := level[n]
		for len(stages) <= l {
			stages = append(stages, nil)
		}
		stages[l] = append(stages[l], n)
	}
	return stages, blocked
}
