package dag

import (
	"slices"

	"github.com/matzehuels/modlaunch/pkg/catalog"
)

// Reachable returns start and every module reachable from it, in
// depth-first preorder. It returns nil when start is not a node.
func Reachable(g *Graph, start catalog.Identity) []catalog.Identity {
	if !g.HasNode(start) {
		return nil
	}
	seen := make(map[catalog.Identity]bool)
	var order []catalog.Identity
	stack := []catalog.Identity{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		order = append(order, n)
		// Push children in reverse so the first child is visited first.
		children := g.outgoing[n]
		for i := len(children) - 1; i >= 0; i-- {
			if !seen[children[i]] {
				stack = append(stack, children[i])
			}
		}
	}
	return order
}

// Sequence returns start followed by its transitive dependencies in
// topological order: every module appears before the modules it depends on.
//
// Kahn's algorithm runs over a private in-degree table restricted to the
// modules reachable from start, seeded with start alone. Modules on a cycle
// never reach in-degree zero and are silently left out. The graph itself is
// never modified, so concurrent calls on a shared graph are safe.
//
// Sequence returns nil when start is not a node of g. Use [LoadOrder] to
// turn the result into activation order.
func Sequence(g *Graph, start catalog.Identity) []catalog.Identity {
	discovered := Reachable(g, start)
	if discovered == nil {
		return nil
	}

	remaining := make(map[catalog.Identity]int, len(discovered))
	for _, n := range discovered {
		for _, c := range g.outgoing[n] {
			remaining[c]++
		}
	}

	emitted := make(map[catalog.Identity]bool, len(discovered))
	out := make([]catalog.Identity, 0, len(discovered))
	queue := []catalog.Identity{start}
	emitted[start] = true
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)
		for _, c := range g.outgoing[n] {
			remaining[c]--
			if remaining[c] == 0 && !emitted[c] {
				emitted[c] = true
				queue = append(queue, c)
			}
		}
	}
	return out
}

// LoadOrder reverses a sequence so that providers come before the modules
// that depend on them.
func LoadOrder(seq []catalog.Identity) []catalog.Identity {
	out := slices.Clone(seq)
	slices.Reverse(out)
	return out
}
