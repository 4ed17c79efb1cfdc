package dag

import (
	"errors"
	"slices"

	"github.com/matzehuels/modlaunch/pkg/catalog"
)

var (
	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] when From and To are the
	// same module. A module that imports what it exports does not depend on itself.
	ErrSelfLoop = errors.New("edge would be a self loop")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a dependency: From imports a capability that To exports.
type Edge struct {
	From catalog.Identity `json:"from"`
	To   catalog.Identity `json:"to"`
}

// Graph is a directed dependency graph over module identities.
//
// outgoing and incoming are kept symmetric: every edge A->B appears in
// outgoing[A] and incoming[B]. Adjacency lists keep insertion order so
// traversals are deterministic.
//
// The zero value is not usable; use [New] or [Build]. A Graph is safe for
// concurrent reads once construction is finished.
type Graph struct {
	nodes      []catalog.Identity
	outgoing   map[catalog.Identity][]catalog.Identity
	incoming   map[catalog.Identity][]catalog.Identity
	unresolved []Unresolved
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		outgoing: make(map[catalog.Identity][]catalog.Identity),
		incoming: make(map[catalog.Identity][]catalog.Identity),
	}
}

// AddNode adds id as a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id catalog.Identity) {
	if _, ok := g.outgoing[id]; ok {
		return
	}
	g.nodes = append(g.nodes, id)
	g.outgoing[id] = []catalog.Identity{}
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id catalog.Identity) bool {
	_, ok := g.outgoing[id]
	return ok
}

// AddEdge adds the edge from->to, updating both adjacency maps.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to catalog.Identity) error {
	if !g.HasNode(from) {
		return ErrUnknownSourceNode
	}
	if !g.HasNode(to) {
		return ErrUnknownTargetNode
	}
	if from == to {
		return ErrSelfLoop
	}
	if slices.Contains(g.outgoing[from], to) {
		return nil
	}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// RemoveEdge removes the edge from->to if it exists.
func (g *Graph) RemoveEdge(from, to catalog.Identity) {
	if out, ok := g.outgoing[from]; ok {
		g.outgoing[from] = slices.DeleteFunc(out, func(id catalog.Identity) bool { return id == to })
	}
	if in, ok := g.incoming[to]; ok {
		g.incoming[to] = slices.DeleteFunc(in, func(id catalog.Identity) bool { return id == from })
	}
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []catalog.Identity { return slices.Clone(g.nodes) }

// Edges returns all edges, grouped by source in node order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.nodes {
		for _, to := range g.outgoing[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, out := range g.outgoing {
		n += len(out)
	}
	return n
}

// Children returns the modules id depends on.
func (g *Graph) Children(id catalog.Identity) []catalog.Identity {
	return slices.Clone(g.outgoing[id])
}

// Parents returns the modules that depend on id.
func (g *Graph) Parents(id catalog.Identity) []catalog.Identity {
	return slices.Clone(g.incoming[id])
}

// OutDegree returns the number of outgoing edges from id.
func (g *Graph) OutDegree(id catalog.Identity) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to id.
func (g *Graph) InDegree(id catalog.Identity) int { return len(g.incoming[id]) }

// Sources returns nodes no other module depends on, in node order.
func (g *Graph) Sources() []catalog.Identity {
	var out []catalog.Identity
	for _, id := range g.nodes {
		if len(g.incoming[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns nodes without dependencies, in node order.
func (g *Graph) Sinks() []catalog.Identity {
	var out []catalog.Identity
	for _, id := range g.nodes {
		if len(g.outgoing[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Unresolved returns the requirements [Build] could not satisfy.
func (g *Graph) Unresolved() []Unresolved { return slices.Clone(g.unresolved) }

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	return g.Subgraph(g.nodes)
}

// Subgraph returns a copy restricted to ids and the edges among them.
// Node order follows ids; ids that are not nodes are ignored.
func (g *Graph) Subgraph(ids []catalog.Identity) *Graph {
	keep := make(map[catalog.Identity]bool, len(ids))
	sub := New()
	for _, id := range ids {
		if g.HasNode(id) && !keep[id] {
			keep[id] = true
			sub.AddNode(id)
		}
	}
	for _, from := range sub.nodes {
		for _, to := range g.outgoing[from] {
			if keep[to] {
				sub.outgoing[from] = append(sub.outgoing[from], to)
				sub.incoming[to] = append(sub.incoming[to], from)
			}
		}
	}
	for _, u := range g.unresolved {
		if keep[u.Module] {
			sub.unresolved = append(sub.unresolved, u)
		}
	}
	return sub
}

// Validate returns [ErrGraphHasCycle] if the graph has a directed cycle.
func (g *Graph) Validate() error {
	if len(g.Cycles()) > 0 {
		return ErrGraphHasCycle
	}
	return nil
}

// Cycles reports directed cycles using depth-first search with
// white/gray/black coloring. Each cycle is listed once, starting at the node
// where the back edge closes it. Not every elementary cycle of a strongly
// connected component is reported; one per back edge is.
//
// Sequencing never calls this; cycle members are silently left out of a
// sequence. Cycles exists for diagnostics.
func (g *Graph) Cycles() [][]catalog.Identity {
	const (
		white = iota
		gray
		black
	)

	color := make(map[catalog.Identity]int, len(g.nodes))
	var stack []catalog.Identity
	var cycles [][]catalog.Identity

	var dfs func(id catalog.Identity)
	dfs = func(id catalog.Identity) {
		color[id] = gray
		stack = append(stack, id)
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				i := slices.Index(stack, child)
				cycles = append(cycles, slices.Clone(stack[i:]))
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range g.nodes {
		if color[id] == white {
			dfs(id)
		}
	}
	return cycles
}
