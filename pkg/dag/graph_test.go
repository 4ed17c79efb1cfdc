package dag

import (
	"errors"
	"reflect"
	"testing"

	"github.com/matzehuels/modlaunch/pkg/catalog"
)

func id(name string) catalog.Identity { return catalog.Identity{Name: name, Version: "1.0"} }

func names(ids []catalog.Identity) []string {
	out := make([]string, len(ids))
	for i, x := range ids {
		out[i] = x.Name
	}
	return out
}

// edges builds a graph from "a>b" specs, adding nodes on first appearance.
func edges(t *testing.T, specs ...string) *Graph {
	t.Helper()
	g := New()
	for _, s := range specs {
		from, to := id(s[:1]), id(s[2:])
		g.AddNode(from)
		g.AddNode(to)
		if err := g.AddEdge(from, to); err != nil {
			t.Fatalf("AddEdge(%s): %v", s, err)
		}
	}
	return g
}

// checkSymmetric verifies every outgoing edge has its incoming mirror and
// vice versa.
func checkSymmetric(t *testing.T, g *Graph) {
	t.Helper()
	for from, tos := range g.outgoing {
		for _, to := range tos {
			if !reflectContains(g.incoming[to], from) {
				t.Errorf("edge %s->%s missing from incoming", from, to)
			}
		}
	}
	for to, froms := range g.incoming {
		for _, from := range froms {
			if !reflectContains(g.outgoing[from], to) {
				t.Errorf("edge %s->%s missing from outgoing", from, to)
			}
		}
	}
}

func reflectContains(ids []catalog.Identity, x catalog.Identity) bool {
	for _, i := range ids {
		if i == x {
			return true
		}
	}
	return false
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode(id("a"))
	g.AddNode(id("b"))

	if err := g.AddEdge(id("a"), id("b")); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.AddEdge(id("a"), id("b")); err != nil {
		t.Errorf("duplicate AddEdge should be ignored, got %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if err := g.AddEdge(id("a"), id("a")); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self loop error = %v", err)
	}
	if err := g.AddEdge(id("x"), id("a")); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source error = %v", err)
	}
	if err := g.AddEdge(id("a"), id("x")); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target error = %v", err)
	}
	checkSymmetric(t, g)
}

func TestAddNodeIdempotent(t *testing.T) {
	g := edges(t, "a>b")
	g.AddNode(id("a"))
	if g.NodeCount() != 2 || g.OutDegree(id("a")) != 1 {
		t.Errorf("re-adding a node must not reset its edges: nodes %d, out %d", g.NodeCount(), g.OutDegree(id("a")))
	}
}

func TestRemoveEdge(t *testing.T) {
	g := edges(t, "a>b", "a>c", "b>c")
	g.RemoveEdge(id("a"), id("c"))
	g.RemoveEdge(id("c"), id("a")) // absent, no-op
	if got := names(g.Children(id("a"))); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Children(a) = %v", got)
	}
	if got := names(g.Parents(id("c"))); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Parents(c) = %v", got)
	}
	checkSymmetric(t, g)
}

func TestSourcesSinks(t *testing.T) {
	g := edges(t, "a>b", "c>b", "b>d")
	g.AddNode(id("e"))
	if got := names(g.Sources()); !reflect.DeepEqual(got, []string{"a", "c", "e"}) {
		t.Errorf("Sources() = %v", got)
	}
	if got := names(g.Sinks()); !reflect.DeepEqual(got, []string{"d", "e"}) {
		t.Errorf("Sinks() = %v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := edges(t, "a>b", "b>c")
	c := g.Clone()
	c.RemoveEdge(id("a"), id("b"))
	if g.OutDegree(id("a")) != 1 {
		t.Error("mutating a clone changed the original")
	}
	if !reflect.DeepEqual(g.Nodes(), c.Nodes()) {
		t.Error("clone should keep node order")
	}
}

func TestSubgraph(t *testing.T) {
	g := edges(t, "a>b", "b>c", "a>c", "c>d")
	sub := g.Subgraph([]catalog.Identity{id("a"), id("c"), id("z")})
	if got := names(sub.Nodes()); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Nodes() = %v", got)
	}
	if sub.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want only a->c", sub.EdgeCount())
	}
	checkSymmetric(t, sub)
}

func TestCycles(t *testing.T) {
	acyclic := edges(t, "a>b", "b>c")
	if c := acyclic.Cycles(); len(c) != 0 {
		t.Errorf("Cycles() = %v on an acyclic graph", c)
	}
	if err := acyclic.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	cyclic := edges(t, "a>b", "b>c", "c>b")
	cycles := cyclic.Cycles()
	if len(cycles) != 1 || !reflect.DeepEqual(names(cycles[0]), []string{"b", "c"}) {
		t.Errorf("Cycles() = %v, want [[b c]]", cycles)
	}
	if err := cyclic.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}
}
