package transform

import (
	"reflect"
	"testing"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
)

func id(name string) catalog.Identity { return catalog.Identity{Name: name, Version: "1.0"} }

// graph builds a graph from "a>b" edge specs; nodes are added in order of
// first appearance.
func graph(t *testing.T, edges ...string) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, e := range edges {
		from, to := e[:1], e[2:]
		g.AddNode(id(from))
		g.AddNode(id(to))
		if err := g.AddEdge(id(from), id(to)); err != nil {
			t.Fatalf("AddEdge(%s): %v", e, err)
		}
	}
	return g
}

func names(ids []catalog.Identity) []string {
	out := make([]string, len(ids))
	for i, x := range ids {
		out[i] = x.Name
	}
	return out
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name        string
		edges       []string
		wantRemoved int
		wantEdges   int
	}{
		{"no cycles", []string{"a>b", "b>c"}, 0, 2},
		{"simple cycle", []string{"a>b", "b>a"}, 1, 1},
		{"triangle", []string{"a>b", "b>c", "c>a"}, 1, 2},
		{"two cycles", []string{"a>b", "b>a", "c>d", "d>c"}, 2, 2},
		{"diamond", []string{"a>b", "a>c", "b>d", "c>d"}, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph(t, tt.edges...)
			removed := BreakCycles(g)
			if len(removed) != tt.wantRemoved {
				t.Errorf("removed %v, want %d edges", removed, tt.wantRemoved)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("graph should be acyclic after BreakCycles: %v", err)
			}
		})
	}
}

func TestBreakCyclesEmpty(t *testing.T) {
	if removed := BreakCycles(dag.New()); len(removed) != 0 {
		t.Errorf("removed %v from an empty graph", removed)
	}
}

func TestTransitiveReduction(t *testing.T) {
	g := graph(t, "a>b", "b>c", "a>c", "a>d")
	if n := TransitiveReduction(g); n != 1 {
		t.Errorf("removed %d edges, want 1", n)
	}
	if got := names(g.Children(id("a"))); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Errorf("Children(a) = %v, want [b d]", got)
	}
	if TransitiveReduction(dag.New()) != 0 {
		t.Error("empty graph should have nothing to reduce")
	}
}

func TestStages(t *testing.T) {
	// d depends on b and c, c on b, b on a, e on d.
	g := graph(t, "d>b", "d>c", "c>b", "b>a", "e>d")
	stages, blocked := Stages(g)
	want := [][]string{{"a"}, {"b"}, {"c"}, {"d"}, {"e"}}
	var got [][]string
	for _, s := range stages {
		got = append(got, names(s))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stages() = %v, want %v", got, want)
	}
	if len(blocked) != 0 {
		t.Errorf("blocked = %v, want none", blocked)
	}
}

func TestStagesParallelAndBlocked(t *testing.T) {
	// x and y both only need base; z sits on a cycle with w; top needs z.
	g := graph(t, "x>b", "y>b", "z>w", "w>z", "t>z")
	stages, blocked := Stages(g)
	if len(stages) != 2 || !reflect.DeepEqual(names(stages[1]), []string{"x", "y"}) {
		t.Errorf("Stages() = %v", stages)
	}
	if got := names(blocked); !reflect.DeepEqual(got, []string{"z", "w", "t"}) {
		t.Errorf("blocked = %v, want [z w t]", got)
	}
}
