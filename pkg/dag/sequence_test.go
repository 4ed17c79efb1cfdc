package dag

import (
	"bytes"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/manifest"
)

func caps(specs ...string) []manifest.Capability {
	var out []manifest.Capability
	for _, s := range specs {
		out = append(out, manifest.ParseHeader(s)...)
	}
	return out
}

// chainCatalog is the classic launcher fixture: b imports a, c imports b,
// d imports b and c, e imports d.
func chainCatalog() *catalog.Catalog {
	mod := func(name string, imports ...string) catalog.Record {
		return catalog.Record{
			Identity: id(name),
			Path:     "/plugins/" + name + ".jar",
			Exports:  caps("pkg." + name),
			Imports:  caps(imports...),
		}
	}
	return catalog.New(
		mod("a"),
		mod("b", "pkg.a"),
		mod("c", "pkg.b"),
		mod("d", "pkg.b", "pkg.c"),
		mod("e", "pkg.d"),
	)
}

func quiet() *log.Logger { return log.New(&bytes.Buffer{}) }

func TestBuild(t *testing.T) {
	g := Build(chainCatalog(), BuildOptions{Logger: quiet()})
	if g.NodeCount() != 5 || g.EdgeCount() != 5 {
		t.Fatalf("nodes %d edges %d, want 5 and 5", g.NodeCount(), g.EdgeCount())
	}
	if got := names(g.Children(id("d"))); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Children(d) = %v", got)
	}
	if got := names(g.Parents(id("b"))); !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("Parents(b) = %v", got)
	}
	checkSymmetric(t, g)
	if len(g.Unresolved()) != 0 {
		t.Errorf("Unresolved() = %v", g.Unresolved())
	}
}

func TestBuildSkipsSelfImportAndRecordsUnresolved(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs)
	logger.SetLevel(log.DebugLevel)

	cat := catalog.New(
		catalog.Record{Identity: id("self"), Path: "/s.jar", Exports: caps("pkg.self"), Imports: caps("pkg.self", "pkg.missing")},
	)
	g := Build(cat, BuildOptions{Logger: logger})
	if g.EdgeCount() != 0 {
		t.Errorf("a module importing its own export must not depend on itself")
	}
	if !g.HasNode(id("self")) || g.OutDegree(id("self")) != 0 {
		t.Error("every catalog module should be a node, even without edges")
	}
	un := g.Unresolved()
	if len(un) != 1 || un[0].Requirement.Name != "pkg.missing" || un[0].Candidate != nil {
		t.Errorf("Unresolved() = %+v", un)
	}
	if !strings.Contains(logs.String(), "unresolved requirement") {
		t.Errorf("unresolved requirement should be logged at debug:\n%s", logs.String())
	}
}

func TestBuildStrictVersions(t *testing.T) {
	cat := catalog.New(
		catalog.Record{Identity: id("lib"), Path: "/lib.jar", Exports: caps(`pkg.lib;version="1.5.0"`)},
		catalog.Record{Identity: id("ok"), Path: "/ok.jar", Imports: caps(`pkg.lib;version="[1.0,2.0)"`)},
		catalog.Record{Identity: id("old"), Path: "/old.jar", Imports: caps(`pkg.lib;version="[2.0,3.0)"`)},
	)

	lenient := Build(cat, BuildOptions{Logger: quiet()})
	if lenient.EdgeCount() != 2 {
		t.Errorf("lenient build: EdgeCount() = %d, want 2", lenient.EdgeCount())
	}

	strict := Build(cat, BuildOptions{StrictVersions: true, Logger: quiet()})
	if strict.EdgeCount() != 1 || strict.OutDegree(id("ok")) != 1 {
		t.Errorf("strict build should only keep ok->lib, edges %v", strict.Edges())
	}
	un := strict.Unresolved()
	if len(un) != 1 || un[0].Module != id("old") || un[0].Candidate == nil || *un[0].Candidate != id("lib") {
		t.Errorf("Unresolved() = %+v", un)
	}
}

func TestSequence(t *testing.T) {
	g := Build(chainCatalog(), BuildOptions{Logger: quiet()})

	tests := []struct {
		start string
		want  []string
	}{
		{"d", []string{"d", "c", "b", "a"}},
		{"e", []string{"e", "d", "c", "b", "a"}},
		{"b", []string{"b", "a"}},
		{"a", []string{"a"}},
	}
	for _, tt := range tests {
		got := names(Sequence(g, id(tt.start)))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Sequence(%s) = %v, want %v", tt.start, got, tt.want)
		}
	}
}

func TestSequenceUnknownStart(t *testing.T) {
	g := Build(chainCatalog(), BuildOptions{Logger: quiet()})
	if got := Sequence(g, catalog.Identity{Name: "d", Version: "1.2"}); len(got) != 0 {
		t.Errorf("wrong version should give an empty sequence, got %v", got)
	}
	if got := Sequence(g, catalog.Identity{Name: "unknown", Version: "1.0"}); len(got) != 0 {
		t.Errorf("unknown module should give an empty sequence, got %v", got)
	}
}

func TestSequenceRespectsDependencies(t *testing.T) {
	g := Build(chainCatalog(), BuildOptions{Logger: quiet()})
	seq := Sequence(g, id("e"))
	pos := make(map[catalog.Identity]int, len(seq))
	for i, x := range seq {
		pos[x] = i
	}
	for _, e := range g.Edges() {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("%s must come before its dependency %s in %v", e.From, e.To, names(seq))
		}
	}
}

func TestSequenceOmitsCycles(t *testing.T) {
	// s -> x -> y -> x, and s -> z.
	g := edges(t, "s>x", "x>y", "y>x", "s>z")
	got := names(Sequence(g, id("s")))
	if !reflect.DeepEqual(got, []string{"s", "z"}) {
		t.Errorf("Sequence(s) = %v, want cycle members omitted", got)
	}
}

// A cycle through the start module is not omitted: once s is emitted, its edge
// to x is consumed and x has no other unprocessed parent, so x follows. The
// rule that a cycle A->B->A loses at least one member applies to cycles that
// do not contain the start module; see TestSequenceOmitsCycles.
func TestSequenceStartOnCycle(t *testing.T) {
	g := edges(t, "s>x", "x>s")
	got := names(Sequence(g, id("s")))
	if !reflect.DeepEqual(got, []string{"s", "x"}) {
		t.Errorf("Sequence(s) = %v, want [s x]", got)
	}
}

func TestSequenceDoesNotMutateGraph(t *testing.T) {
	g := Build(chainCatalog(), BuildOptions{Logger: quiet()})
	before := g.Edges()
	_ = Sequence(g, id("e"))
	if !reflect.DeepEqual(before, g.Edges()) {
		t.Error("Sequence modified the shared graph")
	}
	checkSymmetric(t, g)
}

func TestSequenceConcurrent(t *testing.T) {
	g := Build(chainCatalog(), BuildOptions{Logger: quiet()})
	want := names(Sequence(g, id("e")))

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := names(Sequence(g, id("e"))); !reflect.DeepEqual(got, want) {
				errs <- strings.Join(got, ",")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent Sequence returned %s, want %v", e, want)
	}
}

func TestReachable(t *testing.T) {
	g := Build(chainCatalog(), BuildOptions{Logger: quiet()})
	if got := names(Reachable(g, id("d"))); !reflect.DeepEqual(got, []string{"d", "b", "a", "c"}) {
		t.Errorf("Reachable(d) = %v", got)
	}
	if Reachable(g, id("nope")) != nil {
		t.Error("Reachable of an unknown node should be nil")
	}
}

func TestLoadOrder(t *testing.T) {
	seq := []catalog.Identity{id("d"), id("c"), id("b"), id("a")}
	got := names(LoadOrder(seq))
	if !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("LoadOrder() = %v", got)
	}
	if seq[0] != id("d") {
		t.Error("LoadOrder must not reverse its input in place")
	}
}
