package wiregraph

import (
	"testing"

	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/wire"
)

func id(name string, idx int) wire.ID {
	return wire.ID{Name: name, Index: idx}
}

func TestGraphIntern_FirstDeclaredWins(t *testing.T) {
	g := New()
	g.Intern(id("vss", 0), "sup", "vss", 0)
	n := g.Intern(id("vss", 0), "sig", "other", 3)

	if n.PlaceType != "sup" || n.WireType != "vss" || n.DeclGroup != 0 {
		t.Errorf("node = %+v, want first-declared attributes", n)
	}
	if g.NodeCount() != 1 {
		t.Errorf("nodes = %d, want 1", g.NodeCount())
	}
}

func TestGraphAddEdge(t *testing.T) {
	g := New()
	g.Intern(id("a", 0), "", "a", 0)
	g.Intern(id("b", 0), "", "b", 0)

	if err := g.AddEdge(id("a", 0), id("b", 0), 0); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	// Duplicate insertion keeps the edge count stable.
	if err := g.AddEdge(id("a", 0), id("b", 0), 1); err != nil {
		t.Fatalf("AddEdge duplicate: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1", g.EdgeCount())
	}
	if g.InDegree(id("b", 0)) != 1 || g.OutDegree(id("a", 0)) != 1 {
		t.Error("degrees do not reflect the single edge")
	}
}

func TestGraphGroupCount_DirectAssembly(t *testing.T) {
	// A graph assembled without Build still reports the groups that
	// contributed nodes or edges.
	g := New()
	if g.GroupCount() != 0 {
		t.Errorf("groups = %d, want 0 for empty graph", g.GroupCount())
	}
	g.Intern(id("a", 0), "", "a", 0)
	g.Intern(id("b", 0), "", "b", 2)
	if g.GroupCount() != 3 {
		t.Errorf("groups = %d, want 3 after interning in group 2", g.GroupCount())
	}
	if err := g.AddEdge(id("a", 0), id("b", 0), 4); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if g.GroupCount() != 5 {
		t.Errorf("groups = %d, want 5 after edge in group 4", g.GroupCount())
	}
}

func TestGraphAddEdge_SelfEdge(t *testing.T) {
	g := New()
	g.Intern(id("a", 0), "", "a", 0)

	err := g.AddEdge(id("a", 0), id("a", 0), 0)
	if !errors.Is(err, errors.ErrCodeDependencyCycle) {
		t.Fatalf("code = %s, want DEPENDENCY_CYCLE", errors.GetCode(err))
	}
}

func TestGraphAddEdge_Cycle(t *testing.T) {
	g := New()
	for _, name := range []string{"a", "b", "c"} {
		g.Intern(id(name, 0), "", name, 0)
	}
	if err := g.AddEdge(id("a", 0), id("b", 0), 0); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(id("b", 0), id("c", 0), 0); err != nil {
		t.Fatal(err)
	}

	err := g.AddEdge(id("c", 0), id("a", 0), 1)
	if !errors.Is(err, errors.ErrCodeDependencyCycle) {
		t.Fatalf("code = %s, want DEPENDENCY_CYCLE", errors.GetCode(err))
	}
	// The failed insertion must not leave a partial edge behind.
	if g.EdgeCount() != 2 {
		t.Errorf("edges = %d, want 2", g.EdgeCount())
	}
}

func TestGraphSourcesSinks(t *testing.T) {
	g := New()
	for _, name := range []string{"a", "b", "c", "d"} {
		g.Intern(id(name, 0), "", name, 0)
	}
	// a -> b -> d, a -> c -> d
	for _, e := range [][2]string{{"a", "b"}, {"b", "d"}, {"a", "c"}, {"c", "d"}} {
		if err := g.AddEdge(id(e[0], 0), id(e[1], 0), 0); err != nil {
			t.Fatal(err)
		}
	}

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != id("a", 0) {
		t.Errorf("sources = %v, want [a<0>]", sources)
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0].ID != id("d", 0) {
		t.Errorf("sinks = %v, want [d<0>]", sinks)
	}
}

func TestGraphTopoOrder(t *testing.T) {
	g := New()
	for _, name := range []string{"a", "b", "c", "d"} {
		g.Intern(id(name, 0), "", name, 0)
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if err := g.AddEdge(id(e[0], 0), id(e[1], 0), 0); err != nil {
			t.Fatal(err)
		}
	}

	order := g.TopoOrder()
	if len(order) != 4 {
		t.Fatalf("order length = %d, want 4", len(order))
	}
	pos := make(map[wire.ID]int, len(order))
	for i, w := range order {
		pos[w] = i
	}
	for _, e := range g.Edges() {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("topo order violates edge %s -> %s", e.From, e.To)
		}
	}
	// Declaration order breaks the b/c tie.
	if pos[id("b", 0)] >= pos[id("c", 0)] {
		t.Error("tie-break should order b before c")
	}
}
