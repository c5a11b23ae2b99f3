package place

import (
	"testing"

	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/tech"
	"github.com/chipgrid/trackplan/pkg/wire"
)

func TestResolveCoordinates_UnitPitch(t *testing.T) {
	groups := []wire.ExpandedGroup{group(wire.AlignLowerCompact, "a", "b", "c")}
	g := build(t, nil, groups...)
	ords, err := Solve(g, groups, 3)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	coords, ext, err := ResolveCoordinates(g, ords, 3, tech.Uniform(1, 0, 1), 0, 0)
	if err != nil {
		t.Fatalf("ResolveCoordinates: %v", err)
	}
	// Unit pitch, zero width: coordinates equal ordinals.
	for n, want := range map[string]int64{"a": 0, "b": 1, "c": 2} {
		if coords[id(n)] != want {
			t.Errorf("coord(%s) = %d, want %d", n, coords[id(n)], want)
		}
	}
	if ext.Low != 0 || ext.High != 2 {
		t.Errorf("extent = [%d, %d], want [0, 2]", ext.Low, ext.High)
	}
}

func TestResolveCoordinates_Origin(t *testing.T) {
	groups := []wire.ExpandedGroup{group(wire.AlignLowerCompact, "a", "b")}
	g := build(t, nil, groups...)
	ords, err := Solve(g, groups, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	coords, _, err := ResolveCoordinates(g, ords, 2, tech.Uniform(10, 0, 10), 0, 100)
	if err != nil {
		t.Fatalf("ResolveCoordinates: %v", err)
	}
	if coords[id("a")] != 100 || coords[id("b")] != 110 {
		t.Errorf("coords = %v, want a=100 b=110", coords)
	}
}

func TestResolveCoordinates_SeparationDominates(t *testing.T) {
	data := []byte(`
[layer.1]
pitch = 10
default_width = 4
default_space = 10

[layer.1.space]
"a:b" = 25
`)
	tbl, err := tech.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	groups := []wire.ExpandedGroup{group(wire.AlignLowerCompact, "a", "b", "c")}
	g := build(t, nil, groups...)
	ords, err := Solve(g, groups, 3)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	coords, _, err := ResolveCoordinates(g, ords, 3, tbl, 1, 0)
	if err != nil {
		t.Fatalf("ResolveCoordinates: %v", err)
	}
	// a-b requires 25 > one pitch; b-c falls back to the pitch step.
	if coords[id("b")]-coords[id("a")] != 25 {
		t.Errorf("b-a gap = %d, want 25", coords[id("b")]-coords[id("a")])
	}
	if coords[id("c")]-coords[id("b")] != 10 {
		t.Errorf("c-b gap = %d, want 10", coords[id("c")]-coords[id("b")])
	}
}

func TestResolveCoordinates_SkippedOrdinals(t *testing.T) {
	// Upper-compact placement leaves empty tracks below the group; the
	// first coordinate reflects the leading pitches.
	groups := []wire.ExpandedGroup{group(wire.AlignUpperCompact, "a", "b")}
	g := build(t, nil, groups...)
	ords, err := Solve(g, groups, 4)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	coords, ext, err := ResolveCoordinates(g, ords, 4, tech.Uniform(10, 0, 10), 0, 0)
	if err != nil {
		t.Fatalf("ResolveCoordinates: %v", err)
	}
	if coords[id("a")] != 20 || coords[id("b")] != 30 {
		t.Errorf("coords = %v, want a=20 b=30", coords)
	}
	if ext.Low != 0 || ext.High != 30 {
		t.Errorf("extent = [%d, %d], want [0, 30]", ext.Low, ext.High)
	}
}

func TestResolveCoordinates_SharedOnSeam(t *testing.T) {
	// A shared boundary wire contributes no half-width to the extent;
	// a non-shared boundary wire does.
	groups := []wire.ExpandedGroup{group(wire.AlignLowerCompact, "vss", "sig")}
	g := build(t, []string{"vss"}, groups...)
	ords, err := Solve(g, groups, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	_, ext, err := ResolveCoordinates(g, ords, 2, tech.Uniform(10, 6, 10), 0, 0)
	if err != nil {
		t.Fatalf("ResolveCoordinates: %v", err)
	}
	if ext.Low != 0 {
		t.Errorf("extent low = %d, want 0 (shared wire sits on the seam)", ext.Low)
	}
	if ext.High != 13 {
		t.Errorf("extent high = %d, want 13 (track 1 plus half the drawn width)", ext.High)
	}
}

func TestResolveCoordinates_UndefinedLayer(t *testing.T) {
	// A table with no entry for the requested layer reports zero pitch,
	// which would collapse every coordinate onto the origin. The
	// resolver must reject it instead.
	data := []byte(`
[layer.4]
pitch = 48
default_width = 20
default_space = 28
`)
	tbl, err := tech.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	groups := []wire.ExpandedGroup{group(wire.AlignLowerCompact, "a", "b")}
	g := build(t, nil, groups...)
	ords, err := Solve(g, groups, 2)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	_, _, err = ResolveCoordinates(g, ords, 2, tbl, 5, 0)
	if !errors.Is(err, errors.ErrCodeInvalidTech) {
		t.Fatalf("code = %s, want INVALID_TECH", errors.GetCode(err))
	}
}

func TestResolveCoordinates_Empty(t *testing.T) {
	g := build(t, nil)
	coords, ext, err := ResolveCoordinates(g, Ordinals{}, 0, tech.Uniform(1, 0, 1), 0, 42)
	if err != nil {
		t.Fatalf("ResolveCoordinates: %v", err)
	}
	if len(coords) != 0 {
		t.Errorf("coords = %v, want empty", coords)
	}
	if ext.Low != 42 || ext.High != 42 {
		t.Errorf("extent = [%d, %d], want degenerate [42, 42]", ext.Low, ext.High)
	}
}
