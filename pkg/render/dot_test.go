package render

import (
	"strings"
	"testing"

	"github.com/chipgrid/trackplan/pkg/place"
	"github.com/chipgrid/trackplan/pkg/wire"
	"github.com/chipgrid/trackplan/pkg/wiregraph"
)

func testGraph(t *testing.T) *wiregraph.Graph {
	t.Helper()
	groups := []wire.ExpandedGroup{{
		Align: wire.AlignLowerCompact,
		Slots: []wire.Slot{
			{ID: wire.ID{Name: "vss"}, WireType: "vss"},
			{ID: wire.ID{Name: "sig"}, WireType: "sig"},
		},
	}}
	g, err := wiregraph.Build(groups, []wire.ID{{Name: "vss"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, Options{})

	for _, want := range []string{
		"digraph wires",
		"rankdir=BT",
		`"vss<0>"`,
		`"sig<0>"`,
		`"vss<0>" -> "sig<0>"`,
		"peripheries=2", // shared wires get a doubled outline
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Annotations(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, Options{
		Ordinals: place.Ordinals{
			{Name: "vss"}: 0,
			{Name: "sig"}: 1,
		},
		Coordinates: place.Coordinates{
			{Name: "vss"}: 0,
			{Name: "sig"}: 48,
		},
	})

	for _, want := range []string{"ordinal: 1", "coord: 48"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}
