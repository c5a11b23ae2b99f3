package wire

import (
	"testing"

	"github.com/chipgrid/trackplan/pkg/errors"
)

func TestExpand(t *testing.T) {
	groups := []Group{
		{
			Tokens: []Token{
				{Name: "vss", PlaceType: "sup"},
				{Name: "sig<1:3>"},
				{Name: "clk<2>", WireType: "clk_fast"},
			},
			Align: AlignCenterCompact,
		},
	}

	out, err := Expand(groups)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("groups = %d, want 1", len(out))
	}

	eg := out[0]
	if eg.Align != AlignCenterCompact {
		t.Errorf("align = %q, want CENTER_COMPACT", eg.Align)
	}

	want := []Slot{
		{ID: ID{Name: "vss", Index: 0}, PlaceType: "sup", WireType: "vss"},
		{ID: ID{Name: "sig", Index: 1}, WireType: "sig"},
		{ID: ID{Name: "sig", Index: 2}, WireType: "sig"},
		{ID: ID{Name: "sig", Index: 3}, WireType: "sig"},
		{ID: ID{Name: "clk", Index: 2}, WireType: "clk_fast"},
	}
	if len(eg.Slots) != len(want) {
		t.Fatalf("slots = %d, want %d", len(eg.Slots), len(want))
	}
	for i, w := range want {
		if eg.Slots[i] != w {
			t.Errorf("slot %d = %+v, want %+v", i, eg.Slots[i], w)
		}
	}
}

func TestExpand_BadName(t *testing.T) {
	groups := []Group{{Tokens: []Token{{Name: "bus<3:1>"}}}}
	_, err := Expand(groups)
	if !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Fatalf("code = %s, want INVALID_NAME", errors.GetCode(err))
	}
}

func TestParseSharedNames(t *testing.T) {
	ids, err := ParseSharedNames([]string{"vss", "sig<2>"})
	if err != nil {
		t.Fatalf("ParseSharedNames: %v", err)
	}
	want := []ID{{Name: "vss", Index: 0}, {Name: "sig", Index: 2}}
	for i, w := range want {
		if ids[i] != w {
			t.Errorf("ids[%d] = %+v, want %+v", i, ids[i], w)
		}
	}
}

func TestParseSharedNames_RejectsRange(t *testing.T) {
	_, err := ParseSharedNames([]string{"sig<0:3>"})
	if !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Fatalf("code = %s, want INVALID_NAME", errors.GetCode(err))
	}
}
