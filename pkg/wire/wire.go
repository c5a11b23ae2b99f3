package wire

import "fmt"

// ID identifies a single routing wire by base name and index.
// Two tokens denote the same wire exactly when both fields match.
// The zero index corresponds to a bare name without bus notation.
type ID struct {
	Name  string
	Index int
}

// String renders the ID using bus notation, e.g. "clk<2>".
// A zero index still renders with the explicit index so that log and
// error output is unambiguous about which member of a bus is meant.
func (id ID) String() string {
	return fmt.Sprintf("%s<%d>", id.Name, id.Index)
}

// Alignment selects how a wire group distributes unused slack around
// its wires during placement.
type Alignment string

const (
	// AlignInherit means no explicit alignment was given; the group
	// inherits from the nearest enclosing level, or the caller default.
	AlignInherit Alignment = ""

	// AlignLowerCompact packs wires at the smallest feasible ordinals;
	// all slack accumulates above the group.
	AlignLowerCompact Alignment = "LOWER_COMPACT"

	// AlignUpperCompact packs wires at the largest feasible ordinals;
	// all slack accumulates below the group.
	AlignUpperCompact Alignment = "UPPER_COMPACT"

	// AlignCenterCompact splits slack between both ends as evenly as
	// possible, with an odd remainder assigned to the upper end.
	AlignCenterCompact Alignment = "CENTER_COMPACT"
)

// Valid reports whether a is one of the three concrete alignment policies.
// AlignInherit is not valid here - it must be resolved before placement.
func (a Alignment) Valid() bool {
	switch a {
	case AlignLowerCompact, AlignUpperCompact, AlignCenterCompact:
		return true
	}
	return false
}

// ParseAlignment converts a string into an Alignment.
// The empty string parses to AlignInherit. Any other value that is not
// one of the three policy names is an error.
func ParseAlignment(s string) (Alignment, error) {
	a := Alignment(s)
	if a == AlignInherit || a.Valid() {
		return a, nil
	}
	return AlignInherit, fmt.Errorf("unknown alignment %q (must be one of: LOWER_COMPACT, UPPER_COMPACT, CENTER_COMPACT)", s)
}

// Token is a single wire entry as written in a specification: a name
// that may carry bus notation, an optional placement type, and an
// optional wire type. Empty PlaceType and WireType mean "use defaults";
// the wire type defaults to the bus base name at expansion time.
type Token struct {
	Name      string
	PlaceType string
	WireType  string
}

// Group is an ordered list of wire tokens with a resolved alignment.
// Token order is significant: each consecutive pair becomes a
// strictly-before ordering constraint.
type Group struct {
	Tokens []Token
	Align  Alignment
}

// Data is the canonical form of a wire specification: the ordered
// groups plus the names declared shareable with neighboring blocks.
type Data struct {
	Groups []Group
	Shared []string
}

// Slot is one expanded occurrence of a wire inside a group. Bus tokens
// expand into one Slot per index; attributes are copied onto every slot.
type Slot struct {
	ID        ID
	PlaceType string
	WireType  string
}

// ExpandedGroup is a Group after bus expansion.
type ExpandedGroup struct {
	Slots []Slot
	Align Alignment
}
