package wire

import (
	"github.com/chipgrid/trackplan/pkg/errors"
)

// Expand converts normalized groups into expanded groups by resolving
// bus notation. A range token name<lo:hi> expands into hi-lo+1 slots in
// ascending index order, so the lo index sits nearest the start of the
// list and ends up at the lowest resulting ordinal. Token attributes
// are copied to every expanded slot; an empty wire type defaults to the
// bus base name.
func Expand(groups []Group) ([]ExpandedGroup, error) {
	out := make([]ExpandedGroup, 0, len(groups))
	for gi, g := range groups {
		eg := ExpandedGroup{Align: g.Align}
		for _, tok := range g.Tokens {
			base, lo, hi, err := ParseName(tok.Name)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidName, err, "group %d", gi)
			}
			wtype := tok.WireType
			if wtype == "" {
				wtype = base
			}
			for idx := lo; idx <= hi; idx++ {
				eg.Slots = append(eg.Slots, Slot{
					ID:        ID{Name: base, Index: idx},
					PlaceType: tok.PlaceType,
					WireType:  wtype,
				})
			}
		}
		out = append(out, eg)
	}
	return out, nil
}

// ParseSharedNames resolves the shared-wire declarations of a spec into
// wire IDs. Shared entries must name a single wire (bare name or
// name<idx>); declaring a whole bus range as shared is rejected.
func ParseSharedNames(names []string) ([]ID, error) {
	ids := make([]ID, 0, len(names))
	for _, name := range names {
		base, lo, hi, err := ParseName(name)
		if err != nil {
			return nil, err
		}
		if lo != hi {
			return nil, errors.New(errors.ErrCodeInvalidName,
				"cannot declare bus range %q as shared", name)
		}
		ids = append(ids, ID{Name: base, Index: lo})
	}
	return ids, nil
}
