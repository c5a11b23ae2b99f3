package place

import (
	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/wire"
	"github.com/chipgrid/trackplan/pkg/wiregraph"
)

// Lookup gives callers indexed access to a finished placement: per
// base name it tracks the covered index range, and per wire the
// resolved coordinate. It is the hand-off structure consumed by the
// layout-geometry side once placement is done.
type Lookup struct {
	coords Coordinates
	shared map[wire.ID]bool
	ranges map[string][2]int // base name -> [min, max] index
}

// NewLookup builds a Lookup from resolved coordinates. Shared wires are
// remembered so that Shift can hold them on the block seam.
func NewLookup(g *wiregraph.Graph, coords Coordinates) *Lookup {
	l := &Lookup{
		coords: make(Coordinates, len(coords)),
		shared: make(map[wire.ID]bool),
		ranges: make(map[string][2]int),
	}
	for id, c := range coords {
		l.coords[id] = c
		if n, ok := g.Node(id); ok && n.Shared {
			l.shared[id] = true
		}
		if r, ok := l.ranges[id.Name]; ok {
			if id.Index < r[0] {
				r[0] = id.Index
			}
			if id.Index > r[1] {
				r[1] = id.Index
			}
			l.ranges[id.Name] = r
		} else {
			l.ranges[id.Name] = [2]int{id.Index, id.Index}
		}
	}
	return l
}

// Range returns the half-open index interval [lo, hi) covered by the
// given base name.
func (l *Lookup) Range(base string) (lo, hi int, err error) {
	r, ok := l.ranges[base]
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidName, "no wire with basename %q", base)
	}
	return r[0], r[1] + 1, nil
}

// Count returns the number of wires placed under the given base name.
func (l *Lookup) Count(base string) (int, error) {
	lo, hi, err := l.Range(base)
	if err != nil {
		return 0, err
	}
	return hi - lo, nil
}

// Get returns the coordinate of base<idx>. A negative index counts back
// from the upper end of the name's range, as in signal-indexing
// conventions. Out-of-range indices are an error.
func (l *Lookup) Get(base string, idx int) (int64, error) {
	lo, hi, err := l.Range(base)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		idx += hi
	}
	if idx < lo || idx >= hi {
		return 0, errors.New(errors.ErrCodeInvalidName,
			"%s<%d> index out of bounds: [%d, %d)", base, idx, lo, hi)
	}
	c, ok := l.coords[wire.ID{Name: base, Index: idx}]
	if !ok {
		return 0, errors.New(errors.ErrCodeInternal, "no coordinate for %s<%d>", base, idx)
	}
	return c, nil
}

// Shift returns a new Lookup with every non-shared wire displaced by
// delta. Shared wires keep their coordinate: they sit on the seam with
// the abutting block and must not move when the block is relocated.
func (l *Lookup) Shift(delta int64) *Lookup {
	out := &Lookup{
		coords: make(Coordinates, len(l.coords)),
		shared: make(map[wire.ID]bool, len(l.shared)),
		ranges: make(map[string][2]int, len(l.ranges)),
	}
	for id, c := range l.coords {
		if l.shared[id] {
			out.coords[id] = c
		} else {
			out.coords[id] = c + delta
		}
	}
	for id := range l.shared {
		out.shared[id] = true
	}
	for base, r := range l.ranges {
		out.ranges[base] = r
	}
	return out
}

// Coordinates returns a copy of the underlying coordinate map.
func (l *Lookup) Coordinates() Coordinates {
	out := make(Coordinates, len(l.coords))
	for id, c := range l.coords {
		out[id] = c
	}
	return out
}
