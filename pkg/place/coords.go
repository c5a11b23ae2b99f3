package place

import (
	"sort"

	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/wire"
	"github.com/chipgrid/trackplan/pkg/wiregraph"
)

// Provider supplies the externally defined width and spacing rules used
// to turn ordinals into physical coordinates. Implementations must be
// deterministic pure functions of their key, side-effect free from the
// engine's perspective, and return non-negative values.
type Provider interface {
	// Pitch returns the center-to-center distance of adjacent tracks
	// on the given layer.
	Pitch(layer int) int64

	// Width returns the drawn width of a wire of the given type.
	Width(layer int, wireType string) int64

	// Separation returns the minimum center-to-center separation
	// between two adjacent wires of the given types.
	Separation(layer int, typeA, typeB string) int64
}

// Coordinates maps every wire to the physical coordinate of its track
// center along the placement axis.
type Coordinates map[wire.ID]int64

// Extent is the occupied interval of the placement axis, including the
// boundary wires' drawn extents.
type Extent struct {
	Low  int64
	High int64
}

// ResolveCoordinates converts resolved ordinals into physical
// coordinates. It walks the ordinal-sorted wire sequence; each
// adjacent pair advances by the larger of the pair's minimum separation
// and the whole track pitches spanned by any empty ordinals between
// them. The first occupied ordinal starts at origin plus its leading
// track pitches. No constraint solving happens here - the ordinal order
// is consumed as-is.
//
// Shared wires co-occupying a boundary ordinal receive one coordinate.
// The extent's boundary includes half the drawn width of the outermost
// non-shared wires; shared boundary wires sit exactly on the extent
// edge, as the track is split with the abutting block.
func ResolveCoordinates(g *wiregraph.Graph, ords Ordinals, tracks int, p Provider, layer int, origin int64) (Coordinates, Extent, error) {
	if len(ords) == 0 {
		return Coordinates{}, Extent{Low: origin, High: origin}, nil
	}

	pitch := p.Pitch(layer)
	if pitch <= 0 {
		return nil, Extent{}, errors.New(errors.ErrCodeInvalidTech, "track pitch for layer %d must be positive, got %d", layer, pitch)
	}

	// Bucket wires by ordinal; co-occupied boundary ordinals hold
	// several shared wires.
	byOrd := make(map[int][]wire.ID, len(ords))
	for id, ord := range ords {
		byOrd[ord] = append(byOrd[ord], id)
	}
	ordinals := make([]int, 0, len(byOrd))
	for ord := range byOrd {
		ordinals = append(ordinals, ord)
	}
	sort.Ints(ordinals)
	for _, ord := range ordinals {
		ids := byOrd[ord]
		sort.Slice(ids, func(i, j int) bool {
			if ids[i].Name != ids[j].Name {
				return ids[i].Name < ids[j].Name
			}
			return ids[i].Index < ids[j].Index
		})
	}

	coords := make(Coordinates, len(ords))
	cur := origin + int64(ordinals[0])*pitch
	for i, ord := range ordinals {
		if i > 0 {
			prev := ordinals[i-1]
			step := int64(ord-prev) * pitch
			if sep := maxSeparation(g, p, layer, byOrd[prev], byOrd[ord]); sep > step {
				step = sep
			}
			cur += step
		}
		for _, id := range byOrd[ord] {
			coords[id] = cur
		}
	}

	ext, err := computeExtent(g, p, layer, origin, pitch, tracks, ordinals, byOrd, coords)
	if err != nil {
		return nil, Extent{}, err
	}
	return coords, ext, nil
}

// maxSeparation returns the largest minimum separation over the type
// pairs of two ordinal buckets.
func maxSeparation(g *wiregraph.Graph, p Provider, layer int, below, above []wire.ID) int64 {
	var sep int64
	for _, a := range below {
		na, _ := g.Node(a)
		for _, b := range above {
			nb, _ := g.Node(b)
			if s := p.Separation(layer, na.WireType, nb.WireType); s > sep {
				sep = s
			}
		}
	}
	return sep
}

func computeExtent(g *wiregraph.Graph, p Provider, layer int, origin, pitch int64, tracks int,
	ordinals []int, byOrd map[int][]wire.ID, coords Coordinates) (Extent, error) {

	first := byOrd[ordinals[0]]
	last := byOrd[ordinals[len(ordinals)-1]]

	low := origin
	if c := coords[first[0]] - edgeMargin(g, p, layer, first); c < low {
		low = c
	}
	high := origin + int64(tracks-1)*pitch
	if c := coords[last[0]] + edgeMargin(g, p, layer, last); c > high {
		high = c
	}
	if low > high {
		return Extent{}, errors.New(errors.ErrCodeInternal, "inverted extent [%d, %d]", low, high)
	}
	return Extent{Low: low, High: high}, nil
}

// edgeMargin is the half-width a boundary bucket adds to the extent.
// Shared wires sit on the seam and add nothing.
func edgeMargin(g *wiregraph.Graph, p Provider, layer int, ids []wire.ID) int64 {
	var margin int64
	for _, id := range ids {
		n, _ := g.Node(id)
		if n.Shared {
			continue
		}
		if w := p.Width(layer, n.WireType) / 2; w > margin {
			margin = w
		}
	}
	return margin
}
