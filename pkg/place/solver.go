package place

import (
	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/wire"
	"github.com/chipgrid/trackplan/pkg/wiregraph"
)

// Ordinals maps every wire to its resolved track ordinal. Once the
// solver returns, the mapping is total over the graph's wires and never
// revised. Shared wires pinned to the same boundary may share an
// ordinal; all other wires hold distinct ordinals.
type Ordinals map[wire.ID]int

// Solver resolves concrete ordinals for every wire in the graph,
// processing groups strictly in declaration order with a
// lock-once-resolved discipline: a group's ordinals are final the
// moment processing moves past it, so earlier-declared groups have
// placement priority.
type Solver struct {
	Graph  *wiregraph.Graph
	Groups []wire.ExpandedGroup

	// Tracks is the number of available ordinals [0, Tracks-1].
	Tracks int

	// PreLocked optionally fixes ordinals before any group is
	// processed. Contradictory values surface as UNSATISFIABLE.
	PreLocked Ordinals
}

// Solve resolves ordinals for all wires using tracks available
// positions. It is shorthand for running a Solver with no pre-locked
// wires.
func Solve(g *wiregraph.Graph, groups []wire.ExpandedGroup, tracks int) (Ordinals, error) {
	s := Solver{Graph: g, Groups: groups, Tracks: tracks}
	return s.Run()
}

// MinTracks computes the minimum number of ordinals needed to place all
// wires compactly: a topological walk assigning every wire the smallest
// free ordinal above its predecessors. Shared wires with no
// predecessors sit on the lower boundary (ordinal 0, co-occupied);
// shared sinks collapse onto the upper boundary and only require one
// ordinal above their predecessors.
//
// The returned count is the compact block size. Group alignment can
// still render a particular track count unsatisfiable (a centered early
// group may leave no room below its locked wires); callers that
// auto-size should retry [Solve] with additional tracks on an
// UNSATISFIABLE result.
func MinTracks(g *wiregraph.Graph, groups []wire.ExpandedGroup) (int, error) {
	if g.NodeCount() == 0 {
		return 0, nil
	}

	locked := make(Ordinals, g.NodeCount())
	occupied := make(map[int]wire.ID, g.NodeCount())
	var sharedSinks []wire.ID

	lowSeam := false
	for _, n := range g.Nodes() {
		if n.Shared && g.InDegree(n.ID) == 0 {
			lowSeam = true
			break
		}
	}

	for _, id := range g.TopoOrder() {
		n, _ := g.Node(id)
		switch {
		case n.Shared && g.InDegree(id) == 0:
			locked[id] = 0
			if _, taken := occupied[0]; !taken {
				occupied[0] = id
			}
		case n.Shared && g.OutDegree(id) == 0:
			sharedSinks = append(sharedSinks, id)
		default:
			bound := 0
			if lowSeam {
				bound = 1 // ordinal 0 is the shared seam
			}
			for _, p := range g.Predecessors(id) {
				if ord, ok := locked[p]; ok && ord+1 > bound {
					bound = ord + 1
				}
			}
			pos := bound
			for {
				if _, taken := occupied[pos]; !taken {
					break
				}
				pos++
			}
			locked[id] = pos
			occupied[pos] = id
		}
	}

	tracks := 0
	for _, ord := range locked {
		if ord+1 > tracks {
			tracks = ord + 1
		}
	}
	for _, id := range sharedSinks {
		req := 1
		for _, p := range g.Predecessors(id) {
			if ord, ok := locked[p]; ok && ord+2 > req {
				req = ord + 2
			}
		}
		if req > tracks {
			tracks = req
		}
	}
	return tracks, nil
}

// Run executes the solver and returns the complete ordinal mapping.
// Any infeasibility aborts the whole request; no partial result is
// returned.
func (s *Solver) Run() (Ordinals, error) {
	if s.Tracks <= 0 {
		return nil, errors.New(errors.ErrCodeInternal, "track count must be positive, got %d", s.Tracks)
	}

	st := &state{
		g:        s.Graph,
		tracks:   s.Tracks,
		locked:   make(Ordinals, s.Graph.NodeCount()),
		occupied: make(map[int]wire.ID, s.Graph.NodeCount()),
		minOrd:   ancestorBounds(s.Graph, false),
		maxOrd:   ancestorBounds(s.Graph, true),
	}
	st.reserveSeams()
	if err := st.applyPreLocked(s.PreLocked); err != nil {
		return nil, err
	}

	for gi, grp := range s.Groups {
		if err := st.placeGroup(gi, grp); err != nil {
			return nil, err
		}
	}
	return st.locked, nil
}

// state is the explicit accumulator threaded through group processing:
// the locked-position map plus the set of occupied ordinals.
type state struct {
	g        *wiregraph.Graph
	tracks   int
	locked   Ordinals
	occupied map[int]wire.ID

	// minOrd holds per-wire ancestor counts: the smallest ordinal a
	// wire can take once every ancestor sits strictly below it.
	// maxOrd holds the symmetric descendant counts; the largest
	// feasible ordinal is tracks-1-maxOrd.
	minOrd map[wire.ID]int
	maxOrd map[wire.ID]int
}

// ancestorBounds counts, for every wire, the distinct wires that must
// be placed strictly below it (or above it, when reversed). Shared
// wires pinned to a common boundary co-occupy one seam ordinal, so all
// shared boundary ancestors together consume a single position.
func ancestorBounds(g *wiregraph.Graph, reversed bool) map[wire.ID]int {
	order := g.TopoOrder()
	if reversed {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	sets := make(map[wire.ID]map[wire.ID]bool, len(order))
	counts := make(map[wire.ID]int, len(order))
	for _, id := range order {
		set := make(map[wire.ID]bool)
		prev := g.Predecessors(id)
		if reversed {
			prev = g.Successors(id)
		}
		for _, p := range prev {
			set[p] = true
			for a := range sets[p] {
				set[a] = true
			}
		}
		sets[id] = set

		count := 0
		seam := false
		for a := range set {
			n, _ := g.Node(a)
			onSeam := n.Shared && g.InDegree(a) == 0
			if reversed {
				onSeam = n.Shared && g.OutDegree(a) == 0
			}
			if onSeam {
				seam = true
			} else {
				count++
			}
		}
		if seam {
			count++
		}
		counts[id] = count
	}
	return counts
}

// reserveSeams keeps non-shared wires off the boundary ordinals that
// shared wires will be pinned to, regardless of which group declares
// the shared wire. Without the reservation an early group could pack a
// wire onto a seam an as-yet-unprocessed group needs.
func (st *state) reserveSeams() {
	var low, high bool
	for _, n := range st.g.Nodes() {
		if !n.Shared {
			continue
		}
		if st.g.InDegree(n.ID) == 0 {
			low = true
		} else if st.g.OutDegree(n.ID) == 0 {
			high = true
		}
	}
	if !low && !high {
		return
	}
	for _, n := range st.g.Nodes() {
		if n.Shared {
			continue
		}
		if low && st.minOrd[n.ID] < 1 {
			st.minOrd[n.ID] = 1
		}
		if high && st.maxOrd[n.ID] < 1 {
			st.maxOrd[n.ID] = 1
		}
	}
}

func (st *state) applyPreLocked(pre Ordinals) error {
	for id, ord := range pre {
		if _, ok := st.g.Node(id); !ok {
			return errors.New(errors.ErrCodeInvalidSpec, "pre-locked wire %s is not in the graph", id)
		}
		if ord < 0 || ord >= st.tracks {
			return errors.New(errors.ErrCodeUnsatisfiable,
				"pre-locked ordinal %d for wire %s is outside [0, %d)", ord, id, st.tracks)
		}
		if err := st.lock(id, ord); err != nil {
			return err
		}
	}
	return nil
}

// lock records a wire's final ordinal. Two shared wires may co-occupy
// a boundary ordinal (they model the seam track shared with an abutting
// block); any other collision is an infeasibility.
func (st *state) lock(id wire.ID, ord int) error {
	if occ, taken := st.occupied[ord]; taken {
		boundary := ord == 0 || ord == st.tracks-1
		occNode, _ := st.g.Node(occ)
		newNode, _ := st.g.Node(id)
		if !(boundary && occNode.Shared && newNode.Shared) {
			return errors.New(errors.ErrCodeUnsatisfiable,
				"wire %s cannot take ordinal %d already held by %s", id, ord, occ)
		}
	} else {
		st.occupied[ord] = id
	}
	st.locked[id] = ord
	return nil
}

// placeGroup resolves one group: shared free wires are pinned to their
// boundary, the remaining free wires are split into segments between
// locked anchors, each segment is packed per the group's alignment, and
// finally every edge between two now-locked wires touching the group is
// verified.
func (st *state) placeGroup(gi int, grp wire.ExpandedGroup) error {
	// Pin free shared wires to the boundary their degree dictates.
	for _, slot := range grp.Slots {
		id := slot.ID
		if _, done := st.locked[id]; done {
			continue
		}
		n, _ := st.g.Node(id)
		if !n.Shared {
			continue
		}
		ord := 0
		if st.g.InDegree(id) > 0 {
			ord = st.tracks - 1
		}
		if err := st.lock(id, ord); err != nil {
			return errors.Wrap(errors.ErrCodeUnsatisfiable, err, "group %d", gi)
		}
	}

	// Split the chain into free segments between locked anchors.
	lo := 0
	var seg []wire.ID
	flush := func(hi int) error {
		if len(seg) == 0 {
			return nil
		}
		err := st.placeSegment(gi, seg, lo, hi, grp.Align)
		seg = nil
		return err
	}
	for _, slot := range grp.Slots {
		if ord, done := st.locked[slot.ID]; done {
			if err := flush(ord - 1); err != nil {
				return err
			}
			lo = ord + 1
			continue
		}
		seg = append(seg, slot.ID)
	}
	if err := flush(st.tracks - 1); err != nil {
		return err
	}

	// Freeze-time verification: edges whose endpoints are both locked
	// now must already hold; a violation means honoring the edge would
	// move a locked wire, which is never done silently.
	for _, slot := range grp.Slots {
		ord := st.locked[slot.ID]
		for _, succ := range st.g.Successors(slot.ID) {
			if sOrd, done := st.locked[succ]; done && ord >= sOrd {
				return errors.New(errors.ErrCodeUnsatisfiable,
					"edge %s -> %s violated by locked ordinals %d, %d (group %d)",
					slot.ID, succ, ord, sOrd, gi)
			}
		}
		for _, pred := range st.g.Predecessors(slot.ID) {
			if pOrd, done := st.locked[pred]; done && pOrd >= ord {
				return errors.New(errors.ErrCodeUnsatisfiable,
					"edge %s -> %s violated by locked ordinals %d, %d (group %d)",
					pred, slot.ID, pOrd, ord, gi)
			}
		}
	}
	return nil
}

// placeSegment packs the free wires of one segment into the window
// [lo, hi]. The lower-packed and upper-packed assignments bound each
// wire's feasible positions; the alignment policy selects within them:
// LOWER_COMPACT takes the lower packing, UPPER_COMPACT the upper, and
// CENTER_COMPACT the floored midpoint so the odd slack unit lands on
// the upper side.
func (st *state) placeSegment(gi int, seg []wire.ID, lo, hi int, align wire.Alignment) error {
	m := len(seg)
	if lo < 0 {
		lo = 0
	}
	if hi > st.tracks-1 {
		hi = st.tracks - 1
	}

	// Per-wire bounds: ancestor and descendant counts give the global
	// feasible interval, locked neighbors anywhere in the graph
	// tighten it further.
	lb := make([]int, m)
	ub := make([]int, m)
	for i, id := range seg {
		lb[i] = lo
		if st.minOrd[id] > lb[i] {
			lb[i] = st.minOrd[id]
		}
		ub[i] = hi
		if top := st.tracks - 1 - st.maxOrd[id]; top < ub[i] {
			ub[i] = top
		}
		for _, p := range st.g.Predecessors(id) {
			if ord, ok := st.locked[p]; ok && ord+1 > lb[i] {
				lb[i] = ord + 1
			}
		}
		for _, q := range st.g.Successors(id) {
			if ord, ok := st.locked[q]; ok && ord-1 < ub[i] {
				ub[i] = ord - 1
			}
		}
	}

	// Unoccupied positions in the window, ascending.
	var avail []int
	for pos := lo; pos <= hi; pos++ {
		if _, taken := st.occupied[pos]; !taken {
			avail = append(avail, pos)
		}
	}

	// Lower-packed assignment (indices into avail).
	li := make([]int, m)
	j := 0
	for i := 0; i < m; i++ {
		if i > 0 {
			j = li[i-1] + 1
		}
		for j < len(avail) && avail[j] < lb[i] {
			j++
		}
		if j >= len(avail) || avail[j] > ub[i] {
			return st.unsat(gi, seg[i])
		}
		li[i] = j
	}

	// Upper-packed assignment.
	ui := make([]int, m)
	k := len(avail) - 1
	for i := m - 1; i >= 0; i-- {
		if i < m-1 {
			k = ui[i+1] - 1
		}
		for k >= 0 && avail[k] > ub[i] {
			k--
		}
		if k < 0 || avail[k] < lb[i] {
			return st.unsat(gi, seg[i])
		}
		ui[i] = k
	}

	// Both assignments are feasible and strictly increasing, so each
	// policy can pick per wire: the packed end it favors, or the
	// midpoint (floored, leaving the odd slack unit on the upper side).
	var pick func(i int) int
	switch align {
	case wire.AlignLowerCompact:
		pick = func(i int) int { return li[i] }
	case wire.AlignUpperCompact:
		pick = func(i int) int { return ui[i] }
	case wire.AlignCenterCompact:
		pick = func(i int) int { return (li[i] + ui[i]) / 2 }
	default:
		return errors.New(errors.ErrCodeInternal, "unresolved alignment %q in group %d", string(align), gi)
	}

	for i, id := range seg {
		if err := st.lock(id, avail[pick(i)]); err != nil {
			return err
		}
	}
	return nil
}

func (st *state) unsat(gi int, id wire.ID) error {
	return errors.New(errors.ErrCodeUnsatisfiable,
		"placing wire %s in group %d would require moving an already-locked wire", id, gi)
}
