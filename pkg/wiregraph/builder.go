package wiregraph

import (
	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/wire"
)

// Build merges the expanded groups into a single ordering graph.
//
// Groups are processed in declaration order. Within each group, every
// consecutive slot pair becomes a directed edge meaning "placed strictly
// before". Wires already interned by an earlier group are reused, which
// is the mechanism by which groups share a wire; attribute conflicts on
// re-declaration resolve first-declared-wins.
//
// A wire repeated within one group, or an edge that would close a cycle
// across groups, fails with a DEPENDENCY_CYCLE error. A shared name
// that no group declares fails with an INVALID_SPEC error.
//
// Build does not check the boundary constraint on shared wires; call
// [Graph.ValidateBoundary] after the graph is complete.
func Build(groups []wire.ExpandedGroup, shared []wire.ID) (*Graph, error) {
	g := New()
	g.groups = len(groups)

	for gi, grp := range groups {
		seen := make(map[wire.ID]bool, len(grp.Slots))
		prev := wire.ID{}
		havePrev := false
		for _, slot := range grp.Slots {
			if seen[slot.ID] {
				return nil, errors.New(errors.ErrCodeDependencyCycle,
					"wire %s repeated in group %d", slot.ID, gi)
			}
			seen[slot.ID] = true
			g.Intern(slot.ID, slot.PlaceType, slot.WireType, gi)
			if havePrev {
				if err := g.AddEdge(prev, slot.ID, gi); err != nil {
					return nil, err
				}
			}
			prev = slot.ID
			havePrev = true
		}
	}

	for _, id := range shared {
		n, ok := g.nodes[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSpec,
				"shared wire %s is not declared in any group", id)
		}
		n.Shared = true
	}
	return g, nil
}

// ValidateBoundary checks that every shared wire sits on a boundary of
// the merged graph: it must have no incoming edges or no outgoing edges
// over the entire graph, not just its declaring group. A shared wire
// with dependencies on both sides cannot lie on a block edge and fails
// with a BOUNDARY_CONSTRAINT error.
func (g *Graph) ValidateBoundary() error {
	for _, id := range g.order {
		n := g.nodes[id]
		if !n.Shared {
			continue
		}
		if len(g.incoming[id]) > 0 && len(g.outgoing[id]) > 0 {
			return errors.New(errors.ErrCodeBoundaryConstraint,
				"shared wire %s is not on the graph boundary (has both predecessors and successors)", id)
		}
	}
	return nil
}
