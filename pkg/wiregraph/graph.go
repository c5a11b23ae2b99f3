package wiregraph

import (
	"github.com/chipgrid/trackplan/pkg/errors"
	"github.com/chipgrid/trackplan/pkg/wire"
)

// Node is a unique wire in the ordering graph together with the
// attributes of its first declaration. A wire referenced from several
// groups maps to exactly one node; later declarations with differing
// attributes do not overwrite the first (first-declared-wins).
type Node struct {
	ID        wire.ID
	PlaceType string
	WireType  string
	Shared    bool
	DeclGroup int // index of the group that first declared this wire
}

// Edge is a "must be positioned strictly before" relation, recording
// the group whose adjacency created it.
type Edge struct {
	From  wire.ID
	To    wire.ID
	Group int
}

// Graph is the merged ordering graph over all wire groups. Nodes are
// interned by wire ID so that a wire shared between groups is a single
// vertex; edges from later groups are added on top of the existing
// graph. The graph is kept acyclic: every edge insertion runs an
// incremental cycle check and rejects an edge that would close a cycle.
//
// The zero value is not usable - use New.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[wire.ID]*Node
	order    []wire.ID // node insertion order (declaration order)
	edges    []Edge
	outgoing map[wire.ID][]wire.ID
	incoming map[wire.ID][]wire.ID
	groups   int
}

// New creates an empty ordering graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[wire.ID]*Node),
		outgoing: make(map[wire.ID][]wire.ID),
		incoming: make(map[wire.ID][]wire.ID),
	}
}

// Intern returns the node for id, creating it with the given attributes
// if it does not exist yet. If the node already exists the stored
// attributes win and the given ones are ignored.
func (g *Graph) Intern(id wire.ID, placeType, wireType string, group int) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, PlaceType: placeType, WireType: wireType, DeclGroup: group}
	g.nodes[id] = n
	g.order = append(g.order, id)
	if group+1 > g.groups {
		g.groups = group + 1
	}
	return n
}

// AddEdge inserts the ordering constraint from -> to on behalf of the
// given group. Both endpoints must already be interned. A self-edge, or
// an edge whose insertion would create a path back to its own source,
// fails with a DEPENDENCY_CYCLE error naming the offending wire and the
// two groups involved. A duplicate of an existing edge is a no-op.
func (g *Graph) AddEdge(from, to wire.ID, group int) error {
	src, ok := g.nodes[from]
	if !ok {
		return errors.New(errors.ErrCodeInternal, "edge source %s is not in the graph", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return errors.New(errors.ErrCodeInternal, "edge target %s is not in the graph", to)
	}
	if from == to {
		return errors.New(errors.ErrCodeDependencyCycle,
			"wire %s repeated in group %d", from, group)
	}
	for _, succ := range g.outgoing[from] {
		if succ == to {
			return nil
		}
	}
	if g.reachable(to, from) {
		return errors.New(errors.ErrCodeDependencyCycle,
			"edge %s -> %s in group %d closes a cycle through %s (first declared in group %d)",
			from, to, group, from, src.DeclGroup)
	}
	g.edges = append(g.edges, Edge{From: from, To: to, Group: group})
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	if group+1 > g.groups {
		g.groups = group + 1
	}
	return nil
}

// reachable reports whether a directed path from src to dst exists,
// using an iterative DFS with a visited set.
func (g *Graph) reachable(src, dst wire.ID) bool {
	if src == dst {
		return true
	}
	visited := make(map[wire.ID]bool)
	stack := []wire.ID{src}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, next := range g.outgoing[cur] {
			if next == dst {
				return true
			}
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Node returns the node for id and true, or nil and false.
func (g *Graph) Node(id wire.ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in declaration order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of unique wires in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of ordering constraints in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// GroupCount returns the number of groups that have contributed a node
// or an edge, counted from the highest group index seen.
func (g *Graph) GroupCount() int { return g.groups }

// Predecessors returns the wires that must be placed strictly before id.
// The returned slice is a read-only view.
func (g *Graph) Predecessors(id wire.ID) []wire.ID { return g.incoming[id] }

// Successors returns the wires that must be placed strictly after id.
// The returned slice is a read-only view.
func (g *Graph) Successors(id wire.ID) []wire.ID { return g.outgoing[id] }

// InDegree returns the number of incoming edges of id.
func (g *Graph) InDegree(id wire.ID) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges of id.
func (g *Graph) OutDegree(id wire.ID) int { return len(g.outgoing[id]) }

// Sources returns nodes with no incoming edges, in declaration order.
func (g *Graph) Sources() []*Node {
	var out []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			out = append(out, g.nodes[id])
		}
	}
	return out
}

// Sinks returns nodes with no outgoing edges, in declaration order.
func (g *Graph) Sinks() []*Node {
	var out []*Node
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			out = append(out, g.nodes[id])
		}
	}
	return out
}

// TopoOrder returns the wires in a deterministic topological order
// (Kahn's algorithm, declaration order as tie-break). The graph is
// acyclic by construction, so all nodes are always returned.
func (g *Graph) TopoOrder() []wire.ID {
	inDegree := make(map[wire.ID]int, len(g.nodes))
	queue := make([]wire.ID, 0, len(g.nodes))
	for _, id := range g.order {
		deg := len(g.incoming[id])
		inDegree[id] = deg
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	out := make([]wire.ID, 0, len(g.nodes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		for _, child := range g.outgoing[cur] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return out
}
