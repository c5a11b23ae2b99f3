// Package wiregraph builds and validates the directed acyclic ordering
// graph over all wires of a placement request.
//
// Nodes are unique wires (interned by [wire.ID]); edges encode "must be
// positioned strictly before" relations derived from adjacency inside
// each wire group. The graph is incrementally checked: an edge insertion
// that would close a cycle is rejected at insertion time, so a complete
// graph is always acyclic and downstream passes never need to re-check.
//
// Shared wires - those declared placeable on a block boundary - are
// marked on their nodes and validated by [Graph.ValidateBoundary] once
// the merged graph is complete.
package wiregraph
