// Package place resolves concrete positions for wires along one axis.
//
// Placement happens in two steps. The [Solver] turns the ordering graph
// and the declared wire groups into an ordinal per wire: groups are
// processed strictly in declaration order, each group packs its not yet
// locked wires into the feasible window left by earlier groups
// according to its alignment policy, and every resolved wire is locked
// before the next group is considered. There is no backtracking across
// groups; earlier-declared groups have placement priority by contract.
//
// [ResolveCoordinates] then converts ordinals into physical coordinates
// by querying an external width/spacing [Provider] for every adjacent
// pair, producing the coordinate map and the occupied extent.
//
// The whole package is a pure synchronous computation: a solver
// instance is built per placement request and discarded with it, and
// identical inputs always produce identical results.
package place
