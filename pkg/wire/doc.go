// Package wire defines wire identity, bus notation, and the polymorphic
// wire specification grammar used by the placement engine.
//
// # Identity
//
// A wire is identified by an [ID]: a base name plus an integer index.
// Bus notation names a family of wires compactly: "sig<0:3>" covers
// indices 0 through 3 inclusive, "sig<2>" a single index, and a bare
// "sig" is index 0.
//
// # Specification grammar
//
// Wire specifications arrive as nested lists and mappings (typically
// decoded from YAML). [Normalize] validates the union grammar and
// produces canonical [Data]; [Expand] then resolves bus notation into
// one [Slot] per wire occurrence. The rest of the engine never touches
// the polymorphic form.
//
// # Alignment
//
// Each group carries an [Alignment] policy describing how placement
// slack is distributed around its wires. Absent values inherit from the
// nearest enclosing level of the specification, and finally from a
// caller-supplied default.
package wire
