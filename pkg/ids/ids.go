// Package ids defines the identifier types shared by every graph
// package: node ids, label ids, and the NONE sentinel.
//
// Both id kinds are fixed at 32 bits. Widening or narrowing either is
// a change to its type definition here, not a redesign of any consumer:
// the CSR vectors, the on-disk format, and the property-store keys all
// go through these types.
package ids

import "math"

// NodeID identifies a vertex in a Static Graph.
type NodeID uint32

// LabelID identifies a node or edge label, or a query-vertex type.
type LabelID uint32

// NoneLabel is the sentinel meaning "no label/type assigned": the
// maximum representable value of the label width.
const NoneLabel LabelID = math.MaxUint32

// HasLabel reports whether l is a real label rather than NoneLabel.
func HasLabel(l LabelID) bool {
	return l != NoneLabel
}
