// Package csr implements the Compressed Sparse Row adjacency
// representation: an offsets array plus a packed, sorted neighbor
// array, optionally carrying a per-edge label aligned with the
// neighbor array.
//
// Neighbor lists are sorted ascending and free of duplicates (for a
// directed graph) by construction — see pkg/builder — which is what lets
// EdgeVector answer has_edge/find_edge_label with a binary search and
// Intersect with a linear merge.
package csr

import (
	"sort"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

// EdgeVector is one direction's adjacency for a Static Graph.
type EdgeVector struct {
	offsets []uint64      // length num_nodes+1
	edges   []ids.NodeID  // length offsets[num_nodes]
	labels  []ids.LabelID // optional, aligned with edges
}

// New constructs an EdgeVector from already-built offsets/edges, with no
// per-edge labels.
func New(offsets []uint64, edges []ids.NodeID) *EdgeVector {
	return &EdgeVector{offsets: offsets, edges: edges}
}

// NewWithLabels constructs an EdgeVector with per-edge labels aligned to
// edges.
func NewWithLabels(offsets []uint64, edges []ids.NodeID, labels []ids.LabelID) *EdgeVector {
	return &EdgeVector{offsets: offsets, edges: edges, labels: labels}
}

// NumNodes returns the number of nodes this vector has offsets for.
func (v *EdgeVector) NumNodes() int {
	if len(v.offsets) == 0 {
		return 0
	}
	return len(v.offsets) - 1
}

// Len returns the total number of edges packed into this vector (for a
// directed vector this is the true edge count; for the forward vector
// of an undirected graph each edge is counted twice).
func (v *EdgeVector) Len() int {
	return len(v.edges)
}

// HasLabels reports whether per-edge labels are present.
func (v *EdgeVector) HasLabels() bool {
	return v.labels != nil
}

// Offsets exposes the raw offsets slice, for serialization.
func (v *EdgeVector) Offsets() []uint64 { return v.offsets }

// Edges exposes the raw edges slice, for serialization.
func (v *EdgeVector) Edges() []ids.NodeID { return v.edges }

// Labels exposes the raw labels slice (nil if absent), for serialization.
func (v *EdgeVector) Labels() []ids.LabelID { return v.labels }

// Neighbors returns the sorted neighbor slice for id. Out-of-range ids
// return an empty slice rather than an error.
func (v *EdgeVector) Neighbors(id ids.NodeID) []ids.NodeID {
	i := int(id)
	if i < 0 || i+1 >= len(v.offsets) {
		return nil
	}
	return v.edges[v.offsets[i]:v.offsets[i+1]]
}

// Degree returns len(Neighbors(id)).
func (v *EdgeVector) Degree(id ids.NodeID) int {
	return len(v.Neighbors(id))
}

// HasEdge reports whether dst appears in src's neighbor list, via binary
// search on the sorted-ascending invariant.
func (v *EdgeVector) HasEdge(src, dst ids.NodeID) bool {
	neighbors := v.Neighbors(src)
	i := sort.Search(len(neighbors), func(i int) bool { return neighbors[i] >= dst })
	return i < len(neighbors) && neighbors[i] == dst
}

// FindEdgeLabel returns the label of edge (src, dst), if labels are
// present and the edge exists.
func (v *EdgeVector) FindEdgeLabel(src, dst ids.NodeID) (ids.LabelID, bool) {
	if v.labels == nil {
		return ids.NoneLabel, false
	}
	i := int(src)
	if i < 0 || i+1 >= len(v.offsets) {
		return ids.NoneLabel, false
	}
	start, end := v.offsets[i], v.offsets[i+1]
	neighbors := v.edges[start:end]
	j := sort.Search(len(neighbors), func(j int) bool { return neighbors[j] >= dst })
	if j >= len(neighbors) || neighbors[j] != dst {
		return ids.NoneLabel, false
	}
	return v.labels[int(start)+j], true
}

// Intersect computes the sorted intersection of two sorted neighbor
// sub-ranges via a linear merge, writing the result into out and
// returning the number of written neighbors plus the number of element
// comparisons performed, for cost accounting upstream. out must have
// length at least min(len(left), len(right)).
func Intersect(left, right []ids.NodeID, out []ids.NodeID) (n int, comparisons int) {
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		comparisons++
		switch {
		case left[i] < right[j]:
			i++
		case left[i] > right[j]:
			j++
		default:
			out[n] = left[i]
			n++
			i++
			j++
		}
	}
	return n, comparisons
}

// TypedEdgeVector partitions each node's neighbor list additionally by
// target type ("sorted-by-node" mode), supporting NeighborsOfType
// without a further scan. No other package in this module constructs
// one; the catalog's type-partitioned sampling reads the plain graph.
type TypedEdgeVector struct {
	*EdgeVector
	// typeOffsets[i] holds, for node i, the starting offset within
	// Neighbors(i) of each type t, plus one trailing sentinel equal to
	// the node's degree.
	typeOffsets [][]uint32
	numTypes    int
}

// NewTyped builds a TypedEdgeVector from an already-built EdgeVector and
// a per-node, per-type offset table.
func NewTyped(base *EdgeVector, typeOffsets [][]uint32, numTypes int) *TypedEdgeVector {
	return &TypedEdgeVector{EdgeVector: base, typeOffsets: typeOffsets, numTypes: numTypes}
}

// NeighborsOfType returns the neighbors of id whose target type is t.
func (v *TypedEdgeVector) NeighborsOfType(id ids.NodeID, t int) []ids.NodeID {
	i := int(id)
	if i < 0 || i >= len(v.typeOffsets) || t < 0 || t+1 >= len(v.typeOffsets[i]) {
		return nil
	}
	all := v.Neighbors(id)
	start, end := v.typeOffsets[i][t], v.typeOffsets[i][t+1]
	if int(end) > len(all) {
		end = uint32(len(all))
	}
	return all[start:end]
}
