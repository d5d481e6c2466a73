// Package graph implements the immutable Static Graph: a directed or
// undirected graph over two Edge Vectors (out, optional in) plus
// optional node labels and the label maps that give those labels
// meaning.
//
// A Static Graph is built once — by pkg/builder or by deserializing via
// pkg/graphio — and is read-only for the rest of its lifetime. Every
// query operation on it (has_edge, neighbors, degree, ...) never fails:
// absent nodes/edges simply report empty/zero.
package graph

import (
	"github.com/UNSW-database/graphlib/pkg/csr"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/labelmap"
)

// Trait is the read-only contract every Static Graph (and any remote
// proxy in front of one, e.g. pkg/rpcgraph's client) satisfies. Graph
// consumers outside this module's scope — BFS/DFS, connected
// components, dominating-set, spanning-tree algorithms — are expected
// to depend on this interface only.
type Trait interface {
	HasNode(id ids.NodeID) bool
	HasEdge(src, dst ids.NodeID) bool
	NodeCount() int
	EdgeCount() int
	Degree(id ids.NodeID) int
	Neighbors(id ids.NodeID) []ids.NodeID
	NodeIndices() []ids.NodeID
	EdgeIndices() [][2]ids.NodeID
	GetNodeLabelID(id ids.NodeID) (ids.LabelID, bool)
	GetEdgeLabelID(src, dst ids.NodeID) (ids.LabelID, bool)
}

// DiTrait extends Trait with the reverse-direction queries only a
// directed graph can answer.
type DiTrait interface {
	Trait
	InDegree(id ids.NodeID) int
	InNeighbors(id ids.NodeID) []ids.NodeID
}

// Static is the concrete immutable Static Graph.
type Static struct {
	numNodes int
	numEdges int
	directed bool

	fwd *csr.EdgeVector
	bwd *csr.EdgeVector // nil unless directed

	nodeLabels []ids.LabelID // nil if absent; length numNodes

	nodeLabelMap *labelmap.Map
	edgeLabelMap *labelmap.Map
}

// New constructs a Static Graph from already-built components. Panics
// on a violated invariant: a consistency bug this far down is a build
// or deserialization defect, never a runtime condition to recover from.
func New(numNodes int, directed bool, fwd, bwd *csr.EdgeVector, nodeLabels []ids.LabelID, nodeLabelMap, edgeLabelMap *labelmap.Map) *Static {
	if directed {
		if bwd == nil {
			panic("graph: directed graph requires a backward edge vector")
		}
		if bwd.Len() != fwd.Len() {
			panic("graph: forward/backward edge vector length mismatch")
		}
	} else if bwd != nil {
		panic("graph: undirected graph must not carry a backward edge vector")
	}
	if nodeLabels != nil && len(nodeLabels) != numNodes {
		panic("graph: node label vector length must equal num_nodes")
	}
	if fwd.NumNodes() != 0 && fwd.NumNodes() != numNodes {
		panic("graph: forward edge vector offsets length mismatch")
	}

	numEdges := fwd.Len()
	if !directed {
		numEdges /= 2
	}

	if nodeLabelMap == nil {
		nodeLabelMap = labelmap.New()
	}
	if edgeLabelMap == nil {
		edgeLabelMap = labelmap.New()
	}

	return &Static{
		numNodes:     numNodes,
		numEdges:     numEdges,
		directed:     directed,
		fwd:          fwd,
		bwd:          bwd,
		nodeLabels:   nodeLabels,
		nodeLabelMap: nodeLabelMap,
		edgeLabelMap: edgeLabelMap,
	}
}

func (g *Static) HasNode(id ids.NodeID) bool { return int(id) < g.numNodes }

func (g *Static) HasEdge(src, dst ids.NodeID) bool { return g.fwd.HasEdge(src, dst) }

func (g *Static) NodeCount() int { return g.numNodes }

func (g *Static) EdgeCount() int { return g.numEdges }

func (g *Static) IsDirected() bool { return g.directed }

func (g *Static) Degree(id ids.NodeID) int { return g.fwd.Degree(id) }

func (g *Static) Neighbors(id ids.NodeID) []ids.NodeID { return g.fwd.Neighbors(id) }

func (g *Static) InDegree(id ids.NodeID) int {
	if g.bwd == nil {
		return 0
	}
	return g.bwd.Degree(id)
}

func (g *Static) InNeighbors(id ids.NodeID) []ids.NodeID {
	if g.bwd == nil {
		return nil
	}
	return g.bwd.Neighbors(id)
}

// NodeIndices returns every valid node id, [0, NodeCount()).
func (g *Static) NodeIndices() []ids.NodeID {
	out := make([]ids.NodeID, g.numNodes)
	for i := range out {
		out[i] = ids.NodeID(i)
	}
	return out
}

// EdgeIndices enumerates each edge once. For directed graphs this is
// every (src, dst) in the forward vector. For undirected graphs each
// edge must be yielded once: entries where neighbor < current_node are
// skipped via a binary-search advance on each adjacency list, since the
// forward vector stores both directions.
func (g *Static) EdgeIndices() [][2]ids.NodeID {
	var out [][2]ids.NodeID
	for n := 0; n < g.numNodes; n++ {
		src := ids.NodeID(n)
		neighbors := g.fwd.Neighbors(src)
		start := 0
		if !g.directed {
			start = firstAtLeast(neighbors, src)
		}
		for _, dst := range neighbors[start:] {
			out = append(out, [2]ids.NodeID{src, dst})
		}
	}
	return out
}

// firstAtLeast binary-searches neighbors (sorted ascending) for the
// first entry >= node.
func firstAtLeast(neighbors []ids.NodeID, node ids.NodeID) int {
	lo, hi := 0, len(neighbors)
	for lo < hi {
		mid := (lo + hi) / 2
		if neighbors[mid] < node {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (g *Static) GetNodeLabelID(id ids.NodeID) (ids.LabelID, bool) {
	if g.nodeLabels == nil || int(id) >= len(g.nodeLabels) {
		return ids.NoneLabel, false
	}
	l := g.nodeLabels[id]
	return l, ids.HasLabel(l)
}

func (g *Static) GetEdgeLabelID(src, dst ids.NodeID) (ids.LabelID, bool) {
	return g.fwd.FindEdgeLabel(src, dst)
}

// ForwardEdgeVector exposes the outgoing adjacency, for operators and
// serialization.
func (g *Static) ForwardEdgeVector() *csr.EdgeVector { return g.fwd }

// BackwardEdgeVector exposes the incoming adjacency (nil for undirected
// graphs), for operators and serialization.
func (g *Static) BackwardEdgeVector() *csr.EdgeVector { return g.bwd }

// NodeLabelMap exposes the node label bijection.
func (g *Static) NodeLabelMap() *labelmap.Map { return g.nodeLabelMap }

// EdgeLabelMap exposes the edge label bijection.
func (g *Static) EdgeLabelMap() *labelmap.Map { return g.edgeLabelMap }

// NodeLabels exposes the raw per-node label vector (nil if absent), for
// serialization.
func (g *Static) NodeLabels() []ids.LabelID { return g.nodeLabels }

var (
	_ Trait   = (*Static)(nil)
	_ DiTrait = (*Static)(nil)
)
