// Package builder implements the Graph Builder: it stages (id, label)
// and ((src, dst), label) tuples, sorts and dedupes them, and emits an
// immutable *graph.Static.
//
// Builder is the only place a graph is mutable. Once Build{Directed,
// Undirected} returns, the resulting graph is read-only for the rest
// of its lifetime.
package builder

import (
	"sort"

	"github.com/UNSW-database/graphlib/pkg/csr"
	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/labelmap"
)

type nodeEntry struct {
	id    ids.NodeID
	label ids.LabelID
}

type edgeEntry struct {
	src, dst ids.NodeID
	label    ids.LabelID
}

// Builder accumulates staged nodes and edges for one graph.
type Builder struct {
	nodes   []nodeEntry
	edges   []edgeEntry
	inEdges []edgeEntry

	hasNodeLabels bool
	hasEdgeLabels bool

	maxID    ids.NodeID
	sawAnyID bool

	NodeLabelMap *labelmap.Map
	EdgeLabelMap *labelmap.Map
}

// New returns an empty Builder with fresh label maps.
func New() *Builder {
	return &Builder{
		NodeLabelMap: labelmap.New(),
		EdgeLabelMap: labelmap.New(),
	}
}

func (b *Builder) track(id ids.NodeID) {
	if !b.sawAnyID || id > b.maxID {
		b.maxID = id
		b.sawAnyID = true
	} else {
		b.sawAnyID = true
	}
}

// AddNode stages a node id with an optional label (ids.NoneLabel for
// "no label").
func (b *Builder) AddNode(id ids.NodeID, label ids.LabelID) {
	b.track(id)
	if ids.HasLabel(label) {
		b.hasNodeLabels = true
	}
	b.nodes = append(b.nodes, nodeEntry{id: id, label: label})
}

// AddEdge stages a forward (src -> dst) edge with an optional label.
func (b *Builder) AddEdge(src, dst ids.NodeID, label ids.LabelID) {
	b.track(src)
	b.track(dst)
	if ids.HasLabel(label) {
		b.hasEdgeLabels = true
	}
	b.edges = append(b.edges, edgeEntry{src: src, dst: dst, label: label})
}

// AddInEdge stages one entry of the backward (in-) adjacency list for a
// directed graph. For an original forward edge (src -> dst), the caller
// stages it as AddInEdge(dst, src): dst indexes the resulting in-edge
// vector exactly as src indexes the forward one, and src is the neighbor
// value recorded at that index — so InNeighbors(dst) will include src.
func (b *Builder) AddInEdge(indexNode, neighbor ids.NodeID) {
	b.track(indexNode)
	b.track(neighbor)
	b.inEdges = append(b.inEdges, edgeEntry{src: indexNode, dst: neighbor})
}

func (b *Builder) numNodes() int {
	if !b.sawAnyID {
		return 0
	}
	return int(b.maxID) + 1
}

// buildEdgeVector sorts staged edges lexicographically by (src, dst),
// dedupes by (src, dst) keeping the last-staged label, then walks the
// sorted edges emitting offsets/edges/labels, repeating the running
// offset across any id with no outgoing edges.
func buildEdgeVector(entries []edgeEntry, hasLabels bool, numNodes int) *csr.EdgeVector {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].src != entries[j].src {
			return entries[i].src < entries[j].src
		}
		return entries[i].dst < entries[j].dst
	})

	deduped := entries[:0:0]
	for i, e := range entries {
		if i > 0 && e.src == entries[i-1].src && e.dst == entries[i-1].dst {
			deduped[len(deduped)-1] = e // last writer wins for the label
			continue
		}
		deduped = append(deduped, e)
	}

	offsets := make([]uint64, 0, numNodes+1)
	edges := make([]ids.NodeID, 0, len(deduped))
	var labels []ids.LabelID
	if hasLabels {
		labels = make([]ids.LabelID, 0, len(deduped))
	}

	current := ids.NodeID(0)
	offset := uint64(0)
	offsets = append(offsets, offset)

	for _, e := range deduped {
		for e.src > current {
			offsets = append(offsets, offset)
			current++
		}
		edges = append(edges, e.dst)
		if hasLabels {
			labels = append(labels, e.label)
		}
		offset++
	}
	for int(current) < numNodes {
		offsets = append(offsets, offset)
		current++
	}

	if hasLabels {
		return csr.NewWithLabels(offsets, edges, labels)
	}
	return csr.New(offsets, edges)
}

func buildNodeLabels(entries []nodeEntry, hasLabels bool, numNodes int) []ids.LabelID {
	if !hasLabels {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	deduped := entries[:0:0]
	for i, e := range entries {
		if i > 0 && e.id == entries[i-1].id {
			deduped[len(deduped)-1] = e
			continue
		}
		deduped = append(deduped, e)
	}

	out := make([]ids.LabelID, numNodes)
	for i := range out {
		out[i] = ids.NoneLabel
	}
	for _, e := range deduped {
		if int(e.id) < numNodes {
			out[e.id] = e.label
		}
	}
	return out
}

// BuildUndirected emits an undirected *graph.Static. Edges are expected
// to already have been staged in both directions by the caller (an
// undirected (u, v) logical edge is two AddEdge calls: (u, v) and
// (v, u)), so the resulting edge count is forward_edge_count / 2.
func (b *Builder) BuildUndirected() *graph.Static {
	numNodes := b.numNodes()
	fwd := buildEdgeVector(append([]edgeEntry(nil), b.edges...), b.hasEdgeLabels, numNodes)
	nodeLabels := buildNodeLabels(append([]nodeEntry(nil), b.nodes...), b.hasNodeLabels, numNodes)
	return graph.New(numNodes, false, fwd, nil, nodeLabels, b.NodeLabelMap, b.EdgeLabelMap)
}

// BuildDirected emits a directed *graph.Static, building bwd from the
// staged in-edges.
func (b *Builder) BuildDirected() *graph.Static {
	numNodes := b.numNodes()
	fwd := buildEdgeVector(append([]edgeEntry(nil), b.edges...), b.hasEdgeLabels, numNodes)
	bwd := buildEdgeVector(append([]edgeEntry(nil), b.inEdges...), false, numNodes)
	nodeLabels := buildNodeLabels(append([]nodeEntry(nil), b.nodes...), b.hasNodeLabels, numNodes)
	return graph.New(numNodes, true, fwd, bwd, nodeLabels, b.NodeLabelMap, b.EdgeLabelMap)
}
