package operator

import (
	"github.com/UNSW-database/graphlib/pkg/catalog"
	"github.com/UNSW-database/graphlib/pkg/csr"
	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
)

// ExtendALD is one compiled adjacency-list descriptor: FromIdx names
// the already-bound probe-tuple column to walk from, Direction/Label
// which adjacency list to read.
type ExtendALD struct {
	FromIdx   int
	Direction catalog.Direction
	Label     ids.LabelID
}

// Extend intersects one or more adjacency lists reached from already-
// bound tuple columns and binds the result, one neighbor at a time,
// into ToIdx.
//
// Consecutive incoming tuples usually share a prefix of bound columns
// (upstream operators rebind the rightmost columns far more often than
// the leftmost). Extend exploits that: when every ALD's source column
// repeats, the previous intersection is reused outright; when only
// some repeat, the repeated group's partial intersection is kept and
// only the changed lists are re-intersected against it.
type Extend struct {
	Base
	ToIdx  int
	ToType int // 0 = unconstrained
	ALDs   []ExtendALD

	// prevSrc holds each ALD's source-column value from the previous
	// invocation; prevValid gates the first call.
	prevSrc   []ids.NodeID
	prevValid bool

	// cachedFull is the previous invocation's full intersection
	// (before the ToType filter), reused when no source changed.
	cachedFull []ids.NodeID

	// cachedPartial is the intersection of the repeated-group ALDs,
	// keyed by which ALDs were in the group (partialCount) and their
	// source values at the time it was computed.
	cachedPartial []ids.NodeID
	partialCount  int
	partialSrc    []ids.NodeID
}

// NewExtend returns an Extend operator binding toIdx from alds,
// optionally constrained to toType (0 for no constraint). ALDs are
// de-duplicated by (FromIdx, Direction, Label).
func NewExtend(toIdx, toType int, alds []ExtendALD) *Extend {
	deduped := make([]ExtendALD, 0, len(alds))
	for _, a := range alds {
		dup := false
		for _, d := range deduped {
			if d == a {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, a)
		}
	}
	return &Extend{ToIdx: toIdx, ToType: toType, ALDs: deduped}
}

func (e *Extend) Init(tuple Tuple, g graph.Trait) {
	e.Tuple = tuple
	e.Graph = g
	e.prevSrc = make([]ids.NodeID, len(e.ALDs))
	e.prevValid = false
	e.partialCount = 0
	initNext(e.Next, tuple, g)
}

func (e *Extend) adjList(ald ExtendALD) []ids.NodeID {
	from := e.Tuple[ald.FromIdx]
	var neighbors []ids.NodeID
	if ald.Direction == catalog.Bwd {
		di, ok := e.Graph.(graph.DiTrait)
		if d, known := e.Graph.(interface{ IsDirected() bool }); known && !d.IsDirected() {
			// An undirected graph keeps both directions in its forward
			// adjacency and has no backward vector.
			ok = false
		}
		if ok {
			neighbors = di.InNeighbors(from)
		} else {
			neighbors = e.Graph.Neighbors(from)
		}
	} else {
		neighbors = e.Graph.Neighbors(from)
	}
	if !ids.HasLabel(ald.Label) {
		return neighbors
	}
	filtered := make([]ids.NodeID, 0, len(neighbors))
	for _, n := range neighbors {
		var l ids.LabelID
		var ok bool
		if ald.Direction == catalog.Bwd {
			l, ok = e.Graph.GetEdgeLabelID(n, from)
		} else {
			l, ok = e.Graph.GetEdgeLabelID(from, n)
		}
		if ok && l == ald.Label {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// repeatedCount returns how many leading ALDs (in the order they were
// listed) have an unchanged source-column value since the previous
// invocation. ALD order is the intersection order, so a repeated prefix
// of ALDs corresponds to a reusable partial intersection.
func (e *Extend) repeatedCount() int {
	if !e.prevValid {
		return 0
	}
	n := 0
	for i, ald := range e.ALDs {
		if e.Tuple[ald.FromIdx] != e.prevSrc[i] {
			break
		}
		n++
	}
	return n
}

// intersectFrom folds the adjacency lists of ALDs [start, end) into
// base (base may be nil, meaning "start from ALDs[start]'s own list"),
// charging comparisons to icost.
func (e *Extend) intersectFrom(base []ids.NodeID, start, end int) []ids.NodeID {
	result := base
	i := start
	if result == nil {
		result = e.adjList(e.ALDs[i])
		e.icost += len(result)
		i++
	}
	for ; i < end; i++ {
		next := e.adjList(e.ALDs[i])
		out := make([]ids.NodeID, min(len(result), len(next)))
		n, comparisons := csr.Intersect(result, next, out)
		e.icost += comparisons
		result = out[:n]
	}
	return result
}

// ProcessNewTuple computes the intersection of every ALD's adjacency
// list — reusing whatever prefix of it repeats from the previous
// tuple — and pushes one extended tuple per surviving neighbor.
func (e *Extend) ProcessNewTuple() {
	if e.stopped() || len(e.ALDs) == 0 {
		return
	}

	repeated := e.repeatedCount()
	var result []ids.NodeID
	switch {
	case repeated == len(e.ALDs):
		// Every source column repeated: the previous full
		// intersection is still the answer.
		result = e.cachedFull
	case repeated == 0:
		result = e.intersectFrom(nil, 0, len(e.ALDs))
		e.cachedFull = result
		e.partialCount = 0
	default:
		if e.partialCount != repeated || !sameSrc(e.partialSrc, e.prevSrc[:repeated]) {
			e.cachedPartial = e.intersectFrom(nil, 0, repeated)
			e.partialCount = repeated
			e.partialSrc = append(e.partialSrc[:0], e.prevSrc[:repeated]...)
		}
		if len(e.cachedPartial) == 0 {
			result = nil // an empty prefix intersection leaves nothing to extend
		} else {
			result = e.intersectFrom(e.cachedPartial, repeated, len(e.ALDs))
		}
		e.cachedFull = result
	}

	for i, ald := range e.ALDs {
		e.prevSrc[i] = e.Tuple[ald.FromIdx]
	}
	e.prevValid = true

	for _, v := range result {
		if e.ToType != 0 {
			if l, ok := e.Graph.GetNodeLabelID(v); !ok || int(l) != e.ToType {
				continue
			}
		}
		e.Tuple[e.ToIdx] = v
		e.numOutTuples++
		e.Next.ProcessNewTuple()
	}
}

func sameSrc(a, b []ids.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (e *Extend) Copy() Operator {
	clone := &Extend{ToIdx: e.ToIdx, ToType: e.ToType, ALDs: append([]ExtendALD(nil), e.ALDs...)}
	clone.Stop = e.Stop
	if e.Next != nil {
		clone.Next = e.Next.Copy()
	}
	return clone
}

var _ Operator = (*Extend)(nil)
