// Package operator implements the query-plan executor: a pipelined tree
// of push-based operators compiled from one pkg/planner.Plan, sharing
// one mutable probe tuple per running copy. Scan produces (src, dst)
// pairs straight from the graph; Extend intersects one or more
// adjacency lists to grow the tuple by one bound vertex; Build/Probe
// implement a hash join between two otherwise-disjoint subplans; Sink
// consumes completed tuples.
package operator

import (
	"sync/atomic"

	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
)

// Tuple is the shared, mutable probe tuple threaded through one running
// copy of a compiled plan: one graph vertex id per query vertex,
// indexed by that vertex's position in the plan's out-vertex index map.
type Tuple = []ids.NodeID

// Operator is the contract every compiled plan node satisfies. Init
// binds the tuple and the graph to query and must propagate to
// whatever this operator pushes to; ProcessNewTuple consumes the
// tuple's currently-bound columns and pushes zero or more extended
// tuples downstream; Copy returns an independent clone with its own
// downstream chain (but shares any genuinely shared state, e.g. a
// Scan-Blocking cursor or a limit sink's stop flag), for
// thread-per-plan-copy parallel execution.
type Operator interface {
	Init(tuple Tuple, g graph.Trait)
	ProcessNewTuple()
	Copy() Operator
	SetNext(next Operator)
	SetStop(stop *atomic.Bool)
	NumOutTuples() int
	ICost() int
}

// Base carries the bookkeeping every concrete operator embeds.
type Base struct {
	Tuple Tuple
	Graph graph.Trait
	Next  Operator

	// Stop, when non-nil, is the query-wide should-stop flag. A limit
	// sink sets it once; Extend, Build, the probes and the limit sink
	// check it on entry to ProcessNewTuple and Scan checks it between
	// edges. The counter, copy and print sinks do not check it. Never
	// cleared during a query.
	Stop *atomic.Bool

	numOutTuples int
	icost        int
}

// SetNext wires the operator this one pushes completed tuples to.
func (b *Base) SetNext(next Operator) { b.Next = next }

// SetStop wires the shared should-stop flag into this operator. Callers
// building a tree by hand (or the executor package) propagate one flag
// through every node.
func (b *Base) SetStop(stop *atomic.Bool) { b.Stop = stop }

// NumOutTuples returns how many tuples this operator has pushed
// downstream so far.
func (b *Base) NumOutTuples() int { return b.numOutTuples }

// ICost returns the accumulated intersection-comparison cost charged
// to this operator so far.
func (b *Base) ICost() int { return b.icost }

func (b *Base) stopped() bool {
	return b.Stop != nil && b.Stop.Load()
}

func initNext(next Operator, tuple Tuple, g graph.Trait) {
	if next != nil {
		next.Init(tuple, g)
	}
}
