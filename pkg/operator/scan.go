package operator

import (
	"sync"

	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/pool"
)

// Scan is the leaf of every compiled plan: it walks every forward edge
// of the graph matching its query edge and pushes one tuple per match,
// in ascending (from, to) order.
type Scan struct {
	Base
	FromIdx, ToIdx int
	Label          ids.LabelID // ids.NoneLabel matches any label
	FromType       int         // 0 = unconstrained
	ToType         int
}

// NewScan returns a Scan operator for the query edge bound to
// fromIdx/toIdx, restricted to label (ids.NoneLabel for "any label").
func NewScan(fromIdx, toIdx int, label ids.LabelID) *Scan {
	return &Scan{FromIdx: fromIdx, ToIdx: toIdx, Label: label}
}

func (s *Scan) Init(tuple Tuple, g graph.Trait) {
	s.Tuple = tuple
	s.Graph = g
	initNext(s.Next, tuple, g)
}

// ProcessNewTuple is a no-op for Scan: it has no upstream operator and
// is driven by Execute instead.
func (s *Scan) ProcessNewTuple() {}

// matches applies the optional label and endpoint-type filters.
func (s *Scan) matches(from, to ids.NodeID) bool {
	if ids.HasLabel(s.Label) {
		l, ok := s.Graph.GetEdgeLabelID(from, to)
		if !ok || l != s.Label {
			return false
		}
	}
	if s.FromType != 0 {
		if l, ok := s.Graph.GetNodeLabelID(from); !ok || int(l) != s.FromType {
			return false
		}
	}
	if s.ToType != 0 {
		if l, ok := s.Graph.GetNodeLabelID(to); !ok || int(l) != s.ToType {
			return false
		}
	}
	return true
}

// Execute walks the whole graph once, single-threaded, pushing one
// tuple per matching edge to Next. Stops early if the query's stop flag
// is raised.
func (s *Scan) Execute() {
	for _, from := range s.Graph.NodeIndices() {
		if s.stopped() {
			return
		}
		for _, to := range s.Graph.Neighbors(from) {
			if s.stopped() {
				return
			}
			if !s.matches(from, to) {
				continue
			}
			s.Tuple[s.FromIdx] = from
			s.Tuple[s.ToIdx] = to
			s.numOutTuples++
			s.Next.ProcessNewTuple()
		}
	}
}

func (s *Scan) Copy() Operator {
	clone := &Scan{FromIdx: s.FromIdx, ToIdx: s.ToIdx, Label: s.Label, FromType: s.FromType, ToType: s.ToType}
	clone.Stop = s.Stop
	if s.Next != nil {
		clone.Next = s.Next.Copy()
	}
	return clone
}

// ScanSampling is a Scan that stops after MaxEmissions matching edges.
// Catalog population uses it to bound the work spent measuring any one
// subgraph shape.
type ScanSampling struct {
	Scan
	MaxEmissions int
}

// NewScanSampling returns a sampling scan capped at maxEmissions
// matches.
func NewScanSampling(fromIdx, toIdx int, label ids.LabelID, maxEmissions int) *ScanSampling {
	return &ScanSampling{Scan: Scan{FromIdx: fromIdx, ToIdx: toIdx, Label: label}, MaxEmissions: maxEmissions}
}

func (s *ScanSampling) Execute() {
	for _, from := range s.Graph.NodeIndices() {
		for _, to := range s.Graph.Neighbors(from) {
			if s.numOutTuples >= s.MaxEmissions || s.stopped() {
				return
			}
			if !s.matches(from, to) {
				continue
			}
			s.Tuple[s.FromIdx] = from
			s.Tuple[s.ToIdx] = to
			s.numOutTuples++
			s.Next.ProcessNewTuple()
		}
	}
}

func (s *ScanSampling) Copy() Operator {
	clone := &ScanSampling{Scan: Scan{FromIdx: s.FromIdx, ToIdx: s.ToIdx, Label: s.Label, FromType: s.FromType, ToType: s.ToType}, MaxEmissions: s.MaxEmissions}
	clone.Stop = s.Stop
	if s.Next != nil {
		clone.Next = s.Next.Copy()
	}
	return clone
}

// scanCursor is the sole thread-shared mutable state of a parallel
// scan: a (node index, offset within that node's adjacency) pair that
// workers advance by whole blocks under one mutex.
type scanCursor struct {
	mu      sync.Mutex
	fromIdx int // index into nodes
	toIdx   int // offset within nodes[fromIdx]'s adjacency
}

// edgeRange is one reserved block of the edge space, [start, end) in
// (node index, adjacency offset) lexicographic order.
type edgeRange struct {
	startFrom, startTo int
	endFrom, endTo     int
}

// reserve claims the next block of up to partitionSize edges, advancing
// both cursor indices atomically within one reservation. Returns false
// when the edge space is exhausted.
func (c *scanCursor) reserve(g graph.Trait, nodes []ids.NodeID, partitionSize int) (edgeRange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.fromIdx < len(nodes) && c.toIdx >= g.Degree(nodes[c.fromIdx]) {
		c.fromIdx++
		c.toIdx = 0
	}
	if c.fromIdx >= len(nodes) {
		return edgeRange{}, false
	}

	r := edgeRange{startFrom: c.fromIdx, startTo: c.toIdx}
	remaining := partitionSize
	for remaining > 0 && c.fromIdx < len(nodes) {
		avail := g.Degree(nodes[c.fromIdx]) - c.toIdx
		if avail > remaining {
			c.toIdx += remaining
			remaining = 0
			break
		}
		remaining -= avail
		c.fromIdx++
		c.toIdx = 0
	}
	r.endFrom, r.endTo = c.fromIdx, c.toIdx
	return r, true
}

// ScanBlocking is Scan's parallel form: worker goroutines repeatedly
// reserve fixed-size ranges of the edge space from a shared cursor,
// each running its own copy of the downstream chain with its own
// pooled probe tuple. Emission order across workers is not preserved;
// counts aggregate exactly.
type ScanBlocking struct {
	Scan
	PartitionSize int

	cursor *scanCursor
	nodes  []ids.NodeID
}

// DefaultPartitionSize is the edge-range block size used when a
// ScanBlocking is constructed without an explicit one.
const DefaultPartitionSize = 100

// NewScanBlocking returns a parallel scan for the query edge bound to
// fromIdx/toIdx, reserving blocks of partitionSize edges at a time
// (DefaultPartitionSize if <= 0).
func NewScanBlocking(fromIdx, toIdx int, label ids.LabelID, partitionSize int) *ScanBlocking {
	if partitionSize <= 0 {
		partitionSize = DefaultPartitionSize
	}
	return &ScanBlocking{
		Scan:          Scan{FromIdx: fromIdx, ToIdx: toIdx, Label: label},
		PartitionSize: partitionSize,
		cursor:        &scanCursor{},
	}
}

func (s *ScanBlocking) Init(tuple Tuple, g graph.Trait) {
	s.Tuple = tuple
	s.Graph = g
	s.nodes = g.NodeIndices()
	initNext(s.Next, tuple, g)
}

func (s *ScanBlocking) Copy() Operator {
	clone := &ScanBlocking{
		Scan:          Scan{FromIdx: s.FromIdx, ToIdx: s.ToIdx, Label: s.Label, FromType: s.FromType, ToType: s.ToType},
		PartitionSize: s.PartitionSize,
		cursor:        s.cursor,
		nodes:         s.nodes,
	}
	clone.Stop = s.Stop
	if s.Next != nil {
		clone.Next = s.Next.Copy()
	}
	return clone
}

// ExecuteParallel runs numWorkers goroutines against the shared edge
// cursor, each with its own pooled tupleLen-wide probe tuple and its
// own copy of the downstream chain, and returns the total tuples
// pushed. It blocks until every worker has exhausted the cursor (or
// the stop flag is raised).
func (s *ScanBlocking) ExecuteParallel(numWorkers, tupleLen int) int {
	if len(s.nodes) == 0 {
		s.nodes = s.Graph.NodeIndices()
	}
	var wg sync.WaitGroup
	totals := make([]int, numWorkers)
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		chain := s.Next.Copy()
		go func(worker int, chain Operator) {
			defer wg.Done()
			tuple := pool.GetNodeIDSlice(tupleLen)
			defer pool.PutNodeIDSlice(tuple)
			chain.Init(tuple, s.Graph)
			for {
				if s.stopped() {
					return
				}
				r, ok := s.cursor.reserve(s.Graph, s.nodes, s.PartitionSize)
				if !ok {
					return
				}
				s.emitRange(r, tuple, chain, &totals[worker])
			}
		}(w, chain)
	}
	wg.Wait()
	total := 0
	for _, t := range totals {
		total += t
	}
	s.numOutTuples = total
	return total
}

// emitRange pushes every matching edge in r through chain.
func (s *ScanBlocking) emitRange(r edgeRange, tuple Tuple, chain Operator, count *int) {
	for fi := r.startFrom; fi <= r.endFrom && fi < len(s.nodes); fi++ {
		from := s.nodes[fi]
		neighbors := s.Graph.Neighbors(from)
		lo, hi := 0, len(neighbors)
		if fi == r.startFrom {
			lo = r.startTo
		}
		if fi == r.endFrom {
			hi = r.endTo
		}
		for _, to := range neighbors[lo:hi] {
			if s.stopped() {
				return
			}
			if !s.matches(from, to) {
				continue
			}
			tuple[s.FromIdx] = from
			tuple[s.ToIdx] = to
			*count++
			chain.ProcessNewTuple()
		}
	}
}
