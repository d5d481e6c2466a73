package operator

import (
	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/hashtable"
	"github.com/UNSW-database/graphlib/pkg/ids"
)

// Build is the build side of a hash join: it materializes every probe
// tuple it receives into a pkg/hashtable.HashTable keyed by the shared
// join column. Build has no downstream operator: its output is Table,
// consumed by the Probe sharing it.
type Build struct {
	Base
	HashIdx   int   // column of the incoming tuple used as the join key
	TupleCols []int // columns copied into the stored tuple, in order

	Table *hashtable.HashTable
}

// NewBuild returns a Build operator keyed on hashIdx, storing the
// tupleCols columns (hashIdx excluded) of every tuple it receives.
func NewBuild(hashIdx int, tupleCols []int) *Build {
	cols := make([]int, 0, len(tupleCols))
	for _, c := range tupleCols {
		if c != hashIdx {
			cols = append(cols, c)
		}
	}
	// The table exists from construction so a Probe can be wired to it
	// before either side runs.
	return &Build{HashIdx: hashIdx, TupleCols: cols, Table: hashtable.New(0, len(cols))}
}

func (b *Build) Init(tuple Tuple, g graph.Trait) {
	b.Tuple = tuple
	b.Graph = g
}

// ProcessNewTuple stores the current tuple's join key and payload
// columns into Table.
func (b *Build) ProcessNewTuple() {
	if b.stopped() {
		return
	}
	row := make([]ids.NodeID, 0, len(b.TupleCols)+1)
	row = append(row, b.Tuple[b.HashIdx])
	for _, c := range b.TupleCols {
		row = append(row, b.Tuple[c])
	}
	b.Table.InsertTuple(row)
	b.numOutTuples++
}

func (b *Build) Copy() Operator {
	clone := &Build{HashIdx: b.HashIdx, TupleCols: append([]int(nil), b.TupleCols...), Table: b.Table}
	clone.Stop = b.Stop
	return clone
}

// Probe is the probe side of a single-vertex hash join: for each
// incoming tuple it looks up Table by the shared join column and, for
// every matching build-side row, copies the row's columns into the
// probe tuple and pushes downstream. The table is read-only during
// probing, so copies of a Probe share it without locking.
type Probe struct {
	Base
	HashIdx int // probe tuple's column holding the join key
	Table   *hashtable.HashTable
	OutCols []int // probe-tuple columns the stored row's values land in, in TupleCols order
}

// NewProbe returns a Probe operator reading hashIdx from each incoming
// tuple, looking it up in table, and writing the matched row's columns
// into outCols.
func NewProbe(hashIdx int, table *hashtable.HashTable, outCols []int) *Probe {
	return &Probe{HashIdx: hashIdx, Table: table, OutCols: append([]int(nil), outCols...)}
}

func (p *Probe) Init(tuple Tuple, g graph.Trait) {
	p.Tuple = tuple
	p.Graph = g
	initNext(p.Next, tuple, g)
}

func (p *Probe) ProcessNewTuple() {
	if p.stopped() {
		return
	}
	key := p.Tuple[p.HashIdx]
	block := p.Table.GetBlock(key)
	for _, row := range block.Tuples {
		for i, col := range p.OutCols {
			p.Tuple[col] = row[i]
		}
		p.numOutTuples++
		p.Next.ProcessNewTuple()
	}
}

func (p *Probe) Copy() Operator {
	clone := &Probe{HashIdx: p.HashIdx, Table: p.Table, OutCols: append([]int(nil), p.OutCols...)}
	clone.Stop = p.Stop
	if p.Next != nil {
		clone.Next = p.Next.Copy()
	}
	return clone
}

// ColCheck pairs a stored-row position with the probe-tuple column it
// must equal for a multi-vertex join to match.
type ColCheck struct {
	StoredIdx int
	TupleIdx  int
}

// ColCopy pairs a stored-row position with the probe-tuple column the
// value is copied into on a match.
type ColCopy struct {
	StoredIdx int
	TupleIdx  int
}

// ProbeMultiVertices is Probe for joins on two (or more) shared
// vertices: the first join vertex is the hash key, the rest are checked
// per stored row by position equality, and only the non-join columns
// are copied into the output tuple.
type ProbeMultiVertices struct {
	Base
	HashIdx int
	Table   *hashtable.HashTable
	Checks  []ColCheck
	Copies  []ColCopy
}

// NewProbeMultiVertices returns a multi-vertex Probe hashing on
// hashIdx, requiring checks to hold, and copying copies on a match.
func NewProbeMultiVertices(hashIdx int, table *hashtable.HashTable, checks []ColCheck, copies []ColCopy) *ProbeMultiVertices {
	return &ProbeMultiVertices{
		HashIdx: hashIdx,
		Table:   table,
		Checks:  append([]ColCheck(nil), checks...),
		Copies:  append([]ColCopy(nil), copies...),
	}
}

func (p *ProbeMultiVertices) Init(tuple Tuple, g graph.Trait) {
	p.Tuple = tuple
	p.Graph = g
	initNext(p.Next, tuple, g)
}

func (p *ProbeMultiVertices) ProcessNewTuple() {
	if p.stopped() {
		return
	}
	key := p.Tuple[p.HashIdx]
	block := p.Table.GetBlock(key)
rows:
	for _, row := range block.Tuples {
		for _, c := range p.Checks {
			if row[c.StoredIdx] != p.Tuple[c.TupleIdx] {
				continue rows
			}
		}
		for _, c := range p.Copies {
			p.Tuple[c.TupleIdx] = row[c.StoredIdx]
		}
		p.numOutTuples++
		p.Next.ProcessNewTuple()
	}
}

func (p *ProbeMultiVertices) Copy() Operator {
	clone := &ProbeMultiVertices{
		HashIdx: p.HashIdx,
		Table:   p.Table,
		Checks:  append([]ColCheck(nil), p.Checks...),
		Copies:  append([]ColCopy(nil), p.Copies...),
	}
	clone.Stop = p.Stop
	if p.Next != nil {
		clone.Next = p.Next.Copy()
	}
	return clone
}

// ProbeCartesian multiplies every stored build-side tuple against every
// incoming probe tuple: the degenerate join for build and probe sides
// sharing no vertex at all. Copies land stored columns in the output
// tuple; the build's hash column is written to HashColTupleIdx.
type ProbeCartesian struct {
	Base
	Table  *hashtable.HashTable
	Copies []ColCopy

	// HashColTupleIdx receives each partition's hash-vertex value
	// (the one column HashTable elides from stored rows).
	HashColTupleIdx int
}

// NewProbeCartesian returns a cross-product probe over table, writing
// each partition's hash vertex into hashColTupleIdx and stored columns
// per copies.
func NewProbeCartesian(table *hashtable.HashTable, hashColTupleIdx int, copies []ColCopy) *ProbeCartesian {
	return &ProbeCartesian{Table: table, HashColTupleIdx: hashColTupleIdx, Copies: append([]ColCopy(nil), copies...)}
}

func (p *ProbeCartesian) Init(tuple Tuple, g graph.Trait) {
	p.Tuple = tuple
	p.Graph = g
	initNext(p.Next, tuple, g)
}

func (p *ProbeCartesian) ProcessNewTuple() {
	if p.stopped() {
		return
	}
	for _, key := range p.Table.Keys() {
		block := p.Table.GetBlock(key)
		for _, row := range block.Tuples {
			p.Tuple[p.HashColTupleIdx] = key
			for _, c := range p.Copies {
				p.Tuple[c.TupleIdx] = row[c.StoredIdx]
			}
			p.numOutTuples++
			p.Next.ProcessNewTuple()
		}
	}
}

func (p *ProbeCartesian) Copy() Operator {
	clone := &ProbeCartesian{Table: p.Table, HashColTupleIdx: p.HashColTupleIdx, Copies: append([]ColCopy(nil), p.Copies...)}
	clone.Stop = p.Stop
	if p.Next != nil {
		clone.Next = p.Next.Copy()
	}
	return clone
}
