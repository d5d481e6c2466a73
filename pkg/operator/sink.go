package operator

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/UNSW-database/graphlib/pkg/graph"
)

// SinkCounter is the terminal operator of a plan that only needs a
// count of matches: it has no downstream.
type SinkCounter struct {
	Base
}

func NewSinkCounter() *SinkCounter { return &SinkCounter{} }

func (s *SinkCounter) Init(tuple Tuple, g graph.Trait) { s.Tuple = tuple; s.Graph = g }
func (s *SinkCounter) ProcessNewTuple()                { s.numOutTuples++ }
func (s *SinkCounter) Copy() Operator {
	clone := &SinkCounter{}
	clone.Stop = s.Stop
	return clone
}

// SinkLimit stops the query once Limit output tuples have been
// produced: it raises the shared stop flag, which upstream operators
// observe on their next ProcessNewTuple. Under parallel execution the
// final count may land anywhere at or below the limit but never above
// it; the flag is set once and never cleared during a query.
type SinkLimit struct {
	Base
	Limit int

	// counter is shared across plan copies so the limit is global,
	// not per-worker.
	counter *atomic.Int64
}

func NewSinkLimit(limit int) *SinkLimit {
	s := &SinkLimit{Limit: limit, counter: &atomic.Int64{}}
	var stop atomic.Bool
	s.Stop = &stop
	return s
}

func (s *SinkLimit) Init(tuple Tuple, g graph.Trait) { s.Tuple = tuple; s.Graph = g }

func (s *SinkLimit) ProcessNewTuple() {
	if s.Stop.Load() {
		return
	}
	n := s.counter.Add(1)
	if n > int64(s.Limit) {
		s.counter.Add(-1)
		s.Stop.Store(true)
		return
	}
	s.numOutTuples++
	if n == int64(s.Limit) {
		s.Stop.Store(true)
	}
}

// Reached reports whether this sink has already produced Limit tuples.
func (s *SinkLimit) Reached() bool { return s.counter.Load() >= int64(s.Limit) }

// Total returns the query-wide tuple count across every copy of this
// sink.
func (s *SinkLimit) Total() int { return int(s.counter.Load()) }

func (s *SinkLimit) Copy() Operator {
	clone := &SinkLimit{Limit: s.Limit, counter: s.counter}
	clone.Stop = s.Stop
	return clone
}

// SinkCopy collects every completed tuple (copied, since Tuple is
// mutated in place by the rest of the pipeline) for callers that need
// the actual result rows rather than just a count.
type SinkCopy struct {
	Base
	Rows [][]uint32
}

func NewSinkCopy() *SinkCopy { return &SinkCopy{} }

func (s *SinkCopy) Init(tuple Tuple, g graph.Trait) { s.Tuple = tuple; s.Graph = g }

func (s *SinkCopy) ProcessNewTuple() {
	row := make([]uint32, len(s.Tuple))
	for i, v := range s.Tuple {
		row[i] = uint32(v)
	}
	s.Rows = append(s.Rows, row)
	s.numOutTuples++
}

func (s *SinkCopy) Copy() Operator {
	clone := &SinkCopy{}
	clone.Stop = s.Stop
	return clone
}

// SinkPrint emits each completed tuple to a diagnostic stream. Intended
// for interactive inspection of a plan's output, not for collecting
// results programmatically — use SinkCopy for that.
type SinkPrint struct {
	Base
	Out io.Writer
}

// NewSinkPrint returns a SinkPrint writing to out.
func NewSinkPrint(out io.Writer) *SinkPrint { return &SinkPrint{Out: out} }

func (s *SinkPrint) Init(tuple Tuple, g graph.Trait) { s.Tuple = tuple; s.Graph = g }

func (s *SinkPrint) ProcessNewTuple() {
	fmt.Fprintln(s.Out, s.Tuple)
	s.numOutTuples++
}

func (s *SinkPrint) Copy() Operator {
	clone := &SinkPrint{Out: s.Out}
	clone.Stop = s.Stop
	return clone
}
