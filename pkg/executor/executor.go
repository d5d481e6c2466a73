// Package executor compiles a pkg/planner.Plan into a runnable
// pkg/operator tree and drives it against a graph: one shared probe
// tuple, scans at the leaves, a single sink at the root, and — for
// hash-join plans — the build side fully executed before the probe
// side starts.
package executor

import (
	"fmt"
	"sync/atomic"

	"github.com/UNSW-database/graphlib/pkg/graph"
	"github.com/UNSW-database/graphlib/pkg/operator"
	"github.com/UNSW-database/graphlib/pkg/planner"
)

// driver is a scan that can pump the pipeline from the top.
type driver interface {
	operator.Operator
	Execute()
}

// Compiled is one ready-to-run operator tree.
type Compiled struct {
	// VertexIdx maps each query vertex to its probe-tuple column.
	VertexIdx map[string]int

	sink    operator.Operator
	limit   *operator.SinkLimit // nil unless the plan carries a limit
	drivers []driver            // executed in order; the last drives the sink
	allOps  []operator.Operator
}

// Compile builds the operator tree for plan. The sink is a SinkLimit
// when the plan carries an output-tuple limit, a SinkCounter otherwise;
// CompileWithSink accepts a caller-supplied sink instead.
func Compile(plan *planner.Plan) (*Compiled, error) {
	var sink operator.Operator
	if plan.HasLimit {
		sink = operator.NewSinkLimit(plan.OutTuplesLimit)
	} else {
		sink = operator.NewSinkCounter()
	}
	return CompileWithSink(plan, sink)
}

// CompileWithSink builds the operator tree for plan with sink at the
// root (e.g. an operator.SinkCopy to collect result rows).
func CompileWithSink(plan *planner.Plan, sink operator.Operator) (*Compiled, error) {
	c := &Compiled{
		VertexIdx: make(map[string]int),
		sink:      sink,
	}
	if l, ok := sink.(*operator.SinkLimit); ok {
		c.limit = l
	}
	c.allOps = append(c.allOps, sink)

	c.assignIndices(plan.Steps)
	if err := c.compileSteps(plan.Steps, sink); err != nil {
		return nil, err
	}

	// One stop flag per compiled query; a limit sink supplies its own.
	var stop *atomic.Bool
	if c.limit != nil {
		stop = c.limit.Stop
	} else {
		stop = &atomic.Bool{}
	}
	for _, op := range c.allOps {
		op.SetStop(stop)
	}
	return c, nil
}

// assignIndices walks the steps in execution order, giving each query
// vertex its probe-tuple column at first binding.
func (c *Compiled) assignIndices(steps []planner.Step) {
	bind := func(v string) {
		if _, ok := c.VertexIdx[v]; !ok {
			c.VertexIdx[v] = len(c.VertexIdx)
		}
	}
	for _, s := range steps {
		switch s.Kind {
		case planner.StepScan:
			bind(s.ScanEdge.From)
			bind(s.ScanEdge.To)
		case planner.StepExtend:
			bind(s.ToVertex)
		case planner.StepHashJoin:
			c.assignIndices(s.BuildSteps)
			c.assignIndices(s.ProbeSteps)
		}
	}
}

// TupleLen returns the probe tuple width (one column per query vertex).
func (c *Compiled) TupleLen() int { return len(c.VertexIdx) }

// compileSteps turns one linear step list into a scan-rooted chain
// ending at next, registering the chain's scan as a driver. A hash-join
// step recurses into both sides.
func (c *Compiled) compileSteps(steps []planner.Step, next operator.Operator) error {
	if len(steps) == 0 {
		return fmt.Errorf("executor: empty step list")
	}

	if steps[0].Kind == planner.StepHashJoin {
		if len(steps) != 1 {
			return fmt.Errorf("executor: hash join must be the sole step of its list")
		}
		return c.compileHashJoin(steps[0], next)
	}

	if steps[0].Kind != planner.StepScan {
		return fmt.Errorf("executor: step list must start with a scan")
	}
	e := steps[0].ScanEdge
	scan := operator.NewScan(c.VertexIdx[e.From], c.VertexIdx[e.To], e.Label)
	scan.FromType = e.FromType
	scan.ToType = e.ToType
	c.allOps = append(c.allOps, scan)

	var tail operator.Operator = scan
	for _, s := range steps[1:] {
		if s.Kind != planner.StepExtend {
			return fmt.Errorf("executor: unexpected step kind %d after scan", s.Kind)
		}
		alds := make([]operator.ExtendALD, 0, len(s.ALDs))
		for _, a := range s.ALDs {
			alds = append(alds, operator.ExtendALD{
				FromIdx:   c.VertexIdx[a.FromQueryVertex],
				Direction: a.Direction,
				Label:     a.Label,
			})
		}
		ext := operator.NewExtend(c.VertexIdx[s.ToVertex], s.ToType, alds)
		c.allOps = append(c.allOps, ext)
		tail.SetNext(ext)
		tail = ext
	}
	tail.SetNext(next)
	c.drivers = append(c.drivers, scan)
	return nil
}

// compileHashJoin wires build side -> hash table -> probe side -> next.
// The build scan is registered as a driver ahead of the probe scan, so
// Execute fills the table before any probe tuple arrives.
func (c *Compiled) compileHashJoin(s planner.Step, next operator.Operator) error {
	if len(s.JoinVertices) == 0 {
		return fmt.Errorf("executor: hash join with no join vertex")
	}
	hashVertex := s.JoinVertices[0]
	hashIdx := c.VertexIdx[hashVertex]

	// Stored-row layout: every build-side column except the hash one,
	// in probe-tuple index order.
	var buildCols []int
	for _, v := range s.BuildSubgraph.Vertices() {
		if v != hashVertex {
			buildCols = append(buildCols, c.VertexIdx[v])
		}
	}
	sortInts(buildCols)

	build := operator.NewBuild(hashIdx, buildCols)
	c.allOps = append(c.allOps, build)
	if err := c.compileSteps(s.BuildSteps, build); err != nil {
		return err
	}

	probeSet := make(map[int]bool)
	for _, v := range s.ProbeSubgraph.Vertices() {
		probeSet[c.VertexIdx[v]] = true
	}

	var probe operator.Operator
	if len(s.JoinVertices) == 1 {
		probe = operator.NewProbe(hashIdx, build.Table, buildCols)
	} else {
		// Later join vertices are bound on both sides: checked for
		// equality rather than copied.
		var checks []operator.ColCheck
		var copies []operator.ColCopy
		for stored, col := range buildCols {
			if probeSet[col] {
				checks = append(checks, operator.ColCheck{StoredIdx: stored, TupleIdx: col})
			} else {
				copies = append(copies, operator.ColCopy{StoredIdx: stored, TupleIdx: col})
			}
		}
		probe = operator.NewProbeMultiVertices(hashIdx, build.Table, checks, copies)
	}
	c.allOps = append(c.allOps, probe)
	probe.SetNext(next)
	return c.compileSteps(s.ProbeSteps, probe)
}

// Execute runs the compiled tree single-threaded against g and returns
// the number of output tuples observed by the sink.
func (c *Compiled) Execute(g graph.Trait) int {
	tuple := make(operator.Tuple, c.TupleLen())
	for _, d := range c.drivers {
		d.Init(tuple, g)
		d.Execute()
	}
	if c.limit != nil {
		return c.limit.Total()
	}
	return c.sink.NumOutTuples()
}

// Sink exposes the root sink, e.g. to read collected rows off an
// operator.SinkCopy passed to CompileWithSink.
func (c *Compiled) Sink() operator.Operator { return c.sink }

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
