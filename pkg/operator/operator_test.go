package operator_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNSW-database/graphlib/pkg/builder"
	"github.com/UNSW-database/graphlib/pkg/catalog"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/operator"
)

// triangleGraph builds the undirected graph holding the two triangles
// {1,2,3} and {2,3,4}.
func triangleGraph() *builder.Builder {
	b := builder.New()
	edges := [][2]ids.NodeID{
		{1, 2}, {2, 1},
		{2, 3}, {3, 2},
		{3, 1}, {1, 3},
		{3, 4}, {4, 3},
		{2, 4}, {4, 2},
	}
	for _, e := range edges {
		b.AddEdge(e[0], e[1], ids.NoneLabel)
	}
	return b
}

func triangleChain(sink operator.Operator) *operator.Scan {
	extend := operator.NewExtend(2, 0, []operator.ExtendALD{
		{FromIdx: 0, Direction: catalog.Fwd, Label: ids.NoneLabel},
		{FromIdx: 1, Direction: catalog.Fwd, Label: ids.NoneLabel},
	})
	extend.SetNext(sink)
	scan := operator.NewScan(0, 1, ids.NoneLabel)
	scan.SetNext(extend)
	return scan
}

func TestScanExtendSinkCounter_Triangle(t *testing.T) {
	g := triangleGraph().BuildUndirected()

	// Query: (a)-(b)-(c)-(a), i.e. a triangle. Probe tuple layout: [a, b, c].
	sink := operator.NewSinkCounter()
	scan := triangleChain(sink)

	tuple := make(operator.Tuple, 3)
	scan.Init(tuple, g)
	scan.Execute()

	// Each of the two triangles contributes one match per ordered
	// (a, b, c) assignment.
	require.Equal(t, 12, sink.NumOutTuples())
}

func TestSinkLimitStopsScan(t *testing.T) {
	g := triangleGraph().BuildUndirected()

	limit := operator.NewSinkLimit(4)
	scan := triangleChain(limit)
	scan.SetStop(limit.Stop)

	tuple := make(operator.Tuple, 3)
	scan.Init(tuple, g)
	scan.Execute()

	require.Equal(t, 4, limit.Total())
	require.True(t, limit.Reached())
}

// TestExtendCachingMatchesUncached runs the same triangle pipeline with
// adjacency lists that repeat across consecutive tuples and verifies
// the cached intersections produce the identical output count.
func TestExtendCachingMatchesUncached(t *testing.T) {
	g := triangleGraph().BuildUndirected()

	// ALD sourced only from column 0, which repeats for every
	// neighbor emitted under the same scan "from" vertex, so the
	// cached path is exercised.
	sink := operator.NewSinkCounter()
	extend := operator.NewExtend(2, 0, []operator.ExtendALD{
		{FromIdx: 0, Direction: catalog.Fwd, Label: ids.NoneLabel},
	})
	extend.SetNext(sink)
	scan := operator.NewScan(0, 1, ids.NoneLabel)
	scan.SetNext(extend)

	tuple := make(operator.Tuple, 3)
	scan.Init(tuple, g)
	scan.Execute()

	// Every scanned edge extends to each neighbor of its "from"
	// endpoint: sum over ordered edges (u, v) of degree(u).
	want := 0
	for u := ids.NodeID(0); u < ids.NodeID(g.NodeCount()); u++ {
		want += g.Degree(u) * g.Degree(u)
	}
	require.Equal(t, want, sink.NumOutTuples())
}

func TestExtendDeduplicatesALDs(t *testing.T) {
	ext := operator.NewExtend(2, 0, []operator.ExtendALD{
		{FromIdx: 0, Direction: catalog.Fwd, Label: ids.NoneLabel},
		{FromIdx: 0, Direction: catalog.Fwd, Label: ids.NoneLabel},
	})
	require.Len(t, ext.ALDs, 1)
}

func TestScanSamplingCapsEmissions(t *testing.T) {
	g := triangleGraph().BuildUndirected()

	sink := operator.NewSinkCounter()
	scan := operator.NewScanSampling(0, 1, ids.NoneLabel, 3)
	scan.SetNext(sink)

	tuple := make(operator.Tuple, 2)
	scan.Init(tuple, g)
	scan.Execute()

	require.Equal(t, 3, sink.NumOutTuples())
}

func TestScanBlockingParallelCountsExactly(t *testing.T) {
	g := triangleGraph().BuildUndirected()

	sink := operator.NewSinkCounter()
	extend := operator.NewExtend(2, 0, []operator.ExtendALD{
		{FromIdx: 0, Direction: catalog.Fwd, Label: ids.NoneLabel},
		{FromIdx: 1, Direction: catalog.Fwd, Label: ids.NoneLabel},
	})
	extend.SetNext(sink)
	scan := operator.NewScanBlocking(0, 1, ids.NoneLabel, 2)
	scan.SetNext(extend)

	tuple := make(operator.Tuple, 3)
	scan.Init(tuple, g)
	total := scan.ExecuteParallel(4, 3)

	// Order across workers is not preserved; the edge count is.
	require.Equal(t, 10, total)
}

func TestBuildProbeHashJoin(t *testing.T) {
	// Build side: tuples (a, b) with a as the join key.
	build := operator.NewBuild(0, []int{0, 1})
	buildTuple := make(operator.Tuple, 2)
	g := builder.New().BuildUndirected()
	build.Init(buildTuple, g)
	for _, pair := range [][2]ids.NodeID{{1, 10}, {1, 11}, {2, 20}} {
		buildTuple[0] = pair[0]
		buildTuple[1] = pair[1]
		build.ProcessNewTuple()
	}
	require.Equal(t, 3, build.NumOutTuples())

	// Probe side: incoming tuples (x) joined against build's column 0.
	sink := operator.NewSinkCopy()
	probe := operator.NewProbe(0, build.Table, []int{1})
	probeTuple := make(operator.Tuple, 2)
	probe.SetNext(sink)
	probe.Init(probeTuple, g)

	probeTuple[0] = 1
	probe.ProcessNewTuple()
	probeTuple[0] = 2
	probe.ProcessNewTuple()
	probeTuple[0] = 99
	probe.ProcessNewTuple() // no match

	require.Equal(t, 3, sink.NumOutTuples())
	require.Len(t, sink.Rows, 3)
}

func TestProbeMultiVerticesChecksSecondJoinColumn(t *testing.T) {
	g := builder.New().BuildUndirected()

	// Stored rows: hash on col 0, payload cols 1 (second join vertex)
	// and 2 (build-only).
	build := operator.NewBuild(0, []int{1, 2})
	buildTuple := make(operator.Tuple, 3)
	build.Init(buildTuple, g)
	for _, row := range [][3]ids.NodeID{{1, 5, 100}, {1, 6, 200}, {2, 5, 300}} {
		buildTuple[0], buildTuple[1], buildTuple[2] = row[0], row[1], row[2]
		build.ProcessNewTuple()
	}

	sink := operator.NewSinkCopy()
	probe := operator.NewProbeMultiVertices(0, build.Table,
		[]operator.ColCheck{{StoredIdx: 0, TupleIdx: 1}},
		[]operator.ColCopy{{StoredIdx: 1, TupleIdx: 2}})
	probe.SetNext(sink)
	probeTuple := make(operator.Tuple, 3)
	probe.Init(probeTuple, g)

	// (1, 5) matches only the first stored row.
	probeTuple[0], probeTuple[1] = 1, 5
	probe.ProcessNewTuple()
	require.Len(t, sink.Rows, 1)
	require.EqualValues(t, 100, sink.Rows[0][2])

	// (1, 7) matches nothing.
	probeTuple[0], probeTuple[1] = 1, 7
	probe.ProcessNewTuple()
	require.Len(t, sink.Rows, 1)
}

func TestProbeCartesianCrossesEveryStoredTuple(t *testing.T) {
	g := builder.New().BuildUndirected()

	build := operator.NewBuild(0, []int{0, 1})
	buildTuple := make(operator.Tuple, 2)
	build.Init(buildTuple, g)
	for _, pair := range [][2]ids.NodeID{{1, 10}, {2, 20}, {3, 30}} {
		buildTuple[0], buildTuple[1] = pair[0], pair[1]
		build.ProcessNewTuple()
	}

	sink := operator.NewSinkCounter()
	probe := operator.NewProbeCartesian(build.Table, 2, []operator.ColCopy{{StoredIdx: 0, TupleIdx: 3}})
	probe.SetNext(sink)
	probeTuple := make(operator.Tuple, 4)
	probe.Init(probeTuple, g)

	// Two incoming tuples x three stored tuples.
	probe.ProcessNewTuple()
	probe.ProcessNewTuple()
	require.Equal(t, 6, sink.NumOutTuples())
}

func TestSinkPrintWritesEachTuple(t *testing.T) {
	var buf bytes.Buffer
	sink := operator.NewSinkPrint(&buf)
	g := builder.New().BuildUndirected()
	tuple := make(operator.Tuple, 1)
	sink.Init(tuple, g)

	tuple[0] = 7
	sink.ProcessNewTuple()

	require.Equal(t, 1, sink.NumOutTuples())
	require.Contains(t, buf.String(), "7")
}
