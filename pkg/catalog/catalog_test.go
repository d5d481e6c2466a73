package catalog_test

import (
	"testing"

	"github.com/UNSW-database/graphlib/pkg/builder"
	"github.com/UNSW-database/graphlib/pkg/catalog"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/querygraph"
	"github.com/stretchr/testify/require"
)

func triangleGraph() *builder.Builder {
	// 0->1->2->0, each vertex also fanning out to a couple of leaves,
	// so single-edge and two-hop extension samples both have data.
	b := builder.New()
	b.AddEdge(0, 1, ids.NoneLabel)
	b.AddInEdge(1, 0)
	b.AddEdge(1, 2, ids.NoneLabel)
	b.AddInEdge(2, 1)
	b.AddEdge(2, 0, ids.NoneLabel)
	b.AddInEdge(0, 2)
	b.AddEdge(1, 3, ids.NoneLabel)
	b.AddInEdge(3, 1)
	b.AddEdge(2, 4, ids.NoneLabel)
	b.AddInEdge(4, 2)
	return b
}

func TestSamplePopulatesInSubgraphs(t *testing.T) {
	g := triangleGraph().BuildDirected()
	c := catalog.New(8, 3)
	c.Sample(g)

	require.NotEmpty(t, c.InSubgraphs)
	require.NotEmpty(t, c.SampledICost)
}

func TestGetICostFindsSampledExtension(t *testing.T) {
	g := triangleGraph().BuildDirected()
	c := catalog.New(8, 3)
	c.Sample(g)

	query := querygraph.New()
	query.AddEdge("x", "y", ids.NoneLabel, 0, 0)

	icost := c.GetICost(query, []catalog.ALD{
		{FromQueryVertex: "y", Direction: catalog.Fwd, Label: ids.NoneLabel},
	}, 0)
	require.Greater(t, icost, 0.0)
}

func TestGetSelectivityFindsSampledExtension(t *testing.T) {
	g := triangleGraph().BuildDirected()
	c := catalog.New(8, 3)
	c.Sample(g)

	query := querygraph.New()
	query.AddEdge("x", "y", ids.NoneLabel, 0, 0)

	sel := c.GetSelectivity(query, []catalog.ALD{
		{FromQueryVertex: "y", Direction: catalog.Fwd, Label: ids.NoneLabel},
	}, 0)
	require.Less(t, sel, 1e300) // a sample was actually found, not the max-float sentinel
}

func TestRecordAndLookupRoundTrip(t *testing.T) {
	c := catalog.New(4, 3)
	sample := querygraph.New()
	sample.AddEdge("a", "b", ids.LabelID(1), 0, 0)
	idx := c.AddInSubgraph(sample)

	key := "(b) F[1]"
	c.RecordICost(idx, key, 7.5)
	require.Equal(t, 7.5, c.SampledICost[idx][key])
}

func TestSampleSortedByNodeServesICostFromTypedTable(t *testing.T) {
	b := triangleGraph()
	lbl := b.NodeLabelMap.Add("Person")
	for id := ids.NodeID(0); id <= 4; id++ {
		b.AddNode(id, ids.LabelID(lbl))
	}
	g := b.BuildDirected()

	c := catalog.New(8, 3)
	c.SampleSortedByNode(g)
	require.True(t, c.IsSortedByNode)

	query := querygraph.New()
	query.AddEdge("x", "y", ids.NoneLabel, 0, 0)

	icost := c.GetICost(query, []catalog.ALD{
		{FromQueryVertex: "y", Direction: catalog.Fwd, Label: ids.NoneLabel},
	}, lbl)
	require.Greater(t, icost, 0.0)
	require.Less(t, icost, 1e300)
}

func TestMarkZeroSelectivity(t *testing.T) {
	c := catalog.New(4, 3)
	c.MarkZeroSelectivity("(b) F[9]")
	require.True(t, c.ZeroSelectivity["(b) F[9]"])
	require.False(t, c.ZeroSelectivity["(b) F[1]"])
}
