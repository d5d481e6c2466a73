package builder_test

import (
	"testing"

	"github.com/UNSW-database/graphlib/pkg/builder"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/stretchr/testify/require"
)

func TestDuplicateEdgesCollapse(t *testing.T) {
	b := builder.New()
	b.AddEdge(0, 1, ids.LabelID(1))
	b.AddEdge(0, 1, ids.LabelID(2)) // last writer wins
	b.AddEdge(1, 0, ids.LabelID(1))
	b.AddEdge(1, 0, ids.LabelID(2))
	g := b.BuildUndirected()

	require.Equal(t, 1, g.EdgeCount())
	label, ok := g.GetEdgeLabelID(0, 1)
	require.True(t, ok)
	require.Equal(t, ids.LabelID(2), label)
}

func TestIsolatedNodeFromAddNodeOnly(t *testing.T) {
	b := builder.New()
	b.AddEdge(0, 2, ids.NoneLabel)
	b.AddEdge(2, 0, ids.NoneLabel)
	b.AddNode(1, ids.NoneLabel) // isolated, no edges at all
	g := b.BuildUndirected()

	require.Equal(t, 3, g.NodeCount())
	require.Equal(t, 0, g.Degree(1))
	label, ok := g.GetNodeLabelID(1)
	require.False(t, ok)
	require.Equal(t, ids.NoneLabel, label)
}

func TestNodeLabelGapsFillWithNone(t *testing.T) {
	b := builder.New()
	lbl := b.NodeLabelMap.Add("Person")
	b.AddNode(0, ids.LabelID(lbl))
	b.AddEdge(0, 3, ids.NoneLabel)
	b.AddEdge(3, 0, ids.NoneLabel)
	g := b.BuildUndirected()

	l0, ok := g.GetNodeLabelID(0)
	require.True(t, ok)
	require.Equal(t, ids.LabelID(lbl), l0)

	_, ok = g.GetNodeLabelID(1)
	require.False(t, ok)
}

func TestDirectedInEdgeVector(t *testing.T) {
	b := builder.New()
	b.AddEdge(0, 1, ids.NoneLabel)
	b.AddInEdge(1, 0)
	b.AddEdge(0, 3, ids.NoneLabel)
	b.AddInEdge(3, 0)
	b.AddEdge(2, 0, ids.NoneLabel)
	b.AddInEdge(0, 2)
	g := b.BuildDirected()

	require.Equal(t, []ids.NodeID{2}, g.InNeighbors(0))
	require.Equal(t, []ids.NodeID{0}, g.InNeighbors(1))
	require.Equal(t, []ids.NodeID{0}, g.InNeighbors(3))
}

func TestEmptyBuilder(t *testing.T) {
	b := builder.New()
	g := b.BuildUndirected()
	require.Equal(t, 0, g.NodeCount())
	require.Equal(t, 0, g.EdgeCount())
}
