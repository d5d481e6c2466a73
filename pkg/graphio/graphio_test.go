package graphio_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNSW-database/graphlib/pkg/builder"
	"github.com/UNSW-database/graphlib/pkg/graphio"
	"github.com/UNSW-database/graphlib/pkg/ids"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	b := builder.New()
	for _, id := range []ids.NodeID{1, 2, 3, 4} {
		b.AddNode(id, ids.NoneLabel)
	}
	for _, e := range [][2]ids.NodeID{{1, 2}, {2, 1}, {2, 3}, {3, 2}, {3, 1}, {1, 3}, {3, 4}, {4, 3}} {
		b.AddEdge(e[0], e[1], ids.NoneLabel)
	}
	g := b.BuildUndirected()

	dir := t.TempDir()
	prefix := filepath.Join(dir, "g")
	require.NoError(t, graphio.Save(prefix, g))

	loaded, err := graphio.Load(prefix)
	require.NoError(t, err)

	require.Equal(t, g.NodeCount(), loaded.NodeCount())
	require.Equal(t, g.EdgeCount(), loaded.EdgeCount())
	for i := ids.NodeID(0); i < ids.NodeID(g.NodeCount()); i++ {
		require.Equal(t, g.Degree(i), loaded.Degree(i))
		require.Equal(t, g.Neighbors(i), loaded.Neighbors(i))
	}
}

func TestSaveLoadMappedRoundTrip(t *testing.T) {
	b := builder.New()
	b.AddEdge(0, 1, ids.NoneLabel)
	b.AddEdge(0, 3, ids.NoneLabel)
	b.AddInEdge(1, 0)
	b.AddInEdge(0, 2)
	g := b.BuildDirected()

	dir := t.TempDir()
	prefix := filepath.Join(dir, "g")
	require.NoError(t, graphio.Save(prefix, g))

	mapped, err := graphio.LoadMapped(prefix)
	require.NoError(t, err)
	defer mapped.Close()

	require.Equal(t, g.NodeCount(), mapped.NodeCount())
	require.Equal(t, g.EdgeCount(), mapped.EdgeCount())
	for i := ids.NodeID(0); i < ids.NodeID(g.NodeCount()); i++ {
		require.Equal(t, g.Neighbors(i), mapped.Neighbors(i))
		require.Equal(t, g.InDegree(i), mapped.InDegree(i))
		require.Equal(t, g.InNeighbors(i), mapped.InNeighbors(i))
	}
}
