package csr_test

import (
	"testing"

	"github.com/UNSW-database/graphlib/pkg/csr"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/stretchr/testify/require"
)

func build() *csr.EdgeVector {
	// node 0 -> {1, 3}, node 1 -> {}, node 2 -> {0}, node 3 -> {}
	offsets := []uint64{0, 2, 2, 3, 3}
	edges := []ids.NodeID{1, 3, 0}
	return csr.New(offsets, edges)
}

func TestNeighbors(t *testing.T) {
	v := build()
	require.Equal(t, []ids.NodeID{1, 3}, v.Neighbors(0))
	require.Empty(t, v.Neighbors(1))
}

func TestNeighborsOutOfRange(t *testing.T) {
	v := build()
	require.Empty(t, v.Neighbors(99))
}

func TestHasEdge(t *testing.T) {
	v := build()
	require.True(t, v.HasEdge(0, 1))
	require.True(t, v.HasEdge(0, 3))
	require.False(t, v.HasEdge(0, 2))
	require.False(t, v.HasEdge(1, 0))
}

func TestFindEdgeLabel(t *testing.T) {
	offsets := []uint64{0, 2}
	edges := []ids.NodeID{1, 2}
	labels := []ids.LabelID{7, 8}
	v := csr.NewWithLabels(offsets, edges, labels)

	l, ok := v.FindEdgeLabel(0, 2)
	require.True(t, ok)
	require.Equal(t, ids.LabelID(8), l)

	_, ok = v.FindEdgeLabel(0, 3)
	require.False(t, ok)
}

func TestIntersect(t *testing.T) {
	left := []ids.NodeID{1, 2, 4, 6}
	right := []ids.NodeID{2, 3, 4, 5}
	out := make([]ids.NodeID, len(left))
	n, cmp := csr.Intersect(left, right, out)
	require.Equal(t, []ids.NodeID{2, 4}, out[:n])
	require.Greater(t, cmp, 0)
}

func TestIntersectEmpty(t *testing.T) {
	out := make([]ids.NodeID, 0)
	n, _ := csr.Intersect(nil, []ids.NodeID{1, 2}, out)
	require.Equal(t, 0, n)
}

func TestTypedNeighborsOfType(t *testing.T) {
	base := build()
	// node 0's neighbors [1,3]: type 0 = [1], type 1 = [3]
	typeOffsets := [][]uint32{
		{0, 1, 2}, // node 0
		{0, 0},    // node 1
		{0, 1},    // node 2
		{0, 0},    // node 3
	}
	tv := csr.NewTyped(base, typeOffsets, 2)
	require.Equal(t, []ids.NodeID{1}, tv.NeighborsOfType(0, 0))
	require.Equal(t, []ids.NodeID{3}, tv.NeighborsOfType(0, 1))
}
