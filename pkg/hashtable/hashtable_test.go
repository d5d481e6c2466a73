package hashtable_test

import (
	"testing"

	"github.com/UNSW-database/graphlib/pkg/hashtable"
	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/stretchr/testify/require"
)

func TestInsertAndLookupByHashColumn(t *testing.T) {
	h := hashtable.New(0, 2)
	h.InsertTuple([]ids.NodeID{1, 10, 20})
	h.InsertTuple([]ids.NodeID{1, 11, 21})
	h.InsertTuple([]ids.NodeID{2, 99, 98})

	block := h.GetBlock(1)
	require.Len(t, block.Tuples, 2)
	require.Equal(t, []ids.NodeID{10, 20}, block.Tuples[0])
	require.Equal(t, []ids.NodeID{11, 21}, block.Tuples[1])

	require.Len(t, h.GetBlock(2).Tuples, 1)
	require.Empty(t, h.GetBlock(3).Tuples)
	require.Equal(t, 3, h.NumTuples())
}
