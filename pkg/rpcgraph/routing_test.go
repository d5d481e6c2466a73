package rpcgraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNSW-database/graphlib/pkg/ids"
	"github.com/UNSW-database/graphlib/pkg/rpcgraph"
)

// TestProcessorOfAndIsLocal pins the routing arithmetic exactly:
// machines=3, workers=2, self_processor=1.
// id=5: processor = (5/2) mod 3 = 2 mod 3 = 2, not local.
// id=2: processor = (2/2) mod 3 = 1 mod 3 = 1, local.
func TestProcessorOfAndIsLocal(t *testing.T) {
	require.Equal(t, 2, rpcgraph.ProcessorOf(5, 2, 3))
	require.False(t, rpcgraph.IsLocal(5, 2, 3, 1))

	require.Equal(t, 1, rpcgraph.ProcessorOf(2, 2, 3))
	require.True(t, rpcgraph.IsLocal(2, 2, 3, 1))
}

// TestRoutingExactlyOneLocalProcessor: for every id and client
// configuration, exactly one processor satisfies IsLocal(id).
func TestRoutingExactlyOneLocalProcessor(t *testing.T) {
	const workers, machines = 3, 4
	for id := ids.NodeID(0); id < 100; id++ {
		localCount := 0
		for self := 0; self < machines; self++ {
			if rpcgraph.IsLocal(id, workers, machines, self) {
				localCount++
			}
		}
		require.Equal(t, 1, localCount, "id %d must have exactly one local processor", id)
	}
}
