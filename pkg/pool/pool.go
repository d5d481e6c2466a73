// Package pool provides object pooling to reduce allocations in the
// query-plan executor.
//
// The only hot allocation on the per-tuple path is the probe tuple
// itself: each parallel plan copy owns one, and a deep plan re-derives
// it on every Scan-driven pipeline restart. Pooling that slice keeps
// the executor's steady state allocation-free.
package pool

import (
	"sync"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

// Config configures pooling behavior.
type Config struct {
	// Enabled controls whether pooling is active. Disabled pools
	// allocate fresh on every Get and discard on every Put, useful
	// for allocation-profiling a plan without the pool's reuse noise.
	Enabled bool

	// MaxSize caps the capacity of a slice this pool will retain on
	// Put; larger slices are dropped instead of pooled.
	MaxSize int
}

var globalConfig = Config{
	Enabled: true,
	MaxSize: 1000,
}

// Configure sets global pool configuration. Should be called once
// during initialization, before any query executes.
func Configure(cfg Config) {
	globalConfig = cfg
	nodeIDSlicePool = sync.Pool{
		New: func() any {
			return make([]ids.NodeID, 0, 16)
		},
	}
}

var nodeIDSlicePool = sync.Pool{
	New: func() any {
		return make([]ids.NodeID, 0, 16)
	},
}

// GetNodeIDSlice returns a []ids.NodeID of length n from the pool,
// zero-valued. Used to hand each parallel plan copy its own probe
// tuple buffer without allocating one from scratch per copy.
func GetNodeIDSlice(n int) []ids.NodeID {
	if !globalConfig.Enabled {
		return make([]ids.NodeID, n)
	}
	s := nodeIDSlicePool.Get().([]ids.NodeID)[:0]
	if cap(s) < n {
		return make([]ids.NodeID, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}

// PutNodeIDSlice returns a probe tuple to the pool.
func PutNodeIDSlice(s []ids.NodeID) {
	if !globalConfig.Enabled || s == nil {
		return
	}
	if cap(s) > globalConfig.MaxSize {
		return
	}
	nodeIDSlicePool.Put(s[:0])
}
