// Package cache implements a sharded concurrent LRU holding per-node
// neighbor lists and property blobs keyed by NodeID. The RPC graph
// client caches remote neighbor lists in it; the property store does
// not read through it.
//
// Each shard is an independently locked `hashicorp/golang-lru/v2`
// cache, which evicts synchronously on Add: a shard holds at most
// PageSize entries at every instant, so the whole cache never exceeds
// PageNum * PageSize entries plus amortized LRU metadata.
package cache

import (
	"errors"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

// ErrZeroCapacity is returned by New when PageNum or PageSize is not
// positive.
var ErrZeroCapacity = errors.New("cache: zero capacity")

// Config configures a Cache.
type Config struct {
	// PageNum is the number of independently-locked shards.
	PageNum int
	// PageSize is the maximum number of entries retained per shard.
	PageSize int
}

// Entry is the cached payload: either a neighbor list (what
// pkg/rpcgraph stores) or a property blob.
type Entry struct {
	Neighbors []ids.NodeID
	Property  []byte
}

// Cache is a sharded, concurrent LRU over Entry values keyed by NodeID.
// Shard index is id mod PageNum.
type Cache struct {
	pageSize int
	shards   []*lru.Cache[ids.NodeID, Entry]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New constructs a Cache per Config. Returns ErrZeroCapacity if either
// dimension is non-positive.
func New(cfg Config) (*Cache, error) {
	if cfg.PageNum <= 0 || cfg.PageSize <= 0 {
		return nil, ErrZeroCapacity
	}
	c := &Cache{
		pageSize: cfg.PageSize,
		shards:   make([]*lru.Cache[ids.NodeID, Entry], cfg.PageNum),
	}
	for i := range c.shards {
		shard, err := lru.New[ids.NodeID, Entry](cfg.PageSize)
		if err != nil {
			return nil, err
		}
		c.shards[i] = shard
	}
	return c, nil
}

func (c *Cache) shardFor(id ids.NodeID) *lru.Cache[ids.NodeID, Entry] {
	return c.shards[int(id)%len(c.shards)]
}

// Put inserts or updates the entry for id, evicting the shard's least
// recently used entry if the shard is at capacity.
func (c *Cache) Put(id ids.NodeID, value Entry) {
	c.shardFor(id).Add(id, value)
}

// Get returns the entry for id and records a hit or miss. A hit moves
// the entry to the front of its shard's LRU order.
func (c *Cache) Get(id ids.NodeID) (Entry, bool) {
	v, ok := c.shardFor(id).Get(id)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Remove evicts id from its shard, if present.
func (c *Cache) Remove(id ids.NodeID) {
	c.shardFor(id).Remove(id)
}

// Clear empties every shard. Hit/miss counters are left untouched —
// they are process-wide introspection counters, not shard state.
func (c *Cache) Clear() {
	for _, s := range c.shards {
		s.Purge()
	}
}

// Degree returns len(neighbors) for a cached neighbor-list entry. It
// goes through Get, which records the hit or miss.
func (c *Cache) Degree(id ids.NodeID) (int, bool) {
	e, ok := c.Get(id)
	if !ok {
		return 0, false
	}
	return len(e.Neighbors), true
}

// HasEdge reports whether dst appears in src's cached neighbor list.
// Returns false, false if src is not cached (the caller — typically
// pkg/rpcgraph — must then fall back to a remote or local lookup).
func (c *Cache) HasEdge(src, dst ids.NodeID) (bool, bool) {
	e, ok := c.Get(src)
	if !ok {
		return false, false
	}
	for _, n := range e.Neighbors {
		if n == dst {
			return true, true
		}
		if n > dst {
			break // neighbor lists are sorted ascending
		}
	}
	return false, true
}

// Len returns the total number of entries currently cached across all
// shards.
func (c *Cache) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Capacity returns page_num * page_size, the maximum possible entry
// count.
func (c *Cache) Capacity() int {
	return len(c.shards) * c.pageSize
}

// Hits returns the process-wide hit counter.
func (c *Cache) Hits() uint64 { return c.hits.Load() }

// Misses returns the process-wide miss counter.
func (c *Cache) Misses() uint64 { return c.misses.Load() }
