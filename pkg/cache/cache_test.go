package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UNSW-database/graphlib/pkg/ids"
)

func TestNewZeroCapacity(t *testing.T) {
	_, err := New(Config{PageNum: 0, PageSize: 2})
	require.ErrorIs(t, err, ErrZeroCapacity)

	_, err = New(Config{PageNum: 2, PageSize: 0})
	require.ErrorIs(t, err, ErrZeroCapacity)
}

// TestShardingAndEviction: three ids landing in one shard of
// capacity two evict the oldest, and only its Get counts as a miss.
func TestShardingAndEviction(t *testing.T) {
	c, err := New(Config{PageNum: 4, PageSize: 2})
	require.NoError(t, err)

	c.Put(0, Entry{Neighbors: []ids.NodeID{1}})
	c.Put(4, Entry{Neighbors: []ids.NodeID{2}})
	c.Put(8, Entry{Neighbors: []ids.NodeID{3}}) // same shard (0 mod 4 == 4 mod 4 == 8 mod 4), evicts 0

	_, ok := c.Get(0)
	require.False(t, ok, "id 0 should have been evicted")

	v4, ok := c.Get(4)
	require.True(t, ok)
	require.Equal(t, []ids.NodeID{2}, v4.Neighbors)

	v8, ok := c.Get(8)
	require.True(t, ok)
	require.Equal(t, []ids.NodeID{3}, v8.Neighbors)

	require.EqualValues(t, 2, c.Hits())
	require.EqualValues(t, 1, c.Misses())
}

func TestGetMostRecentPut(t *testing.T) {
	c, err := New(Config{PageNum: 1, PageSize: 4})
	require.NoError(t, err)

	c.Put(1, Entry{Neighbors: []ids.NodeID{9}})
	c.Put(1, Entry{Neighbors: []ids.NodeID{9, 10}})

	v, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, []ids.NodeID{9, 10}, v.Neighbors)
}

func TestDegreeAndHasEdge(t *testing.T) {
	c, err := New(Config{PageNum: 2, PageSize: 4})
	require.NoError(t, err)

	c.Put(5, Entry{Neighbors: []ids.NodeID{1, 3, 7}})

	deg, ok := c.Degree(5)
	require.True(t, ok)
	require.Equal(t, 3, deg)

	_, ok = c.Degree(99)
	require.False(t, ok)

	has, cached := c.HasEdge(5, 3)
	require.True(t, cached)
	require.True(t, has)

	has, cached = c.HasEdge(5, 4)
	require.True(t, cached)
	require.False(t, has)

	_, cached = c.HasEdge(99, 3)
	require.False(t, cached)
}

func TestLenAndCapacity(t *testing.T) {
	c, err := New(Config{PageNum: 3, PageSize: 5})
	require.NoError(t, err)
	require.Equal(t, 15, c.Capacity())
	require.Equal(t, 0, c.Len())

	c.Put(0, Entry{})
	c.Put(1, Entry{})
	c.Put(2, Entry{})
	require.Equal(t, 3, c.Len())
}

func TestClear(t *testing.T) {
	c, err := New(Config{PageNum: 2, PageSize: 2})
	require.NoError(t, err)
	c.Put(0, Entry{})
	c.Put(1, Entry{})
	c.Clear()
	require.Equal(t, 0, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	c, err := New(Config{PageNum: 8, PageSize: 64})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := ids.NodeID(i*100 + j)
				c.Put(id, Entry{Neighbors: []ids.NodeID{id}})
				c.Get(id)
			}
		}(i)
	}
	wg.Wait()
}
