package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	orig := globalConfig
	defer Configure(orig)

	Configure(Config{Enabled: true, MaxSize: 500})
	require.Equal(t, 500, globalConfig.MaxSize)

	Configure(Config{Enabled: false, MaxSize: 1000})
	require.False(t, globalConfig.Enabled)
}

func TestNodeIDSlicePool(t *testing.T) {
	orig := globalConfig
	defer Configure(orig)
	Configure(Config{Enabled: true, MaxSize: 1000})

	t.Run("get returns zero-valued slice of requested length", func(t *testing.T) {
		s := GetNodeIDSlice(4)
		require.Len(t, s, 4)
		for _, v := range s {
			require.EqualValues(t, 0, v)
		}
		PutNodeIDSlice(s)
	})

	t.Run("reuse does not leak prior contents", func(t *testing.T) {
		s := GetNodeIDSlice(3)
		s[0], s[1], s[2] = 7, 8, 9
		PutNodeIDSlice(s)

		s2 := GetNodeIDSlice(3)
		for _, v := range s2 {
			require.EqualValues(t, 0, v)
		}
		PutNodeIDSlice(s2)
	})

	t.Run("oversized slice not pooled", func(t *testing.T) {
		Configure(Config{Enabled: true, MaxSize: 2})
		defer Configure(Config{Enabled: true, MaxSize: 1000})

		s := GetNodeIDSlice(50)
		PutNodeIDSlice(s) // must not panic; simply dropped
	})

	t.Run("disabled pooling still allocates correctly", func(t *testing.T) {
		Configure(Config{Enabled: false, MaxSize: 1000})
		defer Configure(Config{Enabled: true, MaxSize: 1000})

		s := GetNodeIDSlice(5)
		require.Len(t, s, 5)
		PutNodeIDSlice(s)
	})

	t.Run("nil put does not panic", func(t *testing.T) {
		PutNodeIDSlice(nil)
	})
}

func TestNodeIDSlicePoolConcurrent(t *testing.T) {
	Configure(Config{Enabled: true, MaxSize: 1000})
	defer Configure(Config{Enabled: true, MaxSize: 1000})

	const goroutines, iterations = 50, 100
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				s := GetNodeIDSlice(8)
				s[0] = 1
				PutNodeIDSlice(s)
			}
		}()
	}
	wg.Wait()
}
