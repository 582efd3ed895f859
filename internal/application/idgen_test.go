package application

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIDGenerator_StrictlyIncreasingWithinOneMillisecond(t *testing.T) {
	g := NewIDGenerator(0)
	fixed := time.UnixMilli(1_700_000_000_000)
	g.now = func() time.Time { return fixed }

	a, b, c := g.Next(), g.Next(), g.Next()
	require.Equal(t, fixed.UnixMilli(), a)
	require.Equal(t, a+1, b)
	require.Equal(t, b+1, c)
}

func TestIDGenerator_RespectsFloor(t *testing.T) {
	g := NewIDGenerator(5_000_000_000_000)
	g.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	require.Equal(t, int64(5_000_000_000_001), g.Next())
}

func TestIDGenerator_ClockStepsBack(t *testing.T) {
	g := NewIDGenerator(0)
	now := time.UnixMilli(2_000)
	g.now = func() time.Time { return now }
	first := g.Next()

	now = time.UnixMilli(1_000)
	require.Greater(t, g.Next(), first)
}

func TestIDGenerator_ConcurrentCallsAreUnique(t *testing.T) {
	g := NewIDGenerator(0)
	const n = 500

	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.Next()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, seen, n)
}
