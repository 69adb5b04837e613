package reward

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccumulatorSumsConcurrentDeliveries(t *testing.T) {
	a := NewAccumulator()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Deliver(0.01)
		}()
	}
	wg.Wait()

	sum, count := a.Consume()
	require.InDelta(t, 1.0, sum, 1e-9)
	require.Equal(t, uint64(100), count)
}

func TestAccumulatorConsumeResetsState(t *testing.T) {
	a := NewAccumulator()
	a.Deliver(1.0)
	sum, count := a.Consume()
	require.Equal(t, 1.0, sum)
	require.Equal(t, uint64(1), count)

	sum, count = a.Consume()
	require.Equal(t, 0.0, sum)
	require.Equal(t, uint64(0), count)
}
