package reward

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineSimilarityIdenticalVectorsIsOne(t *testing.T) {
	a := []float64{1, 2, 3}
	require.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)
}

func TestCosineSimilarityOrthogonalVectorsIsZero(t *testing.T) {
	require.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
}

func TestCosineSimilarityOppositeVectorsIsNegativeOne(t *testing.T) {
	require.InDelta(t, -1.0, CosineSimilarity([]float64{1, 2}, []float64{-1, -2}), 1e-9)
}

func TestCosineSimilarityZeroVectorIsZero(t *testing.T) {
	require.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func TestNoveltyTrackerDecreasesAsInputsRepeat(t *testing.T) {
	nt := NewNoveltyTracker(2)
	first := nt.Observe([]float64{1, 0})
	require.Equal(t, 1.0, first, "first observation has no baseline, maximally novel")

	var last float64
	for i := 0; i < 10; i++ {
		last = nt.Observe([]float64{1, 0})
	}
	require.Less(t, last, first, "repeated identical input should become less novel")
}
