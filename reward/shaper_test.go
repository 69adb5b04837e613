package reward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

func TestShapeComputesWeightedSum(t *testing.T) {
	components := []types.RewardComponent{
		{Kind: types.RewardTeacher, Weight: 0.5, Value: 1.0},
		{Kind: types.RewardTask, Weight: 0.5, Value: 0.5},
	}
	shaped, err := Shape(components, 1, time.Now(), "test")
	require.NoError(t, err)
	require.InDelta(t, 0.75, shaped.Merged, 1e-9)
}

func TestShapeClampsToRMax(t *testing.T) {
	components := []types.RewardComponent{
		{Kind: types.RewardTeacher, Weight: 10, Value: 1.0},
	}
	shaped, err := Shape(components, 1, time.Now(), "test")
	require.NoError(t, err)
	require.Equal(t, RMax, shaped.Merged)
}

func TestShapeClampsToNegativeRMax(t *testing.T) {
	components := []types.RewardComponent{
		{Kind: types.RewardTask, Weight: 10, Value: -1.0},
	}
	shaped, err := Shape(components, 1, time.Now(), "test")
	require.NoError(t, err)
	require.Equal(t, -RMax, shaped.Merged)
}

func TestShapeRejectsNegativeWeight(t *testing.T) {
	components := []types.RewardComponent{
		{Kind: types.RewardTeacher, Weight: -1, Value: 1.0},
	}
	_, err := Shape(components, 1, time.Now(), "test")
	require.Error(t, err)
}
