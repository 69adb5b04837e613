package learning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

func TestEngineTickAppliesRewardThenHebbianThenSTDP(t *testing.T) {
	_, synapses, regions, view := newHarness(t, 0.1)
	synapses.SetEligibility(0, 1.0)

	cfg := DefaultConfig()
	cfg.Kappa = 0.1
	e := NewEngine(CPUKernel{}, view, synapses, regions, cfg)

	before := synapses.GetWeight(0)
	spikes := []types.SpikeEvent{{NeuronID: 1, MonotonicNanos: int64(time.Millisecond)}}

	err := e.Tick(context.Background(), time.Millisecond, int64(2*time.Millisecond), 1.0, spikes)
	require.NoError(t, err)

	after := synapses.GetWeight(0)
	require.Greater(t, after, before, "reward consumption should push the single plastic synapse upward (activations are zero and no spike history exists, so Hebbian and STDP leave it unchanged)")

	snap := e.Stats.Snapshot(0)
	require.Equal(t, uint64(1), snap.RewardUpdates)
}

func TestEngineTickIsNoOpForZeroRewardAndNoSpikes(t *testing.T) {
	_, synapses, regions, view := newHarness(t, 0)
	cfg := DefaultConfig()
	e := NewEngine(CPUKernel{}, view, synapses, regions, cfg)

	before := synapses.GetWeight(0)
	require.NoError(t, e.Tick(context.Background(), time.Millisecond, 1, 0, nil))
	require.Equal(t, before, synapses.GetWeight(0))
}
