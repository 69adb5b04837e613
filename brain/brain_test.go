package brain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/neuronstore"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Telemetry.DBPath = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.Telemetry.ChannelCapacity = 16
	cfg.Learning.Workers = 1
	return cfg
}

func buildTwoNeuronBrain(t *testing.T) *Brain {
	t.Helper()
	b, err := New(testConfig(t), 4, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	a := b.Neurons.AddNeuron(neuronstore.DefaultConfig())
	c := b.Neurons.AddNeuron(neuronstore.DefaultConfig())
	_, err = b.Regions.Add("cortex", a, c+1, 0.05)
	require.NoError(t, err)
	_, err = b.Synapses.AddEdge(a, c, 1.0, true)
	require.NoError(t, err)
	return b
}

func TestTickProcessesNeuronsAndAdvancesStep(t *testing.T) {
	b := buildTwoNeuronBrain(t)
	require.Equal(t, uint64(0), b.Step())

	require.NoError(t, b.SetRegionInput(0, []float32{0.9, 0.0}))
	require.NoError(t, b.Tick(context.Background(), 5*time.Millisecond, time.Now()))
	require.Equal(t, uint64(1), b.Step())
}

func TestSetRegionInputRejectsShapeMismatch(t *testing.T) {
	b := buildTwoNeuronBrain(t)
	err := b.SetRegionInput(0, []float32{1.0})
	require.Error(t, err)
}

func TestSetRegionInputRejectsUnknownRegion(t *testing.T) {
	b := buildTwoNeuronBrain(t)
	err := b.SetRegionInput(99, []float32{})
	require.Error(t, err)
}

func TestPushTaskRewardQueuesAccumulatorForNextTick(t *testing.T) {
	b := buildTwoNeuronBrain(t)
	shaped, reason := b.PushTaskReward("explore", 0.5, []float64{0.1, 0.2, 0.3, 0.4}, time.Now())
	require.Equal(t, types.GateOK, reason)
	require.NotZero(t, shaped.Merged)

	require.NoError(t, b.Tick(context.Background(), 5*time.Millisecond, time.Now()))
}

func TestSetAttentionGainUpdatesRegion(t *testing.T) {
	b := buildTwoNeuronBrain(t)
	require.NoError(t, b.SetAttentionGain(0, 2.0))
	m, err := b.RegionMetricsByID(0)
	require.NoError(t, err)
	require.InDelta(t, 2.0, m.AttentionGain, 1e-9)
}

func TestSaveLoadCheckpointRoundTripsWhilePaused(t *testing.T) {
	b := buildTwoNeuronBrain(t)
	b.Synapses.SetWeight(0, 1.75, time.Now().UnixNano())

	dir := t.TempDir()
	path := dir + "/ckpt.bin"
	require.NoError(t, b.SaveCheckpoint(path, "run-1", 0, time.Now()))

	manifest, err := b.LoadCheckpoint(path)
	require.NoError(t, err)
	require.Equal(t, "run-1", manifest.RunID)
	require.Equal(t, 2, b.Neurons.Len())
	require.InDelta(t, 1.75, b.Synapses.GetWeight(0), 1e-4)
}

func TestStatsReflectsLearningEngineCounters(t *testing.T) {
	b := buildTwoNeuronBrain(t)
	snap := b.Stats()
	require.Equal(t, uint64(0), snap.TotalUpdates)
}
