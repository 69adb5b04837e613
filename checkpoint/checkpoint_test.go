package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/learning"
	"github.com/SynapticNetworks/plasticity-core/neuronstore"
	"github.com/SynapticNetworks/plasticity-core/region"
	"github.com/SynapticNetworks/plasticity-core/synapsestore"
)

func buildFixture(t *testing.T) SaveInput {
	t.Helper()
	actGuard := guardrail.New(0, 1)
	wGuard := guardrail.New(synapsestore.DefaultMinWeight, synapsestore.DefaultMaxWeight)

	neurons := neuronstore.New(actGuard)
	a := neurons.AddNeuron(neuronstore.DefaultConfig())
	b := neurons.AddNeuron(neuronstore.DefaultConfig())
	neurons.AddInput(a, 0.9)

	synapses := synapsestore.New(wGuard, 0, neurons.Valid)
	_, err := synapses.AddEdge(a, b, 1.25, true)
	require.NoError(t, err)
	synapses.SetEligibility(0, 0.33)

	regions := region.NewRegistry()
	_, err = regions.Add("cortex", 0, 2, 0.02)
	require.NoError(t, err)
	require.NoError(t, regions.SetAttentionGain(0, 2.0))

	return SaveInput{
		Regions:  regions,
		Neurons:  neurons,
		Synapses: synapses,
		Engine:   learning.DefaultConfig(),
		Seed:     42,
		RunID:    "run-abc",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	in := buildFixture(t)
	path := filepath.Join(t.TempDir(), "ckpt.bin")
	now := time.Unix(1700000000, 0)

	require.NoError(t, Save(path, in, now))

	actGuard := guardrail.New(0, 1)
	wGuard := guardrail.New(synapsestore.DefaultMinWeight, synapsestore.DefaultMaxWeight)
	result, err := Load(path, actGuard, wGuard)
	require.NoError(t, err)

	require.Equal(t, 2, result.Neurons.Len())
	require.Equal(t, 1, result.Synapses.Len())
	require.InDelta(t, 1.25, result.Synapses.GetWeight(0), 1e-4)
	require.InDelta(t, 0.33, result.Synapses.Eligibility(0), 1e-4)
	require.Equal(t, int64(42), result.Seed)
	require.Equal(t, "run-abc", result.Manifest.RunID)
	require.Equal(t, 2, result.Manifest.NeuronCount)

	r, ok := result.Regions.ByName("cortex")
	require.True(t, ok)
	require.InDelta(t, 2.0, r.AttentionGain, 1e-9)
	require.InDelta(t, 0.02, r.HebbianRate, 1e-9)

	require.InDelta(t, in.Engine.EtaHebbian, result.Engine.EtaHebbian, 1e-9)
	require.Equal(t, in.Engine.Workers, result.Engine.Workers)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a checkpoint"), 0o644))

	actGuard := guardrail.New(0, 1)
	wGuard := guardrail.New(synapsestore.DefaultMinWeight, synapsestore.DefaultMaxWeight)
	_, err := Load(path, actGuard, wGuard)
	require.Error(t, err)
}
