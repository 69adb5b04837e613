package learning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/neuronstore"
	"github.com/SynapticNetworks/plasticity-core/region"
	"github.com/SynapticNetworks/plasticity-core/synapsestore"
)

func newHarness(t *testing.T, hebbianRate float64) (*neuronstore.Store, *synapsestore.Store, *region.Registry, NeuronView) {
	t.Helper()
	actGuard := guardrail.New(0, 1)
	wGuard := guardrail.New(synapsestore.DefaultMinWeight, synapsestore.DefaultMaxWeight)

	neurons := neuronstore.New(actGuard)
	a := neurons.AddNeuron(neuronstore.DefaultConfig())
	b := neurons.AddNeuron(neuronstore.DefaultConfig())
	require.Equal(t, types.NeuronID(0), a)
	require.Equal(t, types.NeuronID(1), b)

	synapses := synapsestore.New(wGuard, 0, neurons.Valid)
	_, err := synapses.AddEdge(a, b, 1.0, true)
	require.NoError(t, err)

	regions := region.NewRegistry()
	_, err = regions.Add("all", 0, 2, hebbianRate)
	require.NoError(t, err)

	return neurons, synapses, regions, NewNeuronView(neurons)
}

func TestHebbianSweepUpdatesPlasticWeightProportionalToActivations(t *testing.T) {
	neurons, synapses, regions, view := newHarness(t, 0.5)
	neurons.AddInput(0, 1.0)
	neurons.AddInput(1, 1.0)
	// Process once so activation reflects the injected input (Process
	// consumes pendingInput/externalInput into activation).
	fake := fakeEdgesFrom(synapses)
	bus := &discardBus{}
	require.NoError(t, neurons.Process(0, time.Millisecond, time.Now(), 1, fake, bus))
	require.NoError(t, neurons.Process(1, time.Millisecond, time.Now(), 1, fake, bus))

	cfg := DefaultConfig()
	cfg.EtaHebbian = 0 // unused directly; region carries its own rate
	stats := &Stats{}

	ranges := []NeuronRange{{Start: 0, End: 2, HebbianRate: regions.All()[0].HebbianRate, AttentionGain: 1.0}}
	err := CPUKernel{}.HebbianSweep(context.Background(), view, synapses, ranges, 10*time.Millisecond, 2, cfg, stats)
	require.NoError(t, err)

	w := synapses.GetWeight(0)
	require.Greater(t, w, float32(1.0), "Hebbian potentiation should raise the weight above its initial value")
	require.Equal(t, uint64(1), stats.Snapshot(0).HebbianUpdates)
}

func TestHebbianSweepFreezesWeightsWhenRateZeroButStillUpdatesEligibility(t *testing.T) {
	neurons, synapses, regions, view := newHarness(t, 0)
	neurons.AddInput(0, 1.0)
	neurons.AddInput(1, 1.0)
	fake := fakeEdgesFrom(synapses)
	bus := &discardBus{}
	require.NoError(t, neurons.Process(0, time.Millisecond, time.Now(), 1, fake, bus))
	require.NoError(t, neurons.Process(1, time.Millisecond, time.Now(), 1, fake, bus))

	cfg := DefaultConfig()
	stats := &Stats{}
	before := synapses.GetWeight(0)

	ranges := []NeuronRange{{Start: 0, End: 2, HebbianRate: regions.All()[0].HebbianRate, AttentionGain: 1.0}}
	require.NoError(t, CPUKernel{}.HebbianSweep(context.Background(), view, synapses, ranges, 10*time.Millisecond, 2, cfg, stats))

	require.Equal(t, before, synapses.GetWeight(0), "eta_hebbian=0 must freeze weights")
	require.Equal(t, uint64(0), stats.Snapshot(0).HebbianUpdates)
	require.Greater(t, synapses.Eligibility(0), float32(0), "eligibility trace must still accumulate")
}

func TestApplySTDPPotentiatesOnCausalOrdering(t *testing.T) {
	neurons, synapses, _, view := newHarness(t, 0.1)
	cfg := DefaultConfig()
	stats := &Stats{}

	// Pre (neuron 0) fired at t=0; post (neuron 1) fires now at t=5ms.
	neurons.History(0).Recent() // warm path, not required
	recordSpike(t, neurons, 0, 0)

	before := synapses.GetWeight(0)
	ev := types.SpikeEvent{NeuronID: 1, MonotonicNanos: int64(5 * time.Millisecond)}
	CPUKernel{}.ApplySTDP(synapses, view, ev, cfg, stats)

	after := synapses.GetWeight(0)
	require.Greater(t, after, before, "pre-before-post ordering must potentiate (LTP)")
	require.Equal(t, uint64(1), stats.Snapshot(0).STDPUpdates)
}

func TestApplySTDPDepressesOnAntiCausalOrdering(t *testing.T) {
	neurons, synapses, _, view := newHarness(t, 0.1)
	cfg := DefaultConfig()
	stats := &Stats{}

	// Post (neuron 1) fired first at t=0; pre (neuron 0) fires now at t=5ms,
	// making this an anti-causal (LTD) pairing from neuron 0's perspective.
	recordSpike(t, neurons, 1, 0)

	before := synapses.GetWeight(0)
	ev := types.SpikeEvent{NeuronID: 0, MonotonicNanos: int64(5 * time.Millisecond)}
	CPUKernel{}.ApplySTDP(synapses, view, ev, cfg, stats)

	after := synapses.GetWeight(0)
	require.Less(t, after, before, "post-before-pre ordering must depress (LTD)")
}

func TestApplyRewardConsumesEligibilityAndPartiallyResetsIt(t *testing.T) {
	_, synapses, _, _ := newHarness(t, 0.1)
	synapses.SetEligibility(0, 0.5)
	cfg := DefaultConfig()
	cfg.Kappa = 0.2
	cfg.EligibilityPartialReset = 0.5
	stats := &Stats{}

	before := synapses.GetWeight(0)
	require.NoError(t, CPUKernel{}.ApplyReward(synapses, 1.0, 10, cfg, stats))

	after := synapses.GetWeight(0)
	require.InDelta(t, float64(before)+0.10, float64(after), 1e-4)
	require.InDelta(t, 0.25, float64(synapses.Eligibility(0)), 1e-6)
	require.Equal(t, uint64(1), stats.Snapshot(0).RewardUpdates)
}

func TestApplyRewardIsNoOpForZeroSum(t *testing.T) {
	_, synapses, _, _ := newHarness(t, 0.1)
	synapses.SetEligibility(0, 0.5)
	cfg := DefaultConfig()
	stats := &Stats{}

	before := synapses.GetWeight(0)
	require.NoError(t, CPUKernel{}.ApplyReward(synapses, 0, 10, cfg, stats))
	require.Equal(t, before, synapses.GetWeight(0))
	require.Equal(t, float32(0.5), synapses.Eligibility(0))
}

func recordSpike(t *testing.T, neurons *neuronstore.Store, id types.NeuronID, at int64) {
	t.Helper()
	fake := &noopEdges{}
	require.NoError(t, neurons.Process(id, 0, time.Now(), at, fake, &discardBus{}))
	// Process alone won't cross threshold without input; force a spike via a
	// direct external input injection then a second Process call.
	neurons.AddInput(id, 10.0)
	require.NoError(t, neurons.Process(id, 0, time.Now(), at, fake, &discardBus{}))
}

type noopEdges struct{}

func (noopEdges) Outgoing(types.NeuronID) []types.SynapseID { return nil }
func (noopEdges) Post(types.SynapseID) types.NeuronID        { return 0 }
func (noopEdges) GetWeight(types.SynapseID) float32          { return 0 }

type discardBus struct{}

func (*discardBus) Publish(types.SpikeEvent) error { return nil }

func fakeEdgesFrom(s *synapsestore.Store) neuronstore.OutgoingEdges { return s }
