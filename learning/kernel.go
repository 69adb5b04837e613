// Kernel is the pluggable-accelerator boundary spec §9's Open Question
// asks for: "no specific kernel semantics beyond numerical parity (±3%)
// with the CPU path at the observable-metrics level." Engine always talks
// to a Kernel; CPUKernel is the only implementation shipped here.
package learning

import (
	"context"
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"golang.org/x/sync/errgroup"
)

// SpikeHistoryView exposes a neuron's recent spike timestamps, satisfied by
// *neuronstore.SpikeHistory.
type SpikeHistoryView interface {
	Recent() []int64
}

// NeuronView is the minimal neuron-store surface learning kernels need.
type NeuronView interface {
	Activation(id types.NeuronID) float32
	History(id types.NeuronID) SpikeHistoryView
}

// SynapseView is the minimal synapse-store surface learning kernels need.
type SynapseView interface {
	Outgoing(n types.NeuronID) []types.SynapseID
	Incoming(n types.NeuronID) []types.SynapseID
	Pre(id types.SynapseID) types.NeuronID
	Post(id types.SynapseID) types.NeuronID
	Plastic(id types.SynapseID) bool
	GetWeight(id types.SynapseID) float32
	AddWeight(id types.SynapseID, dw float32, now int64)
	Eligibility(id types.SynapseID) float32
	SetEligibility(id types.SynapseID, e float32)
	Len() int
	ForEachPlastic(start, end types.SynapseID, fn func(types.SynapseID))
}

// Kernel performs the parallel, embarrassingly-parallel sweeps spec §5
// permits within a tick. HebbianSweep and ApplyReward must only touch
// disjoint synapse ranges across goroutines they spawn internally.
type Kernel interface {
	HebbianSweep(ctx context.Context, neurons NeuronView, synapses SynapseView, ranges []NeuronRange, dt time.Duration, now int64, cfg Config, stats *Stats) error
	ApplySTDP(synapses SynapseView, neurons NeuronView, ev types.SpikeEvent, cfg Config, stats *Stats)
	ApplyReward(synapses SynapseView, sum float64, now int64, cfg Config, stats *Stats) error
}

// NeuronRange is one region's neuron span plus its effective Hebbian rate
// and attention gain, handed to the kernel so it never needs to import
// package region (avoiding a dependency cycle: region is a pure data
// package, but keeping Kernel's input surface minimal also makes it easy to
// fake in tests).
type NeuronRange struct {
	Start, End    types.NeuronID
	HebbianRate   float64
	AttentionGain float64
}

// CPUKernel is the default, always-available accelerator implementation.
type CPUKernel struct{}

// HebbianSweep implements spec §4.4.1, parallelized over disjoint region
// ranges via errgroup (spec §5: "Hebbian sweep over disjoint synapse
// ranges... using a worker pool").
func (CPUKernel) HebbianSweep(ctx context.Context, neurons NeuronView, synapses SynapseView, ranges []NeuronRange, dt time.Duration, now int64, cfg Config, stats *Stats) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(maxInt(cfg.Workers, 1))

	for _, r := range ranges {
		r := r
		g.Go(func() error {
			hebbianRange(neurons, synapses, r, dt, cfg, stats, now)
			return nil
		})
	}
	return g.Wait()
}

func hebbianRange(neurons NeuronView, synapses SynapseView, r NeuronRange, dt time.Duration, cfg Config, stats *Stats, now int64) {
	if r.HebbianRate == 0 {
		// Still maintain eligibility traces even when Hebbian weight
		// updates are frozen — the three-factor rule depends on them.
		for n := r.Start; n < r.End; n++ {
			preAct := neurons.Activation(n)
			for _, synID := range synapses.Outgoing(n) {
				if !synapses.Plastic(synID) {
					continue
				}
				post := synapses.Post(synID)
				postAct := neurons.Activation(post)
				updateEligibility(synapses, synID, preAct, postAct, cfg)
			}
		}
		return
	}

	for n := r.Start; n < r.End; n++ {
		preAct := neurons.Activation(n)
		for _, synID := range synapses.Outgoing(n) {
			if !synapses.Plastic(synID) {
				continue
			}
			post := synapses.Post(synID)
			postAct := neurons.Activation(post)

			dw := float32(r.HebbianRate * float64(preAct) * float64(postAct) * dt.Seconds() * r.AttentionGain)
			if dw != 0 {
				synapses.AddWeight(synID, dw, now)
				stats.recordHebbian(float64(dw))
			}
			updateEligibility(synapses, synID, preAct, postAct, cfg)
		}
	}
}

func updateEligibility(synapses SynapseView, synID types.SynapseID, preAct, postAct float32, cfg Config) {
	prev := synapses.Eligibility(synID)
	next := float32(cfg.Lambda)*prev + float32(cfg.EtaEligibility)*preAct*postAct
	synapses.SetEligibility(synID, next)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
