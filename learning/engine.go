package learning

import (
	"context"
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/region"
)

// Engine orchestrates the three plasticity rules over a shared Kernel,
// neuron/synapse view, and region registry, per spec §4.4 and §5's fixed
// per-tick ordering: reward consumption, then the Hebbian sweep, then STDP
// for every spike raised during the tick. Consolidation runs on its own
// cadence (spec §4.4.4), never interleaved with a tick's weight updates.
type Engine struct {
	Kernel   Kernel
	Neurons  NeuronView
	Synapses SynapseView
	Regions  *region.Registry
	Cfg      Config
	Stats    *Stats

	lastConsolidation time.Time
	prevWeights       []float32
}

// NewEngine wires a ready-to-run learning engine. kernel may be nil, in
// which case CPUKernel{} is used.
func NewEngine(kernel Kernel, neurons NeuronView, synapses SynapseView, regions *region.Registry, cfg Config) *Engine {
	if kernel == nil {
		kernel = CPUKernel{}
	}
	return &Engine{
		Kernel:   kernel,
		Neurons:  neurons,
		Synapses: synapses,
		Regions:  regions,
		Cfg:      cfg,
		Stats:    &Stats{},
	}
}

// Tick advances learning by one engine step: consumes this tick's shaped
// reward (if any), runs the Hebbian sweep over every region's neuron range
// in parallel, then applies pairwise STDP for every spike the tick
// produced. now/nowNanos are the tick's monotonic timestamp; spikes is the
// ordered list of spikes raised during this tick (see brain.Brain.Tick).
func (e *Engine) Tick(ctx context.Context, dt time.Duration, now int64, rewardSum float64, spikes []types.SpikeEvent) error {
	if rewardSum != 0 {
		if err := e.Kernel.ApplyReward(e.Synapses, rewardSum, now, e.Cfg, e.Stats); err != nil {
			return err
		}
	}

	ranges := e.neuronRanges()
	if len(ranges) > 0 {
		if err := e.Kernel.HebbianSweep(ctx, e.Neurons, e.Synapses, ranges, dt, now, e.Cfg, e.Stats); err != nil {
			return err
		}
	}

	for _, ev := range spikes {
		e.Kernel.ApplySTDP(e.Synapses, e.Neurons, ev, e.Cfg, e.Stats)
	}

	return nil
}

func (e *Engine) neuronRanges() []NeuronRange {
	regions := e.Regions.All()
	ranges := make([]NeuronRange, len(regions))
	for i, r := range regions {
		ranges[i] = NeuronRange{
			Start:         r.Start,
			End:           r.End,
			HebbianRate:   r.HebbianRate,
			AttentionGain: r.AttentionGain,
		}
	}
	return ranges
}
