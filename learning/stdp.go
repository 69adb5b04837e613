package learning

import (
	"math"
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// ApplySTDP implements spec §4.4.2 for a single spike event: it scans the
// bounded recent-spike window of every neuron connected to the firing
// neuron (as either its pre- or post-synaptic partner) and applies the
// pairwise exponential STDP rule. The |Δw| applied across this single
// event is clamped to cfg.DeltaWMax in total (spec: "Total |Δw| per event
// is clamped to a configured Δw_max").
func (CPUKernel) ApplySTDP(synapses SynapseView, neurons NeuronView, ev types.SpikeEvent, cfg Config, stats *Stats) {
	var used float32

	apply := func(synID types.SynapseID, dt time.Duration) {
		dtSec := dt.Seconds()
		var dw float32
		switch {
		case dtSec > 0:
			dw = float32(cfg.APlus * math.Exp(-dtSec/cfg.TauPlus.Seconds()))
		case dtSec < 0:
			dw = float32(-cfg.AMinus * math.Exp(dtSec/cfg.TauMinus.Seconds()))
		default:
			return
		}

		remaining := cfg.DeltaWMax - used
		if remaining <= 0 {
			return
		}
		mag := dw
		if mag < 0 {
			mag = -mag
		}
		if mag > remaining {
			if dw < 0 {
				dw = -remaining
			} else {
				dw = remaining
			}
			mag = remaining
		}
		used += mag

		synapses.AddWeight(synID, dw, ev.MonotonicNanos)
		stats.recordSTDP(float64(dw))
	}

	windowNanos := cfg.STDPWindow.Nanoseconds()

	// ev.NeuronID is post-synaptic to each of its incoming edges: a recent
	// pre-synaptic spike before this one is causal (LTP).
	for _, synID := range synapses.Incoming(ev.NeuronID) {
		pre := synapses.Pre(synID)
		if !synapses.Plastic(synID) {
			continue
		}
		for _, tPre := range neurons.History(pre).Recent() {
			delta := ev.MonotonicNanos - tPre
			if delta < 0 {
				delta = -delta
			}
			if delta > windowNanos {
				continue
			}
			apply(synID, time.Duration(ev.MonotonicNanos-tPre))
		}
	}

	// ev.NeuronID is pre-synaptic to each of its outgoing edges: a recent
	// post-synaptic spike before this one is anti-causal (LTD).
	for _, synID := range synapses.Outgoing(ev.NeuronID) {
		if !synapses.Plastic(synID) {
			continue
		}
		post := synapses.Post(synID)
		for _, tPost := range neurons.History(post).Recent() {
			delta := tPost - ev.MonotonicNanos
			if delta < 0 {
				delta = -delta
			}
			if delta > windowNanos {
				continue
			}
			apply(synID, time.Duration(tPost-ev.MonotonicNanos))
		}
	}
}
