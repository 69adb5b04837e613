package learning

import (
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// ConsolidationThreshold is the minimum |Δw| since the last pass for a
// synapse to count as potentiated or depressed rather than merely active.
const ConsolidationThreshold = 0.01

// DueForConsolidation reports whether at least Cfg.ConsolidationInterval
// has elapsed since the last consolidation pass.
func (e *Engine) DueForConsolidation(now time.Time) bool {
	return now.Sub(e.lastConsolidation) >= e.Cfg.ConsolidationInterval
}

// Consolidate runs the bucket-classification sweep from spec §4.4.4: it
// compares every plastic synapse's current weight against the snapshot
// taken at the previous call and updates Stats' active/potentiated/
// depressed counters. It never modifies weights or eligibility traces —
// consolidation is purely observational bookkeeping, run on its own
// cadence, decoupled from the per-tick Hebbian/STDP/reward updates.
func (e *Engine) Consolidate(now time.Time) {
	n := e.Synapses.Len()
	if cap(e.prevWeights) < n {
		grown := make([]float32, n)
		copy(grown, e.prevWeights)
		e.prevWeights = grown
	} else {
		e.prevWeights = e.prevWeights[:n]
	}

	var active, potentiated, depressed uint64
	for id := 0; id < n; id++ {
		sid := types.SynapseID(id)
		if !e.Synapses.Plastic(sid) {
			continue
		}
		active++

		w := e.Synapses.GetWeight(sid)
		prev := e.prevWeights[id]
		delta := w - prev
		if delta < 0 {
			delta = -delta
		}
		switch {
		case delta < ConsolidationThreshold:
			// stable, no counter bump beyond active
		case w > prev:
			potentiated++
		default:
			depressed++
		}
		e.prevWeights[id] = w
	}

	e.Stats.recordConsolidation(active, potentiated, depressed)
	e.lastConsolidation = now
}
