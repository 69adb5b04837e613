// Package guardrail implements the single numerical choke point every
// synaptic weight write passes through (spec §4.1).
//
// BIOLOGICAL FRAMING:
// Real synapses cannot carry infinite or undefined strength — receptor
// density and postsynaptic density size impose hard physical bounds. The
// guardrail is the computational analogue of that physical limit: it clamps
// every write to [w_min, w_max] and, on a non-finite input (NaN/Inf,
// typically from an upstream numerical blow-up), rejects the write outright
// rather than propagating the corruption into the synapse store.
//
// This is the ONLY place weights enter the store. synapsestore.SetWeight and
// synapsestore.AddWeight both route through Clamp; there is no bypass path.
package guardrail

import (
	"math"
	"sync/atomic"
)

// Guardrail clamps weight writes to a configured range and counts rejections.
// Safe for concurrent use: the rejection counter is an atomic.Uint64.
type Guardrail struct {
	WMin, WMax float32
	rejections atomic.Uint64
}

// New builds a Guardrail for the given weight bounds. wMin must be <= wMax;
// callers are expected to validate configuration before construction.
func New(wMin, wMax float32) *Guardrail {
	return &Guardrail{WMin: wMin, WMax: wMax}
}

// Clamp enforces [WMin, WMax] and finiteness on w.
//
// If w is NaN or +/-Inf, prev is returned unchanged and ok is false; the
// caller must not write the returned value anywhere other than "keep what
// was already stored" and must increment nothing else — Clamp already
// bumped the rejection counter.
func Clamp(g *Guardrail, w, prev float32) (result float32, ok bool) {
	if math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
		g.rejections.Add(1)
		return prev, false
	}
	if w < g.WMin {
		return g.WMin, true
	}
	if w > g.WMax {
		return g.WMax, true
	}
	return w, true
}

// Rejections returns the total number of non-finite writes this guardrail
// has absorbed since construction. Exposed through LearningStats.
func (g *Guardrail) Rejections() uint64 {
	return g.rejections.Load()
}
