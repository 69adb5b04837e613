package learning

import (
	"runtime"
	"time"
)

// Config carries every per-rule rate and cadence named in spec §4.4 and
// §6. Defaults mirror the teacher's documented biological constants
// (synapse/plasticity.go's STDP boundary and timing constants) generalized
// from the teacher's channel-message model to this package's tick-based one.
type Config struct {
	// Hebbian (spec §4.4.1). The Hebbian kernel does not read EtaHebbian:
	// it uses each region's own HebbianRate, set by the caller of
	// region.Registry.Add, and a region whose HebbianRate is 0 has its
	// Hebbian weight updates frozen (spec §8 boundary behavior 9).
	// EtaHebbian is stored in checkpoints and manifests; no rule reads it.
	EtaHebbian float64

	// STDP (spec §4.4.2).
	APlus, AMinus     float64
	TauPlus, TauMinus time.Duration
	DeltaWMax         float32
	STDPWindow        time.Duration

	// Three-factor reward-modulated rule (spec §4.4.3).
	EtaEligibility          float64
	Lambda                  float64
	Kappa                   float64
	EligibilityPartialReset float64

	// Consolidation (spec §4.4.4).
	ConsolidationInterval time.Duration

	// Parallelism (spec §5): worker pool size for the Hebbian and reward
	// sweeps (STDP is applied one spike at a time on the calling
	// goroutine), default min(hw_concurrency, 8).
	Workers int
}

// DefaultConfig returns the package's documented defaults.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 1 {
		workers = 1
	}
	return Config{
		EtaHebbian: 0.01,

		APlus:      0.1,
		AMinus:     0.12,
		TauPlus:    20 * time.Millisecond,
		TauMinus:   20 * time.Millisecond,
		DeltaWMax:  0.5,
		STDPWindow: 50 * time.Millisecond,

		EtaEligibility:          0.05,
		Lambda:                  0.9,
		Kappa:                   0.2,
		EligibilityPartialReset: 0.5,

		ConsolidationInterval: 1 * time.Second,
		Workers:               workers,
	}
}
