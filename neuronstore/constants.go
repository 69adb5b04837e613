package neuronstore

import "time"

// Defaults carried from the teacher's constants_neuron.go membrane-dynamics
// documentation: a leaky-integrator time constant in the 10-20ms biological
// range and a 5-15ms absolute refractory period.
const (
	DefaultThreshold        float32       = 0.5
	DefaultDecayTau         time.Duration = 15 * time.Millisecond
	DefaultRefractoryPeriod time.Duration = 5 * time.Millisecond
	DefaultFireAmplitude    float32       = 1.0

	// SpikeHistoryWindow bounds how long a neuron's recent-spike history is
	// retained for STDP lookups (spec §3 SpikeEvent lifecycle).
	SpikeHistoryWindow = 200 * time.Millisecond
)
