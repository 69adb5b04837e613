// Package neuronstore implements the dense per-neuron activation/threshold/
// refractory arena from spec §4.2.
//
// BIOLOGICAL FRAMING:
// A biological neuron integrates postsynaptic potentials continuously and
// fires an all-or-nothing action potential once its membrane potential
// crosses threshold, after which it is briefly unable to fire again
// (absolute refractory period). This package models that as a discrete
// per-tick batch update over a dense array — the teacher's
// goroutine-per-neuron channel model is replaced (spec §9: "no hidden
// globals, no global spike callback") with an explicit SpikeBus handed to
// Process at call time, and with downstream activation delivered as a
// pending-input accumulator consumed on the downstream neuron's next
// Process call (later in the same tick when that neuron is processed after
// this one, otherwise on the following tick) rather than an in-flight
// channel send.
package neuronstore

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// SpikeBus is the minimal surface Process needs to publish spikes. Backed by
// package spikebus in production; fakeable in tests.
type SpikeBus interface {
	Publish(ev types.SpikeEvent) error
}

// OutgoingEdges is the minimal surface Process needs from the synapse store:
// the post-neuron and current weight of each outgoing edge of a firing
// neuron, so activation can be scaled and propagated.
type OutgoingEdges interface {
	Outgoing(n types.NeuronID) []types.SynapseID
	Post(id types.SynapseID) types.NeuronID
	GetWeight(id types.SynapseID) float32
}

// SpikeHistory records a neuron's own firing timestamps within a bounded
// window, consulted by the learning engine's STDP sweep (spec §4.4.2).
type SpikeHistory struct {
	mu    sync.Mutex
	times []int64 // monotonic nanos, oldest first
}

func (h *SpikeHistory) record(nanos int64, window time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.times = append(h.times, nanos)
	cutoff := nanos - window.Nanoseconds()
	i := 0
	for i < len(h.times) && h.times[i] < cutoff {
		i++
	}
	if i > 0 {
		h.times = append([]int64(nil), h.times[i:]...)
	}
}

// Recent returns a copy of the spike timestamps still within the window.
func (h *SpikeHistory) Recent() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int64, len(h.times))
	copy(out, h.times)
	return out
}

// Store is the dense neuron arena.
type Store struct {
	guard *guardrail.Guardrail // protects the activation value itself

	mu sync.RWMutex

	activation       []float32
	threshold        []float32
	decayTau         []time.Duration
	refractoryPeriod []time.Duration
	refractoryUntil  []int64 // monotonic nanos
	fireCount        []uint64
	lastSpikeTime    []int64
	state            []types.NeuronState
	fireAmplitude    []float32

	pendingInput  []float32
	externalInput []float32

	history []*SpikeHistory
}

// New constructs an empty store. guard must be configured with bounds
// [0, 1] — it clamps the activation value itself, using the same
// clamp+finite primitive as the synapse-weight guardrail (spec §4.1) but a
// distinct instance and counter, since activation and weight are different
// quantities with different bounds.
func New(guard *guardrail.Guardrail) *Store {
	return &Store{guard: guard}
}

// NeuronConfig configures a single neuron at creation time.
type NeuronConfig struct {
	Threshold        float32
	DecayTau         time.Duration
	RefractoryPeriod time.Duration
	FireAmplitude    float32
}

// DefaultConfig returns the package defaults.
func DefaultConfig() NeuronConfig {
	return NeuronConfig{
		Threshold:        DefaultThreshold,
		DecayTau:         DefaultDecayTau,
		RefractoryPeriod: DefaultRefractoryPeriod,
		FireAmplitude:    DefaultFireAmplitude,
	}
}

// AddNeuron appends a new neuron in the Inactive state and returns its id.
func (s *Store) AddNeuron(cfg NeuronConfig) types.NeuronID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.NeuronID(len(s.activation))
	s.activation = append(s.activation, 0)
	s.threshold = append(s.threshold, cfg.Threshold)
	s.decayTau = append(s.decayTau, cfg.DecayTau)
	s.refractoryPeriod = append(s.refractoryPeriod, cfg.RefractoryPeriod)
	s.refractoryUntil = append(s.refractoryUntil, 0)
	s.fireCount = append(s.fireCount, 0)
	s.lastSpikeTime = append(s.lastSpikeTime, 0)
	s.state = append(s.state, types.Inactive)
	s.fireAmplitude = append(s.fireAmplitude, cfg.FireAmplitude)
	s.pendingInput = append(s.pendingInput, 0)
	s.externalInput = append(s.externalInput, 0)
	s.history = append(s.history, &SpikeHistory{})
	return id
}

// Len returns the number of neurons in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activation)
}

// Valid reports whether id names an existing neuron. Matches the
// synapsestore.ValidNeuron signature so a Store can be used directly as a
// synapsestore validator.
func (s *Store) Valid(id types.NeuronID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int(id) < len(s.activation)
}

// AddInput injects external drive (e.g. sensory features pushed via
// brain.Brain.SetRegionInput) to be consumed on the neuron's next Process
// call.
func (s *Store) AddInput(id types.NeuronID, value float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.externalInput[id] += value
}

// Activation, Threshold, State, FireCount, LastSpikeTime are plain readers.
func (s *Store) Activation(id types.NeuronID) float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activation[id]
}
func (s *Store) State(id types.NeuronID) types.NeuronState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[id]
}
func (s *Store) FireCount(id types.NeuronID) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fireCount[id]
}
func (s *Store) LastSpikeTime(id types.NeuronID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSpikeTime[id]
}
func (s *Store) History(id types.NeuronID) *SpikeHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history[id]
}

// Snapshot captures everything needed to restore a neuron exactly, for
// checkpoint round-tripping (spec §4.7).
type Snapshot struct {
	Config          NeuronConfig
	Activation      float32
	State           types.NeuronState
	FireCount       uint64
	LastSpikeTime   int64
	RefractoryUntil int64
}

// Snapshot returns a point-in-time copy of neuron id's full state.
func (s *Store) Snapshot(id types.NeuronID) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Config: NeuronConfig{
			Threshold:        s.threshold[id],
			DecayTau:         s.decayTau[id],
			RefractoryPeriod: s.refractoryPeriod[id],
			FireAmplitude:    s.fireAmplitude[id],
		},
		Activation:      s.activation[id],
		State:           s.state[id],
		FireCount:       s.fireCount[id],
		LastSpikeTime:   s.lastSpikeTime[id],
		RefractoryUntil: s.refractoryUntil[id],
	}
}

// Restore overwrites an already-created neuron's dynamic state from a
// Snapshot. The neuron must already exist (via AddNeuron using snap.Config)
// — Restore never changes the store's length.
func (s *Store) Restore(id types.NeuronID, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold[id] = snap.Config.Threshold
	s.decayTau[id] = snap.Config.DecayTau
	s.refractoryPeriod[id] = snap.Config.RefractoryPeriod
	s.fireAmplitude[id] = snap.Config.FireAmplitude
	s.activation[id] = snap.Activation
	s.state[id] = snap.State
	s.fireCount[id] = snap.FireCount
	s.lastSpikeTime[id] = snap.LastSpikeTime
	s.refractoryUntil[id] = snap.RefractoryUntil
}

// Process steps a single neuron by dt, per spec §4.2's five-step contract.
// now/nowNanos is the tick's monotonic timestamp. Incoming activity is the
// sum of pendingInput (accumulated in-place by upstream neurons firing
// earlier this tick, via edges below) and externalInput (set directly by
// callers such as Brain.SetRegionInput). edges is used only on a firing
// transition, to propagate this neuron's amplitude to its downstream
// neurons' pending-input buffers.
func (s *Store) Process(id types.NeuronID, dt time.Duration, now time.Time, nowNanos int64, edges OutgoingEdges, bus SpikeBus) error {
	s.mu.Lock()
	summed := s.pendingInput[id] + s.externalInput[id]
	s.pendingInput[id] = 0
	s.externalInput[id] = 0

	decay := float32(math.Exp(-dt.Seconds() / s.decayTau[id].Seconds()))
	a := s.activation[id]*decay + summed
	clamped, _ := guardrail.Clamp(s.guard, a, s.activation[id])
	s.activation[id] = clamped

	state := s.state[id]
	threshold := s.threshold[id]
	fireAmplitude := s.fireAmplitude[id]
	refractoryPeriod := s.refractoryPeriod[id]

	var fired bool
	if state == types.Inactive && clamped >= threshold {
		s.state[id] = types.Active
		s.fireCount[id]++
		s.lastSpikeTime[id] = nowNanos
		s.refractoryUntil[id] = nowNanos + refractoryPeriod.Nanoseconds()
		fired = true
	} else if state == types.Refractory && nowNanos >= s.refractoryUntil[id] {
		s.state[id] = types.Inactive
	}
	s.mu.Unlock()

	if !fired {
		return nil
	}

	s.history[id].record(nowNanos, SpikeHistoryWindow)

	if err := bus.Publish(types.SpikeEvent{NeuronID: id, Timestamp: now, MonotonicNanos: nowNanos}); err != nil {
		return fmt.Errorf("neuronstore: spike dropped for neuron %d: %w", id, err)
	}

	for _, synID := range edges.Outgoing(id) {
		post := edges.Post(synID)
		w := edges.GetWeight(synID)
		s.mu.Lock()
		s.pendingInput[post] += w * fireAmplitude
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.state[id] = types.Refractory
	s.mu.Unlock()

	return nil
}
