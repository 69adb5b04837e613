// Package synapsestore implements the dense, index-addressed directed-edge
// container from spec §4.1.
//
// BIOLOGICAL FRAMING:
// Synapses and neurons form a cyclic graph (a post-synaptic neuron is often
// also presynaptic to others). Rather than modeling that cycle with owning
// pointers — which Go cannot express without breaking GC-friendliness and
// concurrency — every synapse stores plain neuron indices into a separate
// neuron arena. This package owns only the edges; neuronstore owns the
// vertices. Weight writes are value types routed through guardrail.Clamp,
// which is the only way a weight ever changes (spec §4.1 key algorithm).
package synapsestore

import (
	"fmt"
	"sync"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// ValidNeuron reports whether id names an existing neuron. The store only
// needs this as a predicate at edge-creation time — it never owns neurons.
type ValidNeuron func(id types.NeuronID) bool

// Store is the dense synapse arena. All slices are indexed by
// types.SynapseID. A single RWMutex guards structural changes (AddEdge);
// every weight read or write also takes that synapse's own mutex from
// weightLocks, so writes to distinct synapses proceed concurrently and
// writes to the same synapse are serialized.
type Store struct {
	guard *guardrail.Guardrail

	mu        sync.RWMutex
	pre       []types.NeuronID
	post      []types.NeuronID
	weight    []float32
	plastic   []bool
	elig      []float32
	lastWrite []int64 // monotonic nanos of last weight write

	outgoing map[types.NeuronID][]types.SynapseID
	incoming map[types.NeuronID][]types.SynapseID
	fanOut   map[types.NeuronID]int

	fanOutCap int
	validFn   ValidNeuron

	// weightLocks holds one *sync.Mutex per synapse, appended alongside the
	// other parallel slices. Storing pointers (not sync.Mutex values) means
	// growing this slice only ever copies pointers, never live lock state,
	// so it is safe to append to concurrently with s.mu held.
	weightLocks []*sync.Mutex
}

// New constructs an empty store. fanOutCap<=0 means DefaultFanOutCap.
func New(guard *guardrail.Guardrail, fanOutCap int, valid ValidNeuron) *Store {
	if fanOutCap <= 0 {
		fanOutCap = DefaultFanOutCap
	}
	return &Store{
		guard:     guard,
		outgoing:  make(map[types.NeuronID][]types.SynapseID),
		incoming:  make(map[types.NeuronID][]types.SynapseID),
		fanOut:    make(map[types.NeuronID]int),
		fanOutCap: fanOutCap,
		validFn:   valid,
	}
}

// AddEdge creates a new directed plastic or static edge. Fails if pre==post,
// if either endpoint is not a valid neuron id, or if pre's fan-out cap would
// be exceeded.
func (s *Store) AddEdge(pre, post types.NeuronID, initialWeight float32, plastic bool) (types.SynapseID, error) {
	if pre == post {
		return 0, fmt.Errorf("synapsestore: self-edge not allowed (pre==post==%d)", pre)
	}
	if s.validFn != nil {
		if !s.validFn(pre) {
			return 0, fmt.Errorf("synapsestore: invalid pre neuron id %d", pre)
		}
		if !s.validFn(post) {
			return 0, fmt.Errorf("synapsestore: invalid post neuron id %d", post)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fanOut[pre] >= s.fanOutCap {
		return 0, fmt.Errorf("synapsestore: fan-out cap (%d) exceeded for neuron %d", s.fanOutCap, pre)
	}

	w, _ := guardrail.Clamp(s.guard, initialWeight, 0)

	id := types.SynapseID(len(s.pre))
	s.pre = append(s.pre, pre)
	s.post = append(s.post, post)
	s.weight = append(s.weight, w)
	s.plastic = append(s.plastic, plastic)
	s.elig = append(s.elig, 0)
	s.lastWrite = append(s.lastWrite, 0)
	s.weightLocks = append(s.weightLocks, &sync.Mutex{})

	s.outgoing[pre] = append(s.outgoing[pre], id)
	s.incoming[post] = append(s.incoming[post], id)
	s.fanOut[pre]++

	return id, nil
}

// SetWeight routes w through the guardrail and writes the clamped result.
// now is a monotonic timestamp (nanoseconds) recorded as LastUpdate.
//
// Takes s.mu for read (structural resize safety: AddEdge holds it for
// write) plus the per-synapse lock (same-synapse write serialization, the
// rare case a tick's partitioning doesn't already rule out).
func (s *Store) SetWeight(id types.SynapseID, w float32, now int64) {
	s.mu.RLock()
	lock := s.weightLocks[id]
	s.mu.RUnlock()

	lock.Lock()
	defer lock.Unlock()
	clamped, _ := guardrail.Clamp(s.guard, w, s.weight[id])
	s.weight[id] = clamped
	s.lastWrite[id] = now
}

// AddWeight is equivalent to SetWeight(id, GetWeight(id)+dw, now) but atomic
// with respect to concurrent writers of the same synapse.
func (s *Store) AddWeight(id types.SynapseID, dw float32, now int64) {
	s.mu.RLock()
	lock := s.weightLocks[id]
	s.mu.RUnlock()

	lock.Lock()
	defer lock.Unlock()
	clamped, _ := guardrail.Clamp(s.guard, s.weight[id]+dw, s.weight[id])
	s.weight[id] = clamped
	s.lastWrite[id] = now
}

// GetWeight returns the current weight of synapse id.
func (s *Store) GetWeight(id types.SynapseID) float32 {
	s.mu.RLock()
	lock := s.weightLocks[id]
	s.mu.RUnlock()

	lock.Lock()
	defer lock.Unlock()
	return s.weight[id]
}

// Eligibility returns the current eligibility trace for synapse id.
func (s *Store) Eligibility(id types.SynapseID) float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elig[id]
}

// SetEligibility overwrites the eligibility trace for synapse id. Used by
// the three-factor rule (spec §4.4.3) to update and partially decay e.
func (s *Store) SetEligibility(id types.SynapseID, e float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.elig[id] = e
}

// Pre, Post, Plastic, LastUpdate are plain field accessors.
func (s *Store) Pre(id types.SynapseID) types.NeuronID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pre[id]
}
func (s *Store) Post(id types.SynapseID) types.NeuronID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.post[id]
}
func (s *Store) Plastic(id types.SynapseID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plastic[id]
}
func (s *Store) LastUpdate(id types.SynapseID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWrite[id]
}

// Len returns the number of edges created so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pre)
}

// Outgoing returns the (shared, read-only by convention) slice of synapse
// ids whose pre-synaptic neuron is n. Callers must not mutate the slice.
func (s *Store) Outgoing(n types.NeuronID) []types.SynapseID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outgoing[n]
}

// Incoming returns the synapse ids whose post-synaptic neuron is n.
func (s *Store) Incoming(n types.NeuronID) []types.SynapseID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incoming[n]
}

// Guardrail exposes the store's guardrail for statistics reporting.
func (s *Store) Guardrail() *guardrail.Guardrail { return s.guard }

// ForEachPlastic calls fn for every plastic synapse id in [start, end).
// Used by the learning engine's reward sweep (CPUKernel.ApplyReward) to
// partition work into disjoint ranges for worker-pool parallelism (spec §5).
func (s *Store) ForEachPlastic(start, end types.SynapseID, fn func(types.SynapseID)) {
	s.mu.RLock()
	n := types.SynapseID(len(s.pre))
	if end > n {
		end = n
	}
	var flags []bool
	if end > start {
		flags = append(flags, s.plastic[start:end]...)
	}
	s.mu.RUnlock()

	for i, plastic := range flags {
		if plastic {
			fn(start + types.SynapseID(i))
		}
	}
}
