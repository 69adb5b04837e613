// Package connectivity builds and maintains inter-region synapse sets
// (spec §2 item 5, "Connectivity manager").
//
// BIOLOGICAL FRAMING:
// The teacher's extracellular.ExtracellularMatrix models synaptogenesis as
// a factory-function registry ("growth programs" indexed by connection
// type) invoked by a developmental controller. This package keeps that
// shape — a Program is a growth recipe, the Manager is the controller —
// but targets the dense synapsestore.Store instead of a
// map[string]component.SynapticProcessor, since the spec's connectivity
// manager must respect a hard fan-out cap enforced at the store level
// (spec §4.1 add_edge contract) rather than an unbounded map.
package connectivity

import (
	"fmt"
	"math/rand"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/region"
)

// EdgeAdder is the minimal synapsestore surface the manager needs.
type EdgeAdder interface {
	AddEdge(pre, post types.NeuronID, initialWeight float32, plastic bool) (types.SynapseID, error)
}

// Program is a synaptogenesis recipe: given a source and target region, it
// decides which neuron pairs to wire and with what initial weight.
type Program func(source, target region.Region, rng *rand.Rand) []Edge

// Edge is a single proposed connection, prior to fan-out-cap enforcement.
type Edge struct {
	Pre, Post     types.NeuronID
	InitialWeight float32
	Plastic       bool
}

// Manager coordinates growth programs against a synapse store.
type Manager struct {
	store EdgeAdder
	rng   *rand.Rand
}

// New builds a connectivity manager writing into store. seed makes growth
// deterministic for a given run (spec §4.7 checkpoint round-trip requires
// reproducible topology when rebuilding from a fresh seed).
func New(store EdgeAdder, seed int64) *Manager {
	return &Manager{store: store, rng: rand.New(rand.NewSource(seed))}
}

// Connect runs program over (source, target) and materializes every
// proposed edge through the synapse store, stopping at the first fan-out
// or validity failure and reporting how many edges were actually created.
func (m *Manager) Connect(source, target region.Region, program Program) (created int, err error) {
	for _, e := range program(source, target, m.rng) {
		if _, addErr := m.store.AddEdge(e.Pre, e.Post, e.InitialWeight, e.Plastic); addErr != nil {
			return created, fmt.Errorf("connectivity: growth program for %s->%s stopped after %d edges: %w", source.Name, target.Name, created, addErr)
		}
		created++
	}
	return created, nil
}

// RandomSparse returns a Program that wires each source neuron to a random
// subset of target neurons at the given connection probability and initial
// weight range [wMin, wMax), uniformly sampled.
func RandomSparse(probability float64, wMin, wMax float32, plastic bool) Program {
	return func(source, target region.Region, rng *rand.Rand) []Edge {
		var edges []Edge
		for pre := source.Start; pre < source.End; pre++ {
			for post := target.Start; post < target.End; post++ {
				if pre == post {
					continue
				}
				if rng.Float64() >= probability {
					continue
				}
				w := wMin + float32(rng.Float64())*(wMax-wMin)
				edges = append(edges, Edge{Pre: pre, Post: post, InitialWeight: w, Plastic: plastic})
			}
		}
		return edges
	}
}

// OneToOne returns a Program that pairs up source[i] with target[i] for as
// many neurons as the smaller region has, e.g. for wiring a sensory region
// directly onto a same-sized relay region.
func OneToOne(weight float32, plastic bool) Program {
	return func(source, target region.Region, _ *rand.Rand) []Edge {
		n := source.Size()
		if target.Size() < n {
			n = target.Size()
		}
		edges := make([]Edge, 0, n)
		for i := 0; i < n; i++ {
			edges = append(edges, Edge{
				Pre:           source.Start + types.NeuronID(i),
				Post:          target.Start + types.NeuronID(i),
				InitialWeight: weight,
				Plastic:       plastic,
			})
		}
		return edges
	}
}
