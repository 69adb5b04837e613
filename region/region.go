// Package region groups a contiguous range of neuron ids under a name and
// hosts the per-region plasticity gains (spec §4, data model §3).
//
// BIOLOGICAL FRAMING:
// Cortical regions don't own their neurons in the memory-management sense
// — they are organizational groupings over a shared substrate, the way the
// teacher's extracellular.AstrocyteNetwork tracks spatial organization
// without owning the neurons it indexes. A Region here is even lighter: it
// holds a neuron-id range, not references, so region ids stay disjoint by
// construction rather than by runtime bookkeeping.
package region

import (
	"fmt"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// Region is a named, disjoint range of neuron ids plus the plasticity
// gains that apply to every neuron/synapse within it.
type Region struct {
	ID    types.RegionID
	Name  string
	Start types.NeuronID // inclusive
	End   types.NeuronID // exclusive

	// AttentionGain scales Hebbian updates for this region (spec §4.4.1),
	// in [0, GMax].
	AttentionGain float64
	HebbianRate   float64
}

// Contains reports whether n falls within this region's neuron range.
func (r Region) Contains(n types.NeuronID) bool {
	return n >= r.Start && n < r.End
}

// Size returns the number of neurons owned by this region.
func (r Region) Size() int {
	return int(r.End - r.Start)
}

// GMax bounds AttentionGain, per spec §6 ("scalar in [0, g_max]").
const GMax = 4.0

// Registry tracks all regions in a brain, enforcing the disjoint-neuron-id
// invariant from the data model table in spec §3.
type Registry struct {
	regions []Region
	byName  map[string]types.RegionID
}

// NewRegistry constructs an empty region registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]types.RegionID)}
}

// Add registers a new region spanning [start, end) neuron ids. Fails if the
// name is already taken or the range overlaps an existing region.
func (reg *Registry) Add(name string, start, end types.NeuronID, hebbianRate float64) (*Region, error) {
	if end <= start {
		return nil, fmt.Errorf("region: empty or inverted neuron range [%d, %d)", start, end)
	}
	if _, exists := reg.byName[name]; exists {
		return nil, fmt.Errorf("region: duplicate region name %q", name)
	}
	for _, other := range reg.regions {
		if start < other.End && other.Start < end {
			return nil, fmt.Errorf("region: neuron range [%d, %d) overlaps region %q [%d, %d)", start, end, other.Name, other.Start, other.End)
		}
	}

	r := Region{
		ID:            types.RegionID(len(reg.regions)),
		Name:          name,
		Start:         start,
		End:           end,
		AttentionGain: 1.0,
		HebbianRate:   hebbianRate,
	}
	reg.regions = append(reg.regions, r)
	reg.byName[name] = r.ID
	return &reg.regions[len(reg.regions)-1], nil
}

// ByName looks up a region by its unique name.
func (reg *Registry) ByName(name string) (*Region, bool) {
	id, ok := reg.byName[name]
	if !ok {
		return nil, false
	}
	return &reg.regions[id], true
}

// ByID looks up a region by id.
func (reg *Registry) ByID(id types.RegionID) (*Region, bool) {
	if int(id) >= len(reg.regions) {
		return nil, false
	}
	return &reg.regions[id], true
}

// Find returns the region that owns neuron n, if any.
func (reg *Registry) Find(n types.NeuronID) (*Region, bool) {
	for i := range reg.regions {
		if reg.regions[i].Contains(n) {
			return &reg.regions[i], true
		}
	}
	return nil, false
}

// All returns every registered region, in registration order. Callers must
// not mutate the returned slice's backing array beyond field updates on
// AttentionGain/HebbianRate (structural changes must go through Add).
func (reg *Registry) All() []Region {
	return reg.regions
}

// SetAttentionGain updates the per-region attention gain, clamped to
// [0, GMax] per spec §6.
func (reg *Registry) SetAttentionGain(id types.RegionID, gain float64) error {
	if int(id) >= len(reg.regions) {
		return fmt.Errorf("region: unknown region id %d", id)
	}
	if gain < 0 {
		gain = 0
	}
	if gain > GMax {
		gain = GMax
	}
	reg.regions[id].AttentionGain = gain
	return nil
}
