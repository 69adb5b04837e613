package brain

import (
	"gonum.org/v1/gonum/stat"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/region"
)

func (b *Brain) regionMeanActivation(r region.Region) float64 {
	size := r.Size()
	if size == 0 {
		return 0
	}
	var sum float64
	for id := r.Start; id < r.End; id++ {
		sum += float64(b.Neurons.Activation(id))
	}
	return sum / float64(size)
}

func (b *Brain) regionFireCount(r region.Region) uint64 {
	var total uint64
	for id := r.Start; id < r.End; id++ {
		total += b.Neurons.Snapshot(id).FireCount
	}
	return total
}

func (b *Brain) regionActivations(r region.Region) []float64 {
	size := r.Size()
	if size == 0 {
		return nil
	}
	vals := make([]float64, size)
	for i := 0; i < size; i++ {
		vals[i] = float64(b.Neurons.Activation(r.Start + types.NeuronID(i)))
	}
	return vals
}

// regionCoherence scores how synchronized a region's neurons are right
// now: the inverse of their activation spread, via gonum/stat's standard
// deviation (spec §4.6/§6's per-region "coherence" metric). A region
// with every neuron at the same activation level scores 1; the score
// falls as activations spread apart, and since activations lie in [0, 1]
// it stays above about 0.58.
func (b *Brain) regionCoherence(r region.Region) float64 {
	vals := b.regionActivations(r)
	if len(vals) < 2 {
		return 1
	}
	return 1 / (1 + stat.StdDev(vals, nil))
}

// regionAssemblyCount counts the region's "assemblies": maximal
// contiguous runs of simultaneously Active neurons (spec GLOSSARY: "a
// transient group of co-active neurons whose count is exposed as a
// high-level metric"). anyActive reports whether the region has at
// least one Active neuron this tick, used by regionBindingCounts.
func (b *Brain) regionAssemblyCount(r region.Region) (count uint64, anyActive bool) {
	inRun := false
	for id := r.Start; id < r.End; id++ {
		if b.Neurons.Snapshot(id).State == types.Active {
			anyActive = true
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return count, anyActive
}

// regionBindingCounts returns, for every region, the number of other
// regions simultaneously holding at least one Active neuron — a binding
// is a cross-region co-activation event (spec GLOSSARY: "a cross-region
// co-activation event; counted for telemetry").
func (b *Brain) regionBindingCounts(regions []region.Region, anyActive []bool) map[types.RegionID]uint64 {
	counts := make(map[types.RegionID]uint64, len(regions))
	for i, r := range regions {
		if !anyActive[i] {
			counts[r.ID] = 0
			continue
		}
		var n uint64
		for j := range regions {
			if j != i && anyActive[j] {
				n++
			}
		}
		counts[r.ID] = n
	}
	return counts
}

// RegionMetrics is the diagnostic summary exposed for one region, used by
// cmd/brain's inspect subcommand, the substrate_states telemetry table,
// and any external telemetry consumer (spec §6 "Per-region aggregated
// metrics (coherence, assembly count, binding count)").
type RegionMetrics struct {
	RegionID       uint32
	Name           string
	NeuronCount    int
	MeanActivation float64
	FireCount      uint64
	AttentionGain  float64
	HebbianRate    float64

	Coherence      float64
	AssemblyCount  uint64
	BindingCount   uint64
	GrowthVelocity int64
}

// computeAllRegionMetrics builds a RegionMetrics snapshot for every
// region in one pass (binding counts are inherently cross-region) and
// updates the growth-velocity history used on the next call, per spec
// §4.6's "growth velocity = Δassemblies + Δbindings".
func (b *Brain) computeAllRegionMetrics() []RegionMetrics {
	regions := b.Regions.All()

	assemblyCounts := make([]uint64, len(regions))
	anyActive := make([]bool, len(regions))
	for i, r := range regions {
		assemblyCounts[i], anyActive[i] = b.regionAssemblyCount(r)
	}
	bindingCounts := b.regionBindingCounts(regions, anyActive)

	if b.metricHistory == nil {
		b.metricHistory = make(map[types.RegionID]regionMetricHistory, len(regions))
	}

	out := make([]RegionMetrics, len(regions))
	for i, r := range regions {
		assemblies := assemblyCounts[i]
		bindings := bindingCounts[r.ID]

		prev, seen := b.metricHistory[r.ID]
		var growth int64
		if seen {
			growth = int64(assemblies+bindings) - int64(prev.assemblies+prev.bindings)
		}
		b.metricHistory[r.ID] = regionMetricHistory{assemblies: assemblies, bindings: bindings}

		out[i] = RegionMetrics{
			RegionID:       uint32(r.ID),
			Name:           r.Name,
			NeuronCount:    r.Size(),
			MeanActivation: b.regionMeanActivation(r),
			FireCount:      b.regionFireCount(r),
			AttentionGain:  r.AttentionGain,
			HebbianRate:    r.HebbianRate,
			Coherence:      b.regionCoherence(r),
			AssemblyCount:  assemblies,
			BindingCount:   bindings,
			GrowthVelocity: growth,
		}
	}
	return out
}

// RegionMetricsByID returns a diagnostic snapshot for one region. Growth
// velocity reflects the change since the last time region metrics were
// computed for any region (via a Tick's telemetry recording or a prior
// call to this method).
func (b *Brain) RegionMetricsByID(id types.RegionID) (RegionMetrics, error) {
	if _, ok := b.Regions.ByID(id); !ok {
		return RegionMetrics{}, errRegionNotFound(id)
	}
	for _, m := range b.computeAllRegionMetrics() {
		if types.RegionID(m.RegionID) == id {
			return m, nil
		}
	}
	return RegionMetrics{}, errRegionNotFound(id)
}
