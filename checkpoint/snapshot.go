package checkpoint

import (
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/learning"
	"github.com/SynapticNetworks/plasticity-core/neuronstore"
	"github.com/SynapticNetworks/plasticity-core/region"
	"github.com/SynapticNetworks/plasticity-core/synapsestore"
)

// RegionDTO is the msgpack-serializable form of a region.Region.
type RegionDTO struct {
	ID            uint32  `msgpack:"id"`
	Name          string  `msgpack:"name"`
	Start         uint32  `msgpack:"start"`
	End           uint32  `msgpack:"end"`
	AttentionGain float64 `msgpack:"attention_gain"`
	HebbianRate   float64 `msgpack:"hebbian_rate"`
}

// NeuronDTO is the msgpack-serializable form of a neuronstore.Snapshot.
type NeuronDTO struct {
	Threshold        float32 `msgpack:"threshold"`
	DecayTauNanos     int64   `msgpack:"decay_tau_nanos"`
	RefractoryNanos   int64   `msgpack:"refractory_nanos"`
	FireAmplitude     float32 `msgpack:"fire_amplitude"`
	Activation        float32 `msgpack:"activation"`
	State             uint8   `msgpack:"state"`
	FireCount         uint64  `msgpack:"fire_count"`
	LastSpikeTime     int64   `msgpack:"last_spike_time"`
	RefractoryUntil   int64   `msgpack:"refractory_until"`
}

// SynapseDTO is the msgpack-serializable form of a single synapse edge.
type SynapseDTO struct {
	Pre         uint32  `msgpack:"pre"`
	Post        uint32  `msgpack:"post"`
	Weight      float32 `msgpack:"weight"`
	Plastic     bool    `msgpack:"plastic"`
	Eligibility float32 `msgpack:"eligibility"`
}

// EngineParamsDTO mirrors learning.Config with duration fields flattened
// to nanoseconds for stable wire encoding.
type EngineParamsDTO struct {
	EtaHebbian              float64 `msgpack:"eta_hebbian"`
	APlus                   float64 `msgpack:"a_plus"`
	AMinus                  float64 `msgpack:"a_minus"`
	TauPlusNanos            int64   `msgpack:"tau_plus_nanos"`
	TauMinusNanos           int64   `msgpack:"tau_minus_nanos"`
	DeltaWMax               float32 `msgpack:"delta_w_max"`
	STDPWindowNanos         int64   `msgpack:"stdp_window_nanos"`
	EtaEligibility          float64 `msgpack:"eta_eligibility"`
	Lambda                  float64 `msgpack:"lambda"`
	Kappa                   float64 `msgpack:"kappa"`
	EligibilityPartialReset float64 `msgpack:"eligibility_partial_reset"`
	ConsolidationNanos      int64   `msgpack:"consolidation_interval_nanos"`
	Workers                 int     `msgpack:"workers"`
}

// RNGStateDTO holds the seed a connectivity.Manager was constructed with.
// Regrowing topology from the same seed and the same growth programs
// reproduces the original connectivity deterministically (spec §4.7).
type RNGStateDTO struct {
	Seed int64 `msgpack:"seed"`
}

// BuildRegionDTOs converts every region in reg to its wire form.
func BuildRegionDTOs(reg *region.Registry) []RegionDTO {
	regions := reg.All()
	out := make([]RegionDTO, len(regions))
	for i, r := range regions {
		out[i] = RegionDTO{
			ID:            uint32(r.ID),
			Name:          r.Name,
			Start:         uint32(r.Start),
			End:           uint32(r.End),
			AttentionGain: r.AttentionGain,
			HebbianRate:   r.HebbianRate,
		}
	}
	return out
}

// ApplyRegionDTOs rebuilds a region registry from its wire form.
func ApplyRegionDTOs(dtos []RegionDTO) (*region.Registry, error) {
	reg := region.NewRegistry()
	for _, d := range dtos {
		if _, err := reg.Add(d.Name, types.NeuronID(d.Start), types.NeuronID(d.End), d.HebbianRate); err != nil {
			return nil, err
		}
		if err := reg.SetAttentionGain(types.RegionID(d.ID), d.AttentionGain); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// BuildNeuronDTOs snapshots every neuron in store to its wire form.
func BuildNeuronDTOs(store *neuronstore.Store) []NeuronDTO {
	n := store.Len()
	out := make([]NeuronDTO, n)
	for i := 0; i < n; i++ {
		snap := store.Snapshot(types.NeuronID(i))
		out[i] = NeuronDTO{
			Threshold:       snap.Config.Threshold,
			DecayTauNanos:   snap.Config.DecayTau.Nanoseconds(),
			RefractoryNanos: snap.Config.RefractoryPeriod.Nanoseconds(),
			FireAmplitude:   snap.Config.FireAmplitude,
			Activation:      snap.Activation,
			State:           uint8(snap.State),
			FireCount:       snap.FireCount,
			LastSpikeTime:   snap.LastSpikeTime,
			RefractoryUntil: snap.RefractoryUntil,
		}
	}
	return out
}

// RestoreNeurons rebuilds a neuron store from its wire form into an
// already-constructed (empty) store, one AddNeuron+Restore pair per DTO.
func RestoreNeurons(store *neuronstore.Store, dtos []NeuronDTO) {
	for _, d := range dtos {
		cfg := neuronstore.NeuronConfig{
			Threshold:        d.Threshold,
			DecayTau:         time.Duration(d.DecayTauNanos),
			RefractoryPeriod: time.Duration(d.RefractoryNanos),
			FireAmplitude:    d.FireAmplitude,
		}
		id := store.AddNeuron(cfg)
		store.Restore(id, neuronstore.Snapshot{
			Config:          cfg,
			Activation:      d.Activation,
			State:           types.NeuronState(d.State),
			FireCount:       d.FireCount,
			LastSpikeTime:   d.LastSpikeTime,
			RefractoryUntil: d.RefractoryUntil,
		})
	}
}

// BuildSynapseDTOs snapshots every synapse in store to its wire form.
func BuildSynapseDTOs(store *synapsestore.Store) []SynapseDTO {
	n := store.Len()
	out := make([]SynapseDTO, n)
	for i := 0; i < n; i++ {
		id := types.SynapseID(i)
		out[i] = SynapseDTO{
			Pre:         uint32(store.Pre(id)),
			Post:        uint32(store.Post(id)),
			Weight:      store.GetWeight(id),
			Plastic:     store.Plastic(id),
			Eligibility: store.Eligibility(id),
		}
	}
	return out
}

// RestoreSynapses rebuilds a synapse store from its wire form into an
// already-constructed (empty) store, preserving edge order so ids match
// the original indices.
func RestoreSynapses(store *synapsestore.Store, dtos []SynapseDTO) error {
	for _, d := range dtos {
		id, err := store.AddEdge(types.NeuronID(d.Pre), types.NeuronID(d.Post), d.Weight, d.Plastic)
		if err != nil {
			return err
		}
		store.SetWeight(id, d.Weight, 0)
		store.SetEligibility(id, d.Eligibility)
	}
	return nil
}

// BuildEngineParamsDTO flattens a learning.Config to its wire form.
func BuildEngineParamsDTO(cfg learning.Config) EngineParamsDTO {
	return EngineParamsDTO{
		EtaHebbian:              cfg.EtaHebbian,
		APlus:                   cfg.APlus,
		AMinus:                  cfg.AMinus,
		TauPlusNanos:            cfg.TauPlus.Nanoseconds(),
		TauMinusNanos:           cfg.TauMinus.Nanoseconds(),
		DeltaWMax:               cfg.DeltaWMax,
		STDPWindowNanos:         cfg.STDPWindow.Nanoseconds(),
		EtaEligibility:          cfg.EtaEligibility,
		Lambda:                  cfg.Lambda,
		Kappa:                   cfg.Kappa,
		EligibilityPartialReset: cfg.EligibilityPartialReset,
		ConsolidationNanos:      cfg.ConsolidationInterval.Nanoseconds(),
		Workers:                 cfg.Workers,
	}
}

// ApplyEngineParamsDTO expands a wire-form EngineParamsDTO back into a
// learning.Config. Any field absent from an older container (zero value
// after msgpack decode) is filled with DefaultConfig's value, per spec
// §4.7's forward-compatible default-filling contract.
func ApplyEngineParamsDTO(d EngineParamsDTO) learning.Config {
	defaults := learning.DefaultConfig()
	cfg := learning.Config{
		EtaHebbian:              orDefault(d.EtaHebbian, defaults.EtaHebbian),
		APlus:                   orDefault(d.APlus, defaults.APlus),
		AMinus:                  orDefault(d.AMinus, defaults.AMinus),
		TauPlus:                 orDefaultDuration(d.TauPlusNanos, defaults.TauPlus),
		TauMinus:                orDefaultDuration(d.TauMinusNanos, defaults.TauMinus),
		DeltaWMax:               orDefaultF32(d.DeltaWMax, defaults.DeltaWMax),
		STDPWindow:              orDefaultDuration(d.STDPWindowNanos, defaults.STDPWindow),
		EtaEligibility:          orDefault(d.EtaEligibility, defaults.EtaEligibility),
		Lambda:                  orDefault(d.Lambda, defaults.Lambda),
		Kappa:                   orDefault(d.Kappa, defaults.Kappa),
		EligibilityPartialReset: orDefault(d.EligibilityPartialReset, defaults.EligibilityPartialReset),
		ConsolidationInterval:   orDefaultDuration(d.ConsolidationNanos, defaults.ConsolidationInterval),
		Workers:                 d.Workers,
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	return cfg
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultF32(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultDuration(nanos int64, def time.Duration) time.Duration {
	if nanos == 0 {
		return def
	}
	return time.Duration(nanos)
}
