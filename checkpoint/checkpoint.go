package checkpoint

import (
	"fmt"
	"os"
	"time"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/learning"
	"github.com/SynapticNetworks/plasticity-core/neuronstore"
	"github.com/SynapticNetworks/plasticity-core/region"
	"github.com/SynapticNetworks/plasticity-core/synapsestore"
)

// Section names, stable across versions.
const (
	SectionRegions  = "regions"
	SectionNeurons  = "neurons"
	SectionSynapses = "synapses"
	SectionEngine   = "engine_params"
	SectionRNG      = "rng_state"
)

// SaveInput bundles every piece of brain state a checkpoint captures.
type SaveInput struct {
	Regions  *region.Registry
	Neurons  *neuronstore.Store
	Synapses *synapsestore.Store
	Engine   learning.Config
	Seed     int64

	RunID      string
	EpisodeIdx uint64
	Step       uint64
}

// Save writes both the binary container (at path) and its YAML manifest
// companion (at ManifestPath(path)), pausing is the caller's
// responsibility (spec §5: "checkpoint save/load... the loop is paused").
func Save(path string, in SaveInput, now time.Time) error {
	regionsSec, err := EncodeSection(SectionRegions, BuildRegionDTOs(in.Regions))
	if err != nil {
		return err
	}
	neuronDTOs := BuildNeuronDTOs(in.Neurons)
	neuronsSec, err := EncodeSection(SectionNeurons, neuronDTOs)
	if err != nil {
		return err
	}
	synapseDTOs := BuildSynapseDTOs(in.Synapses)
	synapsesSec, err := EncodeSection(SectionSynapses, synapseDTOs)
	if err != nil {
		return err
	}
	engineSec, err := EncodeSection(SectionEngine, BuildEngineParamsDTO(in.Engine))
	if err != nil {
		return err
	}
	rngSec, err := EncodeSection(SectionRNG, RNGStateDTO{Seed: in.Seed})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, now.UnixNano(), []Section{regionsSec, neuronsSec, synapsesSec, engineSec, rngSec}); err != nil {
		return err
	}

	manifest := Manifest{
		RunID:        in.RunID,
		EpisodeIdx:   in.EpisodeIdx,
		Step:         in.Step,
		CreatedAt:    now,
		NeuronCount:  len(neuronDTOs),
		SynapseCount: len(synapseDTOs),
		RegionCount:  len(in.Regions.All()),
		Config: map[string]string{
			"eta_hebbian": fmt.Sprintf("%v", in.Engine.EtaHebbian),
			"workers":     fmt.Sprintf("%d", in.Engine.Workers),
		},
	}
	return WriteManifest(ManifestPath(path), manifest)
}

// LoadResult is every piece of brain state Load rebuilds from a checkpoint.
type LoadResult struct {
	Regions  *region.Registry
	Neurons  *neuronstore.Store
	Synapses *synapsestore.Store
	Engine   learning.Config
	Seed     int64
	Manifest Manifest
}

// Load reads a checkpoint container and its manifest, reconstructing a
// complete brain state. actGuard and wGuard are the activation and weight
// guardrails the fresh stores will use (checkpoints do not serialize
// guardrail configuration — it is fixed by the deployment, not the run).
func Load(path string, actGuard, wGuard *guardrail.Guardrail) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	defer f.Close()

	container, err := Read(f)
	if err != nil {
		return LoadResult{}, err
	}

	var regionDTOs []RegionDTO
	if data, ok := container.Sections[SectionRegions]; ok {
		if err := DecodeSection(data, &regionDTOs); err != nil {
			return LoadResult{}, err
		}
	}
	regions, err := ApplyRegionDTOs(regionDTOs)
	if err != nil {
		return LoadResult{}, err
	}

	var neuronDTOs []NeuronDTO
	if data, ok := container.Sections[SectionNeurons]; ok {
		if err := DecodeSection(data, &neuronDTOs); err != nil {
			return LoadResult{}, err
		}
	}
	neurons := neuronstore.New(actGuard)
	RestoreNeurons(neurons, neuronDTOs)

	var synapseDTOs []SynapseDTO
	if data, ok := container.Sections[SectionSynapses]; ok {
		if err := DecodeSection(data, &synapseDTOs); err != nil {
			return LoadResult{}, err
		}
	}
	synapses := synapsestore.New(wGuard, 0, neurons.Valid)
	if err := RestoreSynapses(synapses, synapseDTOs); err != nil {
		return LoadResult{}, err
	}

	var engineDTO EngineParamsDTO
	if data, ok := container.Sections[SectionEngine]; ok {
		if err := DecodeSection(data, &engineDTO); err != nil {
			return LoadResult{}, err
		}
	}
	engineCfg := ApplyEngineParamsDTO(engineDTO)

	var rngDTO RNGStateDTO
	if data, ok := container.Sections[SectionRNG]; ok {
		if err := DecodeSection(data, &rngDTO); err != nil {
			return LoadResult{}, err
		}
	}

	manifest, err := ReadManifest(ManifestPath(path))
	if err != nil {
		return LoadResult{}, err
	}

	return LoadResult{
		Regions:  regions,
		Neurons:  neurons,
		Synapses: synapses,
		Engine:   engineCfg,
		Seed:     rngDTO.Seed,
		Manifest: manifest,
	}, nil
}
