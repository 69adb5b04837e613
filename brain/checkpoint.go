package brain

import (
	"time"

	"github.com/SynapticNetworks/plasticity-core/checkpoint"
	"github.com/SynapticNetworks/plasticity-core/learning"
)

// SaveCheckpoint pauses the tick loop (blocking any concurrent Tick call
// until this returns) and writes a full checkpoint to path, per spec §5's
// pause-for-checkpoint guarantee.
func (b *Brain) SaveCheckpoint(path string, runID string, episodeIdx uint64, now time.Time) error {
	b.pauseMu.Lock()
	defer b.pauseMu.Unlock()

	return checkpoint.Save(path, checkpoint.SaveInput{
		Regions:    b.Regions,
		Neurons:    b.Neurons,
		Synapses:   b.Synapses,
		Engine:     b.Engine.Cfg,
		Seed:       b.cfg.Seed,
		RunID:      runID,
		EpisodeIdx: episodeIdx,
		Step:       b.step,
	}, now)
}

// LoadCheckpoint pauses the tick loop and replaces the brain's region,
// neuron, and synapse stores and learning-engine configuration with the
// checkpoint's contents. The reward pipeline and telemetry sink are left
// running (they hold no substrate state).
func (b *Brain) LoadCheckpoint(path string) (checkpoint.Manifest, error) {
	b.pauseMu.Lock()
	defer b.pauseMu.Unlock()

	result, err := checkpoint.Load(path, b.actGuard, b.wGuard)
	if err != nil {
		return checkpoint.Manifest{}, err
	}

	b.Regions = result.Regions
	b.Neurons = result.Neurons
	b.Synapses = result.Synapses
	b.step = result.Manifest.Step

	b.Engine = learning.NewEngine(learning.CPUKernel{}, learning.NewNeuronView(b.Neurons), b.Synapses, b.Regions, result.Engine)

	return result.Manifest, nil
}
