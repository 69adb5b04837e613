package brain

import (
	"fmt"
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/learning"
	"github.com/SynapticNetworks/plasticity-core/reward"
)

func errRegionNotFound(id types.RegionID) error {
	return fmt.Errorf("brain: region %d not found", id)
}

// SetRegionInput injects one input value per neuron in the named region,
// in neuron-id order. len(values) must equal the region's neuron count.
func (b *Brain) SetRegionInput(id types.RegionID, values []float32) error {
	r, ok := b.Regions.ByID(id)
	if !ok {
		return errRegionNotFound(id)
	}
	if len(values) != r.Size() {
		return fmt.Errorf("brain: region %d expects %d inputs, got %d", id, r.Size(), len(values))
	}
	for i, v := range values {
		b.Neurons.AddInput(r.Start+types.NeuronID(i), v)
	}
	return nil
}

// SetAttentionGain updates a region's Hebbian attention gain, clamped to
// [0, region.GMax] by the registry.
func (b *Brain) SetAttentionGain(id types.RegionID, gain float64) error {
	return b.Regions.SetAttentionGain(id, gain)
}

// SetTeacherEmbedding sets the reward pipeline's reference embedding used
// for teacher-similarity shaping.
func (b *Brain) SetTeacherEmbedding(embedding []float64) {
	b.Reward.SetTeacherEmbedding(embedding)
}

// SetActionFilter installs the action-gating policy the reward pipeline
// consults before delivering a task reward. A nil filter restores the
// allow-everything default.
func (b *Brain) SetActionFilter(filter reward.ActionFilter) {
	b.Reward.SetActionFilter(filter)
}

// PushTaskReward shapes and delivers a task-sourced reward. The shaped
// value is queued into the reward accumulator the next Tick will consume;
// it is also persisted to the reward_log table immediately, independent
// of the telemetry sink's own learning_stats/substrate_states cadence
// (spec §4.6: reward events are logged as they occur).
func (b *Brain) PushTaskReward(action string, taskReward float64, embedding []float64, now time.Time) (types.ShapedReward, types.ActionGateReason) {
	shaped, reason := b.Reward.PushTaskReward(action, taskReward, embedding, now)
	componentsJSON := marshalComponents(shaped.Components)
	b.Telemetry.RecordReward(buildRewardRow(b.step, b.monotonicNanos(now), shaped, reason, componentsJSON))
	return shaped, reason
}

// Stats returns a snapshot of the learning engine's running counters.
func (b *Brain) Stats() learning.Snapshot {
	return b.Engine.Stats.Snapshot(b.Synapses.Guardrail().Rejections())
}

// Subscribe taps every spike published to the bus, in addition to the
// brain's own internal consumption. Intended for visualization and
// external monitoring (spec §4.3's "optional subscriber tap").
func (b *Brain) Subscribe(ch chan<- types.SpikeEvent) {
	b.Bus.Subscribe(ch)
}
