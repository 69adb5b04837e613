// Package brain assembles every module in this repository into a single
// runnable engine: the owner-thread tick loop wiring the neuron and
// synapse stores, region registry, connectivity manager, spike bus,
// learning engine, reward pipeline, and telemetry sink (spec §6's
// "External Interfaces" section implies this orchestrator's existence
// without naming it — see SPEC_FULL.md's BRAIN / ENGINE ORCHESTRATOR
// module).
package brain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SynapticNetworks/plasticity-core/connectivity"
	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/learning"
	"github.com/SynapticNetworks/plasticity-core/neuronstore"
	"github.com/SynapticNetworks/plasticity-core/region"
	"github.com/SynapticNetworks/plasticity-core/reward"
	"github.com/SynapticNetworks/plasticity-core/spikebus"
	"github.com/SynapticNetworks/plasticity-core/synapsestore"
	"github.com/SynapticNetworks/plasticity-core/telemetry"
)

// Brain is the single owner-thread engine instance. Exactly one goroutine
// (whichever calls Tick) may drive it at a time; Tick itself is not safe
// for concurrent invocation, matching spec §5's "one owner thread per
// brain instance drives the tick loop."
type Brain struct {
	cfg Config
	log *logrus.Entry

	actGuard *guardrail.Guardrail
	wGuard   *guardrail.Guardrail

	Neurons      *neuronstore.Store
	Synapses     *synapsestore.Store
	Regions      *region.Registry
	Connectivity *connectivity.Manager
	Bus          *spikebus.Bus
	Engine       *learning.Engine
	Reward       *reward.Pipeline
	Telemetry    *telemetry.Sink

	// pauseMu is held for writing by SaveCheckpoint/LoadCheckpoint, for
	// reading by Tick, so a checkpoint operation never races a concurrent
	// tick (spec §5: "checkpoint save/load... the loop is paused").
	pauseMu sync.RWMutex

	startedAt time.Time
	step      uint64

	lastMemDB  time.Time
	lastReward time.Time

	metricHistory map[types.RegionID]regionMetricHistory
}

// regionMetricHistory holds one region's assembly/binding counts as of the
// previous region-metrics computation, used to compute growth velocity
// (spec §4.6).
type regionMetricHistory struct {
	assemblies uint64
	bindings   uint64
}

// New constructs a Brain with an embedding dimensionality of embeddingDim
// for the reward pipeline's teacher/novelty components. The neuron and
// synapse stores start empty; callers build topology via Regions.Add and
// Connectivity.Connect before the first Tick.
func New(cfg Config, embeddingDim int, log *logrus.Logger) (*Brain, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	actGuard, wGuard := cfg.guardrails()

	neurons := neuronstore.New(actGuard)
	synapses := synapsestore.New(wGuard, 0, neurons.Valid)
	regions := region.NewRegistry()
	conn := connectivity.New(synapses, cfg.Seed)
	bus := spikebus.New(cfg.SpikeBusCapacity)

	sink, err := telemetry.Open(cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("brain: open telemetry sink: %w", err)
	}

	engine := learning.NewEngine(learning.CPUKernel{}, learning.NewNeuronView(neurons), synapses, regions, cfg.Learning)

	now := time.Now()
	return &Brain{
		cfg:          cfg,
		log:          log.WithField("component", "brain"),
		actGuard:     actGuard,
		wGuard:       wGuard,
		Neurons:      neurons,
		Synapses:     synapses,
		Regions:      regions,
		Connectivity: conn,
		Bus:          bus,
		Engine:       engine,
		Reward:       reward.NewPipeline(embeddingDim),
		Telemetry:    sink,
		startedAt:    now,
		lastMemDB:    now,
		lastReward:   now,
	}, nil
}

// Close releases the telemetry sink's database handle.
func (b *Brain) Close() error {
	return b.Telemetry.Close()
}

// monotonicNanos returns the tick's timestamp expressed as a monotonic
// offset from construction, matching types.SpikeEvent's documented
// MonotonicNanos semantics.
func (b *Brain) monotonicNanos(now time.Time) int64 {
	return now.Sub(b.startedAt).Nanoseconds()
}

// Step returns the number of ticks processed so far.
func (b *Brain) Step() uint64 {
	return b.step
}

// Tick advances the whole brain by one step: every neuron is processed on
// this (the owner) thread, the spikes raised this tick are drained from
// the bus, the reward pipeline's pending sum is consumed, and the
// learning engine applies reward/Hebbian/STDP in the fixed order spec
// §4.4 requires. Consolidation runs if due. Telemetry rows are recorded
// on their own decoupled cadences.
func (b *Brain) Tick(ctx context.Context, dt time.Duration, now time.Time) error {
	b.pauseMu.RLock()
	defer b.pauseMu.RUnlock()

	nowNanos := b.monotonicNanos(now)
	adapter := spikebus.Adapter{Bus: b.Bus, Ctx: ctx}

	// The bus is drained after every neuron, so a tick that raises more
	// spikes than the bus capacity never leaves Publish waiting on a reader.
	var spikes []types.SpikeEvent
	n := b.Neurons.Len()
	for i := 0; i < n; i++ {
		id := types.NeuronID(i)
		if err := b.Neurons.Process(id, dt, now, nowNanos, b.Synapses, adapter); err != nil {
			return fmt.Errorf("brain: tick %d: %w", b.step, err)
		}
		spikes = append(spikes, b.drainSpikes()...)
	}
	for _, ev := range spikes {
		b.Telemetry.RecordSpike(telemetry.SpikeLogRow{Step: b.step, TimestampUnixNanos: ev.MonotonicNanos, NeuronID: uint32(ev.NeuronID)})
	}

	rewardSum, _ := b.Reward.Accumulator.Consume()
	if err := b.Engine.Tick(ctx, dt, nowNanos, rewardSum, spikes); err != nil {
		return fmt.Errorf("brain: tick %d: learning engine: %w", b.step, err)
	}

	if b.Engine.DueForConsolidation(now) {
		b.Engine.Consolidate(now)
	}

	b.recordTelemetryIfDue(now)
	b.step++
	return nil
}

// drainSpikes non-blockingly collects every spike event currently queued
// on the bus, preserving FIFO order (spec §5 "Per-neuron spike
// order is FIFO").
func (b *Brain) drainSpikes() []types.SpikeEvent {
	ch := b.Bus.Consume()
	var spikes []types.SpikeEvent
	for {
		select {
		case ev := <-ch:
			spikes = append(spikes, ev)
		default:
			return spikes
		}
	}
}

func (b *Brain) recordTelemetryIfDue(now time.Time) {
	memdbInterval, rewardInterval := b.Telemetry.Cadences()

	if now.Sub(b.lastMemDB) >= memdbInterval {
		snap := b.Engine.Stats.Snapshot(b.Synapses.Guardrail().Rejections())
		b.Telemetry.RecordLearningStats(telemetry.LearningStatsRow{
			Step:                    b.step,
			TimestampUnixNanos:      b.monotonicNanos(now),
			HebbianUpdates:          snap.HebbianUpdates,
			STDPUpdates:             snap.STDPUpdates,
			RewardUpdates:           snap.RewardUpdates,
			TotalUpdates:            snap.TotalUpdates,
			AverageWeightDelta:      snap.AverageWeightDelta,
			ActiveSynapses:          snap.ActiveSynapses,
			PotentiatedSynapses:     snap.PotentiatedSynapses,
			DepressedSynapses:       snap.DepressedSynapses,
			MetabolicEnergyEstimate: snap.MetabolicEnergyEstimate,
			GuardrailRejections:     snap.GuardrailRejections,
		})
		for _, m := range b.computeAllRegionMetrics() {
			b.Telemetry.RecordSubstrateState(telemetry.SubstrateStateRow{
				Step:               b.step,
				TimestampUnixNanos: b.monotonicNanos(now),
				RegionID:           m.RegionID,
				RegionName:         m.Name,
				MeanActivation:     m.MeanActivation,
				FireCount:          m.FireCount,
				AttentionGain:      m.AttentionGain,
				Coherence:          m.Coherence,
				AssemblyCount:      m.AssemblyCount,
				BindingCount:       m.BindingCount,
				GrowthVelocity:     m.GrowthVelocity,
			})
		}
		b.lastMemDB = now
	}

	if now.Sub(b.lastReward) >= rewardInterval {
		b.lastReward = now
	}
}
