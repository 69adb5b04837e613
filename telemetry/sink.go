// Package telemetry implements spec §4.6's decoupled persistence layer: a
// sqlite-backed durable store fed by bounded channels, so a slow disk
// never stalls the compute loop (spec §5
// "Suspension points": the compute loop never suspends on telemetry).
package telemetry

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Config configures channel capacity and the sink's target database.
type Config struct {
	DBPath           string
	ChannelCapacity  int
	MemDBIntervalMS  int
	RewardIntervalMS int
}

// DefaultConfig returns documented defaults.
func DefaultConfig() Config {
	return Config{
		DBPath:           "brain.sqlite",
		ChannelCapacity:  256,
		MemDBIntervalMS:  500,
		RewardIntervalMS: 1000,
	}
}

// Sink owns the sqlite connection and the four bounded row channels. Rows
// are enqueued by any number of producers (the brain tick loop) and
// drained by a single background writer goroutine per table. When a
// channel is full, the oldest queued row is dropped to make room (spec
// §4.6: "oldest-row-drop overflow policy with a drop counter") — telemetry
// is best-effort, never a source of backpressure on the compute loop.
type Sink struct {
	db  *sql.DB
	log *logrus.Entry
	cfg Config

	learningCh chan LearningStatsRow
	substrateCh chan SubstrateStateRow
	rewardCh   chan RewardLogRow
	spikeCh    chan SpikeLogRow

	dropped atomic.Uint64

	done chan struct{}
}

// Open constructs a Sink backed by a sqlite database at cfg.DBPath,
// creating the schema if it does not already exist, and starts its
// background writer goroutines.
func Open(cfg Config, log *logrus.Logger) (*Sink, error) {
	if cfg.ChannelCapacity <= 0 {
		cfg.ChannelCapacity = DefaultConfig().ChannelCapacity
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", cfg.DBPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: create schema: %w", err)
	}

	s := &Sink{
		db:          db,
		log:         log.WithField("component", "telemetry"),
		cfg:         cfg,
		learningCh:  make(chan LearningStatsRow, cfg.ChannelCapacity),
		substrateCh: make(chan SubstrateStateRow, cfg.ChannelCapacity),
		rewardCh:    make(chan RewardLogRow, cfg.ChannelCapacity),
		spikeCh:     make(chan SpikeLogRow, cfg.ChannelCapacity),
		done:        make(chan struct{}),
	}

	go s.drainLearning()
	go s.drainSubstrate()
	go s.drainReward()
	go s.drainSpike()

	return s, nil
}

// Close stops the background writers and closes the database handle.
func (s *Sink) Close() error {
	close(s.done)
	return s.db.Close()
}

// DroppedRows returns the total number of rows discarded across all four
// channels due to overflow since Open.
func (s *Sink) DroppedRows() uint64 { return s.dropped.Load() }

// RecordLearningStats enqueues a learning_stats row on the memdb cadence.
func (s *Sink) RecordLearningStats(row LearningStatsRow) { enqueue(s, s.learningCh, row) }

// RecordSubstrateState enqueues a substrate_states row on the memdb cadence.
func (s *Sink) RecordSubstrateState(row SubstrateStateRow) { enqueue(s, s.substrateCh, row) }

// RecordReward enqueues a reward_log row immediately. The sink applies no
// cadence of its own; brain.Brain.PushTaskReward calls this once per push,
// so the configured reward interval does not throttle reward_log rows.
func (s *Sink) RecordReward(row RewardLogRow) { enqueue(s, s.rewardCh, row) }

// RecordSpike enqueues a spike_log row.
func (s *Sink) RecordSpike(row SpikeLogRow) { enqueue(s, s.spikeCh, row) }

// enqueue is the generic non-blocking send-or-drop-oldest primitive every
// Record* method uses.
func enqueue[T any](s *Sink, ch chan T, row T) {
	select {
	case ch <- row:
		return
	default:
	}
	// Channel full: drop the oldest queued row to make room, per spec
	// §4.6's overflow policy.
	select {
	case <-ch:
		s.dropped.Add(1)
		s.log.Warn("telemetry channel full, dropped oldest row")
	default:
	}
	select {
	case ch <- row:
	default:
		// Lost a race with another producer; drop this row instead.
		s.dropped.Add(1)
	}
}

func (s *Sink) drainLearning() {
	const q = `INSERT INTO learning_stats (step, timestamp_unix_nanos, hebbian_updates, stdp_updates, reward_updates, total_updates, average_weight_delta, active_synapses, potentiated_synapses, depressed_synapses, metabolic_energy_estimate, guardrail_rejections) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for {
		select {
		case <-s.done:
			return
		case r := <-s.learningCh:
			if _, err := s.db.Exec(q, r.Step, r.TimestampUnixNanos, r.HebbianUpdates, r.STDPUpdates, r.RewardUpdates, r.TotalUpdates, r.AverageWeightDelta, r.ActiveSynapses, r.PotentiatedSynapses, r.DepressedSynapses, r.MetabolicEnergyEstimate, r.GuardrailRejections); err != nil {
				s.log.WithError(err).Error("write learning_stats row")
			}
		}
	}
}

func (s *Sink) drainSubstrate() {
	const q = `INSERT INTO substrate_states (step, timestamp_unix_nanos, region_id, region_name, mean_activation, fire_count, attention_gain, coherence, assembly_count, binding_count, growth_velocity) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for {
		select {
		case <-s.done:
			return
		case r := <-s.substrateCh:
			if _, err := s.db.Exec(q, r.Step, r.TimestampUnixNanos, r.RegionID, r.RegionName, r.MeanActivation, r.FireCount, r.AttentionGain, r.Coherence, r.AssemblyCount, r.BindingCount, r.GrowthVelocity); err != nil {
				s.log.WithError(err).Error("write substrate_states row")
			}
		}
	}
}

func (s *Sink) drainReward() {
	const q = `INSERT INTO reward_log (step, timestamp_unix_nanos, shaped_value, source_tag, gate_reason, components_json) VALUES (?, ?, ?, ?, ?, ?)`
	for {
		select {
		case <-s.done:
			return
		case r := <-s.rewardCh:
			if _, err := s.db.Exec(q, r.Step, r.TimestampUnixNanos, r.ShapedValue, r.SourceTag, r.GateReason, r.ComponentsJSON); err != nil {
				s.log.WithError(err).Error("write reward_log row")
			}
		}
	}
}

func (s *Sink) drainSpike() {
	const q = `INSERT INTO spike_log (step, timestamp_unix_nanos, neuron_id) VALUES (?, ?, ?)`
	for {
		select {
		case <-s.done:
			return
		case r := <-s.spikeCh:
			if _, err := s.db.Exec(q, r.Step, r.TimestampUnixNanos, r.NeuronID); err != nil {
				s.log.WithError(err).Error("write spike_log row")
			}
		}
	}
}

// Cadences returns the configured memdb and reward intervals as durations,
// for the brain's elapsed-time checks in Tick.
func (s *Sink) Cadences() (memdb, reward time.Duration) {
	return time.Duration(s.cfg.MemDBIntervalMS) * time.Millisecond, time.Duration(s.cfg.RewardIntervalMS) * time.Millisecond
}
