package telemetry

// LearningStatsRow mirrors learning.Snapshot at a point in time, per spec
// §4.6's learning_stats table.
type LearningStatsRow struct {
	Step                    uint64
	TimestampUnixNanos      int64
	HebbianUpdates          uint64
	STDPUpdates             uint64
	RewardUpdates           uint64
	TotalUpdates            uint64
	AverageWeightDelta      float64
	ActiveSynapses          uint64
	PotentiatedSynapses     uint64
	DepressedSynapses       uint64
	MetabolicEnergyEstimate float64
	GuardrailRejections     uint64
}

// SubstrateStateRow captures one region's aggregate state at a point in
// time, per spec §4.6's substrate_states table: "a serialized snapshot of
// aggregated metrics ... includes coherence, assembly/binding counts,
// growth velocity = Δassemblies + Δbindings."
type SubstrateStateRow struct {
	Step               uint64
	TimestampUnixNanos int64
	RegionID           uint32
	RegionName         string
	MeanActivation     float64
	FireCount          uint64
	AttentionGain      float64
	Coherence          float64
	AssemblyCount      uint64
	BindingCount       uint64
	GrowthVelocity     int64
}

// RewardLogRow captures one shaped-reward delivery, per spec §4.6's
// reward_log table.
type RewardLogRow struct {
	Step               uint64
	TimestampUnixNanos int64
	ShapedValue        float64
	SourceTag          string
	GateReason         string
	ComponentsJSON     string
}

// SpikeLogRow captures one spike event, per spec §4.6's spike_log table.
type SpikeLogRow struct {
	Step               uint64
	TimestampUnixNanos int64
	NeuronID           uint32
}
