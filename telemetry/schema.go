package telemetry

const schema = `
CREATE TABLE IF NOT EXISTS learning_stats (
	step INTEGER NOT NULL,
	timestamp_unix_nanos INTEGER NOT NULL,
	hebbian_updates INTEGER NOT NULL,
	stdp_updates INTEGER NOT NULL,
	reward_updates INTEGER NOT NULL,
	total_updates INTEGER NOT NULL,
	average_weight_delta REAL NOT NULL,
	active_synapses INTEGER NOT NULL,
	potentiated_synapses INTEGER NOT NULL,
	depressed_synapses INTEGER NOT NULL,
	metabolic_energy_estimate REAL NOT NULL,
	guardrail_rejections INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS substrate_states (
	step INTEGER NOT NULL,
	timestamp_unix_nanos INTEGER NOT NULL,
	region_id INTEGER NOT NULL,
	region_name TEXT NOT NULL,
	mean_activation REAL NOT NULL,
	fire_count INTEGER NOT NULL,
	attention_gain REAL NOT NULL,
	coherence REAL NOT NULL,
	assembly_count INTEGER NOT NULL,
	binding_count INTEGER NOT NULL,
	growth_velocity INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reward_log (
	step INTEGER NOT NULL,
	timestamp_unix_nanos INTEGER NOT NULL,
	shaped_value REAL NOT NULL,
	source_tag TEXT NOT NULL,
	gate_reason TEXT NOT NULL,
	components_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS spike_log (
	step INTEGER NOT NULL,
	timestamp_unix_nanos INTEGER NOT NULL,
	neuron_id INTEGER NOT NULL
);
`
