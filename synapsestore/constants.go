package synapsestore

// Default weight bounds, carried over from the teacher's
// synapse/constants.go STDP boundary constants: even a fully depressed
// synapse keeps a residual AMPA-receptor floor, and a fully potentiated one
// saturates rather than diverging.
const (
	DefaultMinWeight float32 = 0.001
	DefaultMaxWeight float32 = 2.0

	// DefaultFanOutCap bounds how many outgoing edges a single presynaptic
	// neuron may hold, preventing pathological hub formation during
	// connectivity growth (spec §4.1 add_edge contract).
	DefaultFanOutCap = 10_000
)
