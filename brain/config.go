package brain

import (
	"time"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/learning"
	"github.com/SynapticNetworks/plasticity-core/synapsestore"
	"github.com/SynapticNetworks/plasticity-core/telemetry"
)

// Config is the full set of brain-level knobs, assembled by cmd/brain from
// CLI flags, environment variables, and a TOML file (CLI takes precedence
// over env, which takes precedence over file/defaults — spec §6's CLI
// surface).
type Config struct {
	Seed int64

	ActivationMin, ActivationMax float32
	WeightMin, WeightMax         float32

	SpikeBusCapacity int

	Learning  learning.Config
	Telemetry telemetry.Config

	StepInterval time.Duration
}

// DefaultConfig returns documented defaults, following the teacher/pack
// convention of a single DefaultConfig per configurable package composed
// at the top level.
func DefaultConfig() Config {
	return Config{
		Seed:             1,
		ActivationMin:    0,
		ActivationMax:    1,
		WeightMin:        synapsestore.DefaultMinWeight,
		WeightMax:        synapsestore.DefaultMaxWeight,
		SpikeBusCapacity: 0, // 0 => spikebus.DefaultCapacity
		Learning:         learning.DefaultConfig(),
		Telemetry:        telemetry.DefaultConfig(),
		StepInterval:     10 * time.Millisecond,
	}
}

func (c Config) guardrails() (act, weight *guardrail.Guardrail) {
	return guardrail.New(c.ActivationMin, c.ActivationMax), guardrail.New(c.WeightMin, c.WeightMax)
}
