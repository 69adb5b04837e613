package reward

import "github.com/SynapticNetworks/plasticity-core/internal/types"

// ActionFilter is the only finer-grained action-gating surface modeled by
// this pipeline (spec §9 Open Question: the source's autonomy-envelope and
// ethics-regulator phases are collapsed to this one boundary). It vets a
// reward-producing action before the shaped reward is computed and
// returns a structured reason; a veto does not suppress the shaped reward
// itself — it only attaches a blocked-action count for analysis (spec
// §4.5: "the shaped reward still emits, with blocked-action counters
// attached").
type ActionFilter interface {
	Check(action string) types.ActionGateReason
}

// AllowAll is the default ActionFilter: every action is allowed.
type AllowAll struct{}

func (AllowAll) Check(string) types.ActionGateReason { return types.GateOK }

// GateCounts tallies how many times each gate reason has been observed.
// The tallies are kept on Pipeline.Gates; reward_log rows record each
// delivery's gate reason, not these counts.
type GateCounts struct {
	Allowed          uint64
	DeniedPolicy     uint64
	DeniedEnvelope   uint64
	DeniedCapability uint64
}

// Record bumps the counter matching reason.
func (c *GateCounts) Record(reason types.ActionGateReason) {
	switch reason {
	case types.GateDeniedPolicy:
		c.DeniedPolicy++
	case types.GateDeniedEnvelope:
		c.DeniedEnvelope++
	case types.GateDeniedCapability:
		c.DeniedCapability++
	default:
		c.Allowed++
	}
}
