package brain

import (
	"encoding/json"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/telemetry"
)

func marshalComponents(components []types.RewardComponent) string {
	data, err := json.Marshal(components)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func buildRewardRow(step uint64, nowNanos int64, shaped types.ShapedReward, reason types.ActionGateReason, componentsJSON string) telemetry.RewardLogRow {
	return telemetry.RewardLogRow{
		Step:               step,
		TimestampUnixNanos: nowNanos,
		ShapedValue:        shaped.Merged,
		SourceTag:          shaped.SourceTag,
		GateReason:         string(reason),
		ComponentsJSON:     componentsJSON,
	}
}
