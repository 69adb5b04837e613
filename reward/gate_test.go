package reward

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

func TestGateCountsRecordsEachReason(t *testing.T) {
	var c GateCounts
	c.Record(types.GateOK)
	c.Record(types.GateDeniedPolicy)
	c.Record(types.GateDeniedEnvelope)
	c.Record(types.GateDeniedCapability)

	require.Equal(t, uint64(1), c.Allowed)
	require.Equal(t, uint64(1), c.DeniedPolicy)
	require.Equal(t, uint64(1), c.DeniedEnvelope)
	require.Equal(t, uint64(1), c.DeniedCapability)
}

func TestAllowAllAlwaysAllows(t *testing.T) {
	require.Equal(t, types.GateOK, AllowAll{}.Check("anything"))
}
