package learning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConsolidateClassifiesPotentiatedAndDepressedSynapses(t *testing.T) {
	_, synapses, regions, view := newHarness(t, 0.1)
	// Add a second plastic synapse so both directions of movement appear.
	_, err := synapses.AddEdge(1, 0, 1.0, true)
	require.NoError(t, err)

	e := NewEngine(CPUKernel{}, view, synapses, regions, DefaultConfig())
	now := time.Unix(0, 0)
	e.Consolidate(now) // establishes the baseline snapshot

	synapses.AddWeight(0, 0.5, 1) // potentiated beyond threshold
	synapses.AddWeight(1, -0.5, 1) // depressed beyond threshold

	e.Consolidate(now.Add(time.Second))
	snap := e.Stats.Snapshot(0)

	require.Equal(t, uint64(2), snap.ActiveSynapses)
	require.Equal(t, uint64(1), snap.PotentiatedSynapses)
	require.Equal(t, uint64(1), snap.DepressedSynapses)
}

func TestDueForConsolidationRespectsInterval(t *testing.T) {
	_, synapses, regions, view := newHarness(t, 0.1)
	cfg := DefaultConfig()
	cfg.ConsolidationInterval = time.Second

	e := NewEngine(CPUKernel{}, view, synapses, regions, cfg)
	now := time.Unix(100, 0)
	require.True(t, e.DueForConsolidation(now), "never-consolidated engine should be immediately due")

	e.Consolidate(now)
	require.False(t, e.DueForConsolidation(now.Add(500*time.Millisecond)))
	require.True(t, e.DueForConsolidation(now.Add(2*time.Second)))
}
