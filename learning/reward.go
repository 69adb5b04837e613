package learning

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// ApplyReward implements spec §4.4.3's reward-consumption half: every
// plastic synapse's eligibility trace is multiplied by the shaped reward
// sum and κ, added to the weight, then partially reset (spec: "partial
// eligibility reset after reward consumption"). Work is partitioned across
// cfg.Workers disjoint synapse-id ranges, mirroring HebbianSweep.
func (CPUKernel) ApplyReward(synapses SynapseView, sum float64, now int64, cfg Config, stats *Stats) error {
	n := synapses.Len()
	if n == 0 || sum == 0 {
		return nil
	}

	workers := maxInt(cfg.Workers, 1)
	chunk := (n + workers - 1) / workers

	g, _ := errgroup.WithContext(context.Background())
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		start, end := start, end
		g.Go(func() error {
			synapses.ForEachPlastic(types.SynapseID(start), types.SynapseID(end), func(id types.SynapseID) {
				elig := synapses.Eligibility(id)
				if elig == 0 {
					return
				}
				dw := float32(cfg.Kappa*sum) * elig
				if dw != 0 {
					synapses.AddWeight(id, dw, now)
					stats.recordReward(float64(dw))
				}
				synapses.SetEligibility(id, elig*float32(cfg.EligibilityPartialReset))
			})
			return nil
		})
	}
	return g.Wait()
}
