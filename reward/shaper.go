// Package reward implements spec §4.5's reward pipeline: merging weighted
// components into a shaped scalar, computing teacher-similarity and
// novelty via cosine similarity, gating reward-producing actions through a
// pluggable ActionFilter, and buffering deliveries for consumption by the
// learning engine on a decoupled cadence.
package reward

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// Shape merges weighted components into a single clamped scalar, per spec
// §4.5: R_shaped = clamp(Σ w_i · v_i, -R_MAX, R_MAX). Component weights
// must be >= 0 (the data-model invariant); values are expected in [-1, 1]
// but Shape does not itself enforce that — callers construct components
// from bounded sources (teacher similarity, novelty, survival, task).
func Shape(components []types.RewardComponent, step uint64, now time.Time, sourceTag string) (types.ShapedReward, error) {
	weights := make([]float64, len(components))
	values := make([]float64, len(components))
	for i, c := range components {
		if c.Weight < 0 {
			return types.ShapedReward{}, fmt.Errorf("reward: component %d (%s) has negative weight %v", i, c.Kind, c.Weight)
		}
		weights[i] = c.Weight
		values[i] = c.Value
	}

	merged := floats.Dot(weights, values)
	if merged > RMax {
		merged = RMax
	}
	if merged < -RMax {
		merged = -RMax
	}

	return types.ShapedReward{
		Components: components,
		Merged:     merged,
		Step:       step,
		Timestamp:  now,
		SourceTag:  sourceTag,
	}, nil
}
