package reward

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity returns the cosine similarity of a and b in [-1, 1], or
// 0 if either vector has zero norm. Used to compute the Teacher and
// Novelty reward components (spec §4.5) from embedding vectors: teacher
// similarity against a reference teacher embedding, novelty as the
// complement of similarity against a running mean of recently seen
// embeddings.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	dot := floats.Dot(a, b)
	sim := dot / (na * nb)
	if math.IsNaN(sim) {
		return 0
	}
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim
}

// NoveltyTracker maintains a running mean embedding and reports novelty as
// 1 - cosine_similarity(current, running_mean), so a perfectly familiar
// input yields 0 and an orthogonal one yields 1.
type NoveltyTracker struct {
	mean  []float64
	count float64
}

// NewNoveltyTracker constructs a tracker for embeddings of the given
// dimensionality.
func NewNoveltyTracker(dim int) *NoveltyTracker {
	return &NoveltyTracker{mean: make([]float64, dim)}
}

// Observe folds embedding into the running mean and returns the novelty
// score computed against the mean as it stood before this observation.
func (n *NoveltyTracker) Observe(embedding []float64) float64 {
	if len(embedding) != len(n.mean) {
		return 0
	}
	novelty := 1 - CosineSimilarity(embedding, n.mean)

	n.count++
	for i, v := range embedding {
		n.mean[i] += (v - n.mean[i]) / n.count
	}
	return novelty
}
