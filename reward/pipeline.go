package reward

import (
	"sync"
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// Pipeline owns the full reward shaping contract for one brain instance:
// it tracks the current teacher embedding and novelty baseline, applies
// the ActionFilter, shapes a reward from weighted components, and
// delivers it into the Accumulator the learning engine drains each tick.
type Pipeline struct {
	mu              sync.RWMutex
	teacherEmbed    []float64
	TeacherWeight   float64
	NoveltyWeight   float64
	SurvivalWeight  float64
	novelty         *NoveltyTracker
	filter          ActionFilter
	Gates           GateCounts

	Accumulator *Accumulator

	step uint64
}

// NewPipeline constructs a pipeline with the given embedding dimensionality
// and default component weights of 1.0. The default ActionFilter is
// AllowAll.
func NewPipeline(embeddingDim int) *Pipeline {
	return &Pipeline{
		novelty:        NewNoveltyTracker(embeddingDim),
		filter:         AllowAll{},
		Accumulator:    NewAccumulator(),
		TeacherWeight:  1.0,
		NoveltyWeight:  1.0,
		SurvivalWeight: 1.0,
	}
}

// SetTeacherEmbedding updates the reference embedding used to compute the
// Teacher reward component (spec §6 SetTeacherEmbedding).
func (p *Pipeline) SetTeacherEmbedding(embedding []float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teacherEmbed = append([]float64(nil), embedding...)
}

// SetActionFilter installs a new action gate (spec §6 SetActionFilter). A
// nil filter restores AllowAll.
func (p *Pipeline) SetActionFilter(filter ActionFilter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if filter == nil {
		filter = AllowAll{}
	}
	p.filter = filter
}

// PushTaskReward shapes and delivers a reward for a single step, combining
// the externally supplied task reward with teacher-similarity and novelty
// computed from embedding, gated through the installed ActionFilter (spec
// §6 PushTaskReward, spec §4.5).
func (p *Pipeline) PushTaskReward(action string, taskReward float64, embedding []float64, now time.Time) (types.ShapedReward, types.ActionGateReason) {
	p.mu.Lock()
	reason := p.filter.Check(action)
	p.Gates.Record(reason)

	var teacherSim, novelty float64
	if p.teacherEmbed != nil {
		teacherSim = CosineSimilarity(embedding, p.teacherEmbed)
	}
	if embedding != nil {
		novelty = p.novelty.Observe(embedding)
	}

	p.step++
	step := p.step
	teacherW, noveltyW, survivalW := p.TeacherWeight, p.NoveltyWeight, p.SurvivalWeight
	p.mu.Unlock()

	components := []types.RewardComponent{
		{Kind: types.RewardTeacher, Weight: teacherW, Value: clampUnit(teacherSim)},
		{Kind: types.RewardNovelty, Weight: noveltyW, Value: clampUnit(novelty)},
		{Kind: types.RewardSurvival, Weight: survivalW, Value: 0},
		{Kind: types.RewardTask, Weight: 1.0, Value: clampUnit(taskReward)},
	}

	shaped, err := Shape(components, step, now, action)
	if err != nil {
		// TeacherWeight, NoveltyWeight and SurvivalWeight are exported and
		// not validated when assigned; a negative weight set by a caller
		// makes Shape fail, and that panics here.
		panic(err)
	}

	p.Accumulator.Deliver(shaped.Merged)
	return shaped, reason
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
