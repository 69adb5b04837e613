package neuronstore

import (
	"errors"
	"testing"
	"time"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

type fakeEdges struct {
	outgoing map[types.NeuronID][]types.SynapseID
	post     map[types.SynapseID]types.NeuronID
	weight   map[types.SynapseID]float32
}

func (f *fakeEdges) Outgoing(n types.NeuronID) []types.SynapseID { return f.outgoing[n] }
func (f *fakeEdges) Post(id types.SynapseID) types.NeuronID      { return f.post[id] }
func (f *fakeEdges) GetWeight(id types.SynapseID) float32        { return f.weight[id] }

type recordingBus struct {
	events []types.SpikeEvent
	fail   bool
}

func (b *recordingBus) Publish(ev types.SpikeEvent) error {
	if b.fail {
		return errors.New("bus overflow")
	}
	b.events = append(b.events, ev)
	return nil
}

func newTestStore() *Store {
	return New(guardrail.New(0, 1))
}

func TestProcessAccumulatesAndFires(t *testing.T) {
	s := newTestStore()
	cfg := DefaultConfig()
	cfg.Threshold = 0.4
	id := s.AddNeuron(cfg)

	s.AddInput(id, 0.5)
	edges := &fakeEdges{outgoing: map[types.NeuronID][]types.SynapseID{}}
	bus := &recordingBus{}

	if err := s.Process(id, time.Millisecond, time.Now(), 1000, edges, bus); err != nil {
		t.Fatal(err)
	}
	if s.State(id) != types.Refractory {
		t.Fatalf("expected Refractory after firing, got %v", s.State(id))
	}
	if s.FireCount(id) != 1 {
		t.Fatalf("expected fire count 1, got %d", s.FireCount(id))
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected exactly one spike event, got %d", len(bus.events))
	}
}

func TestProcessNeverFiresWithZeroWeightedInputs(t *testing.T) {
	// spec §8 boundary behavior 8: a neuron whose incoming weights are all
	// zero never fires regardless of activation input, because no input
	// ever arrives via pendingInput/external injection in that scenario.
	s := newTestStore()
	id := s.AddNeuron(DefaultConfig())
	edges := &fakeEdges{outgoing: map[types.NeuronID][]types.SynapseID{}}
	bus := &recordingBus{}

	for i := 0; i < 50; i++ {
		if err := s.Process(id, time.Millisecond, time.Now(), int64(i)*int64(time.Millisecond), edges, bus); err != nil {
			t.Fatal(err)
		}
	}
	if s.State(id) != types.Inactive {
		t.Fatalf("expected neuron to remain Inactive, got %v", s.State(id))
	}
	if len(bus.events) != 0 {
		t.Fatalf("expected zero spikes, got %d", len(bus.events))
	}
}

func TestRefractoryTransitionsBackToInactive(t *testing.T) {
	s := newTestStore()
	cfg := DefaultConfig()
	cfg.Threshold = 0.1
	cfg.RefractoryPeriod = 2 * time.Millisecond
	id := s.AddNeuron(cfg)

	s.AddInput(id, 0.5)
	edges := &fakeEdges{outgoing: map[types.NeuronID][]types.SynapseID{}}
	bus := &recordingBus{}

	if err := s.Process(id, time.Millisecond, time.Now(), 0, edges, bus); err != nil {
		t.Fatal(err)
	}
	if s.State(id) != types.Refractory {
		t.Fatalf("expected Refractory, got %v", s.State(id))
	}

	// Not yet past refractory_until.
	if err := s.Process(id, time.Millisecond, time.Now(), int64(time.Millisecond), edges, bus); err != nil {
		t.Fatal(err)
	}
	if s.State(id) != types.Refractory {
		t.Fatalf("expected still Refractory, got %v", s.State(id))
	}

	if err := s.Process(id, time.Millisecond, time.Now(), int64(3*time.Millisecond), edges, bus); err != nil {
		t.Fatal(err)
	}
	if s.State(id) != types.Inactive {
		t.Fatalf("expected Inactive after refractory period elapsed, got %v", s.State(id))
	}
}

func TestProcessPropagatesToOutgoingNeurons(t *testing.T) {
	s := newTestStore()
	cfg := DefaultConfig()
	cfg.Threshold = 0.1
	pre := s.AddNeuron(cfg)
	post := s.AddNeuron(DefaultConfig())

	s.AddInput(pre, 0.5)
	edges := &fakeEdges{
		outgoing: map[types.NeuronID][]types.SynapseID{pre: {7}},
		post:     map[types.SynapseID]types.NeuronID{7: post},
		weight:   map[types.SynapseID]float32{7: 0.9},
	}
	bus := &recordingBus{}

	if err := s.Process(pre, time.Millisecond, time.Now(), 0, edges, bus); err != nil {
		t.Fatal(err)
	}

	// The propagated activation lands in post's pendingInput, consumed on
	// its own next Process call.
	if err := s.Process(post, time.Millisecond, time.Now(), 1, edges, bus); err != nil {
		t.Fatal(err)
	}
	if s.Activation(post) < 0.85 {
		t.Fatalf("expected post activation to reflect propagated weight, got %v", s.Activation(post))
	}
}

func TestProcessReturnsErrorWhenBusDropsSpike(t *testing.T) {
	s := newTestStore()
	cfg := DefaultConfig()
	cfg.Threshold = 0.1
	id := s.AddNeuron(cfg)
	s.AddInput(id, 0.5)
	edges := &fakeEdges{outgoing: map[types.NeuronID][]types.SynapseID{}}
	bus := &recordingBus{fail: true}

	if err := s.Process(id, time.Millisecond, time.Now(), 0, edges, bus); err == nil {
		t.Fatal("expected error when bus drops the spike")
	}
}

func TestHistoryRecordsWithinWindow(t *testing.T) {
	s := newTestStore()
	cfg := DefaultConfig()
	cfg.Threshold = 0.1
	id := s.AddNeuron(cfg)
	s.AddInput(id, 0.5)
	edges := &fakeEdges{outgoing: map[types.NeuronID][]types.SynapseID{}}
	bus := &recordingBus{}
	if err := s.Process(id, time.Millisecond, time.Now(), 1234, edges, bus); err != nil {
		t.Fatal(err)
	}
	recent := s.History(id).Recent()
	if len(recent) != 1 || recent[0] != 1234 {
		t.Fatalf("expected spike history [1234], got %v", recent)
	}
}

func TestSnapshotRestoreRoundTrips(t *testing.T) {
	s := newTestStore()
	cfg := DefaultConfig()
	cfg.Threshold = 0.1
	id := s.AddNeuron(cfg)
	s.AddInput(id, 0.5)
	edges := &fakeEdges{outgoing: map[types.NeuronID][]types.SynapseID{}}
	if err := s.Process(id, time.Millisecond, time.Now(), 999, edges, &recordingBus{}); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot(id)

	other := newTestStore()
	otherID := other.AddNeuron(snap.Config)
	if otherID != id {
		t.Fatalf("expected matching id in a freshly built store, got %d vs %d", otherID, id)
	}
	other.Restore(otherID, snap)

	if other.Activation(otherID) != s.Activation(id) {
		t.Fatalf("activation mismatch after restore: %v vs %v", other.Activation(otherID), s.Activation(id))
	}
	if other.State(otherID) != s.State(id) {
		t.Fatalf("state mismatch after restore")
	}
	if other.FireCount(otherID) != s.FireCount(id) {
		t.Fatalf("fire count mismatch after restore")
	}
}
