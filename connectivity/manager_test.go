package connectivity

import (
	"testing"

	"github.com/SynapticNetworks/plasticity-core/guardrail"
	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/region"
	"github.com/SynapticNetworks/plasticity-core/synapsestore"
)

func newStores(n int) *synapsestore.Store {
	g := guardrail.New(0, 2)
	valid := func(id types.NeuronID) bool { return int(id) < n }
	return synapsestore.New(g, 0, valid)
}

func TestOneToOneWiresMatchingIndices(t *testing.T) {
	reg := region.NewRegistry()
	src, _ := reg.Add("a", 0, 3, 0.01)
	dst, _ := reg.Add("b", 3, 6, 0.01)

	store := newStores(6)
	mgr := New(store, 1)
	created, err := mgr.Connect(*src, *dst, OneToOne(0.5, true))
	if err != nil {
		t.Fatal(err)
	}
	if created != 3 {
		t.Fatalf("expected 3 edges, got %d", created)
	}
	if got := store.Outgoing(0); len(got) != 1 || store.Post(got[0]) != 3 {
		t.Fatalf("expected neuron 0 wired to neuron 3, got %v", got)
	}
}

func TestRandomSparseRespectsFanOutCap(t *testing.T) {
	reg := region.NewRegistry()
	src, _ := reg.Add("a", 0, 1, 0.01)
	dst, _ := reg.Add("b", 1, 20, 0.01)

	g := guardrail.New(0, 2)
	store := synapsestore.New(g, 5, func(id types.NeuronID) bool { return int(id) < 20 })
	mgr := New(store, 1)

	_, err := mgr.Connect(*src, *dst, RandomSparse(1.0, 0.1, 0.2, true))
	if err == nil {
		t.Fatal("expected fan-out cap to be hit with probability 1.0 over 19 targets and cap 5")
	}
}
