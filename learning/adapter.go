package learning

import (
	"github.com/SynapticNetworks/plasticity-core/internal/types"
	"github.com/SynapticNetworks/plasticity-core/neuronstore"
)

// neuronStoreAdapter narrows a *neuronstore.Store down to NeuronView.
// It exists only because neuronstore.Store.History returns the concrete
// *neuronstore.SpikeHistory rather than the SpikeHistoryView interface —
// Go requires an exact method signature match for interface satisfaction,
// so the concrete store cannot implement NeuronView directly even though
// *SpikeHistory already has the Recent() []int64 method this package needs.
type neuronStoreAdapter struct {
	store *neuronstore.Store
}

// NewNeuronView wraps a neuron store for consumption by a Kernel.
func NewNeuronView(store *neuronstore.Store) NeuronView {
	return neuronStoreAdapter{store: store}
}

func (a neuronStoreAdapter) Activation(id types.NeuronID) float32 {
	return a.store.Activation(id)
}

func (a neuronStoreAdapter) History(id types.NeuronID) SpikeHistoryView {
	return a.store.History(id)
}
