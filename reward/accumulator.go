package reward

import "sync/atomic"

// accumulatorState is the snapshot swapped atomically by Accumulator. Using
// a single pointer swap rather than separate sum/count fields means every
// Deliver call is a single CAS loop with no lock, and Consume sees a
// consistent (sum, count) pair rather than a torn read across two fields.
type accumulatorState struct {
	sum   float64
	count uint64
}

// Accumulator is the lock-free MPSC sum-only buffer spec §9 calls for:
// "shaped-reward delivery and consumption live on different cadences; use
// a lock-free MPSC accumulator (sum-only) rather than a queue, since only
// the sum at consumption time matters." Many goroutines may Deliver
// concurrently; exactly one (the engine's own tick) calls Consume.
type Accumulator struct {
	state atomic.Pointer[accumulatorState]
}

// NewAccumulator constructs an empty accumulator.
func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.state.Store(&accumulatorState{})
	return a
}

// Deliver adds a shaped reward value to the pending sum. Safe for
// concurrent use by multiple producers.
func (a *Accumulator) Deliver(value float64) {
	for {
		old := a.state.Load()
		next := &accumulatorState{sum: old.sum + value, count: old.count + 1}
		if a.state.CompareAndSwap(old, next) {
			return
		}
	}
}

// Consume atomically reads and resets the accumulated sum and delivery
// count, returning the values observed. Intended to be called once per
// tick by the learning engine's owning goroutine.
func (a *Accumulator) Consume() (sum float64, count uint64) {
	old := a.state.Swap(&accumulatorState{})
	return old.sum, old.count
}
