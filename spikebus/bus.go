// Package spikebus forwards threshold-crossing events from neurons to the
// learning engine without blocking the compute loop (spec §4.3).
//
// BIOLOGICAL FRAMING:
// The teacher models spike delivery as a per-neuron Go channel plus a
// process-wide callback registered on the package (see the teacher's
// neuron/callbacks.go). Spec §9 explicitly flags that global callback as a
// design smell to remove: "replace with an explicit spike bus bound to the
// engine instance; no hidden globals." This package is that explicit bus:
// a single bounded channel that every neuron publishes into and one reader
// (the brain's tick, on behalf of the learning engine) drains. The bus keeps
// no event history; STDP reads each neuron's own spike history kept by
// neuronstore.
package spikebus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SynapticNetworks/plasticity-core/internal/types"
)

// DefaultCapacity is the depth of the bus's single shared channel. Spec §4.3 forbids
// dropping events — backpressure blocks the producing neuron's propagation
// step instead, which only matters in practice if this capacity is
// exhausted, a "design alarm if sustained" per spec §5.
const DefaultCapacity = 64

// DefaultWindow is the cross-neuron ordering window STDP correctness
// requires be preserved (spec §4.3).
const DefaultWindow = 50 * time.Millisecond

// Bus is the spike-event forwarding channel between neuron processing and
// the learning engine. Safe for concurrent Publish calls from multiple
// neurons; Consume is intended for a single reader (the learning engine).
type Bus struct {
	ch chan types.SpikeEvent

	mu      sync.Mutex
	blocked bool // true while a Publish call is backpressured

	subsMu sync.Mutex
	subs   []chan<- types.SpikeEvent
}

// New builds a bus with the given channel capacity (0 means DefaultCapacity).
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{ch: make(chan types.SpikeEvent, capacity)}
}

// Publish enqueues a spike event, blocking (backpressure) if the channel is
// full, until ctx is done. A ctx cancellation while blocked is the only way
// Publish reports an error — normal operation must never drop a spike
// (spec §4.4.5: "A spike dropped by the bus is a fatal condition").
func (b *Bus) Publish(ctx context.Context, ev types.SpikeEvent) error {
	select {
	case b.ch <- ev:
		b.fanOut(ev)
		return nil
	default:
	}

	b.mu.Lock()
	b.blocked = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.blocked = false
		b.mu.Unlock()
	}()

	select {
	case b.ch <- ev:
		b.fanOut(ev)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("spikebus: publish canceled while backpressured: %w", ctx.Err())
	}
}

// Blocked reports whether the bus is currently backpressuring a producer —
// a sustained true value is the "design alarm" spec §5 calls out.
func (b *Bus) Blocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blocked
}

// Consume returns the channel the learning engine reads spike events from.
func (b *Bus) Consume() <-chan types.SpikeEvent {
	return b.ch
}

// Subscribe registers an optional live-visualization tap (spec §6, "Spike
// bus tap"). The subscriber channel is written to on a best-effort basis —
// a full subscriber channel drops that event for that subscriber only; the
// primary Consume path is unaffected.
func (b *Bus) Subscribe(ch chan<- types.SpikeEvent) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	b.subs = append(b.subs, ch)
}

func (b *Bus) fanOut(ev types.SpikeEvent) {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// DefaultPublishContext returns a background context with a five-second
// timeout, for callers (such as an Adapter's Ctx) that want Publish's
// backpressure to time out rather than block forever when no reader is
// attached. brain.Brain.Tick passes its own context and drains the bus
// after every neuron it processes, so this is primarily a test/tooling
// convenience.
func DefaultPublishContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// Adapter satisfies neuronstore.SpikeBus by binding a Bus to a context.
type Adapter struct {
	Bus *Bus
	Ctx context.Context
}

// Publish implements neuronstore.SpikeBus.
func (a Adapter) Publish(ev types.SpikeEvent) error {
	ctx := a.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return a.Bus.Publish(ctx, ev)
}
