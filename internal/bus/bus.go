// Package bus delivers engine events to a single registered observer.
//
// Producers (control calls, the loader task, the audio callback) enqueue
// immutable events and return immediately. One dispatcher goroutine drains the
// queue in FIFO order, so events enqueued by the same producer are delivered
// in the order they were emitted.
package bus

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/llehouerou/remu"
)

type delivery struct {
	observer remu.Observer
	event    remu.Event
	barrier  chan struct{}
}

// Bus is a non-blocking, order-preserving event fan-out to one observer.
type Bus struct {
	log zerolog.Logger

	mu       sync.Mutex
	observer remu.Observer
	queue    []delivery
	closed   bool

	wake chan struct{}
	done chan struct{}
}

// New creates a bus and starts its dispatcher.
func New(log zerolog.Logger) *Bus {
	b := &Bus{
		log:  log,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go b.run()
	return b
}

// Register installs obs as the observer, replacing any previous one.
// Events already queued are still delivered to the observer that was
// registered when they were emitted. A nil observer unregisters.
func (b *Bus) Register(obs remu.Observer) {
	b.mu.Lock()
	b.observer = obs
	b.mu.Unlock()
}

// Emit enqueues ev for delivery and returns without waiting.
// It is a no-op when no observer is registered or the bus is closed;
// events are never buffered for a later observer.
func (b *Bus) Emit(ev remu.Event) bool {
	b.mu.Lock()
	if b.closed || b.observer == nil {
		b.mu.Unlock()
		return false
	}
	b.queue = append(b.queue, delivery{observer: b.observer, event: ev})
	b.mu.Unlock()
	b.signal()
	return true
}

// Sync blocks until every event emitted before the call has been delivered.
func (b *Bus) Sync() {
	barrier := make(chan struct{})
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, delivery{barrier: barrier})
	b.mu.Unlock()
	b.signal()
	<-barrier
}

// Close stops accepting events, delivers what is already queued and waits
// for the dispatcher to exit. It is safe to call more than once.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	b.mu.Unlock()
	b.signal()
	<-b.done
}

func (b *Bus) signal() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Bus) run() {
	defer close(b.done)
	for range b.wake {
		for {
			d, ok, closed := b.next()
			if !ok {
				if closed {
					return
				}
				break
			}
			b.deliver(d)
		}
	}
}

func (b *Bus) next() (delivery, bool, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return delivery{}, false, b.closed
	}
	d := b.queue[0]
	b.queue[0] = delivery{}
	b.queue = b.queue[1:]
	return d, true, b.closed
}

func (b *Bus) deliver(d delivery) {
	if d.barrier != nil {
		close(d.barrier)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Str("event", d.event.Kind.String()).
				Msg("observer panicked")
		}
	}()
	d.observer(d.event)
}
