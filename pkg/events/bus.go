// Package events carries the process-wide "session invalidated" signal.
//
// The API client emits on a Bus once per 401 response. Screens, commands and
// background workers subscribe to force a logout. Emission never waits for
// listeners: each listener runs on its own goroutine, and duplicate emissions
// (two concurrent calls both seeing a 401) must be treated as one trigger.
//
//	bus := events.NewBus()
//	unsubscribe := bus.Subscribe(func() {
//	    fmt.Println("session expired, please log in again")
//	})
//	defer unsubscribe()
package events

import (
	"sync"
	"sync/atomic"
)

// Listener reacts to an emission. It receives no payload.
type Listener func()

// Bus is a publish/subscribe channel with no payload.
type Bus struct {
	mutex     sync.RWMutex
	listeners map[uint64]Listener
	nextID    uint64
	emitted   atomic.Uint64

	// pending counts running listener goroutines; idle is signalled when it
	// drops to zero. Both are guarded by mutex.
	pending int
	idle    *sync.Cond
	closed  bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	b := &Bus{
		listeners: make(map[uint64]Listener),
	}
	b.idle = sync.NewCond(&b.mutex)

	return b
}

// Subscribe registers a listener and returns a function that removes it.
// The returned function is safe to call more than once.
func (b *Bus) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}

	b.mutex.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[id] = listener
	b.mutex.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mutex.Lock()
			delete(b.listeners, id)
			b.mutex.Unlock()
		})
	}
}

// Emit notifies every current listener without waiting for them. After
// Close, emissions are counted but no listener runs.
func (b *Bus) Emit() {
	b.emitted.Add(1)

	b.mutex.Lock()
	if b.closed {
		b.mutex.Unlock()

		return
	}

	snapshot := make([]Listener, 0, len(b.listeners))
	for _, listener := range b.listeners {
		snapshot = append(snapshot, listener)
	}
	b.pending += len(snapshot)
	b.mutex.Unlock()

	for _, listener := range snapshot {
		go b.run(listener)
	}
}

func (b *Bus) run(fn Listener) {
	defer func() {
		b.mutex.Lock()
		b.pending--
		if b.pending == 0 {
			b.idle.Broadcast()
		}
		b.mutex.Unlock()
	}()

	fn()
}

// Emitted returns how many times Emit has been called.
func (b *Bus) Emitted() uint64 {
	return b.emitted.Load()
}

// Len returns the number of subscribed listeners.
func (b *Bus) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return len(b.listeners)
}

// Wait blocks until no listener is running. It is safe to call while other
// goroutines keep emitting; Emit itself never waits.
func (b *Bus) Wait() {
	b.mutex.Lock()
	for b.pending > 0 {
		b.idle.Wait()
	}
	b.mutex.Unlock()
}

// Close stops later emissions from starting listeners, then waits for the
// ones already running. It is meant for shutdown and may be called twice.
func (b *Bus) Close() {
	b.mutex.Lock()
	b.closed = true
	for b.pending > 0 {
		b.idle.Wait()
	}
	b.mutex.Unlock()
}
