// Package eventbus provides a synchronous in-process publish/subscribe
// primitive. Emit calls every callback registered at the time of the call,
// in registration order, on the emitting goroutine. There is no buffering:
// late subscribers never see earlier payloads.
package eventbus

import (
	"sync"
)

// Unsubscribe removes a callback. Calling it more than once is a no-op.
type Unsubscribe func()

// PanicHandler receives the value recovered from a panicking callback.
type PanicHandler func(recovered interface{})

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Bus fans a payload out to its subscribers.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    []subscriber[T]
	nextID  uint64
	onPanic PanicHandler
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// OnPanic sets the handler for panicking callbacks. A recovered panic does
// not stop delivery to the remaining subscribers.
func (b *Bus[T]) OnPanic(h PanicHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPanic = h
}

// Subscribe registers fn for future emissions.
func (b *Bus[T]) Subscribe(fn func(T)) Unsubscribe {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers payload to the current subscribers.
func (b *Bus[T]) Emit(payload T) {
	b.mu.RLock()
	subs := make([]subscriber[T], len(b.subs))
	copy(subs, b.subs)
	onPanic := b.onPanic
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s.fn, payload, onPanic)
	}
}

func (b *Bus[T]) deliver(fn func(T), payload T, onPanic PanicHandler) {
	defer func() {
		if r := recover(); r != nil {
			if onPanic == nil {
				return
			}
			onPanic(r)
		}
	}()
	fn(payload)
}

// Len reports the number of registered callbacks.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
