// Package observe provides a small publish/subscribe cell used for the client-side snapshots
// (session state, post and comment collections).
package observe

import (
	"slices"
	"sync"
)

// Observable is the read side of a Value.
type Observable[T any] interface {
	// Get returns the current value.
	Get() T
	// Subscribe registers fn, calls it once with the current value and then again after every Set.
	// The returned function removes the subscription.
	Subscribe(fn func(T)) (cancel func())
}

// Value holds a current value and notifies subscribers synchronously when it changes.
type Value[T any] struct {
	mu   sync.RWMutex
	v    T
	next int
	subs map[int]func(T)
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		v:    initial,
		subs: map[int]func(T){},
	}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

// Set replaces the value and notifies subscribers in registration order. Subscribers run outside
// the lock, so they may read the value or subscribe again.
func (v *Value[T]) Set(x T) {
	v.Put(x)()
}

// Put replaces the value without notifying anyone and returns the function that does. Owners
// that guard the value with their own lock call Put under it and notify once it is released.
// Notifications always carry the value current when they run, so a late one never delivers a
// stale value.
func (v *Value[T]) Put(x T) (notify func()) {
	v.mu.Lock()
	v.v = x
	v.mu.Unlock()
	return v.notify
}

// Update applies f to the current value under the lock and publishes the result.
func (v *Value[T]) Update(f func(T) T) T {
	v.mu.Lock()
	x := f(v.v)
	v.v = x
	v.mu.Unlock()

	v.notify()
	return x
}

func (v *Value[T]) notify() {
	v.mu.RLock()
	x := v.v
	fns := v.snapshot()
	v.mu.RUnlock()

	for _, fn := range fns {
		fn(x)
	}
}

func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	current := v.v
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

func (v *Value[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(v.subs))
	for id := range v.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fns := make([]func(T), len(ids))
	for i, id := range ids {
		fns[i] = v.subs[id]
	}
	return fns
}

type mapped[T, U any] struct {
	src Observable[T]
	f   func(T) U
}

// Map derives an observable from src. Observables mapped from the same source always agree with
// each other, since each read goes through src.
func Map[T, U any](src Observable[T], f func(T) U) Observable[U] {
	return mapped[T, U]{src: src, f: f}
}

func (m mapped[T, U]) Get() U {
	return m.f(m.src.Get())
}

func (m mapped[T, U]) Subscribe(fn func(U)) (cancel func()) {
	return m.src.Subscribe(func(x T) { fn(m.f(x)) })
}
