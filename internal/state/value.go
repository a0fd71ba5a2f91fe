// Package state provides the observable containers the client components publish
// through. A Value carries an epoch: operations take a Token before suspending on
// the gateway and publish with Apply, which drops the result if the epoch moved.
package state

import "sync"

// Token identifies the epoch an in-flight operation started in.
type Token uint64

type Value[T any] struct {
	mu     sync.RWMutex
	cur    T
	epoch  uint64
	nextID int
	subs   map[int]chan T
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[int]chan T)}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Set publishes unconditionally.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.publishLocked(x)
}

// Update applies fn to the current value under the lock and publishes the result.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := fn(v.cur)
	v.publishLocked(next)
	return next
}

// Begin returns a token for the current epoch.
func (v *Value[T]) Begin() Token {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Token(v.epoch)
}

// Apply publishes x only if tok is still current.
func (v *Value[T]) Apply(tok Token, x T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if Token(v.epoch) != tok {
		return false
	}
	v.publishLocked(x)
	return true
}

// Valid reports whether tok still belongs to the current epoch.
func (v *Value[T]) Valid(tok Token) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Token(v.epoch) == tok
}

// Invalidate advances the epoch so every outstanding token becomes stale.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	v.epoch++
	v.mu.Unlock()
}

// Reset invalidates outstanding tokens and publishes x.
func (v *Value[T]) Reset(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.epoch++
	v.publishLocked(x)
}

// Subscribe returns a channel that always holds the latest value. Slow readers
// miss intermediate values, never the last one. The channel is primed with the
// current value.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextID
	v.nextID++
	ch := make(chan T, 1)
	ch <- v.cur
	v.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (v *Value[T]) publishLocked(x T) {
	v.cur = x
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- x
	}
}
