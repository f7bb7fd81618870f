// Package guarded provides a value that can only be reached while holding its
// lock.
package guarded

import "sync"

// Value wraps a T behind a mutex. The wrapped value is reachable only inside
// the callbacks passed to Do and DoErr; the lock is released when the
// callback returns or panics.
type Value[T any] struct {
	mu sync.Mutex
	v  T
}

func New[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Do runs fn with exclusive access to the value.
func (g *Value[T]) Do(fn func(v *T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.v)
}

// DoErr is Do for callbacks that can fail.
func (g *Value[T]) DoErr(fn func(v *T) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(&g.v)
}
