// Package queue holds small in-process queue primitives.
package queue

import "sync"

// Rotation is a bounded FIFO of unique items. When a refresh cycle cannot
// cover the whole universe, the overflow is parked here and drained first on
// the next cycle, so every symbol is eventually screened.
type Rotation[T comparable] struct {
	mu      sync.Mutex
	items   []T
	present map[T]struct{}
	maxSize int
}

// NewRotation creates a rotation queue bounded to maxSize items. A
// non-positive bound means unbounded.
func NewRotation[T comparable](maxSize int) *Rotation[T] {
	return &Rotation[T]{
		present: make(map[T]struct{}),
		maxSize: maxSize,
	}
}

// Push appends items, skipping ones already queued. When the bound is hit the
// oldest entries are dropped to make room.
func (r *Rotation[T]) Push(items ...T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if _, ok := r.present[item]; ok {
			continue
		}
		r.items = append(r.items, item)
		r.present[item] = struct{}{}
	}

	if r.maxSize > 0 && len(r.items) > r.maxSize {
		drop := len(r.items) - r.maxSize
		for _, item := range r.items[:drop] {
			delete(r.present, item)
		}
		r.items = append([]T(nil), r.items[drop:]...)
	}
}

// Pop removes and returns up to n items from the front.
func (r *Rotation[T]) Pop(n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || len(r.items) == 0 {
		return nil
	}
	if n > len(r.items) {
		n = len(r.items)
	}

	out := append([]T(nil), r.items[:n]...)
	for _, item := range out {
		delete(r.present, item)
	}
	r.items = append([]T(nil), r.items[n:]...)
	return out
}

// Len reports the number of queued items.
func (r *Rotation[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
