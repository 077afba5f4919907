// Package staged provides a single-slot buffer that separates the value a
// writer is building from the snapshot a reader consumes during a cycle.
package staged

import (
	"sync"
	"sync/atomic"
)

// Property holds a working value, a stable snapshot and a dirty flag.
//
// Writers mutate the working value through WorkingCopy (same goroutine as the
// promoter) or Update (any goroutine) and call Touch when a batch of writes
// should be applied. Exactly one consumer per cycle calls Promote, which is the
// only place the stable snapshot changes.
type Property[T any] struct {
	mu      sync.Mutex
	working T
	stable  T
	dirty   atomic.Bool
}

// New creates a clean property whose working and stable views both hold initial.
func New[T any](initial T) *Property[T] {
	return &Property[T]{
		working: initial,
		stable:  initial,
	}
}

// WorkingCopy returns the in-progress value. Writes through the pointer are not
// synchronized; use Update when the promoter runs on another goroutine.
func (p *Property[T]) WorkingCopy() *T {
	return &p.working
}

// Update applies fn to the working value under the property lock and touches it.
func (p *Property[T]) Update(fn func(*T)) {
	p.mu.Lock()
	fn(&p.working)
	p.mu.Unlock()
	p.Touch()
}

// Touch marks the property dirty.
func (p *Property[T]) Touch() {
	p.dirty.Store(true)
}

// HasChanges reports whether the working value was touched since the last promotion.
func (p *Property[T]) HasChanges() bool {
	return p.dirty.Load()
}

// Promote copies the working value into the stable snapshot and clears the
// dirty flag. It returns the snapshot that was replaced; promoted is false and
// nothing changes when the property is clean.
func (p *Property[T]) Promote() (previous T, promoted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.dirty.Load() {
		return p.stable, false
	}

	previous = p.stable
	p.stable = p.working
	p.dirty.Store(false)
	return previous, true
}

// Stable returns the snapshot taken at the most recent promotion.
func (p *Property[T]) Stable() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stable
}

// Latest returns the working value, which equals the last promoted value when
// nothing was written since.
func (p *Property[T]) Latest() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.working
}
