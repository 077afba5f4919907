package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// Filter incrementally tracks the entities that have every component of a
// signature and records which entities entered or left that set since the
// last ClearChanges.
//
// The type T follows the View conventions: a struct of embedded pointer fields,
// one per component. Tuples handed out by the iterators point into storage and
// are valid until the next structural change of that entity.
//
// A Filter must be bound with SetEngine before use. Its sets must not be
// mutated (by structural storage changes) while one of its iterators runs.
type Filter[T any] struct {
	view          *View[T]
	storage       *Storage
	subscription  Subscription
	trackRemovals bool

	current *intmap.Set[EntityId]
	added   *intmap.Set[EntityId]
	removed *intmap.Set[EntityId]
}

// NewFilter creates an unbound filter. When trackRemovals is false the filter
// never reports removed entities.
func NewFilter[T any](trackRemovals bool) *Filter[T] {
	return &Filter[T]{
		view:          NewView[T](nil),
		trackRemovals: trackRemovals,
		current:       intmap.NewSet[EntityId](64),
		added:         intmap.NewSet[EntityId](16),
		removed:       intmap.NewSet[EntityId](16),
	}
}

// SetEngine binds the filter to storage, or unbinds it when storage is nil.
//
// Binding subscribes to component changes and scans the storage; every match
// is reported as added. Unbinding drops the subscription and clears all sets
// without reporting removals. Binding an already bound filter panics.
func (f *Filter[T]) SetEngine(storage *Storage) {
	if storage == nil {
		if f.storage != nil {
			f.storage.Unsubscribe(f.subscription)
		}
		f.storage = nil
		f.view = NewView[T](nil)
		f.subscription = 0
		f.current.Clear()
		f.added.Clear()
		f.removed.Clear()
		return
	}

	if f.storage != nil {
		panic("Filter.SetEngine() called on a bound filter")
	}

	f.storage = storage
	f.view = NewView[T](storage)
	f.subscription = storage.Subscribe(f.view.requiredTypes(), f)

	for id := range storage.Scan(f.view.requiredTypes()) {
		f.enter(id)
	}
}

// Bound reports whether the filter is attached to a storage
func (f *Filter[T]) Bound() bool {
	return f.storage != nil
}

// TrackRemovals reports whether the filter records removed entities
func (f *Filter[T]) TrackRemovals() bool {
	return f.trackRemovals
}

// Signature returns the component types an entity needs to be in the filter
func (f *Filter[T]) Signature() []reflect.Type {
	return f.view.requiredTypes()
}

func (f *Filter[T]) mustBeBound(method string) {
	if f.storage == nil {
		panic("Filter." + method + "() called before SetEngine()")
	}
}

// ComponentAttached implements Observer
func (f *Filter[T]) ComponentAttached(id EntityId, _ reflect.Type) {
	f.evaluate(id)
}

// ComponentDetached implements Observer
func (f *Filter[T]) ComponentDetached(id EntityId, _ reflect.Type) {
	f.evaluate(id)
}

func (f *Filter[T]) evaluate(id EntityId) {
	matches := f.storage.HasAll(id, f.view.requiredTypes())
	present := f.current.Has(id)

	switch {
	case matches && !present:
		f.enter(id)
	case !matches && present:
		f.leave(id)
	}
}

func (f *Filter[T]) enter(id EntityId) {
	f.current.Add(id)
	// An entity that left and came back within one cycle is reported as a
	// fresh addition only.
	f.removed.Del(id)
	f.added.Add(id)
}

func (f *Filter[T]) leave(id EntityId) {
	f.current.Del(id)
	if f.added.Del(id) {
		return
	}
	if f.trackRemovals {
		f.removed.Add(id)
	}
}

// AddedEntities iterates the entities that entered the filter since the last
// ClearChanges, together with their component tuples.
func (f *Filter[T]) AddedEntities() iter.Seq2[EntityId, T] {
	f.mustBeBound("AddedEntities")
	return f.tuples(f.added)
}

// RemovedEntities iterates the ids of entities that left the filter since the
// last ClearChanges. Their components may already be gone.
func (f *Filter[T]) RemovedEntities() iter.Seq[EntityId] {
	f.mustBeBound("RemovedEntities")
	return f.removed.All()
}

// Entities iterates every entity currently in the filter with its component tuple
func (f *Filter[T]) Entities() iter.Seq2[EntityId, T] {
	f.mustBeBound("Entities")
	return f.tuples(f.current)
}

func (f *Filter[T]) tuples(set *intmap.Set[EntityId]) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var result T
		for id := range set.All() {
			if !f.view.Fill(id, &result) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Contains reports whether the entity is currently in the filter
func (f *Filter[T]) Contains(id EntityId) bool {
	f.mustBeBound("Contains")
	return f.current.Has(id)
}

// Len returns the number of entities currently in the filter
func (f *Filter[T]) Len() int {
	f.mustBeBound("Len")
	return f.current.Len()
}

// ClearChanges forgets the added and removed entities. The owning system calls
// it exactly once per cycle after consuming both.
func (f *Filter[T]) ClearChanges() {
	f.mustBeBound("ClearChanges")
	f.added.Clear()
	f.removed.Clear()
}
