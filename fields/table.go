package fields

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Table maps component types to their accessors.
type Table struct {
	mu        sync.RWMutex
	accessors map[reflect.Type]Accessor
}

func NewTable() *Table {
	return &Table{accessors: make(map[reflect.Type]Accessor)}
}

// Register adds the reflection accessor for T and returns it.
func Register[T any](table *Table) Accessor {
	a := For[T]()
	table.Add(a)
	return a
}

// Add registers a custom accessor, replacing any previous one for its type.
func (t *Table) Add(a Accessor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accessors[a.Type()] = a
}

func (t *Table) Lookup(typ reflect.Type) (Accessor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.accessors[typ]
	return a, ok
}

// Types lists registered types sorted by name.
func (t *Table) Types() []reflect.Type {
	t.mu.RLock()
	defer t.mu.RUnlock()
	types := make([]reflect.Type, 0, len(t.accessors))
	for typ := range t.accessors {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}

func (t *Table) accessorFor(ptr any) (Accessor, error) {
	typ := reflect.TypeOf(ptr)
	if typ == nil || typ.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("%w: %T", ErrNotPointer, ptr)
	}
	a, ok := t.Lookup(typ.Elem())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ.Elem())
	}
	return a, nil
}

// Get reads a field of the struct ptr points to.
func (t *Table) Get(ptr any, name string) (any, error) {
	a, err := t.accessorFor(ptr)
	if err != nil {
		return nil, err
	}
	return a.Get(ptr, name)
}

// Set writes a field of the struct ptr points to.
func (t *Table) Set(ptr any, name string, value any) error {
	a, err := t.accessorFor(ptr)
	if err != nil {
		return err
	}
	return a.Set(ptr, name, value)
}
