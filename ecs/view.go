package ecs

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// View reads component tuples out of a Storage.
//
// T must be a struct whose fields are pointers to component types. Embedded
// fields are required; named fields may carry `ecs:"optional"` and are set to
// nil when the entity lacks the component.
type View[T any] struct {
	storage  *Storage
	types    []reflect.Type
	optional []bool
	offsets  []uintptr
	required []reflect.Type
	// archetype id -> column index per field, -1 when absent
	columns *intmap.Map[uint64, []int]
}

func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		storage: storage,
		columns: intmap.New[uint64, []int](8),
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.offsets = append(v.offsets, field.Offset)
		v.optional = append(v.optional, optional)
		if !optional {
			v.required = append(v.required, field.Type.Elem())
		}
	}
	return v
}

func (v *View[T]) columnsFor(archetype *Archetype) []int {
	if cols, ok := v.columns.Get(archetype.id); ok {
		return cols
	}
	cols := make([]int, len(v.types))
	for i, typ := range v.types {
		cols[i] = archetype.columnOf(typ)
	}
	v.columns.Put(archetype.id, cols)
	return cols
}

// interfaceData returns the data word of an interface holding a pointer.
func interfaceData(value any) unsafe.Pointer {
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return (*eface)(unsafe.Pointer(&value)).data
}

// fill points every field of *dst at the components in row. It fails when a
// required component is missing.
func (v *View[T]) fill(dst unsafe.Pointer, archetype *Archetype, row int, cols []int) bool {
	for i, col := range cols {
		field := (*unsafe.Pointer)(unsafe.Add(dst, v.offsets[i]))

		var component any
		if col >= 0 {
			component = archetype.columns[col].Get(row)
		}
		if component == nil {
			if !v.optional[i] {
				return false
			}
			*field = nil
			continue
		}
		*field = interfaceData(component)
	}
	return true
}

// Fill populates ptr with the components of entity id. It returns false when
// the entity is unknown or lacks a required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	loc, ok := v.storage.locations.Get(id)
	if !ok {
		return false
	}
	return v.fill(unsafe.Pointer(ptr), loc.archetype, int(loc.index), v.columnsFor(loc.archetype))
}

// Get returns a populated tuple for the entity, or nil
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// Matches reports whether the entity has every required component of the view
func (v *View[T]) Matches(id EntityId) bool {
	return v.storage.HasAll(id, v.required)
}

// Types returns the component types of the view in field order
func (v *View[T]) Types() []reflect.Type {
	return v.types
}

// Iter yields every entity that has the required components, archetype by archetype.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var result T
		dst := unsafe.Pointer(&result)

		for _, archetype := range v.storage.archetypes {
			if !archetype.HasAll(v.required) {
				continue
			}
			cols := v.columnsFor(archetype)
			for row := range archetype.rows() {
				if !v.fill(dst, archetype, row, cols) {
					continue
				}
				if !yield(archetype.entities[row], result) {
					return
				}
			}
		}
	}
}

// Values is Iter without the entity ids
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates an entity from the non-nil fields of data. A nil required
// field panics.
func (v *View[T]) Spawn(data T) EntityId {
	src := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i, typ := range v.types {
		ptr := *(*unsafe.Pointer)(unsafe.Add(src, v.offsets[i]))
		if ptr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(typ, ptr).Elem().Interface())
	}

	return v.storage.Spawn(components...)
}

// requiredTypes returns the non-optional component types
func (v *View[T]) requiredTypes() []reflect.Type {
	return v.required
}
