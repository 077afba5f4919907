package ecs

import (
	"iter"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity that has exactly one set of component types.
// Each type has a column; row i of every column belongs to entities[i].
type Archetype struct {
	id       uint64
	types    []reflect.Type
	columns  []column
	entities []EntityId
}

// NewArchetype creates an archetype for sorted component types. Every type
// must be registered.
func NewArchetype(id uint64, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for i, typ := range types {
		a.columns[i] = registry.newColumn(typ)
	}
	return a
}

// columnOf returns the column index of a component type, or -1.
func (a *Archetype) columnOf(t reflect.Type) int {
	return slices.Index(a.types, t)
}

// Spawn stores the components of entity id and returns its row.
func (a *Archetype) Spawn(id EntityId, components []any) uint32 {
	row := -1
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Pointer {
			compType = compType.Elem()
		}
		if col := a.columnOf(compType); col >= 0 {
			row = a.columns[col].Append(comp)
		}
	}
	if row < 0 {
		panic("archetype spawn stored no components")
	}

	if row >= len(a.entities) {
		a.entities = append(a.entities, make([]EntityId, row-len(a.entities)+1)...)
	}
	a.entities[row] = id
	return uint32(row)
}

// GetComponent returns a pointer to the component of the given type at row, or nil.
func (a *Archetype) GetComponent(row uint32, compType reflect.Type) any {
	col := a.columnOf(compType)
	if col < 0 {
		return nil
	}
	return a.columns[col].Get(int(row))
}

// Delete empties a row. Other rows keep their positions.
func (a *Archetype) Delete(row uint32) {
	for _, c := range a.columns {
		c.Delete(int(row))
	}
	if int(row) < len(a.entities) {
		a.entities[row] = 0
	}
}

func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.columnOf(compType) >= 0
}

// HasAll checks if this archetype has every one of the given component types
func (a *Archetype) HasAll(types []reflect.Type) bool {
	for _, typ := range types {
		if !a.HasComponent(typ) {
			return false
		}
	}
	return true
}

func (a *Archetype) ID() uint64 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// rows iterates the occupied rows.
func (a *Archetype) rows() iter.Seq[int] {
	if len(a.columns) == 0 {
		return func(func(int) bool) {}
	}
	return a.columns[0].Iter()
}

// compact packs every column and returns old row to new row for live entities.
func (a *Archetype) compact() map[int]int {
	if len(a.columns) == 0 {
		return nil
	}

	moved := a.columns[0].Compact()
	for _, c := range a.columns[1:] {
		c.Compact()
	}

	entities := make([]EntityId, len(moved))
	for oldRow, newRow := range moved {
		entities[newRow] = a.entities[oldRow]
	}
	a.entities = entities
	return moved
}

// Iter yields the ids of the entities stored in this archetype
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for row := range a.rows() {
			if !yield(a.entities[row]) {
				return
			}
		}
	}
}

// typeKey names a component type for hashing. Named types include their
// package path so equally named types from different packages differ.
func typeKey(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// archetypeId hashes a sorted slice of component types
func archetypeId(types []reflect.Type) uint64 {
	d := xxhash.New()
	for _, t := range types {
		_, _ = d.WriteString(typeKey(t))
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
