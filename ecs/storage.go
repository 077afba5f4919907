package ecs

import (
	"iter"
	"reflect"
	"slices"
	"sort"

	"github.com/kamstrup/intmap"
)

// Observer receives component attach/detach notifications for the component
// types it subscribed to. Detach notifications are delivered after the
// component is gone, so observers must not try to read it.
type Observer interface {
	ComponentAttached(id EntityId, compType reflect.Type)
	ComponentDetached(id EntityId, compType reflect.Type)
}

// Subscription identifies a registered Observer
type Subscription uint64

type subscriber struct {
	id       Subscription
	observer Observer
}

// Storage is the entity/component registry
type Storage struct {
	archetypes map[uint64]*Archetype
	registry   *ComponentRegistry
	locations  *intmap.Map[EntityId, location]
	nextId     EntityId

	observers map[reflect.Type][]subscriber
	subTypes  map[Subscription][]reflect.Type
	nextSub   Subscription
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint64]*Archetype),
		registry:   registry,
		locations:  intmap.New[EntityId, location](256),
		observers:  make(map[reflect.Type][]subscriber),
		subTypes:   make(map[Subscription][]reflect.Type),
	}
}

// Subscribe registers an observer for attach/detach events of the given
// component types. Each event is delivered once per matching type.
func (s *Storage) Subscribe(types []reflect.Type, observer Observer) Subscription {
	s.nextSub++
	sub := s.nextSub

	unique := make([]reflect.Type, 0, len(types))
	for _, typ := range types {
		if !slices.Contains(unique, typ) {
			unique = append(unique, typ)
		}
	}

	for _, typ := range unique {
		s.observers[typ] = append(s.observers[typ], subscriber{id: sub, observer: observer})
	}
	s.subTypes[sub] = unique
	return sub
}

// Unsubscribe removes a previously registered observer. Unknown subscriptions are ignored.
func (s *Storage) Unsubscribe(sub Subscription) {
	types, ok := s.subTypes[sub]
	if !ok {
		return
	}
	delete(s.subTypes, sub)

	for _, typ := range types {
		s.observers[typ] = slices.DeleteFunc(s.observers[typ], func(entry subscriber) bool {
			return entry.id == sub
		})
		if len(s.observers[typ]) == 0 {
			delete(s.observers, typ)
		}
	}
}

func (s *Storage) notifyAttached(id EntityId, types []reflect.Type) {
	for _, typ := range types {
		for _, entry := range s.observers[typ] {
			entry.observer.ComponentAttached(id, typ)
		}
	}
}

func (s *Storage) notifyDetached(id EntityId, types []reflect.Type) {
	for _, typ := range types {
		for _, entry := range s.observers[typ] {
			entry.observer.ComponentDetached(id, typ)
		}
	}
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := extractComponentTypes(components)
	return s.archetypes[archetypeId(types)]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))
	return s.archetypes[archetypeId(sorted)]
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := archetypeId(types)
	archetype, exists := s.archetypes[id]
	if !exists {
		archetype = NewArchetype(id, types, s.registry)
		s.archetypes[id] = archetype
	}
	return archetype
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetype := s.archetypeFor(types)

	s.nextId++
	id := s.nextId

	index := archetype.Spawn(id, components)
	s.locations.Put(id, location{archetype: archetype, index: index})

	s.notifyAttached(id, types)
	return id
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	loc, ok := s.locations.Get(id)
	if !ok {
		return
	}

	loc.archetype.Delete(loc.index)
	s.locations.Del(id)

	s.notifyDetached(id, loc.archetype.types)
}

// AddComponent attaches a component to an existing entity.
// Panics if the entity does not exist or already has a component of that type.
func (s *Storage) AddComponent(id EntityId, component any) {
	loc, ok := s.locations.Get(id)
	if !ok {
		panic("cannot add component to unknown entity")
	}
	oldArchetype := loc.archetype

	compType := reflect.TypeOf(component)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	if oldArchetype.HasComponent(compType) {
		panic("entity already has component " + compType.String())
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	newTypes = append(newTypes, oldArchetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))

	newArchetype := s.archetypeFor(newTypes)

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == compType {
			components = append(components, component)
		} else {
			components = append(components, oldArchetype.GetComponent(loc.index, typ))
		}
	}

	newIndex := newArchetype.Spawn(id, components)
	oldArchetype.Delete(loc.index)
	s.locations.Put(id, location{archetype: newArchetype, index: newIndex})

	s.notifyAttached(id, []reflect.Type{compType})
}

// RemoveComponent detaches a component from an entity. An entity left
// without components is deleted. Removing a missing component is a no-op.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) {
	loc, ok := s.locations.Get(id)
	if !ok {
		return
	}
	oldArchetype := loc.archetype
	if !oldArchetype.HasComponent(compType) {
		return
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)-1)
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	if len(newTypes) == 0 {
		s.Delete(id)
		return
	}

	newArchetype := s.archetypeFor(newTypes)

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		components = append(components, oldArchetype.GetComponent(loc.index, typ))
	}

	newIndex := newArchetype.Spawn(id, components)
	oldArchetype.Delete(loc.index)
	s.locations.Put(id, location{archetype: newArchetype, index: newIndex})

	s.notifyDetached(id, []reflect.Type{compType})
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	loc, ok := s.locations.Get(id)
	if !ok {
		return nil
	}
	return loc.archetype.GetComponent(loc.index, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	loc, ok := s.locations.Get(id)
	if !ok {
		return false
	}
	return loc.archetype.HasComponent(compType)
}

// HasAll checks if an entity has every one of the given component types
func (s *Storage) HasAll(id EntityId, types []reflect.Type) bool {
	loc, ok := s.locations.Get(id)
	if !ok {
		return false
	}
	return loc.archetype.HasAll(types)
}

// Alive reports whether the entity exists
func (s *Storage) Alive(id EntityId) bool {
	return s.locations.Has(id)
}

// Len returns the number of live entities
func (s *Storage) Len() int {
	return s.locations.Len()
}

// Scan enumerates every entity that has all of the given component types
func (s *Storage) Scan(types []reflect.Type) iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, archetype := range s.archetypes {
			if !archetype.HasAll(types) {
				continue
			}
			for id := range archetype.Iter() {
				if !yield(id) {
					return
				}
			}
		}
	}
}

// Compact reorganizes every archetype to eliminate empty slots.
// Component pointers obtained before the call are invalidated.
func (s *Storage) Compact() {
	for _, archetype := range s.archetypes {
		for _, row := range archetype.compact() {
			id := archetype.entities[row]
			s.locations.Put(id, location{archetype: archetype, index: uint32(row)})
		}
	}
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := reflect.TypeOf(comp)

		// If it's a pointer, get the underlying type
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the typed component of an entity, or nil if it has none
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}
