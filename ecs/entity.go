package ecs

// EntityId is a stable entity handle. Ids are handed out sequentially by a
// Storage, stay the same when components are added or removed, and are never
// reused after the entity is deleted. Zero is never a valid entity.
type EntityId uint64

// location is where an entity's components currently live
type location struct {
	archetype *Archetype
	index     uint32
}
