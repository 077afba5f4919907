package ecs

import "reflect"

type commandKind uint8

const (
	cmdSpawn commandKind = iota
	cmdDelete
	cmdAdd
	cmdRemove
	cmdDefer
)

type command struct {
	kind       commandKind
	entity     EntityId
	components []any
	compType   reflect.Type
	fn         func()
	spawned    func(EntityId)
}

// Commands queues structural changes made while systems iterate. The
// scheduler applies them in queue order after the last system of a frame.
// Operations aimed at an entity that no longer exists are dropped.
type Commands struct {
	queue []command
}

func newCommands() *Commands {
	return &Commands{}
}

// Defer runs fn during the flush, after every command queued before it.
func (c *Commands) Defer(fn func()) {
	c.queue = append(c.queue, command{kind: cmdDefer, fn: fn})
}

func (c *Commands) Spawn(components ...any) {
	c.queue = append(c.queue, command{kind: cmdSpawn, components: components})
}

// SpawnFunc spawns like Spawn and hands the new id to fn once it exists.
func (c *Commands) SpawnFunc(fn func(EntityId), components ...any) {
	c.queue = append(c.queue, command{kind: cmdSpawn, components: components, spawned: fn})
}

func (c *Commands) Delete(entity EntityId) {
	c.queue = append(c.queue, command{kind: cmdDelete, entity: entity})
}

func (c *Commands) AddComponent(entity EntityId, component any) {
	c.queue = append(c.queue, command{kind: cmdAdd, entity: entity, components: []any{component}})
}

func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.queue = append(c.queue, command{kind: cmdRemove, entity: entity, compType: compType})
}

// Len returns the number of queued commands
func (c *Commands) Len() int {
	return len(c.queue)
}

// Flush applies the queue to storage and empties it. It returns how many
// commands were applied; commands for dead entities are not counted.
func (c *Commands) Flush(storage *Storage) int {
	applied := 0
	// Commands may queue more commands while flushing; those run in this flush too.
	for i := 0; i < len(c.queue); i++ {
		cmd := c.queue[i]
		switch cmd.kind {
		case cmdSpawn:
			id := storage.Spawn(cmd.components...)
			if cmd.spawned != nil {
				cmd.spawned(id)
			}
		case cmdDefer:
			cmd.fn()
		default:
			if !storage.Alive(cmd.entity) {
				continue
			}
			switch cmd.kind {
			case cmdDelete:
				storage.Delete(cmd.entity)
			case cmdAdd:
				storage.AddComponent(cmd.entity, cmd.components[0])
			case cmdRemove:
				storage.RemoveComponent(cmd.entity, cmd.compType)
			}
		}
		applied++
	}

	clear(c.queue)
	c.queue = c.queue[:0]
	return applied
}
