package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/bodysync/ecs"
)

// ExampleFilter shows how a system consumes filter deltas: entities entering
// the signature are reported once as added, entities leaving it once as
// removed, and ClearChanges starts the next cycle.
func ExampleFilter() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	existing := storage.Spawn(Position{X: 1}, Velocity{DX: 1})

	filter := ecs.NewFilter[struct {
		*Position
		*Velocity
	}](true)
	filter.SetEngine(storage)

	for id, item := range filter.AddedEntities() {
		fmt.Println("added", id == existing, item.Position.X)
	}
	filter.ClearChanges()

	storage.RemoveComponent(existing, reflect.TypeFor[Velocity]())
	for id := range filter.RemovedEntities() {
		fmt.Println("removed", id == existing)
	}
	filter.ClearChanges()

	fmt.Println("tracked", filter.Len())
	// Output:
	// added true 1
	// removed true
	// tracked 0
}
