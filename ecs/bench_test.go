package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/bodysync/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	}
}

func BenchmarkSpawnWithFilter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	filter := ecs.NewFilter[positionVelocity](true)
	filter.SetEngine(storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	}
}

func BenchmarkToggleComponentWithFilter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	filter := ecs.NewFilter[positionVelocity](true)
	filter.SetEngine(storage)

	ids := make([]ecs.EntityId, 1000)
	for i := range ids {
		ids[i] = storage.Spawn(Position{}, Velocity{})
	}
	velocityType := reflect.TypeFor[Velocity]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := ids[i%len(ids)]
		storage.RemoveComponent(id, velocityType)
		storage.AddComponent(id, Velocity{})
		if i%len(ids) == 0 {
			filter.ClearChanges()
		}
	}
}

func BenchmarkFilterEntities(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10000; i++ {
		storage.Spawn(Position{}, Velocity{DX: 1})
	}
	filter := ecs.NewFilter[positionVelocity](false)
	filter.SetEngine(storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, item := range filter.Entities() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func BenchmarkViewIter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10000; i++ {
		storage.Spawn(Position{}, Velocity{DX: 1})
	}
	view := ecs.NewView[positionVelocity](storage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, item := range view.Iter() {
			item.Position.X += item.Velocity.DX
		}
	}
}
