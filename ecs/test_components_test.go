package ecs_test

import (
	"reflect"

	"github.com/plus3/bodysync/ecs"
)

// Common test component types
type Position struct {
	X, Y, Z float32
}

type Velocity struct {
	DX, DY, DZ float32
}

type Mass struct {
	Value float32
}

type Name struct {
	Value string
}

type Sleeping struct{}

type Score int32

type Inventory struct {
	Items []string
}

type positionVelocity struct {
	*Position
	*Velocity
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Mass](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Sleeping](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[string](registry)
	return registry
}

// recorder is an Observer that keeps every notification it receives
type recorder struct {
	attached []string
	detached []string
}

func (r *recorder) ComponentAttached(id ecs.EntityId, compType reflect.Type) {
	r.attached = append(r.attached, compType.Name())
}

func (r *recorder) ComponentDetached(id ecs.EntityId, compType reflect.Type) {
	r.detached = append(r.detached, compType.Name())
}
