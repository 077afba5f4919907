package rigidbody

import (
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/physics"
)

// StepSystem advances the physics world by the frame's delta time.
type StepSystem struct {
	world physics.World
	bound bool
	steps uint64
}

// NewStepSystem creates a step system for world.
func NewStepSystem(world physics.World) *StepSystem {
	return &StepSystem{world: world}
}

// Init checks the world. It panics when called twice.
func (s *StepSystem) Init(*ecs.Storage) {
	if s.bound {
		panic("StepSystem.Init() called twice")
	}
	if s.world == nil {
		panic("StepSystem requires a physics world")
	}
	s.bound = true
}

// Shutdown allows the system to be registered again.
func (s *StepSystem) Shutdown() {
	s.bound = false
}

// Execute steps the world once.
func (s *StepSystem) Execute(frame *ecs.UpdateFrame) {
	s.world.Step(frame.DeltaTime)
	s.steps++
}

// Steps reports how many times the world was stepped.
func (s *StepSystem) Steps() uint64 {
	return s.steps
}
