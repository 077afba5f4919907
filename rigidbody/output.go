package rigidbody

import (
	"fmt"

	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/internal/log"
	"github.com/plus3/bodysync/physics"
)

type transformItem struct {
	*RigidBody
	*PhysicsTransform
}

// OutputSystem copies the simulated state of every body into the entity's
// PhysicsTransform working value and touches it.
//
// It reads bodies through the handle stored on the RigidBody. A handle the
// world no longer knows is an ordering bug: with Strict set the system panics,
// otherwise the entity is skipped and a warning is logged.
type OutputSystem struct {
	Strict bool

	world    physics.World
	logger   *log.Logger
	entities *ecs.Filter[transformItem]
	written  uint64
	skipped  uint64
}

// NewOutputSystem creates an output system that reads body state from world.
func NewOutputSystem(world physics.World, logger *log.Logger) *OutputSystem {
	return &OutputSystem{
		world:  world,
		logger: logger.Named("rigidbody.output"),
	}
}

// Init binds the system's filter to storage. It panics when called twice.
func (s *OutputSystem) Init(storage *ecs.Storage) {
	if s.entities != nil {
		panic("OutputSystem.Init() called twice")
	}
	if s.world == nil {
		panic("OutputSystem requires a physics world")
	}
	s.entities = ecs.NewFilter[transformItem](false)
	s.entities.SetEngine(storage)
}

// Shutdown unbinds the filter.
func (s *OutputSystem) Shutdown() {
	if s.entities == nil {
		return
	}
	s.entities.SetEngine(nil)
	s.entities = nil
}

// Execute writes the simulated pose and velocity of every body into its transform.
func (s *OutputSystem) Execute(*ecs.UpdateFrame) {
	if s.entities == nil {
		panic("OutputSystem.Execute() called before Init()")
	}

	for id, item := range s.entities.Entities() {
		h := item.RigidBody.Body()
		if h == 0 {
			// Attached after this cycle's input pass; the body appears next cycle.
			continue
		}
		pose, velocities, ok := s.world.TransientState(h)
		if !ok {
			s.stale(id, h)
			continue
		}
		props := item.PhysicsTransform.Properties
		if props == nil {
			panic(fmt.Sprintf("OutputSystem: entity %d has a PhysicsTransform without property buffer, use NewPhysicsTransform", id))
		}
		props.Update(func(t *Transform) {
			t.Position = vecFromPhysics(pose.Position)
			t.Rotation = quatFromPhysics(pose.Rotation)
			t.Velocity = vecFromPhysics(velocities.Linear)
		})
		s.written++
	}

	// Output has no delta work but still owns its filter's change sets.
	s.entities.ClearChanges()
}

func (s *OutputSystem) stale(id ecs.EntityId, h physics.Handle) {
	if s.Strict {
		panic(fmt.Sprintf("OutputSystem: entity %d refers to destroyed body %d", id, h))
	}
	s.skipped++
	s.logger.Warn("skipping entity with stale body", log.Uint64("entity", uint64(id)), log.Uint64("body", uint64(h)))
}

// Written reports how many transforms were updated.
func (s *OutputSystem) Written() uint64 { return s.written }

// Skipped reports how many stale bodies were seen.
func (s *OutputSystem) Skipped() uint64 { return s.skipped }
