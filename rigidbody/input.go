package rigidbody

import (
	"fmt"

	"github.com/kamstrup/intmap"
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/internal/log"
	"github.com/plus3/bodysync/physics"
)

type rigidBodyItem struct {
	*RigidBody
}

// InputStats counts the work done by an InputSystem since it was created.
type InputStats struct {
	Created       uint64
	Destroyed     uint64
	Replaced      uint64
	StaticPushes  uint64
	FieldPushes   uint64
	DynamicPushes uint64
	PushErrors    uint64
}

// InputSystem applies RigidBody changes to the physics world. Each cycle it
// creates bodies for new components, pushes static and dynamic changes, then
// destroys the bodies of removed components.
type InputSystem struct {
	world    physics.World
	logger   *log.Logger
	entities *ecs.Filter[rigidBodyItem]
	bodies   *intmap.Map[ecs.EntityId, physics.Handle]
	stats    InputStats
}

// NewInputSystem creates an input system that pushes RigidBody changes into world.
func NewInputSystem(world physics.World, logger *log.Logger) *InputSystem {
	return &InputSystem{
		world:  world,
		logger: logger.Named("rigidbody.input"),
		bodies: intmap.New[ecs.EntityId, physics.Handle](64),
	}
}

// Init binds the system's filter to storage. It panics when called twice.
func (s *InputSystem) Init(storage *ecs.Storage) {
	if s.entities != nil {
		panic("InputSystem.Init() called twice")
	}
	if s.world == nil {
		panic("InputSystem requires a physics world")
	}
	s.entities = ecs.NewFilter[rigidBodyItem](true)
	s.entities.SetEngine(storage)
}

// Shutdown unbinds the filter. Bodies already created stay in the world.
func (s *InputSystem) Shutdown() {
	if s.entities == nil {
		return
	}
	s.entities.SetEngine(nil)
	s.entities = nil
	s.logger.Debug("input system shut down", log.Int("bodies", s.bodies.Len()))
}

// Execute runs one input pass: create, push static, push dynamic, destroy.
func (s *InputSystem) Execute(*ecs.UpdateFrame) {
	if s.entities == nil {
		panic("InputSystem.Execute() called before Init()")
	}

	for id, item := range s.entities.AddedEntities() {
		s.create(id, item.RigidBody)
	}

	for id, item := range s.entities.Entities() {
		rb := item.RigidBody
		if rb.Static.HasChanges() {
			s.pushStatic(id, rb)
		}
		if rb.Dynamic.HasChanges() {
			s.pushDynamic(id, rb)
		}
	}

	for id := range s.entities.RemovedEntities() {
		s.destroy(id)
	}

	s.entities.ClearChanges()
}

func (s *InputSystem) create(id ecs.EntityId, rb *RigidBody) {
	if rb.Static == nil || rb.Dynamic == nil {
		panic(fmt.Sprintf("InputSystem: entity %d has a RigidBody without property buffers, use NewRigidBody", id))
	}

	// The entity left and came back within one cycle: its old body is stale.
	if old, ok := s.bodies.Get(id); ok {
		s.world.DestroyBody(old)
		s.stats.Replaced++
		s.stats.Destroyed++
	}

	pose, velocities := rb.Dynamic.Stable().state()
	h := s.world.CreateBody(rb.Static.Stable().params(), pose, velocities)
	rb.body = h
	s.bodies.Put(id, h)
	s.stats.Created++

	s.logger.Debug("body created", log.Uint64("entity", uint64(id)), log.Uint64("body", uint64(h)))
}

func (s *InputSystem) pushStatic(id ecs.EntityId, rb *RigidBody) {
	previous, ok := rb.Static.Promote()
	if !ok {
		return
	}
	s.stats.StaticPushes++
	current := rb.Static.Stable()

	push := func(field physics.FieldID, value any) {
		s.stats.FieldPushes++
		if err := s.world.SetField(rb.body, field, value); err != nil {
			s.stats.PushErrors++
			s.logger.Error("static field push failed",
				log.Uint64("entity", uint64(id)),
				log.String("field", field.String()),
				log.Error(err))
		}
	}

	if current.Mass != previous.Mass {
		push(physics.FieldMass, float64(current.Mass))
	}
	if current.Inertia != previous.Inertia {
		push(physics.FieldInertia, current.Inertia.toPhysics())
	}
	if current.Shape != previous.Shape {
		push(physics.FieldShape, current.Shape.toPhysics())
	}
	if current.Restitution != previous.Restitution {
		push(physics.FieldRestitution, float64(current.Restitution))
	}
	if current.Friction != previous.Friction {
		push(physics.FieldFriction, float64(current.Friction))
	}
	if current.RollingFriction != previous.RollingFriction {
		push(physics.FieldRollingFriction, float64(current.RollingFriction))
	}
	if current.LinearDamping != previous.LinearDamping {
		push(physics.FieldLinearDamping, float64(current.LinearDamping))
	}
	if current.AngularDamping != previous.AngularDamping {
		push(physics.FieldAngularDamping, float64(current.AngularDamping))
	}
	if current.LinearFactor != previous.LinearFactor {
		push(physics.FieldLinearFactor, current.LinearFactor.toPhysics())
	}
	if current.AngularFactor != previous.AngularFactor {
		push(physics.FieldAngularFactor, current.AngularFactor.toPhysics())
	}
	if current.COMOffset != previous.COMOffset {
		push(physics.FieldCOMOffset, current.COMOffset.toPhysics())
	}
}

func (s *InputSystem) pushDynamic(id ecs.EntityId, rb *RigidBody) {
	if _, ok := rb.Dynamic.Promote(); !ok {
		return
	}
	s.stats.DynamicPushes++
	pose, velocities := rb.Dynamic.Stable().state()
	if err := s.world.SetTransientState(rb.body, pose, velocities); err != nil {
		s.stats.PushErrors++
		s.logger.Error("dynamic state push failed", log.Uint64("entity", uint64(id)), log.Error(err))
	}
}

func (s *InputSystem) destroy(id ecs.EntityId) {
	h, ok := s.bodies.Get(id)
	if !ok {
		return
	}
	s.world.DestroyBody(h)
	s.bodies.Del(id)
	s.stats.Destroyed++

	s.logger.Debug("body destroyed", log.Uint64("entity", uint64(id)), log.Uint64("body", uint64(h)))
}

// Body returns the handle created for an entity.
func (s *InputSystem) Body(id ecs.EntityId) (physics.Handle, bool) {
	return s.bodies.Get(id)
}

// Bodies reports how many bodies the system currently owns.
func (s *InputSystem) Bodies() int {
	return s.bodies.Len()
}

// Stats returns the counters accumulated since the system was created.
func (s *InputSystem) Stats() InputStats {
	return s.stats
}
