package rigidbody

import (
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/physics"
	"github.com/plus3/bodysync/staged"
)

// StaticProperties change rarely. The InputSystem pushes them field by field.
type StaticProperties struct {
	Shape           Shape
	Restitution     float32
	LinearFactor    Vec3
	AngularFactor   Vec3
	Mass            float32
	Inertia         Vec3
	COMOffset       Vec3
	Friction        float32
	RollingFriction float32
	LinearDamping   float32
	AngularDamping  float32
}

// DefaultStaticProperties describes a unit mass body that moves freely on all axes.
func DefaultStaticProperties() StaticProperties {
	return StaticProperties{
		Shape:         Sphere(1),
		LinearFactor:  Vec3{1, 1, 1},
		AngularFactor: Vec3{1, 1, 1},
		Mass:          1,
		Inertia:       Vec3{1, 1, 1},
		Friction:      0.5,
	}
}

func (p StaticProperties) params() physics.StaticParams {
	return physics.StaticParams{
		Mass:            float64(p.Mass),
		Inertia:         p.Inertia.toPhysics(),
		Shape:           p.Shape.toPhysics(),
		Restitution:     float64(p.Restitution),
		Friction:        float64(p.Friction),
		RollingFriction: float64(p.RollingFriction),
		LinearDamping:   float64(p.LinearDamping),
		AngularDamping:  float64(p.AngularDamping),
		LinearFactor:    p.LinearFactor.toPhysics(),
		AngularFactor:   p.AngularFactor.toPhysics(),
		COMOffset:       p.COMOffset.toPhysics(),
	}
}

// DynamicProperties are pushed to the body as a whole whenever they change.
type DynamicProperties struct {
	Position        Vec3
	Rotation        Quat
	LinearVelocity  Vec3
	AngularVelocity Vec3
}

func (p DynamicProperties) state() (physics.Pose, physics.Velocities) {
	return physics.Pose{Position: p.Position.toPhysics(), Rotation: p.Rotation.toPhysics()},
		physics.Velocities{Linear: p.LinearVelocity.toPhysics(), Angular: p.AngularVelocity.toPhysics()}
}

// RigidBody is the component that puts an entity into the physics world.
//
// Copies share the same staged buffers. The body handle is written only by the
// InputSystem.
type RigidBody struct {
	Static  *staged.Property[StaticProperties]
	Dynamic *staged.Property[DynamicProperties]
	body    physics.Handle
}

func NewRigidBody(static StaticProperties) RigidBody {
	return RigidBody{
		Static:  staged.New(static),
		Dynamic: staged.New(DynamicProperties{Rotation: IdentityQuat}),
	}
}

// Body returns the handle of the physics body, or 0 before the InputSystem created it.
func (rb *RigidBody) Body() physics.Handle {
	return rb.body
}

// WorkingCopy returns the writable static properties. Call Touch to apply them.
func (rb *RigidBody) WorkingCopy() *StaticProperties {
	return rb.Static.WorkingCopy()
}

// Latest returns the most recent static properties, applied or not.
func (rb *RigidBody) Latest() StaticProperties {
	return rb.Static.Latest()
}

// Touch marks the static properties for the next cycle.
func (rb *RigidBody) Touch() {
	rb.Static.Touch()
}

// SetDynamicProperties overwrites the pose and velocities the body will be
// moved to on the next cycle.
func (rb *RigidBody) SetDynamicProperties(position Vec3, rotation Quat, linearVelocity, angularVelocity Vec3) {
	rb.Dynamic.Update(func(d *DynamicProperties) {
		d.Position = position
		d.Rotation = rotation
		d.LinearVelocity = linearVelocity
		d.AngularVelocity = angularVelocity
	})
}

// Transform is the body state observed after a step.
type Transform struct {
	Position Vec3
	Rotation Quat
	Velocity Vec3
}

// PhysicsTransform receives the simulated state of an entity's RigidBody.
type PhysicsTransform struct {
	Properties *staged.Property[Transform]
}

func NewPhysicsTransform() PhysicsTransform {
	return PhysicsTransform{Properties: staged.New(Transform{Rotation: IdentityQuat})}
}

// RegisterComponents adds the package's components to registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[RigidBody](registry)
	ecs.RegisterComponent[PhysicsTransform](registry)
}
