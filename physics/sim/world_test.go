package sim

import (
	"testing"

	"github.com/plus3/bodysync/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dynamicParams() physics.StaticParams {
	return physics.StaticParams{
		Mass:          1,
		LinearFactor:  physics.Vec3{X: 1, Y: 1, Z: 1},
		AngularFactor: physics.Vec3{X: 1, Y: 1, Z: 1},
	}
}

func TestCreateDestroy(t *testing.T) {
	w := NewWorld()

	h1 := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})
	h2 := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})
	assert.NotEqual(t, physics.Handle(0), h1)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, w.Len())

	w.DestroyBody(h1)
	w.DestroyBody(h1)
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, uint64(2), w.Created())
	assert.Equal(t, uint64(1), w.Destroyed())

	_, _, ok := w.TransientState(h1)
	assert.False(t, ok)

	h3 := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})
	assert.NotEqual(t, h1, h3, "handles are never reused")
}

func TestDefaultRotationIsIdentity(t *testing.T) {
	w := NewWorld()
	h := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})
	pose, _, ok := w.TransientState(h)
	require.True(t, ok)
	assert.Equal(t, physics.IdentityQuat, pose.Rotation)
}

func TestStepIntegratesVelocity(t *testing.T) {
	w := NewWorld()
	h := w.CreateBody(dynamicParams(),
		physics.Pose{Position: physics.Vec3{X: 1, Y: 2, Z: 3}},
		physics.Velocities{Linear: physics.Vec3{Z: 1}})

	w.Step(0.1)

	pose, vel, ok := w.TransientState(h)
	require.True(t, ok)
	assert.InDelta(t, 1.0, pose.Position.X, 1e-9)
	assert.InDelta(t, 2.0, pose.Position.Y, 1e-9)
	assert.InDelta(t, 3.1, pose.Position.Z, 1e-9)
	assert.Equal(t, physics.Vec3{Z: 1}, vel.Linear)
	assert.Equal(t, uint64(1), w.Steps())
}

func TestStepAppliesGravityAndFactors(t *testing.T) {
	w := NewWorld(WithGravity(physics.Vec3{Y: -10}))

	params := dynamicParams()
	params.LinearFactor = physics.Vec3{X: 1, Y: 0, Z: 1}
	locked := w.CreateBody(params, physics.Pose{}, physics.Velocities{})
	free := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})

	w.Step(1)

	_, lockedVel, _ := w.TransientState(locked)
	_, freeVel, _ := w.TransientState(free)
	assert.Equal(t, 0.0, lockedVel.Linear.Y)
	assert.Equal(t, -10.0, freeVel.Linear.Y)
}

func TestStaticBodiesDoNotMove(t *testing.T) {
	w := NewWorld(WithGravity(physics.Vec3{Y: -10}))
	params := dynamicParams()
	params.Mass = 0
	h := w.CreateBody(params, physics.Pose{Position: physics.Vec3{Y: 5}}, physics.Velocities{Linear: physics.Vec3{X: 1}})

	w.Step(1)

	pose, _, _ := w.TransientState(h)
	assert.Equal(t, physics.Vec3{Y: 5}, pose.Position)
}

func TestDamping(t *testing.T) {
	w := NewWorld()
	params := dynamicParams()
	params.LinearDamping = 1
	h := w.CreateBody(params, physics.Pose{}, physics.Velocities{Linear: physics.Vec3{X: 4}})

	w.Step(0.5)

	_, vel, _ := w.TransientState(h)
	assert.True(t, vel.Linear.IsZero())
}

func TestAngularVelocityRotates(t *testing.T) {
	w := NewWorld()
	h := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{Angular: physics.Vec3{Z: 1}})

	w.Step(0.1)

	pose, _, _ := w.TransientState(h)
	assert.NotEqual(t, physics.IdentityQuat, pose.Rotation)
	q := pose.Rotation
	assert.InDelta(t, 1.0, q.X*q.X+q.Y*q.Y+q.Z*q.Z+q.W*q.W, 1e-9)
}

func TestSetField(t *testing.T) {
	w := NewWorld()
	h := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})

	require.NoError(t, w.SetField(h, physics.FieldFriction, 0.7))
	require.NoError(t, w.SetField(h, physics.FieldRollingFriction, 0.2))
	require.NoError(t, w.SetField(h, physics.FieldInertia, physics.Vec3{X: 2, Y: 2, Z: 2}))
	require.NoError(t, w.SetField(h, physics.FieldShape, physics.Shape{Kind: physics.ShapeSphere, Radius: 0.5}))

	params, ok := w.Params(h)
	require.True(t, ok)
	assert.Equal(t, 0.7, params.Friction)
	assert.Equal(t, 0.2, params.RollingFriction)
	assert.Equal(t, physics.Vec3{X: 2, Y: 2, Z: 2}, params.Inertia)
	assert.Equal(t, physics.ShapeSphere, params.Shape.Kind)
}

func TestSetFieldErrors(t *testing.T) {
	w := NewWorld()
	h := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})

	assert.ErrorIs(t, w.SetField(h, physics.FieldMass, float32(1)), physics.ErrFieldType)
	assert.ErrorIs(t, w.SetField(h, physics.FieldInertia, 1.0), physics.ErrFieldType)
	assert.ErrorIs(t, w.SetField(h, physics.FieldShape, 1.0), physics.ErrFieldType)
	assert.ErrorIs(t, w.SetField(h, physics.FieldID(200), 1.0), physics.ErrUnknownField)
	assert.ErrorIs(t, w.SetField(h+100, physics.FieldMass, 1.0), physics.ErrUnknownBody)
	assert.ErrorIs(t, w.SetTransientState(h+100, physics.Pose{}, physics.Velocities{}), physics.ErrUnknownBody)
}

func TestSetTransientState(t *testing.T) {
	w := NewWorld()
	h := w.CreateBody(dynamicParams(), physics.Pose{}, physics.Velocities{})

	pose := physics.Pose{Position: physics.Vec3{X: 9}, Rotation: physics.IdentityQuat}
	vel := physics.Velocities{Linear: physics.Vec3{Y: 3}}
	require.NoError(t, w.SetTransientState(h, pose, vel))

	gotPose, gotVel, ok := w.TransientState(h)
	require.True(t, ok)
	assert.Equal(t, pose, gotPose)
	assert.Equal(t, vel, gotVel)
}
