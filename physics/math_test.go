package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	assert.Equal(t, Vec3{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec3{3, 3, 3}, b.Sub(a))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, Vec3{4, 10, 18}, a.Mul(b))
	assert.InDelta(t, 5.0, Vec3{3, 4, 0}.Length(), 1e-12)
	assert.True(t, a.Near(Vec3{1.0001, 2, 3}, 1e-3))
}

func TestQuatIdentity(t *testing.T) {
	q := Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}.Normalized()
	assert.Equal(t, q, IdentityQuat.Mul(q))
	assert.Equal(t, IdentityQuat, Quat{}.Normalized())
	assert.Equal(t, q, q.Integrate(Vec3{}, 1))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "rollingFriction", FieldRollingFriction.String())
	assert.Equal(t, "unknown", FieldID(0).String())
	assert.Equal(t, "box", ShapeBox.String())
}
