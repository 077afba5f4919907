package rigidbody

import "github.com/plus3/bodysync/physics"

// Vec3 is the vector type stored in components.
type Vec3 struct{ X, Y, Z float32 }

// Quat is the rotation type stored in components.
type Quat struct{ X, Y, Z, W float32 }

var IdentityQuat = Quat{W: 1}

// Shape is the component side description of a collision shape.
type Shape struct {
	Kind        physics.ShapeKind
	Radius      float32
	HalfExtents Vec3
}

func Sphere(radius float32) Shape {
	return Shape{Kind: physics.ShapeSphere, Radius: radius}
}

func Box(halfExtents Vec3) Shape {
	return Shape{Kind: physics.ShapeBox, HalfExtents: halfExtents}
}

func (v Vec3) toPhysics() physics.Vec3 {
	return physics.Vec3{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func vecFromPhysics(v physics.Vec3) Vec3 {
	return Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func (q Quat) toPhysics() physics.Quat {
	if q == (Quat{}) {
		return physics.IdentityQuat
	}
	return physics.Quat{X: float64(q.X), Y: float64(q.Y), Z: float64(q.Z), W: float64(q.W)}
}

func quatFromPhysics(q physics.Quat) Quat {
	return Quat{X: float32(q.X), Y: float32(q.Y), Z: float32(q.Z), W: float32(q.W)}
}

func (s Shape) toPhysics() physics.Shape {
	return physics.Shape{Kind: s.Kind, Radius: float64(s.Radius), HalfExtents: s.HalfExtents.toPhysics()}
}
