// Package physics defines the boundary between the synchronization systems and
// a simulation subsystem. The subsystem owns every body; callers only hold
// opaque handles.
package physics

import "errors"

var (
	ErrUnknownBody  = errors.New("physics: unknown body")
	ErrUnknownField = errors.New("physics: unknown field")
	ErrFieldType    = errors.New("physics: wrong value type for field")
)

// Handle identifies a body created by a World. Zero is never a valid handle.
type Handle uint64

type ShapeKind uint8

const (
	ShapeNone ShapeKind = iota
	ShapeSphere
	ShapeBox
	ShapeCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeNone:
		return "none"
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// Shape describes a collision shape. Radius is used by spheres and capsules,
// HalfExtents by boxes and (Y only) by capsules.
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents Vec3
}

// StaticParams are the body properties that change rarely and are pushed field by field.
type StaticParams struct {
	Mass            float64
	Inertia         Vec3
	Shape           Shape
	Restitution     float64
	Friction        float64
	RollingFriction float64
	LinearDamping   float64
	AngularDamping  float64
	LinearFactor    Vec3
	AngularFactor   Vec3
	COMOffset       Vec3
}

// Pose is a body's position and orientation.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// Velocities is a body's linear and angular velocity.
type Velocities struct {
	Linear  Vec3
	Angular Vec3
}

// FieldID names one mutable static field.
type FieldID uint8

const (
	FieldMass FieldID = iota + 1
	FieldInertia
	FieldShape
	FieldRestitution
	FieldFriction
	FieldRollingFriction
	FieldLinearDamping
	FieldAngularDamping
	FieldLinearFactor
	FieldAngularFactor
	FieldCOMOffset
)

var fieldNames = map[FieldID]string{
	FieldMass:            "mass",
	FieldInertia:         "inertia",
	FieldShape:           "shape",
	FieldRestitution:     "restitution",
	FieldFriction:        "friction",
	FieldRollingFriction: "rollingFriction",
	FieldLinearDamping:   "linearDamping",
	FieldAngularDamping:  "angularDamping",
	FieldLinearFactor:    "linearFactor",
	FieldAngularFactor:   "angularFactor",
	FieldCOMOffset:       "comOffset",
}

func (f FieldID) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// World is the simulation subsystem. It is authoritative for a body's
// transient state (pose and velocities) once the body exists.
type World interface {
	// CreateBody adds a body and returns its handle. Handles are never reused.
	CreateBody(params StaticParams, pose Pose, velocities Velocities) Handle
	// DestroyBody removes a body. Destroying an unknown handle is a no-op.
	DestroyBody(h Handle)
	// SetField updates one static field. The value type must match the field:
	// float64 for scalars, Vec3 for vectors and Shape for FieldShape.
	SetField(h Handle, field FieldID, value any) error
	// SetTransientState overwrites pose and velocities.
	SetTransientState(h Handle, pose Pose, velocities Velocities) error
	// TransientState reports the current pose and velocities; ok is false for
	// unknown or destroyed handles.
	TransientState(h Handle) (pose Pose, velocities Velocities, ok bool)
	// Step advances the simulation by dt seconds.
	Step(dt float64)
}
