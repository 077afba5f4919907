// Package sim is a small in-process physics.World: bodies live in an arena
// keyed by handle and are advanced with semi-implicit Euler integration.
// It has no collision detection.
package sim

import (
	"fmt"
	"math"

	"github.com/kamstrup/intmap"
	"github.com/plus3/bodysync/physics"
)

type body struct {
	params     physics.StaticParams
	pose       physics.Pose
	velocities physics.Velocities
}

func (b *body) static() bool {
	return b.params.Mass <= 0
}

type Option func(*World)

// WithGravity sets the acceleration applied to every dynamic body.
func WithGravity(g physics.Vec3) Option {
	return func(w *World) { w.gravity = g }
}

// World implements physics.World. It is not safe for concurrent use.
type World struct {
	bodies    *intmap.Map[physics.Handle, *body]
	next      physics.Handle
	gravity   physics.Vec3
	created   uint64
	destroyed uint64
	steps     uint64
	elapsed   float64
}

var _ physics.World = (*World)(nil)

func NewWorld(opts ...Option) *World {
	w := &World{bodies: intmap.New[physics.Handle, *body](64)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) CreateBody(params physics.StaticParams, pose physics.Pose, velocities physics.Velocities) physics.Handle {
	w.next++
	if pose.Rotation == (physics.Quat{}) {
		pose.Rotation = physics.IdentityQuat
	}
	w.bodies.Put(w.next, &body{params: params, pose: pose, velocities: velocities})
	w.created++
	return w.next
}

func (w *World) DestroyBody(h physics.Handle) {
	if w.bodies.Del(h) {
		w.destroyed++
	}
}

func (w *World) lookup(h physics.Handle) (*body, error) {
	b, ok := w.bodies.Get(h)
	if !ok {
		return nil, fmt.Errorf("%w: %d", physics.ErrUnknownBody, h)
	}
	return b, nil
}

func (w *World) SetField(h physics.Handle, field physics.FieldID, value any) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	p := &b.params
	switch field {
	case physics.FieldMass:
		return setScalar(&p.Mass, field, value)
	case physics.FieldRestitution:
		return setScalar(&p.Restitution, field, value)
	case physics.FieldFriction:
		return setScalar(&p.Friction, field, value)
	case physics.FieldRollingFriction:
		return setScalar(&p.RollingFriction, field, value)
	case physics.FieldLinearDamping:
		return setScalar(&p.LinearDamping, field, value)
	case physics.FieldAngularDamping:
		return setScalar(&p.AngularDamping, field, value)
	case physics.FieldInertia:
		return setVec(&p.Inertia, field, value)
	case physics.FieldLinearFactor:
		return setVec(&p.LinearFactor, field, value)
	case physics.FieldAngularFactor:
		return setVec(&p.AngularFactor, field, value)
	case physics.FieldCOMOffset:
		return setVec(&p.COMOffset, field, value)
	case physics.FieldShape:
		s, ok := value.(physics.Shape)
		if !ok {
			return fmt.Errorf("%w: %s expects physics.Shape, got %T", physics.ErrFieldType, field, value)
		}
		p.Shape = s
		return nil
	default:
		return fmt.Errorf("%w: %d", physics.ErrUnknownField, field)
	}
}

func setScalar(dst *float64, field physics.FieldID, value any) error {
	v, ok := value.(float64)
	if !ok {
		return fmt.Errorf("%w: %s expects float64, got %T", physics.ErrFieldType, field, value)
	}
	*dst = v
	return nil
}

func setVec(dst *physics.Vec3, field physics.FieldID, value any) error {
	v, ok := value.(physics.Vec3)
	if !ok {
		return fmt.Errorf("%w: %s expects physics.Vec3, got %T", physics.ErrFieldType, field, value)
	}
	*dst = v
	return nil
}

func (w *World) SetTransientState(h physics.Handle, pose physics.Pose, velocities physics.Velocities) error {
	b, err := w.lookup(h)
	if err != nil {
		return err
	}
	b.pose = pose
	b.velocities = velocities
	return nil
}

func (w *World) TransientState(h physics.Handle) (physics.Pose, physics.Velocities, bool) {
	b, ok := w.bodies.Get(h)
	if !ok {
		return physics.Pose{}, physics.Velocities{}, false
	}
	return b.pose, b.velocities, true
}

// Step advances every dynamic body. Static bodies (mass <= 0) never move.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.steps++
	w.elapsed += dt
	w.bodies.ForEach(func(_ physics.Handle, b *body) bool {
		if b.static() {
			return true
		}
		integrate(b, w.gravity, dt)
		return true
	})
}

func integrate(b *body, gravity physics.Vec3, dt float64) {
	p := &b.params
	v := &b.velocities

	v.Linear = v.Linear.Add(gravity.Scale(dt)).Mul(p.LinearFactor)
	v.Linear = v.Linear.Scale(dampingFactor(p.LinearDamping, dt))
	b.pose.Position = b.pose.Position.Add(v.Linear.Scale(dt))

	v.Angular = v.Angular.Mul(p.AngularFactor).Scale(dampingFactor(p.AngularDamping, dt))
	b.pose.Rotation = b.pose.Rotation.Integrate(v.Angular, dt)
}

func dampingFactor(damping, dt float64) float64 {
	if damping <= 0 {
		return 1
	}
	if damping >= 1 {
		return 0
	}
	return math.Pow(1-damping, dt)
}

// Params returns the static parameters currently applied to a body.
func (w *World) Params(h physics.Handle) (physics.StaticParams, bool) {
	b, ok := w.bodies.Get(h)
	if !ok {
		return physics.StaticParams{}, false
	}
	return b.params, true
}

func (w *World) Has(h physics.Handle) bool {
	return w.bodies.Has(h)
}

// Len reports the number of live bodies.
func (w *World) Len() int {
	return w.bodies.Len()
}

func (w *World) Created() uint64   { return w.created }
func (w *World) Destroyed() uint64 { return w.destroyed }
func (w *World) Steps() uint64     { return w.steps }
func (w *World) Elapsed() float64  { return w.elapsed }
