package main

import (
	"math/rand"
	"sync"

	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/rigidbody"
	"github.com/plus3/bodysync/staged"
)

// targets is the set of dynamic buffers the async writers pick from. Dead
// entries are harmless: a write to a detached buffer is never promoted.
type targets struct {
	mu    sync.RWMutex
	props []*staged.Property[rigidbody.DynamicProperties]
	next  int
}

func newTargets(capacity int) *targets {
	return &targets{props: make([]*staged.Property[rigidbody.DynamicProperties], 0, capacity)}
}

func (t *targets) add(p *staged.Property[rigidbody.DynamicProperties]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.props) < cap(t.props) {
		t.props = append(t.props, p)
		return
	}
	t.props[t.next] = p
	t.next = (t.next + 1) % len(t.props)
}

func (t *targets) pick(r *rand.Rand) *staged.Property[rigidbody.DynamicProperties] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.props) == 0 {
		return nil
	}
	return t.props[r.Intn(len(t.props))]
}

type churnItem struct {
	*rigidbody.RigidBody
}

// churnSystem deletes and respawns bodies through frame commands so the sync
// systems see additions and removals every tick.
type churnSystem struct {
	perTick  int
	rand     *rand.Rand
	targets  *targets
	entities *ecs.Filter[churnItem]
	spawned  uint64
	deleted  uint64
	detached uint64
	reaped   uint64

	// orphans lost their RigidBody last tick and still hold a transform.
	orphans []ecs.EntityId
}

func (s *churnSystem) Init(storage *ecs.Storage) {
	s.entities = ecs.NewFilter[churnItem](false)
	s.entities.SetEngine(storage)
}

func (s *churnSystem) Shutdown() {
	s.entities.SetEngine(nil)
}

func (s *churnSystem) Execute(frame *ecs.UpdateFrame) {
	for _, id := range s.orphans {
		frame.Commands.Delete(id)
		s.reaped++
	}
	s.orphans = s.orphans[:0]

	victims := 0
	for id := range s.entities.Entities() {
		if victims >= s.perTick {
			break
		}
		// Some victims only lose their RigidBody and keep the transform.
		if s.rand.Intn(3) == 0 {
			frame.Commands.RemoveComponent(id, rigidBodyType)
			s.orphans = append(s.orphans, id)
			s.detached++
		} else {
			frame.Commands.Delete(id)
			s.deleted++
		}
		victims++
	}
	for range victims {
		spawnBody(frame.Commands, s.rand, s.targets)
		s.spawned++
	}
	s.entities.ClearChanges()
}

type spawner interface {
	Spawn(components ...any)
}

type storageSpawner struct {
	storage *ecs.Storage
}

func (s storageSpawner) Spawn(components ...any) {
	s.storage.Spawn(components...)
}

func spawnBody(commands spawner, r *rand.Rand, t *targets) {
	static := rigidbody.DefaultStaticProperties()
	static.Mass = 0.5 + r.Float32()*4
	static.Friction = r.Float32()
	rb := rigidbody.NewRigidBody(static)
	rb.SetDynamicProperties(
		rigidbody.Vec3{X: r.Float32() * 100, Y: r.Float32() * 100, Z: r.Float32() * 100},
		rigidbody.IdentityQuat,
		rigidbody.Vec3{X: r.Float32() - 0.5, Y: r.Float32() - 0.5, Z: r.Float32() - 0.5},
		rigidbody.Vec3{},
	)
	t.add(rb.Dynamic)
	commands.Spawn(rb, rigidbody.NewPhysicsTransform())
}
