package rigidbody_test

import (
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/internal/log"
	"github.com/plus3/bodysync/physics"
	"github.com/plus3/bodysync/physics/sim"
	"github.com/plus3/bodysync/rigidbody"
)

// countingWorld records calls made through the physics.World boundary.
type countingWorld struct {
	*sim.World
	destroyed map[physics.Handle]int
	fields    []physics.FieldID
	states    int
}

func newCountingWorld() *countingWorld {
	return &countingWorld{World: sim.NewWorld(), destroyed: make(map[physics.Handle]int)}
}

func (w *countingWorld) DestroyBody(h physics.Handle) {
	w.destroyed[h]++
	w.World.DestroyBody(h)
}

func (w *countingWorld) SetField(h physics.Handle, field physics.FieldID, value any) error {
	w.fields = append(w.fields, field)
	return w.World.SetField(h, field, value)
}

func (w *countingWorld) SetTransientState(h physics.Handle, pose physics.Pose, velocities physics.Velocities) error {
	w.states++
	return w.World.SetTransientState(h, pose, velocities)
}

type harness struct {
	storage   *ecs.Storage
	world     *countingWorld
	pipeline  *rigidbody.Pipeline
	scheduler *ecs.Scheduler
}

func newHarness(opts rigidbody.Options) *harness {
	registry := ecs.NewComponentRegistry()
	rigidbody.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	world := newCountingWorld()

	if opts.Logger == nil {
		opts.Logger = log.Nop()
	}
	pipeline := rigidbody.NewPipeline(world, opts)
	scheduler := ecs.NewScheduler(storage, opts.Logger)
	pipeline.Register(scheduler)

	return &harness{storage: storage, world: world, pipeline: pipeline, scheduler: scheduler}
}

func (h *harness) spawn() ecs.EntityId {
	return h.storage.Spawn(rigidbody.NewRigidBody(rigidbody.DefaultStaticProperties()), rigidbody.NewPhysicsTransform())
}

func (h *harness) body(id ecs.EntityId) *rigidbody.RigidBody {
	return ecs.ReadComponent[rigidbody.RigidBody](h.storage, id)
}

func (h *harness) transform(id ecs.EntityId) *rigidbody.PhysicsTransform {
	return ecs.ReadComponent[rigidbody.PhysicsTransform](h.storage, id)
}
