package rigidbody_test

import (
	"fmt"

	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/physics/sim"
	"github.com/plus3/bodysync/rigidbody"
)

func ExamplePipeline() {
	registry := ecs.NewComponentRegistry()
	rigidbody.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	world := sim.NewWorld()
	scheduler := ecs.NewScheduler(storage, nil)
	rigidbody.NewPipeline(world, rigidbody.Options{}).Register(scheduler)

	id := storage.Spawn(rigidbody.NewRigidBody(rigidbody.DefaultStaticProperties()), rigidbody.NewPhysicsTransform())
	scheduler.Once(0.5)

	rb := ecs.ReadComponent[rigidbody.RigidBody](storage, id)
	rb.SetDynamicProperties(rigidbody.Vec3{}, rigidbody.IdentityQuat, rigidbody.Vec3{X: 2}, rigidbody.Vec3{})
	scheduler.Once(0.5)

	transform := ecs.ReadComponent[rigidbody.PhysicsTransform](storage, id)
	fmt.Printf("bodies=%d x=%.1f\n", world.Len(), transform.Properties.Latest().Position.X)
	// Output: bodies=1 x=1.0
}
