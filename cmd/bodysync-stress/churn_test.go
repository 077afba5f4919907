package main

import (
	"math/rand"
	"testing"

	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/internal/log"
	"github.com/plus3/bodysync/physics/sim"
	"github.com/plus3/bodysync/rigidbody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetsRing(t *testing.T) {
	pool := newTargets(2)
	r := rand.New(rand.NewSource(1))
	assert.Nil(t, pool.pick(r))

	a := rigidbody.NewRigidBody(rigidbody.DefaultStaticProperties())
	b := rigidbody.NewRigidBody(rigidbody.DefaultStaticProperties())
	c := rigidbody.NewRigidBody(rigidbody.DefaultStaticProperties())
	pool.add(a.Dynamic)
	pool.add(b.Dynamic)
	pool.add(c.Dynamic)

	assert.Len(t, pool.props, 2)
	assert.Same(t, c.Dynamic, pool.props[0])
	assert.NotNil(t, pool.pick(r))
}

func TestChurnKeepsBodyCount(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	rigidbody.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	world := sim.NewWorld()
	r := rand.New(rand.NewSource(7))
	pool := newTargets(64)

	for range 20 {
		spawnBody(storageSpawner{storage}, r, pool)
	}

	scheduler := ecs.NewScheduler(storage, log.Nop())
	churn := &churnSystem{perTick: 5, rand: r, targets: pool}
	scheduler.Register(churn)
	pipeline := rigidbody.NewPipeline(world, rigidbody.Options{Strict: true})
	pipeline.Register(scheduler)

	for range 11 {
		scheduler.Once(0.016)
	}

	require.Equal(t, uint64(55), churn.spawned)
	assert.Equal(t, churn.spawned, churn.deleted+churn.detached)
	assert.Equal(t, pipeline.Input.Bodies(), world.Len())
	assert.Equal(t, 20, world.Len())

	assert.Equal(t, churn.detached, churn.reaped+uint64(len(churn.orphans)))
	assert.Equal(t, 20+len(churn.orphans), storage.Len())
}
