package main

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/plus3/bodysync/rigidbody"
)

// runWriter plays the script side: it nudges random bodies from its own
// goroutine until ctx is done.
func runWriter(ctx context.Context, t *targets, interval time.Duration, seed int64, writes *atomic.Uint64) error {
	r := rand.New(rand.NewSource(seed))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p := t.pick(r)
			if p == nil {
				continue
			}
			kick := rigidbody.Vec3{X: r.Float32() - 0.5, Y: r.Float32() * 5, Z: r.Float32() - 0.5}
			p.Update(func(d *rigidbody.DynamicProperties) {
				d.LinearVelocity.X += kick.X
				d.LinearVelocity.Y += kick.Y
				d.LinearVelocity.Z += kick.Z
			})
			writes.Add(1)
		}
	}
}
