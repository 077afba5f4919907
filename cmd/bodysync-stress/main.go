package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"reflect"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/plus3/bodysync/config"
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/internal/log"
	"github.com/plus3/bodysync/physics"
	"github.com/plus3/bodysync/physics/sim"
	"github.com/plus3/bodysync/rigidbody"
	"golang.org/x/sync/errgroup"
)

var rigidBodyType = reflect.TypeFor[rigidbody.RigidBody]()

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file.")
	duration := flag.Duration("duration", 0, "Override stress.duration.")
	entityCount := flag.Int("entities", -1, "Override stress.entities.")
	profileMode := flag.String("profile", "", "Override stress.profile (cpu or mem).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *duration > 0 {
		cfg.Stress.Duration = *duration
	}
	if *entityCount >= 0 {
		cfg.Stress.Entities = *entityCount
	}
	if *profileMode != "" {
		cfg.Stress.Profile = *profileMode
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch cfg.Stress.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	report, err := run(cfg, logger)
	if err != nil {
		logger.Error("stress test failed", log.Error(err))
		os.Exit(1)
	}
	report.GCPauseMetrics = *gcPauseMetrics

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("failed to generate report", log.Error(err))
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

func run(cfg *config.Config, baseLogger *log.Logger) (*Report, error) {
	runID := uuid.New()
	logger := baseLogger.With(log.String("run_id", runID.String()))
	logger.Info("starting stress test",
		log.Duration("duration", cfg.Stress.Duration),
		log.Int("entities", cfg.Stress.Entities),
		log.Int("writers", cfg.Stress.Writers))

	registry := ecs.NewComponentRegistry()
	rigidbody.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	g := cfg.World.Gravity
	world := sim.NewWorld(sim.WithGravity(physics.Vec3{X: g.X, Y: g.Y, Z: g.Z}))

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	pool := newTargets(cfg.Stress.Entities + cfg.Stress.ChurnPerTick)

	for range cfg.Stress.Entities {
		spawnBody(storageSpawner{storage}, r, pool)
	}
	logger.Info("population complete", log.Int("entities", storage.Len()))

	scheduler := ecs.NewScheduler(storage, logger)
	churn := &churnSystem{perTick: cfg.Stress.ChurnPerTick, rand: r, targets: pool}
	pipeline := rigidbody.NewPipeline(world, rigidbody.Options{Logger: logger, Strict: cfg.Sync.Strict})
	scheduler.Register(churn)
	pipeline.Register(scheduler)

	report := &Report{
		RunID:    runID,
		Duration: cfg.Stress.Duration,
		Entities: cfg.Stress.Entities,
		Writers:  cfg.Stress.Writers,
		Tick:     cfg.Scheduler.Tick,
	}
	report.UpdateTime.Samples = make([]time.Duration, 0)
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Stress.Duration)
	defer cancel()

	var writes atomic.Uint64
	group, ctx := errgroup.WithContext(ctx)

	for i := range cfg.Stress.Writers {
		seed := r.Int63() + int64(i)
		group.Go(func() error {
			return runWriter(ctx, pool, cfg.Stress.WriteInterval, seed, &writes)
		})
	}

	startTime := time.Now()
	group.Go(func() error {
		ticker := time.NewTicker(cfg.Scheduler.Tick)
		defer ticker.Stop()
		lastFrameTime := time.Now()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				deltaTime := now.Sub(lastFrameTime)
				lastFrameTime = now

				updateStart := time.Now()
				scheduler.Once(deltaTime.Seconds())
				report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
				report.TotalUpdates++
			}
		}
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Input = pipeline.Input.Stats()
	report.LiveBodies = world.Len()
	report.OutputWritten = pipeline.Output.Written()
	report.OutputSkipped = pipeline.Output.Skipped()
	report.ScriptWrites = writes.Load()
	report.Spawned = churn.spawned
	report.Deleted = churn.deleted
	report.Detached = churn.detached
	report.Reaped = churn.reaped
	report.Systems = scheduler.GetStats()

	scheduler.Shutdown()
	logger.Info("stress test complete",
		log.Int64("updates", report.TotalUpdates),
		log.Int("live_bodies", report.LiveBodies),
		log.Uint64("script_writes", report.ScriptWrites))
	return report, nil
}
