package ecs

import (
	"context"
	"reflect"
	"time"

	"github.com/plus3/bodysync/internal/log"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	CommandsApplied uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(d time.Duration) {
	st.executionCount++
	st.lastDuration = d
	st.totalDuration += d
	st.minDuration = min(st.minDuration, d)
	st.maxDuration = max(st.maxDuration, d)
}

// Scheduler manages and executes systems in order.
type Scheduler struct {
	storage     *Storage
	systems     []System
	systemStats []*systemStatsInternal
	logger      *log.Logger
	shutdown    bool

	commands        *Commands
	ticks           uint64
	commandsApplied uint64
}

// NewScheduler creates a new scheduler for the given storage. The logger may be nil.
func NewScheduler(storage *Storage, logger *log.Logger) *Scheduler {
	return &Scheduler{
		storage:  storage,
		systems:  make([]System, 0),
		logger:   logger.Named("scheduler"),
		commands: newCommands(),
	}
}

// Register adds a system to the scheduler and, if it implements Initializer,
// binds it to the scheduler's storage.
func (s *Scheduler) Register(system System) {
	if s.shutdown {
		panic("Scheduler.Register() called after Shutdown()")
	}

	if initializer, ok := system.(Initializer); ok {
		initializer.Init(s.storage)
	}
	s.systems = append(s.systems, system)

	name := systemName(system)
	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	})

	s.logger.Debug("registered system", log.String("system", name), log.Int("position", len(s.systems)-1))
}

// Shutdown releases every system implementing Shutdowner, in reverse
// registration order. Calling it twice is a no-op.
func (s *Scheduler) Shutdown() {
	if s.shutdown {
		return
	}
	s.shutdown = true

	for i := len(s.systems) - 1; i >= 0; i-- {
		if shutdowner, ok := s.systems[i].(Shutdowner); ok {
			shutdowner.Shutdown()
		}
	}

	s.logger.Info("scheduler shut down", log.Int("systems", len(s.systems)))
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// Once runs every system in registration order with the given delta time,
// then flushes the commands they queued.
func (s *Scheduler) Once(dt float64) {
	if s.shutdown {
		panic("Scheduler.Once() called after Shutdown()")
	}

	s.ticks++
	frame := &UpdateFrame{
		Tick:      s.ticks,
		DeltaTime: dt,
		Commands:  s.commands,
		Storage:   s.storage,
	}

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		s.systemStats[i].record(time.Since(start))
	}

	s.commandsApplied += uint64(s.commands.Flush(s.storage))
}

// Run executes all systems repeatedly at the given interval until the context
// is cancelled, then shuts the scheduler down.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	s.logger.Info("scheduler running", log.Duration("interval", interval), log.Int("systems", len(s.systems)))

	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		var avgDuration, minDuration time.Duration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	stats.Ticks = s.ticks
	stats.CommandsApplied = s.commandsApplied
	return stats
}
