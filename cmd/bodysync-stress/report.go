package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/rigidbody"
)

type Report struct {
	// Configuration
	RunID    uuid.UUID
	Duration time.Duration
	Entities int
	Writers  int
	Tick     time.Duration

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
	Systems        *ecs.SchedulerStats

	// Synchronization
	Input         rigidbody.InputStats
	LiveBodies    int
	OutputWritten uint64
	OutputSkipped uint64
	ScriptWrites  uint64
	Spawned       uint64
	Deleted       uint64
	Detached      uint64
	Reaped        uint64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Body Sync Stress Report

## Run
- **Run ID:** {{.RunID}}
- **Duration:** {{.Duration}}
- **Tick:** {{.Tick}}
- **Initial Bodies:** {{.Entities}}
- **Script Writers:** {{.Writers}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{with .Systems}}
## Systems
{{range .Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}{{end}}
## Synchronization
- Bodies created: {{.Input.Created}}, destroyed: {{.Input.Destroyed}}, replaced: {{.Input.Replaced}}, live: {{.LiveBodies}}
- Static pushes: {{.Input.StaticPushes}} ({{.Input.FieldPushes}} fields), dynamic pushes: {{.Input.DynamicPushes}}, errors: {{.Input.PushErrors}}
- Transforms written: {{.OutputWritten}}, stale skipped: {{.OutputSkipped}}
- Script writes: {{.ScriptWrites}}
- Churn: {{.Spawned}} spawned, {{.Deleted}} deleted, {{.Detached}} detached, {{.Reaped}} orphans deleted

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} bytes
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
