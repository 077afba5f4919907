package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/bodysync/ecs"
	"github.com/plus3/bodysync/rigidbody"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	id := uuid.New()
	r := &Report{
		RunID:      id,
		Duration:   time.Second,
		Input:      rigidbody.InputStats{Created: 12, Destroyed: 2},
		LiveBodies: 10,
		Systems: &ecs.SchedulerStats{Systems: []ecs.SystemStats{
			{Name: "InputSystem", ExecutionCount: 5},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, id.String())
	assert.Contains(t, out, "Bodies created: 12, destroyed: 2")
	assert.Contains(t, out, "- InputSystem: 5 runs")
}
